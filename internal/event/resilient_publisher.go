package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/LunaBet_Go/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	QueueSize  int
}

// DefaultResilientConfig returns the production retry settings
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxRetries: RetryMaxAttempts,
		RetryDelay: RetryInitialDelay,
		QueueSize:  RetryQueueBufferSize,
	}
}

type retryItem struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher wraps a Bus. A failed publish is retried in the background with
// exponential backoff; events that exhaust their retries go to the journal.
// Publish never fails the caller because a subscriber (metrics, Discord) failed.
type ResilientPublisher struct {
	inner   Bus
	journal *Journal
	config  ResilientConfig

	queue    chan retryItem
	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewResilientPublisher creates a publisher and starts its retry worker.
// journal may be nil, in which case exhausted events are only logged.
func NewResilientPublisher(inner Bus, journal *Journal, config ResilientConfig) *ResilientPublisher {
	if config.QueueSize <= 0 {
		config.QueueSize = RetryQueueBufferSize
	}
	p := &ResilientPublisher{
		inner:    inner,
		journal:  journal,
		config:   config,
		queue:    make(chan retryItem, config.QueueSize),
		shutdown: make(chan struct{}),
	}
	p.wg.Add(1)
	go p.retryWorker()
	return p
}

// Publish delivers the event to the inner bus. Failures are queued for retry and nil is returned.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)

	item := retryItem{event: event, attempts: 1, lastErr: err}
	select {
	case <-p.shutdown:
		p.toJournal(item, LogMsgEventDroppedShutdown)
		return nil
	default:
	}

	select {
	case p.queue <- item:
	default:
		p.toJournal(item, LogMsgRetryQueueFull)
	}
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

// Shutdown stops the retry worker. Events still queued are journaled.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			p.drain()
			return
		case item := <-p.queue:
			p.retry(item)
		}
	}
}

// retry keeps attempting one event until it succeeds, exhausts its attempts or shutdown begins
func (p *ResilientPublisher) retry(item retryItem) {
	ctx := context.Background()
	log := logger.FromContext(ctx)

	for item.attempts <= p.config.MaxRetries {
		timer := time.NewTimer(CalculateRetryDelay(p.config.RetryDelay, item.attempts))
		select {
		case <-p.shutdown:
			timer.Stop()
			p.toJournal(item, LogMsgEventDroppedShutdown)
			return
		case <-timer.C:
		}

		err := p.inner.Publish(ctx, item.event)
		if err == nil {
			log.Info(LogMsgEventRetrySucceeded, "event_type", item.event.Type, "attempt", item.attempts)
			return
		}
		item.lastErr = err
		item.attempts++
		log.Warn(LogMsgEventRetryFailed, "event_type", item.event.Type, "attempt", item.attempts, "error", err)
	}

	p.toJournal(item, LogMsgEventRetryExhausted)
}

func (p *ResilientPublisher) drain() {
	for {
		select {
		case item := <-p.queue:
			p.toJournal(item, LogMsgEventDroppedShutdown)
		default:
			return
		}
	}
}

func (p *ResilientPublisher) toJournal(item retryItem, reason string) {
	log := logger.FromContext(context.Background())
	log.Warn(reason, "event_type", item.event.Type, "attempts", item.attempts)

	if p.journal == nil {
		return
	}
	cause := item.lastErr
	if cause == nil {
		cause = errors.New(reason)
	}
	if err := p.journal.Append(item.event, item.attempts, cause); err != nil {
		log.Error(LogMsgJournalWriteFailed, "event_type", item.event.Type, "error", err)
	}
}
