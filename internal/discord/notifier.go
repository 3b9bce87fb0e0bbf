// Package discord posts ledger audit lines and reconciliation alerts to an operator
// log channel.
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/LunaBet_Go/internal/event"
	"github.com/osse101/LunaBet_Go/internal/logger"
)

// Sender posts an embed to a channel. *discordgo.Session satisfies it.
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// NewSession creates a REST-only bot session. The gateway is never opened: the
// notifier only sends messages.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return s, nil
}

// Notifier mirrors ledger events to a Discord channel. Without a sender or channel it
// writes the same lines to the structured log.
type Notifier struct {
	sender    Sender
	channelID string
}

// NewNotifier creates a notifier. sender may be nil.
func NewNotifier(sender Sender, channelID string) *Notifier {
	return &Notifier{sender: sender, channelID: channelID}
}

// Enabled reports whether messages reach Discord
func (n *Notifier) Enabled() bool {
	return n.sender != nil && n.channelID != ""
}

// Register subscribes the notifier to the audited event types
func (n *Notifier) Register(bus event.Bus) {
	if !n.Enabled() {
		logger.FromContext(context.Background()).Info(logMsgNotifierDisabled)
	}
	bus.Subscribe(event.BetCreated, n.HandleEvent)
	bus.Subscribe(event.BetResolved, n.HandleEvent)
	bus.Subscribe(event.PayoutFailed, n.HandleEvent)
	bus.Subscribe(event.SettlementReconciled, n.HandleEvent)
	bus.Subscribe(event.BalanceAdjusted, n.HandleEvent)
}

// HandleEvent posts one event. A send failure is returned so the publisher can retry it.
func (n *Notifier) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	embed, err := buildEmbed(evt)
	if err != nil {
		log.Warn(logMsgPayloadInvalid, "type", evt.Type, "error", err)
		return nil
	}
	if embed == nil {
		return nil
	}

	if !n.Enabled() {
		log.Info(logMsgAudit, "type", evt.Type, "title", embed.Title, "description", embed.Description)
		return nil
	}

	if _, err := n.sender.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		log.Warn(logMsgSendFailed, "type", evt.Type, "error", err)
		return fmt.Errorf("%s: %w", logMsgSendFailed, err)
	}
	return nil
}

func buildEmbed(evt event.Event) (*discordgo.MessageEmbed, error) {
	switch evt.Type {
	case event.BetCreated:
		p, err := event.DecodePayload[event.BetCreatedPayloadV1](evt.Payload)
		if err != nil {
			return nil, err
		}
		return betCreatedEmbed(p), nil

	case event.BetResolved, event.PayoutFailed, event.SettlementReconciled:
		p, err := event.DecodePayload[event.SettlementPayloadV1](evt.Payload)
		if err != nil {
			return nil, err
		}
		return settlementEmbed(evt.Type, p), nil

	case event.BalanceAdjusted:
		p, err := event.DecodePayload[event.BalanceAdjustedPayloadV1](evt.Payload)
		if err != nil {
			return nil, err
		}
		return balanceEmbed(p), nil
	}
	return nil, nil
}

func betCreatedEmbed(p event.BetCreatedPayloadV1) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Bet opened",
		Description: p.Topic,
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bet", Value: p.EventID, Inline: true},
			{Name: "Options", Value: formatOptions(p.Options), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
	if p.CreatorID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Opened by", Value: fmt.Sprintf("<@%s>", p.CreatorID), Inline: true,
		})
	}
	if p.EndsAt != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Closes", Value: fmt.Sprintf("<t:%d:R>", *p.EndsAt/1000), Inline: true,
		})
	}
	return embed
}

func settlementEmbed(eventType event.Type, p event.SettlementPayloadV1) *discordgo.MessageEmbed {
	s := p.Settlement

	embed := &discordgo.MessageEmbed{
		Color: colorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bet", Value: s.EventID, Inline: true},
			{Name: "Winning option", Value: fmt.Sprintf("%d", s.WinningOption+1), Inline: true},
			{Name: "Pool", Value: fmt.Sprintf("%d (%d on winner)", s.TotalPool, s.WinningPool), Inline: true},
			{Name: "Payouts", Value: formatPayouts(p), Inline: false},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footerText},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	switch eventType {
	case event.PayoutFailed:
		embed.Title = "Payouts not applied"
		embed.Description = fmt.Sprintf("Bet is resolved but no credit landed. Replay with `reconcile -event %s`.", s.EventID)
		embed.Color = colorAlert
		if p.Error != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Error", Value: p.Error})
		}
	case event.SettlementReconciled:
		embed.Title = "Settlement reconciled"
		embed.Color = colorWarning
	default:
		embed.Title = "Bet resolved"
	}
	return embed
}

func balanceEmbed(p event.BalanceAdjustedPayloadV1) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Balance adjusted",
		Description: fmt.Sprintf("<@%s> %s %+d, balance now %d", p.UserID, p.Kind, p.Change, p.Balance),
		Color:       colorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
}

func formatOptions(labels []string) string {
	lines := make([]string, len(labels))
	for i, label := range labels {
		lines[i] = fmt.Sprintf("%d. %s", i+1, label)
	}
	return strings.Join(lines, "\n")
}

func formatPayouts(p event.SettlementPayloadV1) string {
	payouts := p.Settlement.Payouts
	if len(payouts) == 0 {
		return fmt.Sprintf("No winners, %d points retained", p.Forfeited)
	}

	var sb strings.Builder
	for i, payout := range payouts {
		if i == maxPayoutLines {
			fmt.Fprintf(&sb, "...and %d more\n", len(payouts)-maxPayoutLines)
			break
		}
		fmt.Fprintf(&sb, "<@%s> +%d\n", payout.UserID, payout.Amount)
	}
	fmt.Fprintf(&sb, "Paid %d, retained %d", p.Disbursed, p.Forfeited)
	return sb.String()
}
