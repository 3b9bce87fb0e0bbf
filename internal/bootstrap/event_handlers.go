package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/LunaBet_Go/internal/config"
	"github.com/osse101/LunaBet_Go/internal/discord"
	"github.com/osse101/LunaBet_Go/internal/event"
	"github.com/osse101/LunaBet_Go/internal/metrics"
)

// RegisterEventHandlers subscribes the metrics collector and the Discord notifier.
// Without a token or channel the notifier still subscribes and logs its alerts.
func RegisterEventHandlers(bus event.Bus, cfg *config.Config) error {
	metrics.NewEventMetricsCollector().Register(bus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	var sender discord.Sender
	if cfg.DiscordToken != "" && cfg.DiscordLogChannelID != "" {
		session, err := discord.NewSession(cfg.DiscordToken)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedCreateDiscordSession, err)
		}
		sender = session
	}

	notifier := discord.NewNotifier(sender, cfg.DiscordLogChannelID)
	notifier.Register(bus)
	if notifier.Enabled() {
		slog.Info(LogMsgDiscordNotifierEnabled, "channel_id", cfg.DiscordLogChannelID)
	}

	return nil
}
