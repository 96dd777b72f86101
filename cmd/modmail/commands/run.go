package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"modmail/internal/app"
)

const shutdownGrace = 10 * time.Second

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and relay messages until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, token, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			bot, err := app.NewBot(cfg, token, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := bot.Session.Open(); err != nil {
				return fmt.Errorf("open discord gateway: %w", err)
			}
			logger.Info("modmail_started", "guild", cfg.GuildID, "forum", cfg.ForumChannelID)

			<-ctx.Done()
			logger.Info("modmail_stopping")

			if err := bot.Session.Close(); err != nil {
				logger.Warn("discord_close_failed", "error", err)
			}
			drain, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := bot.Router.Wait(drain); err != nil {
				logger.Warn("modmail_drain_incomplete", "error", err)
			}
			logger.Info("modmail_stopped", "sessions", bot.Directory.Len())
			return nil
		},
	}
}
