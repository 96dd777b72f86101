package commands

import (
	"log/slog"

	"github.com/spf13/viper"

	"modmail/internal/app"
	"modmail/internal/domain"
	"modmail/internal/logutil"
	"modmail/internal/store"
)

// loadRuntime reads and validates config, builds the logger and resolves the
// bot token. Shared by run and recover.
func loadRuntime() (app.Config, string, *slog.Logger, error) {
	logger, err := logutil.LoggerFromViper()
	if err != nil {
		return app.Config{}, "", nil, err
	}
	cfg := app.ConfigFromViper(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return app.Config{}, "", nil, err
	}
	token, err := cfg.ResolveToken(
		func(path string) domain.TokenStore { return store.NewTokenFileStore(path) },
		func() (string, error) { return promptSecret("Token passphrase") },
	)
	if err != nil {
		return app.Config{}, "", nil, err
	}
	return cfg, token, logger, nil
}
