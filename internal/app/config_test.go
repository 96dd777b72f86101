package app_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"modmail/internal/app"
	"modmail/internal/domain"
	"modmail/internal/store"
)

func validConfig() app.Config {
	return app.Config{
		GuildID:        "1",
		ForumChannelID: "2",
		StaffRoleID:    "3",
		RecoveryWindow: 100,
		EventTimeout:   time.Second,
	}
}

func TestConfigFromViper(t *testing.T) {
	v := viper.New()
	app.SetDefaults(v)
	v.Set("discord.guild_id", " 10 ")
	v.Set("modmail.forum_channel_id", "20")
	v.Set("modmail.staff_role_id", "30")
	v.Set("modmail.event_timeout", "5s")

	cfg := app.ConfigFromViper(v)
	if cfg.GuildID != "10" || cfg.ForumChannelID != "20" || cfg.StaffRoleID != "30" {
		t.Fatalf("ids = %+v", cfg)
	}
	if cfg.RecoveryWindow != 100 || cfg.EventTimeout != 5*time.Second {
		t.Fatalf("window = %d, timeout = %v", cfg.RecoveryWindow, cfg.EventTimeout)
	}
	if cfg.RecoveryTimeout != 0 {
		t.Fatalf("recovery timeout = %v, want no limit by default", cfg.RecoveryTimeout)
	}
	if cfg.MaxAttachmentBytes != 25<<20 {
		t.Fatalf("max bytes = %d", cfg.MaxAttachmentBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*app.Config)
		want   string
	}{
		{"missing forum", func(c *app.Config) { c.ForumChannelID = "" }, "modmail.forum_channel_id is required"},
		{"bad role", func(c *app.Config) { c.StaffRoleID = "staff" }, "modmail.staff_role_id must be a numeric ID"},
		{"missing guild", func(c *app.Config) { c.GuildID = "" }, "discord.guild_id is required"},
		{"window", func(c *app.Config) { c.RecoveryWindow = 500 }, "modmail.recovery_window"},
		{"timeout", func(c *app.Config) { c.EventTimeout = 0 }, "modmail.event_timeout"},
		{"recovery timeout", func(c *app.Config) { c.RecoveryTimeout = -time.Second }, "modmail.recovery_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !domain.IsKind(err, domain.KindConfiguration) {
				t.Fatalf("err = %v, want configuration error", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestResolveToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.enc")
	tokens := func(p string) domain.TokenStore { return store.NewTokenFileStore(p) }
	if err := tokens(path).SaveToken("pw", "sealed-token"); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig()
	cfg.Token = "plain"
	if got, err := cfg.ResolveToken(tokens, nil); err != nil || got != "plain" {
		t.Fatalf("clear token = %q, %v", got, err)
	}

	cfg.Token = ""
	cfg.TokenFile = path
	prompted := false
	got, err := cfg.ResolveToken(tokens, func() (string, error) {
		prompted = true
		return "pw", nil
	})
	if err != nil || got != "sealed-token" || !prompted {
		t.Fatalf("sealed token = %q, %v (prompted %v)", got, err, prompted)
	}

	if _, err := cfg.ResolveToken(tokens, func() (string, error) { return "", errors.New("no tty") }); err == nil {
		t.Fatal("expected prompt error")
	}

	cfg.TokenFile = ""
	if _, err := cfg.ResolveToken(tokens, nil); !domain.IsKind(err, domain.KindConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}
