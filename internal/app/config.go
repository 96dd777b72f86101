package app

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"

	"modmail/internal/domain"
)

var snowflakePattern = regexp.MustCompile(`^\d+$`)

// Config holds runtime options for building the app.
type Config struct {
	Token           string // bot token, clear text
	TokenFile       string // sealed token file, used when Token is empty
	TokenPassphrase string // passphrase for TokenFile; prompted when empty

	GuildID        string
	ForumChannelID domain.ChannelID
	StaffRoleID    domain.RoleID

	RecoveryWindow  int
	RecoveryTimeout time.Duration // zero means no limit
	EventTimeout    time.Duration
	Presence        string

	MaxAttachmentBytes int64
	AttachmentTimeout  time.Duration
}

// SetDefaults registers default values for every key Config reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("modmail.recovery_window", 100)
	v.SetDefault("modmail.recovery_timeout", time.Duration(0))
	v.SetDefault("modmail.event_timeout", 30*time.Second)
	v.SetDefault("modmail.presence", "DM me to contact staff")
	v.SetDefault("attachments.max_bytes", int64(25<<20))
	v.SetDefault("attachments.timeout", 30*time.Second)
}

// ConfigFromViper reads Config from v.
func ConfigFromViper(v *viper.Viper) Config {
	return Config{
		Token:              strings.TrimSpace(v.GetString("discord.token")),
		TokenFile:          strings.TrimSpace(v.GetString("discord.token_file")),
		TokenPassphrase:    v.GetString("discord.token_passphrase"),
		GuildID:            strings.TrimSpace(v.GetString("discord.guild_id")),
		ForumChannelID:     domain.ChannelID(strings.TrimSpace(v.GetString("modmail.forum_channel_id"))),
		StaffRoleID:        domain.RoleID(strings.TrimSpace(v.GetString("modmail.staff_role_id"))),
		RecoveryWindow:     v.GetInt("modmail.recovery_window"),
		RecoveryTimeout:    v.GetDuration("modmail.recovery_timeout"),
		EventTimeout:       v.GetDuration("modmail.event_timeout"),
		Presence:           v.GetString("modmail.presence"),
		MaxAttachmentBytes: v.GetInt64("attachments.max_bytes"),
		AttachmentTimeout:  v.GetDuration("attachments.timeout"),
	}
}

// Validate checks the guild settings. Credentials are checked separately by
// ResolveToken since the recover dry run and the bot share them.
func (c Config) Validate() error {
	var errs []error
	check := func(key, value string) {
		switch {
		case value == "":
			errs = append(errs, fmt.Errorf("%s is required", key))
		case !snowflakePattern.MatchString(value):
			errs = append(errs, fmt.Errorf("%s must be a numeric ID, got %q", key, value))
		}
	}
	check("discord.guild_id", c.GuildID)
	check("modmail.forum_channel_id", string(c.ForumChannelID))
	check("modmail.staff_role_id", string(c.StaffRoleID))
	if c.RecoveryWindow < 1 || c.RecoveryWindow > 100 {
		errs = append(errs, fmt.Errorf("modmail.recovery_window must be between 1 and 100, got %d", c.RecoveryWindow))
	}
	if c.RecoveryTimeout < 0 {
		errs = append(errs, errors.New("modmail.recovery_timeout must not be negative"))
	}
	if c.EventTimeout <= 0 {
		errs = append(errs, errors.New("modmail.event_timeout must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return domain.ConfigurationError("validate config", err)
	}
	return nil
}

// ResolveToken returns the bot token, unsealing TokenFile when no clear-text
// token is configured. prompt is asked for the passphrase when none is set.
func (c Config) ResolveToken(tokens func(path string) domain.TokenStore, prompt func() (string, error)) (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	if c.TokenFile == "" {
		return "", domain.ConfigurationError("resolve token", errors.New("set discord.token or discord.token_file"))
	}
	pass := c.TokenPassphrase
	if pass == "" {
		if prompt == nil {
			return "", domain.ConfigurationError("resolve token", errors.New("discord.token_passphrase is required"))
		}
		var err error
		if pass, err = prompt(); err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
	}
	return tokens(c.TokenFile).LoadToken(pass)
}
