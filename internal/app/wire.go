package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"modmail/internal/directory"
	"modmail/internal/domain"
	"modmail/internal/platform/discord"
	"modmail/internal/services/lifecycle"
	"modmail/internal/services/recovery"
	"modmail/internal/services/relay"
)

// Wire bundles the directory, platform client and services.
type Wire struct {
	Directory *directory.Directory
	Platform  domain.Platform
	Relay     domain.RelayService
	Recovery  domain.RecoveryService
	Lifecycle domain.LifecycleService
}

// NewWire constructs the services on top of platform.
func NewWire(cfg Config, platform domain.Platform, logger *slog.Logger) *Wire {
	dir := directory.New()
	return &Wire{
		Directory: dir,
		Platform:  platform,
		Relay: relay.New(platform, dir, relay.Options{
			ForumChannelID: cfg.ForumChannelID,
			StaffRoleID:    cfg.StaffRoleID,
			CreateTimeout:  cfg.EventTimeout,
		}, logger),
		Recovery: recovery.New(platform, dir, recovery.Options{
			ForumChannelID: cfg.ForumChannelID,
			Window:         cfg.RecoveryWindow,
		}, logger),
		Lifecycle: lifecycle.New(platform, dir, logger),
	}
}

// Bot is a Wire bound to a live Discord session.
type Bot struct {
	*Wire
	Session *discordgo.Session
	Router  *discord.Router
}

// NewBot builds the Discord session, client and router for cfg. The session
// is not opened.
func NewBot(cfg Config, token string, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	client := discord.NewClient(session, discord.Options{
		GuildID:            cfg.GuildID,
		MaxAttachmentBytes: cfg.MaxAttachmentBytes,
		HTTP:               &http.Client{Timeout: cfg.AttachmentTimeout},
	}, logger)

	w := NewWire(cfg, client, logger)
	router := discord.NewRouter(session, w.Relay, w.Recovery, w.Lifecycle, discord.RouterOptions{
		GuildID:         cfg.GuildID,
		Presence:        cfg.Presence,
		EventTimeout:    cfg.EventTimeout,
		RecoveryTimeout: cfg.RecoveryTimeout,
	}, logger)
	router.Attach()

	return &Bot{Wire: w, Session: session, Router: router}, nil
}
