package discord

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"modmail/internal/domain"
)

const (
	commandModmail = "modmail"
	commandClose   = "close"
	optionMessage  = "message"

	defaultEventTimeout = 30 * time.Second
)

// commands are the guild slash commands the bot registers on Ready.
var commands = []*discordgo.ApplicationCommand{
	{
		Name:        commandModmail,
		Description: "Send a modmail",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optionMessage,
			Description: "The message to send as modmail",
			Required:    true,
		}},
	},
	{
		Name:        commandClose,
		Description: "Close the current modmail thread",
	},
}

// RouterOptions configures event routing.
type RouterOptions struct {
	GuildID string
	// Presence is shown as the bot's custom status. Empty leaves it unset.
	Presence string
	// EventTimeout bounds the handling of a single event.
	EventTimeout time.Duration
	// RecoveryTimeout bounds the startup recovery pass. Zero means no limit.
	RecoveryTimeout time.Duration
}

// Router dispatches gateway events to the modmail services.
type Router struct {
	session   *discordgo.Session
	relay     domain.RelayService
	recovery  domain.RecoveryService
	lifecycle domain.LifecycleService
	opts      RouterOptions
	logger    *slog.Logger

	// ready fires recovery and command registration once per process.
	// Reconnects deliver Ready again but the directory is already live.
	ready sync.Once
	// mu guards closed; wg tracks in-flight handlers so Wait can drain them.
	// No handler is admitted once closed is set.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewRouter builds a Router. Call Attach before opening the session.
func NewRouter(
	session *discordgo.Session,
	relay domain.RelayService,
	recovery domain.RecoveryService,
	lifecycle domain.LifecycleService,
	opts RouterOptions,
	logger *slog.Logger,
) *Router {
	if opts.EventTimeout <= 0 {
		opts.EventTimeout = defaultEventTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		session:   session,
		relay:     relay,
		recovery:  recovery,
		lifecycle: lifecycle,
		opts:      opts,
		logger:    logger.With("component", "router"),
	}
}

// Attach registers the event handlers and the gateway intents they need.
func (r *Router) Attach() {
	r.session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent
	r.session.AddHandler(r.onReady)
	r.session.AddHandler(r.onMessageCreate)
	r.session.AddHandler(r.onInteractionCreate)
}

// Wait stops admitting events and blocks until in-flight handlers finish or
// ctx ends.
func (r *Router) Wait(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// begin admits one handler. It reports false after Wait has been called.
func (r *Router) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.wg.Add(1)
	return true
}

// event starts handling of one gateway event: a bounded context and a logger
// carrying a fresh event ID.
func (r *Router) event(kind string) (context.Context, context.CancelFunc, *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.EventTimeout)
	return ctx, cancel, r.logger.With("event", kind, "event_id", uuid.NewString())
}

func (r *Router) onReady(s *discordgo.Session, ev *discordgo.Ready) {
	if !r.begin() {
		return
	}
	defer r.wg.Done()

	r.logger.Info("discord_ready", "user", ev.User.Username, "id", ev.User.ID, "session", ev.SessionID)
	r.setPresence(s)

	r.ready.Do(func() {
		ctx, cancel, logger := r.event("ready")
		defer cancel()

		if _, err := s.ApplicationCommandBulkOverwrite(ev.User.ID, r.opts.GuildID, commands, discordgo.WithContext(ctx)); err != nil {
			logger.Error("discord_commands_failed", "error", err)
		} else {
			logger.Info("discord_commands_registered", "count", len(commands))
		}

		r.recoverDirectory(logger)
	})
}

// recoverDirectory runs the startup recovery pass. It runs once per process,
// so it gets its own context rather than the per-event deadline.
func (r *Router) recoverDirectory(logger *slog.Logger) {
	ctx := context.Background()
	if r.opts.RecoveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.RecoveryTimeout)
		defer cancel()
	}

	report, err := r.recovery.Run(ctx)
	if err != nil {
		logger.Error("recovery_run_failed", "error", err)
		return
	}
	logger.Info("recovery_run_ok", "recovered", report.Recovered, "skipped", report.Skipped)
}

func (r *Router) setPresence(s *discordgo.Session) {
	if r.opts.Presence == "" {
		return
	}
	err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: string(discordgo.StatusDoNotDisturb),
		Activities: []*discordgo.Activity{{
			Name:  "Custom Status",
			Type:  discordgo.ActivityTypeCustom,
			State: r.opts.Presence,
		}},
	})
	if err != nil {
		r.logger.Warn("discord_presence_failed", "error", err)
	}
}

func (r *Router) onMessageCreate(s *discordgo.Session, ev *discordgo.MessageCreate) {
	if ev.Message == nil || ev.Author == nil {
		return
	}
	msg := toMessage(ev.Message)
	route, ok := r.route(msg)
	if !ok {
		return
	}

	if !r.begin() {
		return
	}
	defer r.wg.Done()
	ctx, cancel, logger := r.event(route)
	defer cancel()
	logger = logger.With("channel", msg.ChannelID, "author", msg.Author.ID)

	var err error
	switch route {
	case "direct_message":
		err = r.relay.HandleInbound(ctx, msg)
	case "guild_message":
		err = r.relay.HandleThreadMessage(ctx, msg)
	}
	if err != nil {
		logger.Error("relay_event_failed", "error", err)
	}
}

// route decides which relay direction a message belongs to. Messages from
// other guilds are dropped.
func (r *Router) route(msg domain.Message) (string, bool) {
	if msg.IsDirect() {
		return "direct_message", true
	}
	if msg.GuildID == r.opts.GuildID {
		return "guild_message", true
	}
	return "", false
}

func (r *Router) onInteractionCreate(s *discordgo.Session, ev *discordgo.InteractionCreate) {
	if ev.Interaction == nil || ev.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := ev.ApplicationCommandData()

	if !r.begin() {
		return
	}
	defer r.wg.Done()
	ctx, cancel, logger := r.event("command_" + data.Name)
	defer cancel()

	author := interactionAuthor(ev.Interaction)
	logger = logger.With("channel", ev.ChannelID, "author", author.ID)

	// Thread creation and deletion can outlive the three-second
	// acknowledgement window, so answer with a deferred reply and edit it.
	err := s.InteractionRespond(ev.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx))
	if err != nil {
		logger.Error("interaction_ack_failed", "error", err)
		return
	}

	var reply string
	switch data.Name {
	case commandModmail:
		reply, err = r.relay.OpenFromCommand(ctx, author, commandMessage(data))
	case commandClose:
		reply, err = r.lifecycle.Close(ctx, domain.ThreadID(ev.ChannelID))
	default:
		reply = "Unknown command."
	}
	if err != nil {
		logger.Error("command_failed", "error", err)
	}

	if _, err := s.InteractionResponseEdit(ev.Interaction, &discordgo.WebhookEdit{Content: &reply}, discordgo.WithContext(ctx)); err != nil {
		// After /close the thread is gone and the edit may fail.
		logger.Debug("interaction_edit_failed", "error", err)
	}
}

func interactionAuthor(i *discordgo.Interaction) domain.Author {
	if i.Member != nil && i.Member.User != nil {
		return toAuthor(i.Member.User, i.Member)
	}
	return toAuthor(i.User, nil)
}

func commandMessage(data discordgo.ApplicationCommandInteractionData) string {
	for _, opt := range data.Options {
		if opt.Name == optionMessage && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}
