package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"modmail/internal/domain"
)

var errNotReady = errors.New("discord session is not ready")

// threadArchiveMinutes keeps idle modmail threads open for a week.
const threadArchiveMinutes = 10080

// Options configures a Client.
type Options struct {
	GuildID string
	// MaxAttachmentBytes caps attachment re-uploads. Larger files are linked.
	MaxAttachmentBytes int64
	// HTTP downloads attachments. Defaults to a client with a 30s timeout.
	HTTP *http.Client
}

// Client implements domain.Platform with a discordgo session.
type Client struct {
	session *discordgo.Session
	guildID string
	files   fetcher
	logger  *slog.Logger
}

// NewClient wraps an existing session.
func NewClient(session *discordgo.Session, opts Options, logger *slog.Logger) *Client {
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		session: session,
		guildID: opts.GuildID,
		files:   fetcher{http: httpClient, maxBytes: opts.MaxAttachmentBytes},
		logger:  logger.With("component", "discord"),
	}
}

// SelfID returns the bot's user ID once the gateway is ready.
func (c *Client) SelfID(ctx context.Context) (domain.CorrespondentID, error) {
	state := c.session.State
	if state == nil {
		return "", errNotReady
	}
	// The gateway rewrites Ready under the state lock on every identify.
	state.RLock()
	defer state.RUnlock()
	if state.User == nil {
		return "", errNotReady
	}
	return domain.CorrespondentID(state.User.ID), nil
}

// ResolveChannel fetches a channel from the API.
func (c *Client) ResolveChannel(ctx context.Context, id domain.ChannelID) (domain.Channel, error) {
	ch, err := c.session.Channel(string(id), discordgo.WithContext(ctx))
	if err != nil {
		return domain.Channel{}, classify(domain.KindNotFound, "resolve channel "+string(id), err)
	}
	return toChannel(ch), nil
}

// ListActiveThreads lists the active threads of the configured guild.
func (c *Client) ListActiveThreads(ctx context.Context) ([]domain.Thread, error) {
	list, err := c.session.GuildThreadsActive(c.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(domain.KindRecovery, "list active threads", err)
	}
	out := make([]domain.Thread, 0, len(list.Threads))
	for _, th := range list.Threads {
		out = append(out, toThread(th))
	}
	return out, nil
}

// FetchEarliestMessages fetches up to limit of a thread's oldest messages.
// Paging after ID "0" starts from the beginning of the channel.
func (c *Client) FetchEarliestMessages(ctx context.Context, thread domain.ThreadID, limit int) ([]domain.Message, error) {
	msgs, err := c.session.ChannelMessages(string(thread), limit, "", "0", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(domain.KindRecovery, "fetch messages "+string(thread), err)
	}
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessage(m))
	}
	return out, nil
}

// CreateThread starts a forum post. Only the role in the opening message is
// pinged.
func (c *Client) CreateThread(ctx context.Context, parent domain.ChannelID, title, opening string) (domain.Thread, error) {
	th, err := c.session.ForumThreadStartComplex(
		string(parent),
		&discordgo.ThreadStart{Name: title, AutoArchiveDuration: threadArchiveMinutes},
		&discordgo.MessageSend{
			Content: opening,
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeRoles},
			},
		},
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return domain.Thread{}, classify(domain.KindDelivery, "create thread in "+string(parent), err)
	}
	return toThread(th), nil
}

// PostMessage sends text to a channel, split to fit the message limit, with
// attachments re-uploaded on the last chunk. Attachments that cannot be
// re-uploaded are linked instead.
func (c *Client) PostMessage(
	ctx context.Context,
	channel domain.ChannelID,
	text string,
	attachments []domain.Attachment,
) (domain.MessageID, error) {
	files, links, errs := c.files.fetch(ctx, attachments)
	for _, err := range errs {
		c.logger.Warn("discord_attachment_linked", "channel", channel, "error", err)
	}
	chunks := splitContent(appendLinks(text, links), maxMessageLen)

	last, sent, err := sendChunks(chunks, files, func(send *discordgo.MessageSend) (*discordgo.Message, error) {
		return c.session.ChannelMessageSendComplex(string(channel), send, discordgo.WithContext(ctx))
	})
	if err != nil {
		op := "post message to " + string(channel)
		if sent > 0 {
			op = fmt.Sprintf("%s (only %d of %d parts delivered)", op, sent, len(chunks))
			c.logger.Warn("discord_post_partial", "channel", channel, "sent", sent, "parts", len(chunks))
		}
		return last, classify(domain.KindDelivery, op, err)
	}
	return last, nil
}

// sendChunks posts chunks in order, attaching files to the last one. It stops
// at the first failure and reports how many chunks were delivered before it.
func sendChunks(
	chunks []string,
	files []*discordgo.File,
	send func(*discordgo.MessageSend) (*discordgo.Message, error),
) (domain.MessageID, int, error) {
	var last domain.MessageID
	for i, chunk := range chunks {
		msg := &discordgo.MessageSend{
			Content:         chunk,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		}
		if i == len(chunks)-1 {
			msg.Files = files
		}
		m, err := send(msg)
		if err != nil {
			return last, i, err
		}
		last = domain.MessageID(m.ID)
	}
	return last, len(chunks), nil
}

// PinMessage pins a message in its channel.
func (c *Client) PinMessage(ctx context.Context, channel domain.ChannelID, message domain.MessageID) error {
	err := c.session.ChannelMessagePin(string(channel), string(message), discordgo.WithContext(ctx))
	return classify(domain.KindDelivery, fmt.Sprintf("pin message %s in %s", message, channel), err)
}

// DeleteThread deletes a thread and its history.
func (c *Client) DeleteThread(ctx context.Context, thread domain.ThreadID) error {
	_, err := c.session.ChannelDelete(string(thread), discordgo.WithContext(ctx))
	return classify(domain.KindDelivery, "delete thread "+string(thread), err)
}

// OpenDM opens or reuses the DM channel with user.
func (c *Client) OpenDM(ctx context.Context, user domain.CorrespondentID) (domain.ChannelID, error) {
	ch, err := c.session.UserChannelCreate(string(user), discordgo.WithContext(ctx))
	if err != nil {
		return "", classify(domain.KindDelivery, "open dm with "+string(user), err)
	}
	return domain.ChannelID(ch.ID), nil
}

// Compile-time assertion that Client implements domain.Platform.
var _ domain.Platform = (*Client)(nil)
