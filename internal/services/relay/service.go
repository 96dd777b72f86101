package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"modmail/internal/domain"
	"modmail/internal/protocol/marker"
)

// DefaultCreateTimeout bounds opening a thread when Options leaves it unset.
const DefaultCreateTimeout = 30 * time.Second

// Options carries the guild configuration the relay needs.
type Options struct {
	ForumChannelID domain.ChannelID // parent of every modmail thread
	StaffRoleID    domain.RoleID    // pinged when a thread is opened
	// CreateTimeout bounds opening a thread. It is independent of the
	// deadline of whichever event triggered the creation.
	CreateTimeout time.Duration
}

// Service relays messages in both directions.
//
// It depends on:
//   - the platform client, for every network operation;
//   - the session directory, for correspondent <-> thread lookups.
type Service struct {
	platform  domain.Platform
	directory domain.Directory
	opts      Options
	logger    *slog.Logger

	// creating collapses concurrent thread creation per correspondent.
	creating singleflight.Group
}

// New constructs a relay Service.
func New(
	platform domain.Platform,
	directory domain.Directory,
	opts Options,
	logger *slog.Logger,
) *Service {
	if opts.CreateTimeout <= 0 {
		opts.CreateTimeout = DefaultCreateTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		platform:  platform,
		directory: directory,
		opts:      opts,
		logger:    logger.With("component", "relay"),
	}
}

// HandleInbound forwards a direct message from a correspondent into their
// thread.
//
// Steps:
//  1. Drop messages the bot wrote itself.
//  2. Find the correspondent's thread, or open one (see threadFor).
//  3. Forward the body, tagged "(User) <mention>:", with attachments.
//  4. Acknowledge receipt in the DM. A failed acknowledgement is only logged.
func (s *Service) HandleInbound(ctx context.Context, msg domain.Message) error {
	self, err := s.isSelf(ctx, msg.Author.ID)
	if err != nil || self {
		return err
	}
	logger := s.logger.With("correspondent", msg.Author.ID, "message", msg.ID)
	if !hasPayload(msg) {
		logger.Debug("relay_inbound_empty")
		return nil
	}

	thread, err := s.threadFor(ctx, msg.Author)
	if err != nil {
		logger.Error("relay_thread_unavailable", "error", err)
		return err
	}
	logger = logger.With("thread", thread)

	text := relayText(userTag(msg.Author.ID), msg.Content, len(msg.Attachments) > 0)
	if _, err := s.platform.PostMessage(ctx, thread.Channel(), text, msg.Attachments); err != nil {
		err = domain.Classify(domain.KindDelivery, "forward to thread "+string(thread), err)
		logger.Error("relay_inbound_failed", "error", err)
		return err
	}

	if _, err := s.platform.PostMessage(ctx, msg.ChannelID, ackText, nil); err != nil {
		logger.Warn("relay_ack_failed", "error", err)
	}
	logger.Info("relay_inbound_ok", "attachments", len(msg.Attachments))
	return nil
}

// HandleThreadMessage forwards a staff message posted in a tracked thread to
// the correspondent. Messages in untracked threads are ignored.
//
// Steps:
//  1. Drop messages the bot wrote itself.
//  2. Resolve the thread's correspondent; stop if there is none.
//  3. Open the correspondent's DM channel. On failure, tell staff and stop.
//  4. Forward the body, tagged "(Staff) <name>:", with attachments.
//  5. Post a confirmation or failure notice back into the thread.
func (s *Service) HandleThreadMessage(ctx context.Context, msg domain.Message) error {
	self, err := s.isSelf(ctx, msg.Author.ID)
	if err != nil || self {
		return err
	}
	thread := domain.ThreadID(msg.ChannelID)
	correspondent, ok := s.directory.LookupCorrespondent(thread)
	if !ok {
		return nil
	}
	logger := s.logger.With("thread", thread, "correspondent", correspondent, "staff", msg.Author.ID)
	if !hasPayload(msg) {
		logger.Debug("relay_outbound_empty")
		return nil
	}

	dm, err := s.platform.OpenDM(ctx, correspondent)
	if err != nil {
		err = domain.Classify(domain.KindDelivery, "open dm with "+string(correspondent), err)
		logger.Warn("relay_dm_unavailable", "error", err)
		s.notifyThread(ctx, logger, thread, dmUnavailableText)
		return err
	}

	text := relayText(staffTag(msg.Author.Name()), msg.Content, len(msg.Attachments) > 0)
	if _, err := s.platform.PostMessage(ctx, dm, text, msg.Attachments); err != nil {
		err = domain.Classify(domain.KindDelivery, "forward to correspondent "+string(correspondent), err)
		logger.Warn("relay_outbound_failed", "error", err)
		s.notifyThread(ctx, logger, thread, deliveryFailedText(err))
		return err
	}

	s.notifyThread(ctx, logger, thread, deliveredText)
	logger.Info("relay_outbound_ok", "attachments", len(msg.Attachments))
	return nil
}

// OpenFromCommand handles the /modmail command: it opens or reuses the
// invoker's thread and forwards content into it. The returned text is the
// reply shown to the invoker.
func (s *Service) OpenFromCommand(ctx context.Context, author domain.Author, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return commandEmptyText, nil
	}
	logger := s.logger.With("correspondent", author.ID)

	thread, err := s.threadFor(ctx, author)
	if err != nil {
		logger.Error("relay_thread_unavailable", "error", err)
		return commandFailedText(err), err
	}
	if _, err := s.platform.PostMessage(ctx, thread.Channel(), relayText(userTag(author.ID), content, false), nil); err != nil {
		err = domain.Classify(domain.KindDelivery, "forward to thread "+string(thread), err)
		logger.Error("relay_command_failed", "thread", thread, "error", err)
		return commandFailedText(err), err
	}
	logger.Info("relay_command_ok", "thread", thread)
	return commandSentText, nil
}

// threadFor returns a live thread for author, opening one when the directory
// has none or the tracked thread no longer resolves.
//
// Creation runs inside a singleflight group keyed by correspondent. The
// directory is checked again inside the group so a caller that arrives just
// after another finished creating reuses that thread.
//
// The shared work runs detached from every caller's cancellation, under
// CreateTimeout. Each caller waits only as long as its own ctx allows, and a
// caller giving up does not fail the others.
func (s *Service) threadFor(ctx context.Context, author domain.Author) (domain.ThreadID, error) {
	var stale domain.ThreadID
	if thread, ok := s.directory.LookupThread(author.ID); ok {
		if s.threadAlive(ctx, thread) {
			return thread, nil
		}
		stale = thread
	}

	flight := s.creating.DoChan(string(author.ID), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.CreateTimeout)
		defer cancel()
		if thread, ok := s.directory.LookupThread(author.ID); ok && thread != stale && s.threadAlive(fctx, thread) {
			return thread, nil
		}
		return s.openThread(fctx, author)
	})
	select {
	case res := <-flight:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(domain.ThreadID), nil
	case <-ctx.Done():
		return "", fmt.Errorf("wait for thread of %s: %w", author.ID, ctx.Err())
	}
}

// openThread creates the forum post, pins its opening message and records the
// new pair. A failed pin does not fail the thread.
func (s *Service) openThread(ctx context.Context, author domain.Author) (domain.ThreadID, error) {
	opening := marker.Opening(s.opts.StaffRoleID, author.ID)
	thread, err := s.platform.CreateThread(ctx, s.opts.ForumChannelID, threadTitle(author), opening)
	if err != nil {
		return "", fmt.Errorf("open modmail thread for %s: %w", author.ID, err)
	}
	logger := s.logger.With("correspondent", author.ID, "thread", thread.ID)

	starter := thread.StarterMessageID
	if starter == "" {
		starter = domain.MessageID(thread.ID)
	}
	if err := s.platform.PinMessage(ctx, thread.ID.Channel(), starter); err != nil {
		logger.Warn("relay_pin_failed", "error", err)
	}

	s.directory.Insert(author.ID, thread.ID)
	logger.Info("relay_thread_opened")
	return thread.ID, nil
}

func (s *Service) threadAlive(ctx context.Context, thread domain.ThreadID) bool {
	if _, err := s.platform.ResolveChannel(ctx, thread.Channel()); err != nil {
		s.logger.Info("relay_thread_stale", "thread", thread, "error", err)
		return false
	}
	return true
}

func (s *Service) isSelf(ctx context.Context, author domain.CorrespondentID) (bool, error) {
	self, err := s.platform.SelfID(ctx)
	if err != nil {
		return false, fmt.Errorf("resolve bot identity: %w", err)
	}
	return author == self, nil
}

func (s *Service) notifyThread(ctx context.Context, logger *slog.Logger, thread domain.ThreadID, text string) {
	if _, err := s.platform.PostMessage(ctx, thread.Channel(), text, nil); err != nil {
		logger.Error("relay_notice_failed", "notice", text, "error", err)
	}
}

// Compile-time assertion that Service implements domain.RelayService.
var _ domain.RelayService = (*Service)(nil)
