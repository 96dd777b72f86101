package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"modmail/internal/domain"
	"modmail/internal/protocol/marker"
)

// DefaultWindow is how many of a thread's earliest messages are fetched.
const DefaultWindow = 100

// Options configures a recovery pass.
type Options struct {
	ForumChannelID domain.ChannelID
	// Window bounds the history fetched per thread. Zero means DefaultWindow.
	Window int
}

// Service rebuilds the directory from active forum threads.
type Service struct {
	platform  domain.Platform
	directory domain.Directory
	opts      Options
	logger    *slog.Logger
}

// New constructs a recovery Service.
func New(
	platform domain.Platform,
	directory domain.Directory,
	opts Options,
	logger *slog.Logger,
) *Service {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		platform:  platform,
		directory: directory,
		opts:      opts,
		logger:    logger.With("component", "recovery"),
	}
}

// candidate is a thread whose opening message named a correspondent.
type candidate struct {
	session domain.Session
	opening domain.Message
}

// Scan reads the forum and returns the sessions it finds without touching
// the directory.
//
// Steps:
//  1. Resolve the forum channel. Missing or not a forum is a configuration
//     error.
//  2. List active threads and keep those parented by the forum.
//  3. For each thread, fetch its earliest messages, order them oldest first
//     and extract the correspondent from the first one.
//  4. Skip threads that cannot be fetched or carry no identity.
//  5. When two threads name the same correspondent, keep the one whose
//     opening message is later.
func (s *Service) Scan(ctx context.Context) ([]domain.Session, domain.RecoveryReport, error) {
	var report domain.RecoveryReport

	forum, err := s.platform.ResolveChannel(ctx, s.opts.ForumChannelID)
	if err != nil {
		return nil, report, domain.ConfigurationError("resolve forum channel "+string(s.opts.ForumChannelID), err)
	}
	if forum.Kind != domain.ChannelForum {
		return nil, report, domain.ConfigurationError(
			"resolve forum channel "+string(forum.ID),
			fmt.Errorf("channel is a %s, not a forum", forum.Kind),
		)
	}

	threads, err := s.platform.ListActiveThreads(ctx)
	if err != nil {
		return nil, report, domain.RecoveryError("list active threads", err)
	}

	byCorrespondent := make(map[domain.CorrespondentID]candidate)
	for _, thread := range threads {
		if thread.ParentID != forum.ID {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, report, domain.RecoveryError("scan threads", err)
		}
		report.Scanned++
		logger := s.logger.With("thread", thread.ID)

		opening, ok, err := s.openingMessage(ctx, thread.ID)
		if err != nil {
			logger.Warn("recovery_fetch_failed", "error", err)
			report.Skipped++
			continue
		}
		if !ok {
			logger.Debug("recovery_thread_empty")
			report.Skipped++
			continue
		}
		correspondent, ok := marker.Extract(opening.Content)
		if !ok {
			logger.Debug("recovery_thread_orphan")
			report.Skipped++
			continue
		}

		next := candidate{
			session: domain.Session{Correspondent: correspondent, Thread: thread.ID},
			opening: opening,
		}
		if prev, dup := byCorrespondent[correspondent]; dup {
			report.Duplicates++
			winner, loser := prev, next
			if openedAfter(next.opening, prev.opening) {
				winner, loser = next, prev
			}
			logger.Warn("recovery_duplicate_thread",
				"correspondent", correspondent,
				"kept", winner.session.Thread,
				"dropped", loser.session.Thread,
			)
			byCorrespondent[correspondent] = winner
			continue
		}
		byCorrespondent[correspondent] = next
	}

	sessions := make([]domain.Session, 0, len(byCorrespondent))
	for _, c := range byCorrespondent {
		sessions = append(sessions, c.session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Correspondent < sessions[j].Correspondent
	})
	report.Recovered = len(sessions)
	return sessions, report, nil
}

// Run scans the forum and replaces the directory's contents with the result.
// On error the directory is left as it was.
func (s *Service) Run(ctx context.Context) (domain.RecoveryReport, error) {
	sessions, report, err := s.Scan(ctx)
	if err != nil {
		s.logger.Error("recovery_failed", "error", err)
		return report, err
	}
	s.directory.ReplaceAll(sessions)
	s.logger.Info("recovery_complete",
		"scanned", report.Scanned,
		"recovered", report.Recovered,
		"skipped", report.Skipped,
		"duplicates", report.Duplicates,
	)
	return report, nil
}

// openingMessage returns the earliest message of a thread.
func (s *Service) openingMessage(ctx context.Context, thread domain.ThreadID) (domain.Message, bool, error) {
	msgs, err := s.platform.FetchEarliestMessages(ctx, thread, s.opts.Window)
	if err != nil {
		return domain.Message{}, false, err
	}
	if len(msgs) == 0 {
		return domain.Message{}, false, nil
	}
	sorted := append([]domain.Message(nil), msgs...)
	sortChronological(sorted)
	return sorted[0], true, nil
}

// sortChronological orders messages oldest first, breaking timestamp ties by
// message ID.
func sortChronological(msgs []domain.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].Timestamp.Before(msgs[j].Timestamp)
		}
		return snowflakeLess(msgs[i].ID, msgs[j].ID)
	})
}

func openedAfter(a, b domain.Message) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return snowflakeLess(b.ID, a.ID)
}

// snowflakeLess compares numeric IDs without parsing them.
func snowflakeLess(a, b domain.MessageID) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Compile-time assertion that Service implements domain.RecoveryService.
var _ domain.RecoveryService = (*Service)(nil)
