package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"modmail/internal/domain"
)

const (
	notThreadText = "This command can only be used inside an active modmail thread."
	closedText    = "Thread closed."
	closedDMText  = "Your modmail thread has been closed by staff. Feel free to message again if you need further help."
)

// Service ends sessions.
type Service struct {
	platform  domain.Platform
	directory domain.Directory
	logger    *slog.Logger
}

// New constructs a lifecycle Service.
func New(platform domain.Platform, directory domain.Directory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		platform:  platform,
		directory: directory,
		logger:    logger.With("component", "lifecycle"),
	}
}

// Close deletes a tracked thread and forgets its session. The returned text
// is the reply shown to the staff member who invoked the command.
//
// Steps:
//  1. Reject threads the directory does not track. Nothing is changed.
//  2. Delete the thread on the platform. On failure the session is kept.
//  3. Remove the session from the directory.
//  4. Tell the correspondent the thread was closed. Failure here is ignored.
func (s *Service) Close(ctx context.Context, thread domain.ThreadID) (string, error) {
	correspondent, ok := s.directory.LookupCorrespondent(thread)
	if !ok {
		return notThreadText, nil
	}
	logger := s.logger.With("thread", thread, "correspondent", correspondent)

	if err := s.platform.DeleteThread(ctx, thread); err != nil {
		err = domain.Classify(domain.KindDelivery, "delete thread "+string(thread), err)
		logger.Error("lifecycle_close_failed", "error", err)
		return fmt.Sprintf("Failed to close thread: %v", err), err
	}

	// A message racing the delete may have replaced the pair already; only
	// the pair for this thread is removed.
	s.directory.RemoveByThread(thread)
	logger.Info("lifecycle_thread_closed")

	s.notify(ctx, logger, correspondent)
	return closedText, nil
}

func (s *Service) notify(ctx context.Context, logger *slog.Logger, correspondent domain.CorrespondentID) {
	dm, err := s.platform.OpenDM(ctx, correspondent)
	if err != nil {
		logger.Debug("lifecycle_notify_skipped", "error", err)
		return
	}
	if _, err := s.platform.PostMessage(ctx, dm, closedDMText, nil); err != nil {
		logger.Debug("lifecycle_notify_skipped", "error", err)
	}
}

// Compile-time assertion that Service implements domain.LifecycleService.
var _ domain.LifecycleService = (*Service)(nil)
