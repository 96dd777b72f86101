package interfaces

import (
	"context"

	domaintypes "modmail/internal/domain/types"
)

// RelayService routes messages between correspondents and their threads.
type RelayService interface {
	HandleInbound(ctx context.Context, message domaintypes.Message) error
	HandleThreadMessage(ctx context.Context, message domaintypes.Message) error
	OpenFromCommand(
		ctx context.Context,
		author domaintypes.Author,
		content string,
	) (string, error)
}

// RecoveryService rebuilds the directory from platform history.
type RecoveryService interface {
	Scan(ctx context.Context) ([]domaintypes.Session, domaintypes.RecoveryReport, error)
	Run(ctx context.Context) (domaintypes.RecoveryReport, error)
}

// LifecycleService closes sessions on staff request.
type LifecycleService interface {
	// Close returns the text shown to the invoking staff member.
	Close(ctx context.Context, thread domaintypes.ThreadID) (string, error)
}
