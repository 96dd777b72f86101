package interfaces

import (
	"context"

	domaintypes "modmail/internal/domain/types"
)

// Platform is how the relay talks to the chat platform. Implementations
// convert transport failures into *domain.Error values at the call site.
type Platform interface {
	// SelfID returns the bot's own user identity.
	SelfID(ctx context.Context) (domaintypes.CorrespondentID, error)

	ResolveChannel(ctx context.Context, id domaintypes.ChannelID) (domaintypes.Channel, error)
	ListActiveThreads(ctx context.Context) ([]domaintypes.Thread, error)
	FetchEarliestMessages(
		ctx context.Context,
		thread domaintypes.ThreadID,
		limit int,
	) ([]domaintypes.Message, error)

	CreateThread(
		ctx context.Context,
		parent domaintypes.ChannelID,
		title string,
		opening string,
	) (domaintypes.Thread, error)
	PostMessage(
		ctx context.Context,
		channel domaintypes.ChannelID,
		text string,
		attachments []domaintypes.Attachment,
	) (domaintypes.MessageID, error)
	PinMessage(ctx context.Context, channel domaintypes.ChannelID, message domaintypes.MessageID) error
	DeleteThread(ctx context.Context, thread domaintypes.ThreadID) error

	// OpenDM opens or reuses the direct-message channel with a correspondent.
	OpenDM(ctx context.Context, user domaintypes.CorrespondentID) (domaintypes.ChannelID, error)
}
