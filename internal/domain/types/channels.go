package types

// ChannelKind is the coarse channel type the relay cares about.
type ChannelKind int

const (
	ChannelOther ChannelKind = iota
	ChannelText
	ChannelForum
	ChannelThread
	ChannelDM
)

// String returns a short name for the kind.
func (k ChannelKind) String() string {
	switch k {
	case ChannelText:
		return "text"
	case ChannelForum:
		return "forum"
	case ChannelThread:
		return "thread"
	case ChannelDM:
		return "dm"
	default:
		return "other"
	}
}

// Channel is a resolved platform channel.
type Channel struct {
	ID       ChannelID
	GuildID  string
	ParentID ChannelID
	Name     string
	Kind     ChannelKind
}

// Thread is an active discussion thread. For forum posts the starter message
// shares the thread's ID.
type Thread struct {
	ID               ThreadID
	ParentID         ChannelID
	Name             string
	StarterMessageID MessageID
}
