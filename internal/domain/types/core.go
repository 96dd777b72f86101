package types

// CorrespondentID is the platform-assigned identity of an external user.
type CorrespondentID string

// String returns the string form of the identifier.
func (id CorrespondentID) String() string { return string(id) }

// ThreadID identifies a staff-visible discussion thread.
type ThreadID string

// String returns the string form of the identifier.
func (id ThreadID) String() string { return string(id) }

// Channel returns the channel messages for the thread are posted into.
func (id ThreadID) Channel() ChannelID { return ChannelID(id) }

// ChannelID identifies any channel: forum, thread or direct-message channel.
type ChannelID string

// String returns the string form of the identifier.
func (id ChannelID) String() string { return string(id) }

// MessageID identifies a single message within a channel.
type MessageID string

// String returns the string form of the identifier.
func (id MessageID) String() string { return string(id) }

// RoleID identifies a guild role.
type RoleID string

// String returns the string form of the identifier.
func (id RoleID) String() string { return string(id) }
