package types

import "time"

// Author is the sender of a message as reported by the platform.
type Author struct {
	ID          CorrespondentID `json:"id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name,omitempty"`
	Bot         bool            `json:"bot,omitempty"`
}

// Name returns the display name, falling back to the username.
func (a Author) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

// Attachment is a file carried by a message, re-uploaded by URL when relayed.
type Attachment struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size,omitempty"`
}

// Message is a platform message in a thread or direct-message channel.
// GuildID is empty for direct messages.
type Message struct {
	ID          MessageID    `json:"id"`
	ChannelID   ChannelID    `json:"channel_id"`
	GuildID     string       `json:"guild_id,omitempty"`
	Author      Author       `json:"author"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// IsDirect reports whether the message was sent in a direct-message channel.
func (m Message) IsDirect() bool { return m.GuildID == "" }
