package relay

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"modmail/internal/domain"
	"modmail/internal/protocol/marker"
)

const (
	attachmentPlaceholder = "Sent an attachment"

	ackText           = "Your message has been sent to the staff team."
	deliveredText     = "Message delivered to the user."
	dmUnavailableText = "Could not open a DM with the user. They may have DMs disabled or have blocked the bot."
	commandSentText   = "Modmail sent successfully! You can now continue the conversation in DMs."
	commandEmptyText  = "Please include a message for the staff team."

	// maxTitleRunes is the platform's thread-name limit.
	maxTitleRunes = 100
)

func userTag(id domain.CorrespondentID) string { return "(User) " + marker.Mention(id) }

func staffTag(name string) string { return "(Staff) " + name }

// relayText renders a forwarded message. A body that is empty apart from
// attachments is replaced with a placeholder.
func relayText(tag, body string, hasAttachments bool) string {
	if strings.TrimSpace(body) == "" && hasAttachments {
		body = attachmentPlaceholder
	}
	return tag + ": " + body
}

func threadTitle(author domain.Author) string {
	title := "Modmail from " + author.Name()
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	runes := []rune(title)
	return string(runes[:maxTitleRunes-1]) + "…"
}

func deliveryFailedText(err error) string {
	return fmt.Sprintf("Failed to deliver message to the user: %v", err)
}

func commandFailedText(err error) string {
	return fmt.Sprintf("Error sending modmail: %v", err)
}

// hasPayload reports whether there is anything to relay.
func hasPayload(msg domain.Message) bool {
	return strings.TrimSpace(msg.Content) != "" || len(msg.Attachments) > 0
}
