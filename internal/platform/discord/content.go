package discord

import (
	"strings"
	"unicode/utf8"
)

// maxMessageLen is Discord's per-message content limit, in characters.
const maxMessageLen = 2000

// splitContent breaks text into chunks of at most limit characters,
// preferring to cut after a newline in the second half of a chunk.
func splitContent(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		if idx := lastNewline(runes[:limit]); idx >= limit/2 {
			cut = idx + 1
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}

// appendLinks adds the URLs of attachments that could not be re-uploaded.
func appendLinks(text string, urls []string) string {
	if len(urls) == 0 {
		return text
	}
	return strings.TrimRight(text, "\n") + "\n" + strings.Join(urls, "\n")
}
