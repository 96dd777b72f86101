package marker

import (
	"regexp"
	"strings"

	"modmail/internal/domain"
)

var (
	// mentionPattern matches a user mention at the start of a token. Trailing
	// punctuation such as "<@123>:" is tolerated.
	mentionPattern = regexp.MustCompile(`^<@!?(\d+)>`)
	idPattern      = regexp.MustCompile(`\(ID: (\d+)\)`)
)

// Mention renders a user mention token.
func Mention(id domain.CorrespondentID) string { return "<@" + string(id) + ">" }

// RoleMention renders a role mention token.
func RoleMention(id domain.RoleID) string { return "<@&" + string(id) + ">" }

// IDMarker renders the literal identity marker.
func IDMarker(id domain.CorrespondentID) string { return "(ID: " + string(id) + ")" }

// Opening renders the first message of a new thread. It pings the staff role,
// mentions the correspondent and embeds their identity marker.
func Opening(role domain.RoleID, correspondent domain.CorrespondentID) string {
	return RoleMention(role) + " New modmail from " + Mention(correspondent) + " " + IDMarker(correspondent)
}

// Extract recovers the correspondent identity from a thread's opening text.
func Extract(text string) (domain.CorrespondentID, bool) {
	for _, token := range strings.Fields(text) {
		if m := mentionPattern.FindStringSubmatch(token); m != nil {
			return domain.CorrespondentID(m[1]), true
		}
	}
	if m := idPattern.FindStringSubmatch(text); m != nil {
		return domain.CorrespondentID(m[1]), true
	}
	return "", false
}
