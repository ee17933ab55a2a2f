package intent

import (
	"strings"

	"github.com/ggonzalez94/intents/internal/registry"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatOptionLabel renders an action sequence for display. Labels are
// compared to deduplicate options, so the output must stay stable.
func FormatOptionLabel(actions []registry.ProtocolAction) string {
	if len(actions) == 0 {
		return ""
	}
	lower := cases.Lower(language.English)
	if sameProtocol(actions) {
		parts := make([]string, 0, len(actions))
		for i, a := range actions {
			parts = append(parts, actionLabel(lower, a.Action, i))
		}
		return strings.Join(parts, " then ") + " via " + actions[0].Protocol.Label()
	}
	parts := make([]string, 0, len(actions))
	for i, a := range actions {
		parts = append(parts, actionLabel(lower, a.Action, i)+" via "+a.Protocol.Label())
	}
	return joinList(parts)
}

func actionLabel(lower cases.Caser, action registry.ActionType, index int) string {
	if index == 0 {
		return action.Label()
	}
	return lower.String(action.Label())
}

func sameProtocol(actions []registry.ProtocolAction) bool {
	for _, a := range actions[1:] {
		if a.Protocol != actions[0].Protocol {
			return false
		}
	}
	return true
}

// joinList joins two parts with a comma and longer lists in the serial
// "A, B, and C" form.
func joinList(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + ", " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}
