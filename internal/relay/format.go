package relay

import "fmt"

// placeholder stands in for payload fields GitHub did not send.
const placeholder = "undefined"

// Format renders the chat message for an event. It never fails.
func Format(e Event) string {
	switch ev := e.(type) {
	case StarEvent:
		return fmt.Sprintf("User %s %s star on %s", orPlaceholder(ev.Actor), orPlaceholder(ev.Action), orPlaceholder(ev.Repository))

	case IssuesEvent:
		switch ev.Action {
		case "opened":
			return "An issue was opened with the following title: " + orPlaceholder(ev.Title)
		case "closed":
			return "An issue was closed by " + orPlaceholder(ev.Author)
		case "reopened":
			return "An issue was reopened by " + orPlaceholder(ev.Author)
		default:
			return "Unhandled action for the issue event " + orPlaceholder(ev.Action)
		}

	case UnknownEvent:
		return "Unknown event " + ev.Event

	default:
		return "Unknown event " + e.Name()
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
