package relay

import (
	go_json "github.com/goccy/go-json"
	"github.com/google/go-github/v66/github"
	"github.com/pkg/errors"
)

const (
	EventStar    = "star"
	EventIssues  = "issues"
	EventUnknown = "unknown"
)

// Event is one of StarEvent, IssuesEvent or UnknownEvent.
type Event interface {
	relayEvent()
	Name() string
}

// StarEvent is a repository being starred or unstarred.
type StarEvent struct {
	Action     string
	Actor      string
	Repository string
}

func (StarEvent) relayEvent()  {}
func (StarEvent) Name() string { return EventStar }

// IssuesEvent is an issue changing state.
type IssuesEvent struct {
	Action string
	Title  string
	Author string
}

func (IssuesEvent) relayEvent()  {}
func (IssuesEvent) Name() string { return EventIssues }

// UnknownEvent carries the raw discriminator of an event with no dedicated message.
type UnknownEvent struct {
	Event string
}

func (UnknownEvent) relayEvent()    {}
func (e UnknownEvent) Name() string { return e.Event }

// ParseEvent decodes body into the variant selected by name.
// Returns ErrMalformedPayload if body is not JSON, whatever the event.
func ParseEvent(name string, body []byte) (Event, error) {
	if !go_json.Valid(body) {
		return nil, errors.Wrapf(ErrMalformedPayload, "%s event", name)
	}

	switch name {
	case EventStar:
		var raw github.StarEvent
		if err := go_json.Unmarshal(body, &raw); err != nil {
			return nil, errors.Wrapf(ErrMalformedPayload, "decoding star event: %v", err)
		}
		return StarEvent{
			Action:     raw.GetAction(),
			Actor:      raw.GetSender().GetLogin(),
			Repository: raw.GetRepo().GetFullName(),
		}, nil

	case EventIssues:
		var raw github.IssuesEvent
		if err := go_json.Unmarshal(body, &raw); err != nil {
			return nil, errors.Wrapf(ErrMalformedPayload, "decoding issues event: %v", err)
		}
		return IssuesEvent{
			Action: raw.GetAction(),
			Title:  raw.GetIssue().GetTitle(),
			Author: raw.GetIssue().GetUser().GetLogin(),
		}, nil

	default:
		return UnknownEvent{Event: name}, nil
	}
}
