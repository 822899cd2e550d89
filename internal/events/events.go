package events

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// Action names a change made to the directory.
type Action string

const (
	UserCreated       Action = "user.created"
	UserUpdated       Action = "user.updated"
	UserDeleted       Action = "user.deleted"
	GroupCreated      Action = "group.created"
	GroupDeleted      Action = "group.deleted"
	MembershipUpdated Action = "group.membership_updated"
)

// DirectoryEvent describes a single committed change to the directory.
type DirectoryEvent struct {
	ID        string   `json:"id"`
	Action    Action   `json:"action"`
	UserID    string   `json:"userid,omitempty"`
	Group     string   `json:"group,omitempty"`
	UserIDs   []string `json:"userids,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// Notifier is told about every successful directory mutation.
type Notifier interface {
	Notify(event DirectoryEvent) error
	Close()
}

// DecodeEvent parses an event payload as published by EventPublisher.
func DecodeEvent(payload []byte) (DirectoryEvent, error) {
	var event DirectoryEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return DirectoryEvent{}, fmt.Errorf("could not decode directory event: %w", err)
	}
	if event.Action == "" {
		return DirectoryEvent{}, fmt.Errorf("directory event %q has no action", event.ID)
	}
	return event, nil
}

// LogNotifier writes events to a logger. It is used when no message broker
// is configured.
type LogNotifier struct {
	Log *zerolog.Logger
}

func (n *LogNotifier) Notify(event DirectoryEvent) error {
	n.Log.Info().
		Str("event_id", event.ID).
		Str("action", string(event.Action)).
		Str("userid", event.UserID).
		Str("group", event.Group).
		Strs("userids", event.UserIDs).
		Msg("directory event")
	return nil
}

func (n *LogNotifier) Close() {}
