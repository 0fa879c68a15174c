package procon

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownEvent means no handler exists for a notification name.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrNotRegistered means the notification exists but no plugin subscribed to it.
	ErrNotRegistered = errors.New("event not registered")
)

// Notification is one host callback on the wire: the event name and the
// callback's arguments in declaration order.
type Notification struct {
	Event string            `json:"event"`
	Args  []json.RawMessage `json:"args"`
}

// DecodeNotification parses a single notification.
func DecodeNotification(data []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return Notification{}, fmt.Errorf("decode notification: %w", err)
	}
	if n.Event == "" {
		return Notification{}, errors.New("decode notification: missing event name")
	}
	return n, nil
}

// DecodeArgs parses a JSON array of callback arguments.
func DecodeArgs(data []byte) ([]json.RawMessage, error) {
	var args []json.RawMessage
	if len(data) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return args, nil
}

// FormatResponse renders the outcome of a notification as
// ["ok", event] or ["error", event, message].
func FormatResponse(event string, err error) string {
	var reply []string
	if err != nil {
		reply = []string{"error", event, err.Error()}
	} else {
		reply = []string{"ok", event}
	}
	b, _ := json.Marshal(reply)
	return string(b)
}
