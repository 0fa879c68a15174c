// Package procon describes the boundary between the plugin and the server
// administration host that loads it.
package procon

import (
	"slices"
	"sync"
)

// TasksRemoveCommand removes scheduled tasks owned by a plugin.
const TasksRemoveCommand = "procon.protected.tasks.remove"

// Host is what a plugin may ask of the host that loaded it.
type Host interface {
	// RegisterEvents subscribes className to the named notifications.
	RegisterEvents(className string, events ...string)
	// ExecuteCommand runs a host command given as separate words.
	ExecuteCommand(words ...string)
}

// PluginVariable is a user-editable plugin setting shown by the host.
type PluginVariable struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Value    string `json:"value"`
	ReadOnly bool   `json:"readOnly"`
}

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
}

// LocalHost is an in-process Host. It remembers which notifications were
// registered so the bridge only forwards those.
type LocalHost struct {
	logger Logger

	mu         sync.RWMutex
	registered map[string]string
	commands   [][]string
}

// NewLocalHost returns a Host with nothing registered.
func NewLocalHost(logger Logger) *LocalHost {
	return &LocalHost{
		logger:     logger,
		registered: make(map[string]string),
	}
}

func (h *LocalHost) RegisterEvents(className string, events ...string) {
	h.mu.Lock()
	for _, e := range events {
		h.registered[e] = className
	}
	h.mu.Unlock()

	h.logger.Info("events registered", "class", className, "count", len(events))
}

func (h *LocalHost) ExecuteCommand(words ...string) {
	h.mu.Lock()
	h.commands = append(h.commands, slices.Clone(words))
	h.mu.Unlock()

	h.logger.Debug("host command", "words", words)
}

// Registered reports whether some plugin subscribed to event.
func (h *LocalHost) Registered(event string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.registered[event]
	return ok
}

// Commands returns every command executed so far, oldest first.
func (h *LocalHost) Commands() [][]string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([][]string, len(h.commands))
	for i, c := range h.commands {
		out[i] = slices.Clone(c)
	}
	return out
}
