// Package plugin is the event forwarder the host loads: its metadata, its
// single setting, the enable/disable lifecycle and one handler per
// notification.
package plugin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aledsz/pluginfield4/internal/dispatcher"
	"github.com/aledsz/pluginfield4/internal/payload"
	"github.com/aledsz/pluginfield4/pkg/procon"
)

const (
	Name        = "PluginField4 Database"
	Author      = "aleDsz"
	Version     = "0.1.0"
	Description = "The Ultimate Battlefield 4 Plugin to send event data to API"
	Website     = "https://github.com/aledsz/PluginField4"

	// ClassName is what the plugin registers its events under.
	ClassName = "PluginField4"

	// APIKeyVariable is the only plugin variable.
	APIKeyVariable = "API Key"
)

// Sender delivers encoded events and accepts the API key to send them with.
type Sender interface {
	dispatcher.Sender
	SetAPIKey(key string)
}

// Plugin forwards host notifications to the remote collector.
type Plugin struct {
	host   procon.Host
	sender Sender
	logger dispatcher.Logger

	dispatchOpts []dispatcher.Option
	closeTimeout time.Duration

	mu         sync.RWMutex
	apiKey     string
	dispatcher *dispatcher.Dispatcher
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithDispatcherOptions passes options to the dispatcher created on enable.
func WithDispatcherOptions(opts ...dispatcher.Option) Option {
	return func(p *Plugin) {
		p.dispatchOpts = append(p.dispatchOpts, opts...)
	}
}

// WithCloseTimeout bounds how long disable waits for queued events.
func WithCloseTimeout(d time.Duration) Option {
	return func(p *Plugin) {
		p.closeTimeout = d
	}
}

// New creates a disabled plugin.
func New(host procon.Host, sender Sender, logger dispatcher.Logger, opts ...Option) *Plugin {
	p := &Plugin{
		host:         host,
		sender:       sender,
		logger:       logger,
		closeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Plugin) PluginName() string        { return Name }
func (p *Plugin) PluginAuthor() string      { return Author }
func (p *Plugin) PluginVersion() string     { return Version }
func (p *Plugin) PluginDescription() string { return Description }
func (p *Plugin) PluginWebsite() string     { return Website }

// PluginVariables lists the plugin's settings with their current values.
func (p *Plugin) PluginVariables() []procon.PluginVariable {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return []procon.PluginVariable{
		{Name: APIKeyVariable, Type: "string", Value: p.apiKey},
	}
}

// DisplayPluginVariables is PluginVariables with secrets masked.
func (p *Plugin) DisplayPluginVariables() []procon.PluginVariable {
	vars := p.PluginVariables()
	for i := range vars {
		if vars[i].Name == APIKeyVariable && vars[i].Value != "" {
			vars[i].Value = "********"
		}
	}
	return vars
}

// SetPluginVariable stores a setting. Unknown names are ignored. A new API
// key takes effect on the next enable.
func (p *Plugin) SetPluginVariable(name, value string) {
	if name != APIKeyVariable {
		p.logger.Debug("ignoring unknown plugin variable", "name", name)
		return
	}
	p.mu.Lock()
	p.apiKey = value
	p.mu.Unlock()
}

// OnPluginLoaded subscribes the plugin to every notification it handles.
func (p *Plugin) OnPluginLoaded(hostName, port, proconVersion string) {
	p.logger.Info("plugin loaded", "host", hostName, "port", port, "proconVersion", proconVersion, "version", Version)
	p.host.RegisterEvents(ClassName, EventNames()...)
}

// OnPluginEnable hands the API key to the sender and starts delivering.
// Enabling an enabled plugin does nothing.
func (p *Plugin) OnPluginEnable() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dispatcher != nil {
		return nil
	}

	d, err := dispatcher.New(p.sender, p.logger, p.dispatchOpts...)
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	p.sender.SetAPIKey(p.apiKey)
	d.Start()
	p.dispatcher = d

	p.logger.Info("plugin enabled")
	return nil
}

// OnPluginDisable stops accepting events, waits for queued ones, clears the
// key held by the sender and removes the plugin's host tasks.
func (p *Plugin) OnPluginDisable() error {
	p.mu.Lock()
	d := p.dispatcher
	p.dispatcher = nil
	p.mu.Unlock()

	var err error
	if d != nil {
		ctx, cancel := context.WithTimeout(context.Background(), p.closeTimeout)
		defer cancel()
		if err = d.Close(ctx); err != nil {
			err = fmt.Errorf("draining events: %w", err)
		}
	}

	p.sender.SetAPIKey("")
	p.host.ExecuteCommand(procon.TasksRemoveCommand, ClassName)

	p.logger.Info("plugin disabled")
	return err
}

// Enabled reports whether events are currently forwarded.
func (p *Plugin) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dispatcher != nil
}

// emit queues an event. Failures stop here; the host never sees them.
func (p *Plugin) emit(event string, m payload.Mapping) {
	p.mu.RLock()
	d := p.dispatcher
	p.mu.RUnlock()

	if d == nil {
		p.logger.Debug("plugin disabled, event dropped", "event", event)
		return
	}
	if err := d.Emit(event, m); err != nil {
		p.logger.Error("event not queued", "event", event, "error", err)
	}
}
