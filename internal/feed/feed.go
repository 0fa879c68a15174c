// Package feed reads host notifications from JSON-lines input, either a
// one-shot stream or a file that keeps growing.
package feed

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aledsz/pluginfield4/pkg/procon"
)

const maxLineSize = 4 << 20

// Handler receives each decoded notification.
type Handler func(procon.Notification) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Feed turns lines into handler calls. Bad lines are logged and skipped.
type Feed struct {
	handle Handler
	logger Logger
}

func New(handle Handler, logger Logger) *Feed {
	return &Feed{handle: handle, logger: logger}
}

// Read processes r until EOF or until ctx is done between lines.
func (f *Feed) Read(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		f.process(line, sc.Bytes())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading notifications: %w", err)
	}
	return nil
}

func (f *Feed) process(line int, data []byte) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return
	}

	n, err := procon.DecodeNotification(data)
	if err != nil {
		f.logger.Error("skipping malformed notification", "line", line, "error", err)
		return
	}
	if err := f.handle(n); err != nil {
		f.logger.Error("notification rejected", "line", line, "event", n.Event, "error", err)
		return
	}
	f.logger.Debug("notification handled", "line", line, "event", n.Event)
}
