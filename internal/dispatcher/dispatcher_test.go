package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aledsz/pluginfield4/internal/payload"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("DEBUG: %s %v", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("INFO: %s %v", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("ERROR: %s %v", msg, keysAndValues))
}

func (l *testLogger) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

type delivery struct {
	event string
	body  string
}

// testSender records deliveries. When gate is set, each send waits on it.
type testSender struct {
	mu        sync.Mutex
	delivered []delivery
	gate      chan struct{}
	entered   chan string
	err       error
}

func (s *testSender) SendEvent(ctx context.Context, eventName, body string) error {
	if s.entered != nil {
		s.entered <- eventName
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.delivered = append(s.delivered, delivery{event: eventName, body: body})
	return nil
}

func (s *testSender) deliveries() []delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]delivery(nil), s.delivered...)
}

func newTestDispatcher(t *testing.T, sender Sender, opts ...Option) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(sender, logger, opts...)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = d.Close(ctx)
	})

	return d, logger
}

func closeWithin(t *testing.T, d *Dispatcher, timeout time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNew_RejectsBadWorkers(t *testing.T) {
	if _, err := New(&testSender{}, &testLogger{}, Workers(0)); err == nil {
		t.Error("expected error for zero workers")
	}
}

func TestDispatcher_DeliversEnvelope(t *testing.T) {
	sender := &testSender{}
	d, _ := newTestDispatcher(t, sender)
	d.Start()

	err := d.Emit("OnPlayerJoin", payload.Of(payload.F("soldier_name", payload.String("Alice"))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	closeWithin(t, d, time.Second)

	got := sender.deliveries()
	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}
	if got[0].event != "OnPlayerJoin" {
		t.Errorf("expected event OnPlayerJoin, got %s", got[0].event)
	}
	if want := `{"data":{"soldier_name":"Alice"}}`; got[0].body != want {
		t.Errorf("expected body %s, got %s", want, got[0].body)
	}
}

func TestDispatcher_ArrayModes(t *testing.T) {
	rows := payload.Rows([]payload.Mapping{payload.Of(payload.F("team_id", payload.Int(1)))})

	tests := []struct {
		mode payload.ArrayMode
		want string
	}{
		{payload.ArrayModeLegacy, `{"data":{"team_scores":"[{\"team_id\":1},"}}`},
		{payload.ArrayModeNested, `{"data":{"team_scores":[{"team_id":1}]}}`},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			sender := &testSender{}
			d, _ := newTestDispatcher(t, sender, ArrayMode(tt.mode))
			d.Start()

			if err := d.Emit("OnRoundOverTeamScores", payload.Of(payload.F("team_scores", rows))); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			closeWithin(t, d, time.Second)

			got := sender.deliveries()
			if len(got) != 1 || got[0].body != tt.want {
				t.Errorf("expected body %s, got %+v", tt.want, got)
			}
		})
	}
}

func TestDispatcher_EmitAfterClose(t *testing.T) {
	d, _ := newTestDispatcher(t, &testSender{})
	d.Start()
	closeWithin(t, d, time.Second)

	err := d.Emit("OnPlayerJoin", payload.Of())
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestDispatcher_CloseTimeoutCancelsInFlight(t *testing.T) {
	sender := &testSender{gate: make(chan struct{}), entered: make(chan string, 10)}
	d, logger := newTestDispatcher(t, sender, Workers(1))
	d.Start()

	d.Emit("OnPlayerKilled", payload.Of())
	<-sender.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := d.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}

	// the stuck send observes cancellation and the failure is logged
	deadline := time.Now().Add(time.Second)
	for !logger.contains("event delivery failed") {
		if time.Now().After(deadline) {
			t.Fatal("cancelled delivery was not logged")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDispatcher_SenderErrorIsLoggedNotReturned(t *testing.T) {
	sender := &testSender{err: errors.New("connection refused")}
	d, logger := newTestDispatcher(t, sender)
	d.Start()

	if err := d.Emit("OnBanAdded", payload.Of()); err != nil {
		t.Fatalf("Emit should not surface delivery errors: %v", err)
	}
	closeWithin(t, d, time.Second)

	if !logger.contains("event delivery failed") {
		t.Error("expected delivery failure to be logged")
	}
	if !logger.contains("connection refused") {
		t.Error("expected sender error in log")
	}
}

func TestDispatcher_SendTimeout(t *testing.T) {
	sender := &testSender{gate: make(chan struct{})}
	d, logger := newTestDispatcher(t, sender, SendTimeout(10*time.Millisecond))
	d.Start()

	d.Emit("OnYelling", payload.Of())
	closeWithin(t, d, time.Second)

	if !logger.contains("deadline exceeded") {
		t.Errorf("expected timeout to be logged, got %v", logger.messages)
	}
}

func TestDispatcher_LoggedOption(t *testing.T) {
	d, logger := newTestDispatcher(t, &testSender{}, Logged())
	d.Start()

	d.Emit("OnSaying", payload.Of())
	closeWithin(t, d, time.Second)

	if !logger.contains("event queued") {
		t.Error("expected queued debug log")
	}
	if !logger.contains("event delivered") {
		t.Error("expected delivered debug log")
	}
}

func TestDispatcher_ConcurrentEmit(t *testing.T) {
	sender := &testSender{}
	d, _ := newTestDispatcher(t, sender, Workers(4), QueueSize(1000))
	d.Start()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if err := d.Emit("OnGlobalChat", payload.Of()); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()
	closeWithin(t, d, 2*time.Second)

	if n := len(sender.deliveries()); n != 200 {
		t.Errorf("expected 200 deliveries, got %d", n)
	}
}
