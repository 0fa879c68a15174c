//go:build !debug

package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aledsz/pluginfield4/internal/payload"
)

func TestDispatcher_EmitDoesNotWaitForSender(t *testing.T) {
	sender := &testSender{gate: make(chan struct{})}
	d, _ := newTestDispatcher(t, sender, Workers(1), QueueSize(10))
	d.Start()

	done := make(chan error, 1)
	go func() {
		done <- d.Emit("OnLevelStarted", payload.Of())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a stuck sender")
	}

	close(sender.gate)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sender := &testSender{gate: make(chan struct{}), entered: make(chan string, 10)}
	d, _ := newTestDispatcher(t, sender, Workers(1), QueueSize(1))
	d.Start()

	// first event occupies the only worker
	if err := d.Emit("OnRestartLevel", payload.Of()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	<-sender.entered

	// second fills the queue
	if err := d.Emit("OnRestartLevel", payload.Of()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := d.Emit("OnRestartLevel", payload.Of())
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}

	close(sender.gate)
	closeWithin(t, d, time.Second)

	if n := len(sender.deliveries()); n != 2 {
		t.Errorf("expected 2 deliveries, got %d", n)
	}
}

func TestDispatcher_BlockingWaitsForRoom(t *testing.T) {
	sender := &testSender{gate: make(chan struct{}), entered: make(chan string, 10)}
	d, _ := newTestDispatcher(t, sender, Workers(1), QueueSize(1), Blocking())
	d.Start()

	d.Emit("OnRunNextLevel", payload.Of())
	<-sender.entered
	d.Emit("OnRunNextLevel", payload.Of())

	done := make(chan error, 1)
	go func() {
		done <- d.Emit("OnRunNextLevel", payload.Of())
	}()

	select {
	case <-done:
		t.Fatal("third Emit should wait while the queue is full")
	case <-time.After(50 * time.Millisecond):
	}

	close(sender.gate)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked Emit was never released")
	}

	closeWithin(t, d, time.Second)
	if n := len(sender.deliveries()); n != 3 {
		t.Errorf("expected 3 deliveries, got %d", n)
	}
}

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	sender := &testSender{}
	d, _ := newTestDispatcher(t, sender, Workers(2), QueueSize(10))

	// queued before the workers start
	for i := 0; i < 5; i++ {
		if err := d.Emit("OnEndRound", payload.Of(payload.F("team_id", payload.Int(i)))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if d.QueueLen() != 5 {
		t.Errorf("expected 5 queued, got %d", d.QueueLen())
	}

	d.Start()
	closeWithin(t, d, time.Second)

	if n := len(sender.deliveries()); n != 5 {
		t.Errorf("expected 5 deliveries, got %d", n)
	}
}

func TestDispatcher_CloseReleasesBlockedEmit(t *testing.T) {
	sender := &testSender{gate: make(chan struct{}), entered: make(chan string, 10)}
	d, _ := newTestDispatcher(t, sender, Workers(1), QueueSize(1), Blocking())
	d.Start()

	d.Emit("OnPlayerJoin", payload.Of())
	<-sender.entered
	d.Emit("OnPlayerJoin", payload.Of())

	done := make(chan error, 1)
	go func() {
		done <- d.Emit("OnPlayerJoin", payload.Of())
	}()
	time.Sleep(20 * time.Millisecond)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		d.Close(ctx)
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not release the blocked Emit")
	}

	close(sender.gate)
}
