// Package channel provides the job queue primitives the dispatcher runs on.
package channel

import "context"

// Receiver provides read access to a queue.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
	Cap() int
}

// Sender provides write access to a queue.
type Sender[T any] interface {
	// Send waits for room in the queue or for ctx to end.
	Send(ctx context.Context, v T) error
	// TrySend enqueues only if there is room right now.
	TrySend(v T) bool
}

// Channel combines read and write access.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
	Close()
}

func send[T any](ctx context.Context, ch chan T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func trySend[T any](ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
		return false
	}
}
