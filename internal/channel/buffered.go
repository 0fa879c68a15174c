package channel

import "context"

// Buffered is a bounded queue backed by a buffered channel.
type Buffered[T any] struct {
	ch chan T
}

// NewBuffered creates a queue holding at most size items.
func NewBuffered[T any](size int) *Buffered[T] {
	return &Buffered[T]{ch: make(chan T, size)}
}

func (b *Buffered[T]) Send(ctx context.Context, v T) error { return send(ctx, b.ch, v) }
func (b *Buffered[T]) TrySend(v T) bool                    { return trySend(b.ch, v) }
func (b *Buffered[T]) Receive() <-chan T                   { return b.ch }

// Len returns the number of queued items.
func (b *Buffered[T]) Len() int { return len(b.ch) }
func (b *Buffered[T]) Cap() int { return cap(b.ch) }

// Close stops intake. Queued items can still be received.
func (b *Buffered[T]) Close() { close(b.ch) }
