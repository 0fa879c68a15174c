// internal/channel/unbuffered.go
package channel

import "context"

// Unbuffered hands each item directly to a waiting receiver.
type Unbuffered[T any] struct {
	ch chan T
}

func NewUnbuffered[T any]() *Unbuffered[T] {
	return &Unbuffered[T]{ch: make(chan T)}
}

// Send blocks until a receiver takes the item or ctx ends.
func (u *Unbuffered[T]) Send(ctx context.Context, v T) error { return send(ctx, u.ch, v) }

// TrySend succeeds only when a receiver is already waiting.
func (u *Unbuffered[T]) TrySend(v T) bool  { return trySend(u.ch, v) }
func (u *Unbuffered[T]) Receive() <-chan T { return u.ch }

// Len always returns 0 for unbuffered channels
func (u *Unbuffered[T]) Len() int { return 0 }
func (u *Unbuffered[T]) Cap() int { return 0 }

func (u *Unbuffered[T]) Close() { close(u.ch) }
