//go:build !debug

package channel

// SyncHandoff reports whether New ignores its size argument.
const SyncHandoff = false

// New creates the dispatcher queue. Release builds buffer up to size items.
func New[T any](size int) Channel[T] {
	return NewBuffered[T](size)
}
