//go:build debug

package channel

// SyncHandoff reports whether New ignores its size argument.
const SyncHandoff = true

// New creates the dispatcher queue. Debug builds ignore size and hand off
// synchronously, so any producer that outruns the workers shows up at once.
func New[T any](size int) Channel[T] {
	return NewUnbuffered[T]()
}
