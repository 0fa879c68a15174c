//go:build !debug

package convert

// invalidEnum is a no-op in release builds; the value renders as Type(n).
func invalidEnum(stringer) {}
