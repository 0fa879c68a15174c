//go:build debug

package convert

import "fmt"

// invalidEnum panics in debug builds so out-of-range host values surface early.
func invalidEnum(v stringer) {
	panic(fmt.Sprintf("convert: enum value out of range: %s", v.String()))
}
