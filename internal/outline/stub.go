//go:build !cgo

package outline

import "context"

// Available reports whether Extract can parse source.
// Always false without cgo.
func Available() bool { return false }

// Extract always returns ErrUnavailable without cgo.
func Extract(_ context.Context, _ []byte, _ Language) (*Outline, error) {
	return nil, ErrUnavailable
}
