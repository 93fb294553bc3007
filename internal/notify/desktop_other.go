//go:build !linux && !freebsd && !netbsd && !openbsd && !darwin

package notify

import "context"

// Desktop is not available on this platform.
type Desktop struct{}

// NewDesktop returns ErrUnsupported on this platform.
func NewDesktop(string, Options) (*Desktop, error) {
	return nil, ErrUnsupported
}

// Notify is not implemented on this platform.
func (d *Desktop) Notify(context.Context, string, string) error {
	return ErrUnsupported
}

// Close is a no-op.
func (d *Desktop) Close() error {
	return nil
}
