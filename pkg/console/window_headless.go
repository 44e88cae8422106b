//go:build headless

package console

import (
	"context"
	"errors"
)

// ErrNoWindow is returned by RunWindow in builds without a window system.
var ErrNoWindow = errors.New("console: built without window support")

// RunWindow is unavailable in headless builds.
func RunWindow(context.Context, Target) error {
	return ErrNoWindow
}
