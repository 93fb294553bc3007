//go:build darwin

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Desktop posts notifications to Notification Center through osascript.
type Desktop struct {
	appName string
	opts    Options
	path    string
}

// NewDesktop locates osascript.
func NewDesktop(appName string, opts Options) (*Desktop, error) {
	path, err := exec.LookPath("osascript")
	if err != nil {
		return nil, fmt.Errorf("%w: osascript: %v", ErrUnsupported, err)
	}
	return &Desktop{appName: appName, opts: opts, path: path}, nil
}

// Notify shows a banner. Notification Center has no dismissal callback, so
// WaitForDismissal is ignored.
func (d *Desktop) Notify(ctx context.Context, title, body string) error {
	if title == "" {
		title = d.appName
	}
	script := "display notification " + strconv.Quote(body) +
		" with title " + strconv.Quote(title)
	out, err := exec.CommandContext(ctx, d.path, "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript: %w: %s", err, out)
	}
	return nil
}

// Close is a no-op.
func (d *Desktop) Close() error {
	return nil
}
