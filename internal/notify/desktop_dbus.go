//go:build linux || freebsd || netbsd || openbsd

package notify

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	fdoDest      = "org.freedesktop.Notifications"
	fdoPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	fdoInterface = "org.freedesktop.Notifications"
	fdoNotify    = fdoInterface + ".Notify"
	fdoClosed    = fdoInterface + ".NotificationClosed"
)

// Desktop sends notifications to the freedesktop notification daemon over the
// session bus.
type Desktop struct {
	appName string
	opts    Options

	mu   sync.Mutex
	conn *dbus.Conn
	// closed receives NotificationClosed signals. It is only set with
	// WaitForDismissal, and the match rule lives as long as the connection.
	closed chan *dbus.Signal
}

func closedMatch() []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchObjectPath(fdoPath),
		dbus.WithMatchInterface(fdoInterface),
		dbus.WithMatchMember("NotificationClosed"),
	}
}

// NewDesktop connects to the session bus. With WaitForDismissal it also
// subscribes to NotificationClosed once for the life of the Desktop.
func NewDesktop(appName string, opts Options) (*Desktop, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	d := &Desktop{appName: appName, opts: opts, conn: conn}
	if opts.WaitForDismissal {
		if err := conn.AddMatchSignal(closedMatch()...); err != nil {
			conn.Close()
			return nil, fmt.Errorf("watch notification close: %w", err)
		}
		d.closed = make(chan *dbus.Signal, 8)
		conn.Signal(d.closed)
	}
	return d, nil
}

// Notify shows a resident notification. With WaitForDismissal it blocks until
// the daemon reports the notification closed, the timeout elapses or ctx ends.
func (d *Desktop) Notify(ctx context.Context, title, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return errClosed
	}

	if d.closed != nil {
		drainSignals(d.closed)
	}

	hints := map[string]dbus.Variant{
		"resident": dbus.MakeVariant(true),
	}
	obj := d.conn.Object(fdoDest, fdoPath)
	call := obj.CallWithContext(ctx, fdoNotify, 0,
		d.appName,  // app_name
		uint32(0),  // replaces_id
		"",         // app_icon
		title,      // summary
		body,       // body
		[]string{}, // actions
		hints,
		int32(-1), // expire_timeout: server default
	)
	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	if d.closed == nil {
		return nil
	}
	return d.waitClosed(ctx, d.closed, id)
}

// drainSignals discards close signals for notifications nobody waited on.
func drainSignals(signals <-chan *dbus.Signal) {
	for {
		select {
		case <-signals:
		default:
			return
		}
	}
}

func (d *Desktop) waitClosed(ctx context.Context, signals <-chan *dbus.Signal, id uint32) error {
	if d.opts.DismissTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.DismissTimeout)
		defer cancel()
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			if sig.Name != fdoClosed || len(sig.Body) == 0 {
				continue
			}
			if closedID, ok := sig.Body[0].(uint32); ok && closedID == id {
				if d.opts.OnDismissed != nil {
					d.opts.OnDismissed()
				}
				return nil
			}
		}
	}
}

// Close drops the close-signal subscription and releases the bus connection.
func (d *Desktop) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	if d.closed != nil {
		d.conn.RemoveSignal(d.closed)
		if err := d.conn.RemoveMatchSignal(closedMatch()...); err != nil {
			log.Printf("notify: remove close match: %v", err)
		}
		d.closed = nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}
