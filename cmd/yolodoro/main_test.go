package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/yolodoro/internal/config"
	"github.com/sweeney/yolodoro/internal/gpio"
	"github.com/sweeney/yolodoro/internal/instance"
	"github.com/sweeney/yolodoro/internal/logic"
	"github.com/sweeney/yolodoro/internal/mqtt"
	"github.com/sweeney/yolodoro/internal/notify"
	"github.com/sweeney/yolodoro/internal/scheduler"
	"github.com/sweeney/yolodoro/internal/shutdown"
)

// syncBuffer is a bytes.Buffer safe for the scheduler goroutine to write
// while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testEnv struct {
	deps      deps
	stdout    *syncBuffer
	notifier  *notify.Fake
	publisher *mqtt.FakePublisher
	indicator *gpio.FakeIndicator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		stdout:    &syncBuffer{},
		notifier:  notify.NewFake(),
		publisher: mqtt.NewFakePublisher(),
		indicator: gpio.NewFakeIndicator(),
	}
	env.deps = deps{
		stdout:     env.stdout,
		controller: shutdown.New(),
		lockPath:   filepath.Join(t.TempDir(), instance.LockName),
		clock:      scheduler.RealClock{},
		newNotifier: func(config.Config, func(error)) (notify.Notifier, func()) {
			return env.notifier, func() {}
		},
		newPublisher: func(broker, session string) (publisher, error) {
			env.publisher.Session = session
			env.publisher.Connected = true
			return env.publisher, nil
		},
		newIndicator: func(pin int) (gpio.Indicator, error) {
			return env.indicator, nil
		},
	}
	return env
}

// startServe runs serve on its own goroutine and waits for the first interval.
func startServe(t *testing.T, env *testEnv, cfg config.Config) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- serve(context.Background(), env.deps, cfg) }()

	require.Eventually(t, func() bool {
		return strings.Contains(env.stdout.String(), "Starting new pomodoro")
	}, 2*time.Second, 5*time.Millisecond, "scheduler never announced the first interval")
	return errCh
}

func waitServe(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after stop")
		return nil
	}
}

func executeRoot(t *testing.T, d deps, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(d)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestServeUntilStopped(t *testing.T) {
	env := newTestEnv(t)
	cfg := config.Default()
	cfg.MQTT.Broker = "tcp://broker.test:1883"
	cfg.GPIO.Pin = 17

	errCh := startServe(t, env, cfg)
	// The indicator is the last observer, so every collaborator has seen the interval.
	require.Eventually(t, env.indicator.On, 2*time.Second, 5*time.Millisecond)

	// While running, the lock is held.
	_, err := instance.Acquire(env.deps.lockPath)
	assert.ErrorIs(t, err, instance.ErrAlreadyRunning)

	env.deps.controller.Stop()
	require.NoError(t, waitServe(t, errCh))

	out := env.stdout.String()
	assert.True(t, strings.HasPrefix(out, "Waiting for Ctrl-C...\n"), "got %q", out)
	assert.Contains(t, out, "Starting new pomodoro: 24m\n")
	assert.True(t, strings.HasSuffix(out, "Got it! Exiting...\n"), "got %q", out)

	calls := env.notifier.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, notify.Call{Title: appName, Body: "Starting new pomodoro: 24m"}, calls[0])

	intervals := env.publisher.Snapshot()
	require.Len(t, intervals, 1)
	assert.Equal(t, logic.PhaseWorking, intervals[0].Interval.Phase)

	require.Len(t, env.publisher.SystemEvents, 2)
	assert.Equal(t, mqtt.EventStartup, env.publisher.SystemEvents[0].Event)
	assert.Equal(t, mqtt.EventShutdown, env.publisher.SystemEvents[1].Event)
	assert.Equal(t, "interrupt", env.publisher.SystemEvents[1].Reason)
	assert.True(t, env.publisher.SystemEvents[1].Retained)
	assert.True(t, env.publisher.Closed)

	assert.Equal(t, []bool{true}, env.indicator.Values)
	assert.True(t, env.indicator.Closed)

	// Lock released on return.
	g, err := instance.Acquire(env.deps.lockPath)
	require.NoError(t, err)
	g.Release()
}

func TestServeDisabledCollaboratorsNotCreated(t *testing.T) {
	env := newTestEnv(t)
	env.deps.newPublisher = func(string, string) (publisher, error) {
		t.Error("publisher created without a broker")
		return nil, errors.New("unexpected")
	}
	env.deps.newIndicator = func(int) (gpio.Indicator, error) {
		t.Error("indicator created with gpio disabled")
		return nil, errors.New("unexpected")
	}

	errCh := startServe(t, env, config.Default())
	env.deps.controller.Stop()
	require.NoError(t, waitServe(t, errCh))
}

func TestServeSurvivesCollaboratorFailures(t *testing.T) {
	env := newTestEnv(t)
	env.deps.newPublisher = func(string, string) (publisher, error) {
		return nil, errors.New("broker unreachable")
	}
	env.deps.newIndicator = func(int) (gpio.Indicator, error) {
		return nil, errors.New("no gpio chip")
	}
	env.notifier.Err = errors.New("no notification daemon")

	cfg := config.Default()
	cfg.MQTT.Broker = "tcp://broker.test:1883"
	cfg.GPIO.Pin = 17

	errCh := startServe(t, env, cfg)
	env.deps.controller.Stop()
	require.NoError(t, waitServe(t, errCh))
	assert.Contains(t, env.stdout.String(), "Got it! Exiting...")
}

func TestServeLockHeld(t *testing.T) {
	env := newTestEnv(t)
	held, err := instance.Acquire(env.deps.lockPath)
	require.NoError(t, err)
	t.Cleanup(func() { held.Release() })

	err = serve(context.Background(), env.deps, config.Default())
	assert.ErrorIs(t, err, instance.ErrAlreadyRunning)
	assert.Empty(t, env.stdout.String(), "scheduler must not start")
}

func TestServeAllowMultipleSkipsLock(t *testing.T) {
	env := newTestEnv(t)
	held, err := instance.Acquire(env.deps.lockPath)
	require.NoError(t, err)
	t.Cleanup(func() { held.Release() })

	cfg := config.Default()
	cfg.AllowMultiple = true

	errCh := startServe(t, env, cfg)
	env.deps.controller.Stop()
	require.NoError(t, waitServe(t, errCh))
}

func TestServeInterruptHandlerAlreadyInstalled(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.deps.controller.Install(nil))
	t.Cleanup(env.deps.controller.Uninstall)

	err := serve(context.Background(), env.deps, config.Default())
	assert.ErrorIs(t, err, shutdown.ErrAlreadyInstalled)
	assert.Empty(t, env.stdout.String(), "scheduler must not start")
}

func TestRootNonNumericLength(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeRoot(t, env.deps, "--length", "abc")
	require.Error(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Empty(t, env.stdout.String(), "scheduler must not start")
}

func TestRootOverflowingLength(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeRoot(t, env.deps, "--length", "200000000")
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, out, "Usage:")
	assert.Empty(t, env.stdout.String(), "scheduler must not start")
	assert.Empty(t, env.notifier.Calls())
}

func TestLogDismissed(t *testing.T) {
	var logged bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logged)
	t.Cleanup(func() { log.SetOutput(prev) })

	logDismissed()
	assert.Contains(t, logged.String(), "Notification was closed")
}

func TestRootInvalidNotifier(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeRoot(t, env.deps, "--notifier", "pigeon")
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, out, "Usage:")
	assert.Empty(t, env.stdout.String(), "scheduler must not start")
}

func TestRootMissingConfigFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeRoot(t, env.deps, "--config", filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRootRejectsArgs(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeRoot(t, env.deps, "now")
	assert.Error(t, err)
}

func TestPlanDefaults(t *testing.T) {
	out, err := executeRoot(t, newTestEnv(t).deps, "plan")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Rounded style: top border, header, separator, 8 rows, bottom border.
	assert.Len(t, lines, 12)
	assert.Equal(t, 4, strings.Count(out, "WORKING"))
	assert.Equal(t, 3, strings.Count(out, "SHORT_BREAK"))
	assert.Equal(t, 1, strings.Count(out, "LONG_BREAK"))
	assert.Contains(t, out, "24m")
	assert.Contains(t, out, "+1:51") // long break after 4x24 + 3x5
}

func TestPlanFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yolodoro.toml")
	require.NoError(t, os.WriteFile(path, []byte("length = 50\nshort_pause = 10\n"), 0o644))

	out, err := executeRoot(t, newTestEnv(t).deps, "plan", "-c", path, "-s", "7", "-n", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "50m") // from file
	assert.Contains(t, out, "7m")  // flag wins over file
	assert.NotContains(t, out, "10m")
	assert.Contains(t, out, "+0:50")
}

func TestPlanInvalidCycles(t *testing.T) {
	_, err := executeRoot(t, newTestEnv(t).deps, "plan", "--cycles", "0")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRenderPlanZeroDurations(t *testing.T) {
	out := renderPlan(logic.Durations{}, 3)
	assert.Equal(t, 3, strings.Count(out, "0m"))
	assert.Equal(t, 3, strings.Count(out, "+0:00"))
}

func TestFormatOffset(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "+0:00"},
		{29 * time.Minute, "+0:29"},
		{111 * time.Minute, "+1:51"},
		{25*time.Hour + 90*time.Second, "+25:01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatOffset(tt.d), "offset %v", tt.d)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, renderTable(nil, nil, nil))
}
