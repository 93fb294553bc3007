package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/yolodoro/internal/config"
	"github.com/sweeney/yolodoro/internal/console"
	"github.com/sweeney/yolodoro/internal/gpio"
	"github.com/sweeney/yolodoro/internal/instance"
	"github.com/sweeney/yolodoro/internal/logic"
	"github.com/sweeney/yolodoro/internal/mqtt"
	"github.com/sweeney/yolodoro/internal/notify"
	"github.com/sweeney/yolodoro/internal/scheduler"
	"github.com/sweeney/yolodoro/internal/shutdown"
	"github.com/sweeney/yolodoro/internal/status"
	"github.com/sweeney/yolodoro/internal/web"
)

const (
	// dismissTimeout bounds --wait-dismiss so an ignored notification does
	// not hold the delivery queue forever.
	dismissTimeout = 5 * time.Minute

	httpShutdownTimeout = 2 * time.Second
)

// publisher is what serve needs from an MQTT backend.
type publisher interface {
	mqtt.Publisher
	mqtt.ConnectionStatus
}

// deps holds everything serve reaches outside the process for, so tests can
// swap them.
type deps struct {
	stdout       io.Writer
	controller   *shutdown.Controller
	lockPath     string
	clock        scheduler.Clock
	newNotifier  func(cfg config.Config, onError func(error)) (notify.Notifier, func())
	newPublisher func(broker, session string) (publisher, error)
	newIndicator func(pin int) (gpio.Indicator, error)
}

func defaultDeps() deps {
	return deps{
		stdout:       os.Stdout,
		controller:   shutdown.New(),
		lockPath:     instance.DefaultPath(),
		clock:        scheduler.RealClock{},
		newNotifier:  newDesktopNotifier,
		newPublisher: newRealPublisher,
		newIndicator: newRealIndicator,
	}
}

func newDesktopNotifier(cfg config.Config, onError func(error)) (notify.Notifier, func()) {
	if cfg.Notifier == config.NotifierNone {
		return notify.Nop{}, func() {}
	}
	desktop, err := notify.NewDesktop(appName, notify.Options{
		WaitForDismissal: cfg.WaitDismiss,
		DismissTimeout:   dismissTimeout,
		OnDismissed:      logDismissed,
	})
	if err != nil {
		log.Printf("desktop notifications disabled: %v", err)
		return notify.Nop{}, func() {}
	}
	async := notify.NewAsync(desktop, notify.DefaultQueueSize, onError)
	return async, func() {
		async.Close()
		desktop.Close()
	}
}

func logDismissed() {
	log.Print("Notification was closed")
}

func newRealPublisher(broker, session string) (publisher, error) {
	p, err := mqtt.NewRealPublisher(broker, session)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newRealIndicator(pin int) (gpio.Indicator, error) {
	ind, err := gpio.NewRealIndicator(gpio.DefaultChip, pin)
	if err != nil {
		return nil, err
	}
	return ind, nil
}

// serve runs the timer until the controller stops. It returns once the
// interrupt arrives without waiting for the scheduler goroutine; whatever
// interval is running is abandoned.
func serve(ctx context.Context, d deps, cfg config.Config) error {
	if !cfg.AllowMultiple {
		guard, err := instance.Acquire(d.lockPath)
		if err != nil {
			return err
		}
		defer guard.Release()
	}

	if err := d.controller.Install(nil); err != nil {
		return fmt.Errorf("install interrupt handler: %w", err)
	}
	defer d.controller.Uninstall()

	session := uuid.NewString()
	tracker := status.NewTracker(time.Now(), session, status.Config{
		WorkMinutes:       cfg.Length,
		ShortBreakMinutes: cfg.ShortPause,
		LongBreakMinutes:  cfg.LongPause,
		Notifier:          cfg.Notifier,
		Broker:            cfg.MQTT.Broker,
		HTTPAddr:          cfg.HTTP.Addr,
		GPIOPin:           cfg.GPIO.Pin,
	})

	notifier, closeNotifier := d.newNotifier(cfg, func(err error) {
		log.Printf("notify: %v", err)
		tracker.IncNotifyErrors()
	})
	defer closeNotifier()

	observers := []scheduler.Observer{tracker}

	if cfg.MQTT.Broker != "" {
		pub, err := d.newPublisher(cfg.MQTT.Broker, session)
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			defer pub.Close()
			publishSystem(pub, mqtt.EventStartup, "")
			defer publishSystem(pub, mqtt.EventShutdown, "interrupt")

			tracker.SetMQTTConnected(pub.IsConnected())
			observers = append(observers,
				mqtt.Observer{Publisher: pub},
				scheduler.ObserverFunc(func(logic.Interval, time.Time) {
					tracker.SetMQTTConnected(pub.IsConnected())
				}),
			)
			log.Printf("publishing to %s (session %s)", cfg.MQTT.Broker, session)
		}
	}

	if cfg.GPIO.Pin >= 0 {
		ind, err := d.newIndicator(cfg.GPIO.Pin)
		if err != nil {
			log.Printf("gpio indicator disabled: %v", err)
		} else {
			defer func() {
				if err := ind.Close(); err != nil {
					log.Printf("gpio close: %v", err)
				}
			}()
			observers = append(observers, gpio.Observer{Indicator: ind})
		}
	}

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
			defer cancel()
			srv.Shutdown(sctx)
		}()
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	out := console.New(d.stdout)
	sched := scheduler.New(scheduler.Config{
		Durations: cfg.Durations(),
		Notifier:  notifier,
		Console:   out,
		Title:     appName,
		Clock:     d.clock,
		Observers: observers,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	out.Plain("Waiting for Ctrl-C...")
	go func() {
		_ = sched.Run(runCtx)
	}()

	<-d.controller.Done()
	out.Plain("Got it! Exiting...")
	return nil
}

func publishSystem(pub mqtt.Publisher, event, reason string) {
	err := pub.PublishSystem(mqtt.SystemEvent{
		Timestamp: time.Now(),
		Event:     event,
		Reason:    reason,
		Retained:  true,
	})
	if err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
		return
	}
	log.Printf("published %s event", event)
}
