// Package mqtt publishes pomodoro transitions to MQTT with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"log"
	"time"

	"github.com/sweeney/yolodoro/internal/logic"
)

// TopicIntervals is the MQTT topic for interval transitions.
const TopicIntervals = "yolodoro/intervals"

// TopicSystem is the MQTT topic for lifecycle events.
const TopicSystem = "yolodoro/system"

// Lifecycle event names.
const (
	EventStartup  = "STARTUP"
	EventShutdown = "SHUTDOWN"
	EventOffline  = "OFFLINE"
)

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an interval transition to the broker.
	// Returns error if publishing fails (should not stop the timer).
	Publish(iv logic.Interval, at time.Time) error

	// PublishSystem sends a lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN"
	Reason    string // e.g., "interrupt" (shutdown only)
	Session   string
	Retained  bool // Whether the message should be retained by the broker
}

// Payload is the MQTT message for an interval transition.
type Payload struct {
	Interval IntervalPayload `json:"interval"`
}

// IntervalPayload contains the transition details.
type IntervalPayload struct {
	Timestamp       string `json:"timestamp"`
	Session         string `json:"session"`
	Phase           string `json:"phase"`
	Cycle           uint64 `json:"cycle"`
	DurationSeconds int64  `json:"duration_seconds"`
	Minutes         uint64 `json:"minutes"`
	Message         string `json:"message"`
}

// FormatPayload creates the JSON payload for an interval transition.
func FormatPayload(session string, iv logic.Interval, at time.Time) ([]byte, error) {
	payload := Payload{
		Interval: IntervalPayload{
			Timestamp:       at.UTC().Format(time.RFC3339),
			Session:         session,
			Phase:           string(iv.Phase),
			Cycle:           iv.Cycle,
			DurationSeconds: int64(iv.Duration / time.Second),
			Minutes:         logic.Minutes(iv.Duration),
			Message:         iv.Message,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the MQTT message for lifecycle events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Session   string `json:"session"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Session:   event.Session,
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// FormatWillPayload creates the last-will message the broker publishes if the
// connection drops without a clean disconnect.
func FormatWillPayload(session string, at time.Time) ([]byte, error) {
	return FormatSystemPayload(SystemEvent{
		Timestamp: at,
		Event:     EventOffline,
		Reason:    "connection lost",
		Session:   session,
	})
}

// Observer forwards each interval start to a Publisher. A failed publish is
// logged and otherwise ignored so the timer keeps running.
type Observer struct {
	Publisher Publisher
}

// Observe publishes the interval.
func (o Observer) Observe(iv logic.Interval, at time.Time) {
	if err := o.Publisher.Publish(iv, at); err != nil {
		log.Printf("mqtt: publish %s failed: %v", iv.Phase, err)
	}
}
