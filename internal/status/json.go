package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/yolodoro/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Session          string     `json:"session"`
	Phase            string     `json:"phase"`
	Message          string     `json:"message,omitempty"`
	Cycle            uint64     `json:"cycle"`
	IntervalStart    string     `json:"interval_start,omitempty"`
	IntervalEnd      string     `json:"interval_end,omitempty"`
	RemainingSeconds int64      `json:"remaining_seconds"`
	UptimeSeconds    int64      `json:"uptime_seconds"`
	StartTime        string     `json:"start_time"`
	Timestamp        string     `json:"timestamp"`
	NotifyErrors     uint64     `json:"notify_errors"`
	MQTT             MQTTStatus `json:"mqtt"`
	Counts           CountsJSON `json:"interval_counts"`
	Config           ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of interval counts.
type CountsJSON struct {
	Work       uint64 `json:"work"`
	ShortBreak uint64 `json:"short_break"`
	LongBreak  uint64 `json:"long_break"`
}

// ConfigJSON is the JSON representation of timer config.
type ConfigJSON struct {
	WorkMinutes       uint64 `json:"length"`
	ShortBreakMinutes uint64 `json:"short_pause"`
	LongBreakMinutes  uint64 `json:"long_pause"`
	Notifier          string `json:"notifier"`
	Broker            string `json:"broker,omitempty"`
	HTTPAddr          string `json:"http_addr"`
	GPIOPin           int    `json:"gpio_pin"`
}

// PhaseOrIdle returns the phase name, or IDLE before the first interval.
func PhaseOrIdle(p logic.Phase) string {
	if p == "" {
		return "IDLE"
	}
	return string(p)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Session:          snap.Session,
		Phase:            PhaseOrIdle(snap.Phase),
		Message:          snap.Message,
		Cycle:            snap.Cycle,
		IntervalStart:    formatTime(snap.IntervalStart),
		IntervalEnd:      formatTime(snap.IntervalEnd),
		RemainingSeconds: int64(snap.Remaining() / time.Second),
		UptimeSeconds:    int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:        snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:        snap.Now.UTC().Format(time.RFC3339),
		NotifyErrors:     snap.NotifyErrors,
		MQTT:             MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Work:       snap.Counts.Work,
			ShortBreak: snap.Counts.ShortBreak,
			LongBreak:  snap.Counts.LongBreak,
		},
		Config: ConfigJSON{
			WorkMinutes:       snap.Config.WorkMinutes,
			ShortBreakMinutes: snap.Config.ShortBreakMinutes,
			LongBreakMinutes:  snap.Config.LongBreakMinutes,
			Notifier:          snap.Config.Notifier,
			Broker:            snap.Config.Broker,
			HTTPAddr:          snap.Config.HTTPAddr,
			GPIOPin:           snap.Config.GPIOPin,
		},
	}
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
