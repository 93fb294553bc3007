package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/yolodoro/internal/logic"
	"github.com/sweeney/yolodoro/internal/status"
)

func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	days := int(d.Hours()) / 24
	h := int(d.Hours()) % 24
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
	}
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"duration": formatDuration,
	"phase": func(p logic.Phase) string {
		return status.PhaseOrIdle(p)
	},
	"phaseClass": func(p logic.Phase) string {
		switch {
		case p == logic.PhaseWorking:
			return "work"
		case p.IsBreak():
			return "rest"
		default:
			return "idle"
		}
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="15">
<title>yolodoro</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.work { color: red; font-weight: bold; }
.rest { color: green; font-weight: bold; }
.idle { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>yolodoro</h1>

<h2>Interval</h2>
<table>
<tr><th>Phase</th><td id="phase" class="{{phaseClass .Phase}}">{{phase .Phase}}</td></tr>
{{if .Started}}<tr><th>Message</th><td>{{.Message}}</td></tr>
<tr><th>Remaining</th><td id="remaining">{{duration .Remaining}}</td></tr>
<tr><th>Ends</th><td>{{.IntervalEnd.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
<tr><th>Completed pomodoros</th><td>{{.Cycle}}</td></tr>
</table>

<h2>Interval Counts</h2>
<table>
<tr><th>Work</th><td>{{.Counts.Work}}</td></tr>
<tr><th>Short pause</th><td>{{.Counts.ShortBreak}}</td></tr>
<tr><th>Long pause</th><td>{{.Counts.LongBreak}}</td></tr>
<tr><th>Failed notifications</th><td>{{.NotifyErrors}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Session</th><td>{{.Session}}</td></tr>
<tr><th>Uptime</th><td>{{duration .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Length</th><td>{{.Config.WorkMinutes}}m</td></tr>
<tr><th>Short pause</th><td>{{.Config.ShortBreakMinutes}}m</td></tr>
<tr><th>Long pause</th><td>{{.Config.LongBreakMinutes}}m</td></tr>
<tr><th>Notifier</th><td>{{.Config.Notifier}}</td></tr>
<tr><th>GPIO pin</th><td>{{if lt .Config.GPIOPin 0}}disabled{{else}}{{.Config.GPIOPin}}{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/index.txt">text</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() and Remaining() methods but the template needs fields.
	data := struct {
		status.Snapshot
		Uptime    time.Duration
		Remaining time.Duration
	}{
		Snapshot:  snap,
		Uptime:    snap.Uptime(),
		Remaining: snap.Remaining(),
	}
	indexTmpl.Execute(w, data)
}
