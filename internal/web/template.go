package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/ml8/attiny85-skate-dryer/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
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
	},
	"onOff": func(on bool) string {
		if on {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Skate Dryer</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.sleeping { color: #46c; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Skate Dryer</h1>

<table>
<tr><th>Fan</th><td class="{{if gt .RunState.Level 0}}on{{else}}off{{end}}">{{onOff (gt .RunState.Level 0)}}</td></tr>
<tr><th>Run state</th><td>{{.RunState}} (level {{.RunState.Level}})</td></tr>
<tr><th>Remaining run ticks</th><td>{{.RemainingTicks}}</td></tr>
<tr><th>Input state</th><td>{{.UIState}}</td></tr>
<tr><th>Power</th><td class="{{if .Sleeping}}sleeping{{end}}">{{if .Sleeping}}SLEEPING{{else}}AWAKE{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
</table>

<h1>Counts</h1>
<table>
<tr><th>Clicks</th><td>{{.Counts.Clicks}}</td></tr>
<tr><th>Input windows</th><td>{{.Counts.Windows}}</td></tr>
<tr><th>Selections</th><td>{{.Counts.Selections}}</td></tr>
<tr><th>Fan runs</th><td>{{.Counts.FanRuns}}</td></tr>
<tr><th>Sleeps</th><td>{{.Counts.Sleeps}}</td></tr>
</table>

<h1>Daemon</h1>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}{{if .Config.Broker}} ({{.Config.Broker}}){{end}}</td></tr>
<tr><th>Run tick</th><td>{{.Config.RunTickMs}} ms</td></tr>
<tr><th>UI tick</th><td>{{.Config.UITickMs}} ms</td></tr>
<tr><th>Durations</th><td>{{.Config.BaseTicks}} + {{.Config.StepTicks}}/level ticks, {{.Config.MaxLevels}} levels</td></tr>
<tr><th>Idle threshold</th><td>{{.Config.IdleThreshold}} iterations</td></tr>
{{if .Network}}
<tr><th>Network</th><td>{{.Network.Type}} {{.Network.IP}} ({{.Network.Status}})</td></tr>
{{if .Network.SSID}}<tr><th>WiFi</th><td>{{.Network.SSID}} ({{.Network.WifiStatus}})</td></tr>{{end}}
{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("web: render status page: %v", err)
	}
}
