package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/partheniadis/r-node-nRF/internal/display"
	"github.com/partheniadis/r-node-nRF/internal/status"
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
	"valueClass": func(s string) string {
		if s == display.NotAvailableValue || s == display.NotAvailable {
			return "na"
		}
		return "value"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>R-Node</title>
<style>
body { font-family: monospace; max-width: 840px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.value { font-weight: bold; }
.na { color: #888; }
.insight { font-size: 1.1em; font-style: italic; }
.connected { color: green; }
.disconnected { color: red; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>R-Node</h1>

<h2>Readings</h2>
<table>
<tr><th>Finger</th><td id="finger" class="{{valueClass (index .Channels 0)}}">{{index .Channels 0}}</td></tr>
<tr><th>Environment</th><td id="environment" class="{{valueClass (index .Channels 1)}}">{{index .Channels 1}}</td></tr>
<tr><th>Object</th><td id="object" class="{{valueClass (index .Channels 2)}}">{{index .Channels 2}}</td></tr>
<tr><th>Position</th><td id="position" class="{{valueClass .Position}}">{{.Position}}</td></tr>
</table>
<p id="insight" class="insight">{{.Insight}}</p>

<h2>Chart</h2>
<p><img id="chart" src="/chart.png" alt="{{if .Session.InProgress}}waiting for samples{{else}}not refreshing{{end}}" width="800" height="400"></p>
<table>
<tr><th>Refreshing</th><td id="in-progress">{{if .Session.InProgress}}yes{{else}}no{{end}}</td></tr>
<tr><th>Samples</th><td id="counter">{{.Session.Counter}}</td></tr>
</table>
{{if .ResetEnabled}}<form method="post" action="/reset"><button type="submit">Reset</button></form>{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Config.SerialPort}}<tr><th>Serial</th><td>{{.Config.SerialPort}} @ {{.Config.BaudRate}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Refresh</th><td>{{.Config.RefreshMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/samples.json">Samples</a></p>
<script>
(function() {
  var ids = ["finger", "environment", "object"];
  var version = {{.ChartVersion}};
  var chart = document.getElementById("chart");

  function setText(id, text, na) {
    var el = document.getElementById(id);
    el.textContent = text;
    if (na !== undefined) {
      el.className = (text === "{{.NA}}" || text === "{{.NotAvailable}}") ? "na" : "value";
    }
  }

  function poll() {
    fetch("/index.json").then(function(r) { return r.json(); }).then(function(j) {
      var s = j.status;
      ids.forEach(function(id) { setText(id, s.channels[id], true); });
      setText("position", s.position, true);
      setText("insight", s.insight);
      setText("in-progress", s.session.in_progress ? "yes" : "no");
      setText("counter", s.session.counter);
      if (s.chart.version !== version) {
        version = s.chart.version;
        chart.src = "/chart.png?v=" + version;
      }
    }).catch(function() {});
  }

  setInterval(poll, {{if .Config.RefreshMs}}{{.Config.RefreshMs}}{{else}}1000{{end}});
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, resetEnabled bool) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime       time.Duration
		ResetEnabled bool
		NA           string
		NotAvailable string
	}{
		Snapshot:     snap,
		Uptime:       snap.Uptime(),
		ResetEnabled: resetEnabled,
		NA:           display.NotAvailableValue,
		NotAvailable: display.NotAvailable,
	}
	return indexTmpl.Execute(w, data)
}
