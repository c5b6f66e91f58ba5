package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/covidash/covidash/internal/utils"
)

// SerializationError indicates the dashboard could not be rendered or
// written. The atomic write below guarantees no partial file lands.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize dashboard %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Render serializes the dashboard to a single HTML file at path. The chart
// runtime script and all data are embedded in the document, so the file
// renders fully with no network access. The write goes through a temp file
// and rename so a failure never leaves partial output.
func Render(d *Dashboard, runtime []byte, path string) error {
	html, err := renderHTML(d, runtime)
	if err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	if err := utils.SafeWriteFile(path, html); err != nil {
		return &SerializationError{Path: path, Err: err}
	}
	return nil
}

func renderHTML(d *Dashboard, runtime []byte) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal dashboard data: %w", err)
	}
	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, map[string]any{
		"D":        d,
		"Runtime":  template.JS(runtime),
		"DataJSON": template.JS(data),
		"InitJS":   template.JS(initScript),
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.D.Title}}</title>
<script>{{.Runtime}}</script>
<style>` + themeCSS + `</style>
</head>
<body>
<div class="container">
<header>
    <h1>{{.D.Title}}</h1>
    <p>{{.D.Subtitle}}</p>
    <p class="data-date">Data as of {{.D.DataDate}}</p>
</header>
<nav class="tabs">
{{- range $i, $t := .D.Tabs}}
    <button class="tab-btn{{if eq $i 0}} active{{end}}" data-tab="{{$t.ID}}">{{$t.Label}}</button>
{{- end}}
</nav>
{{- range $i, $t := .D.Tabs}}
<section class="tab-panel{{if eq $i 0}} active{{end}}" id="{{$t.ID}}">
    {{- if and $.D.Selector (eq $t.ID "tab-country")}}
    <div class="selector">
        <label for="country-select">Country</label>
        <select id="country-select"></select>
    </div>
    {{- end}}
    {{- range $t.Charts}}
    <div class="chart-box">
        <h3 id="title-{{.ID}}">{{.Title}}</h3>
        {{- if .LogToggle}}
        <button class="scale-btn" data-chart="{{.ID}}">log scale</button>
        {{- end}}
        <div id="{{.ID}}" class="chart"></div>
    </div>
    {{- end}}
    {{- range $t.Tables}}
    <div class="table-box">
        <h3>{{.Title}}</h3>
        <table>
            <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
            <tbody>
            {{- range .Rows}}
            <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
            {{- end}}
            </tbody>
        </table>
    </div>
    {{- end}}
</section>
{{- end}}
<footer>
    <p>Source: Center for Systems Science and Engineering, Johns Hopkins University</p>
    <p class="note">Incident rate is confirmed cases per 100,000 population.
    Case fatality ratio is the ratio of deaths to confirmed cases.</p>
    <p class="note">Generated {{.D.Generated}} &middot; run {{.D.RunID}}</p>
</footer>
</div>
<script>
const DASH = {{.DataJSON}};
{{.InitJS}}
</script>
</body>
</html>
`))

// Colors assigned by series index; series order is fixed upstream by final
// cumulative confirmed count, so legends are identical across runs.
const initScript = `
const PALETTE = ['#4A90D9', '#50C878', '#E74C3C', '#F5A623', '#9B59B6',
    '#1ABC9C', '#D35400', '#7F8C8D', '#2C3E50', '#C0392B', '#16A085'];
const charts = [];

function optionFor(cfg, log) {
    const yAxis = log
        ? { type: 'log', min: 1, name: cfg.yLabel }
        : { type: 'value', name: cfg.yLabel };
    return {
        color: PALETTE,
        tooltip: { trigger: 'axis' },
        legend: { type: 'scroll', top: 0 },
        grid: { left: '3%', right: '4%', bottom: '3%', top: 48, containLabel: true },
        xAxis: { type: 'category', data: cfg.xAxis },
        yAxis: yAxis,
        series: cfg.series.map(s => ({
            name: s.name,
            type: cfg.kind,
            data: s.data,
            showSymbol: false,
            emphasis: { focus: 'series' }
        }))
    };
}

DASH.tabs.forEach(tab => (tab.charts || []).forEach(cfg => {
    const el = document.getElementById(cfg.id);
    if (!el) return;
    const inst = echarts.init(el);
    charts.push({ el, inst, cfg, log: cfg.scale === 'log' });
    inst.setOption(optionFor(cfg, cfg.scale === 'log'));
}));

document.querySelectorAll('.tab-btn').forEach(btn => btn.addEventListener('click', () => {
    document.querySelectorAll('.tab-btn').forEach(b => b.classList.remove('active'));
    document.querySelectorAll('.tab-panel').forEach(p => p.classList.remove('active'));
    btn.classList.add('active');
    const panel = document.getElementById(btn.dataset.tab);
    panel.classList.add('active');
    charts.forEach(c => { if (panel.contains(c.el)) c.inst.resize(); });
}));

document.querySelectorAll('.scale-btn').forEach(btn => btn.addEventListener('click', () => {
    const entry = charts.find(c => c.cfg.id === btn.dataset.chart);
    if (!entry) return;
    entry.log = !entry.log;
    btn.textContent = entry.log ? 'linear scale' : 'log scale';
    entry.inst.setOption(optionFor(entry.cfg, entry.log), true);
}));

if (DASH.selector) {
    const sel = document.getElementById('country-select');
    DASH.selector.options.forEach(o => {
        const opt = document.createElement('option');
        opt.value = o;
        opt.textContent = o;
        sel.appendChild(opt);
    });
    sel.value = DASH.selector['default'];
    sel.addEventListener('change', () => {
        const entry = charts.find(c => c.cfg.id === DASH.selector.chartId);
        const det = DASH.selector.details[sel.value];
        if (!entry || !det) return;
        entry.cfg.series = [{ name: sel.value, data: det.counts }];
        entry.inst.setOption(optionFor(entry.cfg, entry.log), true);
        const title = document.getElementById('title-' + entry.cfg.id);
        if (title) {
            let text = 'Daily report: ' + sel.value;
            if (det.incidentRate) text += ' | Incident rate: ' + det.incidentRate;
            if (det.cfr) text += ' | Case fatality ratio: ' + det.cfr;
            title.textContent = text;
        }
    });
}

window.addEventListener('resize', () => charts.forEach(c => c.inst.resize()));
`

const themeCSS = `
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: #f5f7fa;
    color: #2c3e50;
}
.container { max-width: 1400px; margin: 0 auto; padding: 20px; }
header { text-align: center; padding: 24px 0; border-bottom: 1px solid #ddd; margin-bottom: 18px; }
header h1 { font-size: 2rem; margin-bottom: 6px; }
header p { color: #666; }
.data-date { font-size: 0.9rem; margin-top: 4px; }
.tabs { display: flex; gap: 8px; margin-bottom: 18px; flex-wrap: wrap; }
.tab-btn { padding: 8px 18px; border: 1px solid #ccc; border-radius: 6px; background: #fff; cursor: pointer; font-size: 0.95rem; }
.tab-btn.active { background: #4A90D9; border-color: #4A90D9; color: #fff; }
.tab-panel { display: none; }
.tab-panel.active { display: block; }
.selector { margin-bottom: 14px; }
.selector label { margin-right: 8px; font-weight: 600; }
.selector select { padding: 6px 10px; border: 1px solid #ccc; border-radius: 4px; min-width: 220px; }
.chart-box { background: #fff; border: 1px solid #e0e0e0; border-radius: 10px; padding: 16px; margin-bottom: 20px; position: relative; }
.chart-box h3 { margin-bottom: 10px; font-size: 1.05rem; }
.scale-btn { position: absolute; top: 14px; right: 16px; padding: 4px 12px; border: 1px solid #ccc; border-radius: 4px; background: #fafafa; cursor: pointer; font-size: 0.8rem; }
.chart { width: 100%; height: 440px; }
.table-box { background: #fff; border: 1px solid #e0e0e0; border-radius: 10px; padding: 16px; margin-bottom: 20px; overflow-x: auto; }
.table-box h3 { margin-bottom: 10px; font-size: 1.05rem; }
table { width: 100%; border-collapse: collapse; font-size: 0.9rem; }
th, td { padding: 8px 12px; text-align: left; border-bottom: 1px solid #eee; white-space: nowrap; }
th { background: #f9f9f9; font-weight: 600; }
tr:hover { background: #f5f5f5; }
footer { text-align: center; padding: 24px 0; color: #888; border-top: 1px solid #ddd; margin-top: 10px; }
.note { font-size: 0.8rem; font-style: italic; margin-top: 4px; }
`
