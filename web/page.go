package web

import (
	"html/template"
	"net/http"

	"github.com/roljohntorralba/imgopt/config"
)

// indexHandler serves the single page front end.
func indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	tpl := template.Must(template.New("index").Parse(indexTemplate))
	data := map[string]interface{}{
		"Name":        config.Current.Name,
		"Version":     config.Version,
		"WebpQuality": config.Current.WebpQuality,
		"AvifQuality": config.Current.AvifQuality,
		"MaxWidth":    config.Current.MaxWidth,
		"MaxHeight":   config.Current.MaxHeight,
	}
	if err := tpl.Execute(w, data); err != nil {
		logger().Warnw("render index fail", "err", err)
	}
}

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2em auto; }
label { display: block; margin: .5em 0; }
input[type=text], input[type=number] { width: 8em; }
input[name=src_dir] { width: 28em; }
#log { border: 1px solid #ccc; padding: .5em; height: 16em; overflow-y: scroll;
       font-family: monospace; white-space: pre; margin-top: 1em; }
progress { width: 100%; }
</style>
</head>
<body>
<h1>{{.Name}} <small>{{.Version}}</small></h1>
<form id="job">
<label>Source folder <input type="text" name="src_dir" placeholder="/path/to/images"></label>
<label><input type="checkbox" name="webp" checked> WEBP quality
  <input type="number" name="webp_quality" min="1" max="100" value="{{.WebpQuality}}"></label>
<label><input type="checkbox" name="avif" checked> AVIF quality
  <input type="number" name="avif_quality" min="1" max="100" value="{{.AvifQuality}}"></label>
<label>Max width <input type="number" name="max_width" min="0" value="{{.MaxWidth}}">
  Max height <input type="number" name="max_height" min="0" value="{{.MaxHeight}}"></label>
<button type="submit">Optimize Images</button>
<button type="button" id="cancel" disabled>Cancel</button>
</form>
<progress id="bar" value="0" max="1" hidden></progress>
<div id="log"></div>
<script>
var form = document.getElementById('job');
var bar = document.getElementById('bar');
var logEl = document.getElementById('log');
var cancelBtn = document.getElementById('cancel');
var jobId = null;

function say(msg) {
	logEl.textContent += msg + '\n';
	logEl.scrollTop = logEl.scrollHeight;
}

form.addEventListener('submit', function (e) {
	e.preventDefault();
	var fd = new FormData(form);
	var formats = [];
	if (fd.get('webp')) formats.push('webp');
	if (fd.get('avif')) formats.push('avif');
	var body = new URLSearchParams();
	body.set('src_dir', fd.get('src_dir'));
	body.set('formats', formats.join(','));
	body.set('webp_quality', fd.get('webp_quality'));
	body.set('avif_quality', fd.get('avif_quality'));
	body.set('max_width', fd.get('max_width'));
	body.set('max_height', fd.get('max_height'));

	fetch('/api/jobs', {method: 'POST', body: body}).then(function (res) {
		return res.json();
	}).then(function (res) {
		if (!res.meta || !res.meta.ok) {
			say('Error: ' + (res.error ? res.error.message : 'request failed'));
			return;
		}
		jobId = res.data.id;
		cancelBtn.disabled = false;
		bar.hidden = false;
		watch(jobId);
	});
});

cancelBtn.addEventListener('click', function () {
	if (!jobId) return;
	fetch('/api/jobs/' + jobId, {method: 'DELETE'});
});

function watch(id) {
	var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
	var ws = new WebSocket(proto + '//' + location.host + '/api/jobs/' + id + '/events');
	ws.onmessage = function (e) {
		var ev = JSON.parse(e.data);
		if (ev.total > 0) {
			bar.max = ev.total;
			bar.value = ev.done;
		}
		if (ev.message) say(ev.message);
		else if (ev.kind === 'progress') say('Processed ' + ev.done + '/' + ev.total + ' images');
		if (ev.kind === 'done' || ev.kind === 'error' && !ev.file) cancelBtn.disabled = true;
	};
	ws.onclose = function () { cancelBtn.disabled = true; };
}
</script>
</body>
</html>
`
