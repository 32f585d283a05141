package dashboard

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/princealiomer/Google-ads/logger"
)

// Server serves the scraped data as a small read-only dashboard over the
// export files in the results directory
type Server struct {
	dir  string
	tmpl *template.Template
	log  *logger.Logger
}

// NewServer creates a dashboard server reading exports from dir
func NewServer(dir string) *Server {
	return &Server{
		dir:  dir,
		tmpl: template.Must(template.New("index").Parse(indexTemplate)),
		log:  logger.ForComponent("dashboard"),
	}
}

// Handler returns the dashboard's HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/advertisers", s.handleAdvertisers)
	mux.HandleFunc("/api/creatives", s.handleCreatives)
	return mux
}

// ListenAndServe runs the dashboard on addr until the process exits
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info().Str("addr", addr).Str("dir", s.dir).Msg("dashboard listening")
	return http.ListenAndServe(addr, s.Handler())
}

type indexData struct {
	Stats       Stats
	Advertisers []Advertiser
	Creatives   map[string][]string
	Region      string
	Verified    bool
	MinAds      int
	CSVPath     string
	Err         string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := indexData{
		Region:   r.URL.Query().Get("region"),
		Verified: r.URL.Query().Get("verified") == "true",
	}
	if raw := r.URL.Query().Get("min_ads"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			data.MinAds = n
		}
	}

	ds, err := LoadLatest(s.dir)
	if err != nil {
		data.Err = err.Error()
		s.log.Warn().Err(err).Msg("no exports to display")
	} else {
		data.Stats = ds.Stats()
		data.Advertisers = ds.Filter(data.Region, data.Verified, data.MinAds)
		data.Creatives = ds.Creatives
		data.CSVPath = ds.CSVPath
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("template render failed")
	}
}

func (s *Server) handleAdvertisers(w http.ResponseWriter, r *http.Request) {
	ds, err := LoadLatest(s.dir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, ds.Advertisers)
}

func (s *Server) handleCreatives(w http.ResponseWriter, r *http.Request) {
	ds, err := LoadLatest(s.dir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, ds.Creatives)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Ads Transparency Dashboard</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { color: #1f77b4; }
.metrics { display: flex; gap: 1rem; margin-bottom: 1.5rem; }
.metric { background: #f0f2f6; padding: 1rem 1.5rem; border-radius: .5rem; text-align: center; }
.metric .value { font-size: 1.6rem; font-weight: bold; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #ddd; padding: .4rem .6rem; text-align: left; }
th { background: #f0f2f6; }
form { margin: 1rem 0; }
.error { color: #c0392b; }
</style>
</head>
<body>
<h1>Ads Transparency Dashboard</h1>
{{if .Err}}
<p class="error">{{.Err}}</p>
{{else}}
<div class="metrics">
  <div class="metric"><div class="value">{{.Stats.Total}}</div>Advertisers</div>
  <div class="metric"><div class="value">{{.Stats.Verified}}</div>Verified</div>
  <div class="metric"><div class="value">~{{.Stats.TotalAds}}</div>Total ads</div>
  <div class="metric"><div class="value">{{.Stats.Regions}}</div>Regions</div>
  <div class="metric"><div class="value">{{.Stats.Creatives}}</div>Creative URLs</div>
</div>

<h2>Top regions</h2>
<table>
<tr><th>Region</th><th>Advertisers</th><th>Verified</th></tr>
{{range .Stats.ByRegion}}
<tr><td>{{.Region}}</td><td>{{.Count}}</td><td>{{.Verified}}</td></tr>
{{end}}
</table>

<h2>Advertisers</h2>
<form method="get">
  <input type="text" name="region" placeholder="Region" value="{{.Region}}">
  <label><input type="checkbox" name="verified" value="true" {{if .Verified}}checked{{end}}> Verified only</label>
  <input type="number" name="min_ads" placeholder="Min ads" value="{{if .MinAds}}{{.MinAds}}{{end}}">
  <button type="submit">Filter</button>
</form>
<table>
<tr><th>Query</th><th>Name</th><th>Region</th><th>Verified</th><th>Ads</th><th>Creatives</th><th>URL</th></tr>
{{range .Advertisers}}
<tr>
  <td>{{.Query}}</td>
  <td>{{.Name}}</td>
  <td>{{.Region}}</td>
  <td>{{if .Verified}}yes{{else}}no{{end}}</td>
  <td>{{if .HasAdCount}}{{.AdCount}}{{end}}</td>
  <td>{{len (index $.Creatives .URL)}}</td>
  <td><a href="{{.URL}}">{{.URL}}</a></td>
</tr>
{{end}}
</table>
<p>Source: {{.CSVPath}}</p>
{{end}}
</body>
</html>
`
