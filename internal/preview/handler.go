package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/metrics"
)

// StatusPath serves the state of the latest rebuild.
const StatusPath = "/_status"

// MetricsPath serves Prometheus metrics.
const MetricsPath = "/metrics"

// SiteHandler serves the files below dir. A request for a path that does
// not exist is answered with the matching .html page when there is one, so
// /about serves about.html.
func SiteHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)
		if alt, ok := htmlFallback(dir, clean); ok {
			slog.Debug("Serving page for extension-less path", slog.String("path", clean), slog.String("page", alt))
			r2 := r.Clone(r.Context())
			r2.URL.Path = alt
			files.ServeHTTP(w, r2)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func htmlFallback(dir, urlPath string) (string, bool) {
	if urlPath == "/" || strings.HasSuffix(urlPath, "/") || path.Ext(urlPath) != "" {
		return "", false
	}
	file := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(urlPath, "/")))
	if _, err := os.Stat(file); err == nil {
		return "", false
	}
	if fi, err := os.Stat(file + ".html"); err == nil && !fi.IsDir() {
		return urlPath + ".html", true
	}
	return "", false
}

func statusHandler(status *buildStatus, adapter *errors.HTTPErrorAdapter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := status.snapshot()
		if err != nil {
			adapter.WriteErrorResponse(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	})
}

func newMux(siteDir string, status *buildStatus, gatherer prom.Gatherer, adapter *errors.HTTPErrorAdapter) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(StatusPath, statusHandler(status, adapter))
	if gatherer != nil {
		mux.Handle(MetricsPath, metrics.HTTPHandler(gatherer))
	}
	mux.Handle("/", SiteHandler(siteDir))
	return mux
}
