package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler returns an http.Handler that serves the metrics gathered by reg.
func HTTPHandler(reg prom.Gatherer) http.Handler {
	if reg == nil {
		reg = prom.DefaultGatherer
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
