// Package metrics records build metrics.
//
// Components receive a Recorder through injection. NoopRecorder is the
// default and does nothing; PrometheusRecorder registers collectors on a
// registry that the preview server exposes at /metrics:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
