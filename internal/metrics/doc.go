// Package metrics provides observability hooks for doccollect.
//
// Components receive a Recorder through functional options and default to
// NoopRecorder, so metrics collection never requires nil checks at call sites:
//
//	reg := prometheus.NewRegistry()
//	registry := tags.NewStandardRegistry(tags.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The CLI activates the Prometheus recorder only when a textfile export path is
// configured, and writes the gathered metrics with WriteTextfile after a run.
package metrics
