package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	tagDispatch    *prom.CounterVec
	neutralized    prom.Counter
	renderDuration prom.Histogram
	blocks         prom.Counter
	fileResults    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the doccollect metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		tagDispatch: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "doccollect",
			Name:      "tag_dispatch_total",
			Help:      "Tag dispatches by tag name and result",
		}, []string{"tag", "result"}),
		neutralized: prom.NewCounter(prom.CounterOpts{
			Namespace: "doccollect",
			Name:      "neutralized_tags_total",
			Help:      "Custom element tags rewritten into literal text before rendering",
		}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "doccollect",
			Name:      "render_duration_seconds",
			Help:      "Duration of markdown to HTML rendering",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		blocks: prom.NewCounter(prom.CounterOpts{
			Namespace: "doccollect",
			Name:      "blocks_total",
			Help:      "Comment blocks turned into documentation records",
		}),
		fileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "doccollect",
			Name:      "file_results_total",
			Help:      "Source files processed by result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.tagDispatch, pr.neutralized, pr.renderDuration, pr.blocks, pr.fileResults)
	return pr
}

// Registry returns the registry the metrics were registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

func (p *PrometheusRecorder) IncTagDispatch(tag string, result DispatchResult) {
	if p == nil {
		return
	}
	p.tagDispatch.WithLabelValues(tag, string(result)).Inc()
}

func (p *PrometheusRecorder) IncNeutralized(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.neutralized.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBlocks(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.blocks.Add(float64(n))
}

func (p *PrometheusRecorder) IncFileResult(success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.fileResults.WithLabelValues(res).Inc()
}

// WriteTextfile writes the gathered metrics in the node_exporter textfile format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
