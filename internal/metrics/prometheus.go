package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registerOnce sync.Once

	pagesRendered prom.Counter
	pagesSkipped  prom.Counter
	itemsFailed   *prom.CounterVec
	buildDuration prom.Histogram
}

// NewPrometheusRecorder creates a recorder and registers its collectors
// with the provided registry (the default registerer when nil).
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	r := &PrometheusRecorder{
		pagesRendered: prom.NewCounter(prom.CounterOpts{
			Name: "sitepress_pages_rendered_total",
			Help: "Pages rendered and written during builds.",
		}),
		pagesSkipped: prom.NewCounter(prom.CounterOpts{
			Name: "sitepress_pages_skipped_total",
			Help: "Pages skipped because their source was unchanged.",
		}),
		itemsFailed: prom.NewCounterVec(prom.CounterOpts{
			Name: "sitepress_items_failed_total",
			Help: "Content items that failed, partitioned by error category.",
		}, []string{"category"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Name:    "sitepress_build_duration_seconds",
			Help:    "Wall-clock duration of full build passes.",
			Buckets: prom.DefBuckets,
		}),
	}

	r.registerOnce.Do(func() {
		reg.MustRegister(r.pagesRendered, r.pagesSkipped, r.itemsFailed, r.buildDuration)
	})
	return r
}

func (r *PrometheusRecorder) IncPagesRendered() { r.pagesRendered.Inc() }
func (r *PrometheusRecorder) IncPagesSkipped()  { r.pagesSkipped.Inc() }

func (r *PrometheusRecorder) IncItemsFailed(category string) {
	r.itemsFailed.WithLabelValues(category).Inc()
}

func (r *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	r.buildDuration.Observe(d.Seconds())
}
