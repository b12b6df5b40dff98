package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh outcomes used as the result label.
const (
	ResultReady  = "ready"
	ResultFailed = "failed"
	ResultHidden = "hidden"
	ResultStale  = "stale"
)

// Metrics holds the Prometheus collectors exported by watch mode
type Metrics struct {
	RequirementsMet    prometheus.GaugeVec
	RequirementsTotal  prometheus.GaugeVec
	PercentComplete    prometheus.GaugeVec
	TrustLevel         prometheus.GaugeVec
	RequirementCurrent prometheus.GaugeVec
	RequirementNeeded  prometheus.GaugeVec

	RefreshesTotal prometheus.CounterVec

	gatherer prometheus.Gatherer
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers the metrics on the default registry
func Initialize() *Metrics {
	once.Do(func() {
		instance = New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}

// New registers a fresh set of collectors on reg.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequirementsMet: *f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tlprogress_requirements_met",
				Help: "Number of requirements currently met",
			},
			[]string{"username"},
		),
		RequirementsTotal: *f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tlprogress_requirements_total",
				Help: "Number of requirements for the next trust level",
			},
			[]string{"username"},
		),
		PercentComplete: *f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tlprogress_percent_complete",
				Help: "Share of requirements met, rounded to a whole percent",
			},
			[]string{"username"},
		),
		TrustLevel: *f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tlprogress_trust_level",
				Help: "Current trust level",
			},
			[]string{"username"},
		),
		RequirementCurrent: *f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tlprogress_requirement_current",
				Help: "Current value of each requirement",
			},
			[]string{"username", "key"},
		),
		RequirementNeeded: *f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tlprogress_requirement_needed",
				Help: "Threshold of each requirement",
			},
			[]string{"username", "key"},
		),
		RefreshesTotal: *f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tlprogress_refreshes_total",
				Help: "Refresh cycles by result",
			},
			[]string{"result"},
		),
		gatherer: gatherer,
	}
}

// Observe records the outcome of one refresh.
func (m *Metrics) Observe(snap tracker.Snapshot, err error) {
	switch {
	case errors.Is(err, tracker.ErrStale):
		m.RefreshesTotal.WithLabelValues(ResultStale).Inc()
		return
	case err != nil || snap.State == tracker.StateFailed:
		m.RefreshesTotal.WithLabelValues(ResultFailed).Inc()
		return
	case snap.Hidden:
		m.RefreshesTotal.WithLabelValues(ResultHidden).Inc()
		m.TrustLevel.WithLabelValues(snap.Username).Set(float64(snap.Level))
		return
	}

	m.RefreshesTotal.WithLabelValues(ResultReady).Inc()
	m.TrustLevel.WithLabelValues(snap.Username).Set(float64(snap.Level))
	if snap.Report == nil {
		return
	}

	r := snap.Report
	m.RequirementsMet.WithLabelValues(snap.Username).Set(float64(r.MetCount))
	m.RequirementsTotal.WithLabelValues(snap.Username).Set(float64(r.TotalCount))
	m.PercentComplete.WithLabelValues(snap.Username).Set(float64(r.PercentComplete))

	// Keys can change when the level changes.
	m.RequirementCurrent.DeletePartialMatch(prometheus.Labels{"username": snap.Username})
	m.RequirementNeeded.DeletePartialMatch(prometheus.Labels{"username": snap.Username})
	for _, e := range r.Entries {
		m.RequirementCurrent.WithLabelValues(snap.Username, string(e.Key)).Set(e.Current)
		m.RequirementNeeded.WithLabelValues(snap.Username, string(e.Key)).Set(e.Needed)
	}
}

// Handler serves the registry this instance was created with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
