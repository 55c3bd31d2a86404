package mts

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by engines. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	generations       prometheus.Counter
	evaluations       prometheus.Counter
	tabuMoves         prometheus.Counter
	memoHits          prometheus.Counter
	bestEnergy        *prometheus.GaugeVec
	generationSeconds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		generations: f.NewCounter(prometheus.CounterOpts{
			Name: "labs_mts_generations_total",
			Help: "Generations completed by memetic search engines.",
		}),
		evaluations: f.NewCounter(prometheus.CounterOpts{
			Name: "labs_mts_energy_evaluations_total",
			Help: "Energy evaluations, full and incremental.",
		}),
		tabuMoves: f.NewCounter(prometheus.CounterOpts{
			Name: "labs_mts_tabu_moves_total",
			Help: "Moves performed by child tabu searches.",
		}),
		memoHits: f.NewCounter(prometheus.CounterOpts{
			Name: "labs_mts_memo_hits_total",
			Help: "Energy lookups answered by the canonical-key memo.",
		}),
		bestEnergy: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "labs_mts_best_energy",
			Help: "Best energy found so far, by sequence length.",
		}, []string{"n"}),
		generationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "labs_mts_generation_duration_seconds",
			Help:    "Wall time of one generation.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
	}
}

// observeGeneration records one completed generation.
func (m *Metrics) observeGeneration(n int, d time.Duration, evals, moves, hits int, best int) {
	if m == nil {
		return
	}
	m.generations.Inc()
	m.evaluations.Add(float64(evals))
	m.tabuMoves.Add(float64(moves))
	m.memoHits.Add(float64(hits))
	m.bestEnergy.WithLabelValues(strconv.Itoa(n)).Set(float64(best))
	m.generationSeconds.Observe(d.Seconds())
}
