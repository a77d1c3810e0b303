/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics.go
Description: Search metrics for Relish. Exposes Prometheus counters and histograms for
enumeration, automaton construction and the refinement loop, plus lightweight runtime
resource snapshots attached to synthesis results.
*/

package monitoring

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	enumeratedPrograms = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relish_enumerated_programs_total",
		Help: "Programs constructed by the enumerators",
	}, []string{"enumerator"})

	prunedPrograms = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relish_pruned_programs_total",
		Help: "Programs dropped as observationally equivalent",
	})

	ftaNodes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relish_fta_nodes",
		Help:    "Number of automaton states after construction",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"stage"})

	ftaDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relish_fta_duration_seconds",
		Help:    "Duration of automaton construction and merging",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"stage"})

	cegisRounds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relish_cegis_rounds_total",
		Help: "Refinement rounds executed by the solver",
	})

	counterexamples = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relish_counterexamples_total",
		Help: "Counterexamples returned by task oracles",
	})

	sizeLimit = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relish_size_limit",
		Help: "Current automaton size limit of the active solver",
	})

	synthesisResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relish_synthesis_results_total",
		Help: "Finished synthesis runs by outcome",
	}, []string{"outcome"})

	synthesisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "relish_synthesis_duration_seconds",
		Help:    "Wall time of complete synthesis runs",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// Automaton stages
const (
	StageConstruct = "construct"
	StageMerge     = "merge"
)

// RecordEnumerated counts programs built by an enumerator
func RecordEnumerated(enumerator string, n int) {
	enumeratedPrograms.WithLabelValues(enumerator).Add(float64(n))
}

// RecordPruned counts programs dropped by observational equivalence
func RecordPruned(n int) {
	prunedPrograms.Add(float64(n))
}

// RecordAutomaton records the size and build time of one automaton
func RecordAutomaton(stage string, nodes int, d time.Duration) {
	ftaNodes.WithLabelValues(stage).Observe(float64(nodes))
	ftaDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordRound counts one refinement round
func RecordRound() {
	cegisRounds.Inc()
}

// RecordCounterexample counts one counterexample
func RecordCounterexample() {
	counterexamples.Inc()
}

// SetSizeLimit publishes the current size limit
func SetSizeLimit(limit int) {
	sizeLimit.Set(float64(limit))
}

// RecordResult records the outcome and duration of a synthesis run
func RecordResult(outcome string, d time.Duration) {
	synthesisResults.WithLabelValues(outcome).Inc()
	synthesisDuration.Observe(d.Seconds())
}

// ResourceMetrics is a point-in-time view of process resources
type ResourceMetrics struct {
	Timestamp   time.Time `json:"timestamp"`
	HeapAlloc   uint64    `json:"heap_alloc"`   // Bytes of allocated heap objects
	HeapObjects uint64    `json:"heap_objects"` // Number of allocated heap objects
	TotalAlloc  uint64    `json:"total_alloc"`  // Cumulative bytes allocated
	NumGC       uint32    `json:"num_gc"`
	GoRoutines  int       `json:"go_routines"`
}

// Snapshot captures the current resource usage
func Snapshot() ResourceMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return ResourceMetrics{
		Timestamp:   time.Now(),
		HeapAlloc:   m.HeapAlloc,
		HeapObjects: m.HeapObjects,
		TotalAlloc:  m.TotalAlloc,
		NumGC:       m.NumGC,
		GoRoutines:  runtime.NumGoroutine(),
	}
}
