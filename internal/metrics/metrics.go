// Package metrics exposes prometheus counters for revision mutations,
// validation rejections and imports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "architrack"

// Recorder counts revision service and importer outcomes.
type Recorder struct {
	mutations    *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	imports      *prometheus.CounterVec
	importedRows *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revisions_mutated_total",
			Help:      "Revisions written, by operation.",
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revision_rejections_total",
			Help:      "Revision mutations rejected by validation, by operation and reason.",
		}, []string{"op", "reason"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "CSV imports, by outcome.",
		}, []string{"outcome"}),
		importedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Data rows seen by CSV imports, by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(r.mutations, r.rejections, r.imports, r.importedRows)
	}
	return r
}

// Mutated counts n revisions written by op.
func (r *Recorder) Mutated(op string, n int) {
	if n <= 0 {
		return
	}
	r.mutations.WithLabelValues(op).Add(float64(n))
}

// Rejected counts one rejected op.
func (r *Recorder) Rejected(op, reason string) {
	r.rejections.WithLabelValues(op, reason).Inc()
}

// Imported counts one import of rows data rows.
func (r *Recorder) Imported(rows int, accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	r.imports.WithLabelValues(outcome).Inc()
	if rows > 0 {
		r.importedRows.WithLabelValues(outcome).Add(float64(rows))
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
