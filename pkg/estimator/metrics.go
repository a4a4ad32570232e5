package estimator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/the-maldridge/buildq/pkg/types"
)

var (
	buildersTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "buildq_builders_total",
		Help: "Operational builders per capability class.",
	}, []string{"class"})

	buildersFree = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "buildq_builders_free",
		Help: "Idle operational builders per capability class.",
	}, []string{"class"})
)

// observeCensus exports the current census to the metrics registry.
// Driven from the census handler so the gauges track what operators
// were last shown.
func (e *Estimator) observeCensus(snap *types.Snapshot, counts map[types.Capability]int) {
	for class, total := range counts {
		buildersTotal.WithLabelValues(class.String()).Set(float64(total))
		buildersFree.WithLabelValues(class.String()).Set(float64(e.FreeCount(snap, class)))
	}
}
