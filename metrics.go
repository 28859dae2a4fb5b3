package avlmap

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus collectors for map activity. One Metrics can
// be shared by any number of maps through Config.Metrics; a nil *Metrics
// records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	rotations  *prometheus.CounterVec
	rebuilds   prometheus.Counter
}

// NewMetrics creates the collectors and, if registry is non-nil, registers them with it.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	mt := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avlmap",
			Name:      "operations_total",
			Help:      "Map operations performed, by operation",
		}, []string{"op"}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "avlmap",
			Name:      "rotations_total",
			Help:      "AVL rotations performed, by imbalance shape",
		}, []string{"shape"}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "avlmap",
			Name:      "rebuilds_total",
			Help:      "Trees flattened and rebuilt by Balance",
		}),
	}
	if registry != nil {
		registry.MustRegister(mt.operations, mt.rotations, mt.rebuilds)
	}
	return mt
}

func (mt *Metrics) op(name string) {
	if mt == nil {
		return
	}
	mt.operations.WithLabelValues(name).Inc()
}

func (mt *Metrics) rotated(shape rotation) {
	if mt == nil {
		return
	}
	mt.rotations.WithLabelValues(string(shape)).Inc()
}

func (mt *Metrics) rebuilt() {
	if mt == nil {
		return
	}
	mt.rebuilds.Inc()
}
