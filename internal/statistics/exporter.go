package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "pifan"
)

// Register adds the given collector to the registerer, use prometheus.DefaultRegisterer
// to expose it through promhttp.Handler()
func Register(registerer prometheus.Registerer, collector prometheus.Collector) {
	registerer.MustRegister(collector)
}
