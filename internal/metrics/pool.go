// Package metrics exports component pool counters to Prometheus.
//
// PoolCollector reads a registry snapshot on every scrape, so nothing on the
// pool's hot path touches Prometheus.
package metrics

import (
	"github.com/coremud/engine/internal/core/ecs"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coremud"

// SnapshotSource is satisfied by *ecs.PoolRegistry.
type SnapshotSource interface {
	Snapshot() []ecs.PoolStats
}

// PoolCollector implements prometheus.Collector over a pool registry.
type PoolCollector struct {
	source SnapshotSource

	capacity *prometheus.Desc
	free     *prometheus.Desc
	inUse    *prometheus.Desc
	pending  *prometheus.Desc
	grows    *prometheus.Desc
	created  *prometheus.Desc
}

func NewPoolCollector(source SnapshotSource) *PoolCollector {
	labels := []string{"pool"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, labels, nil)
	}
	return &PoolCollector{
		source:   source,
		capacity: desc("capacity", "Number of slots in the pool's store."),
		free:     desc("free", "Number of free slots."),
		inUse:    desc("in_use", "Number of components handed out."),
		pending:  desc("pending", "Number of returned components awaiting reclamation."),
		grows:    desc("grows_total", "Number of times the pool's store was grown."),
		created:  desc("created_total", "Number of components allocated by the pool's factory."),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.free
	ch <- c.inUse
	ch <- c.pending
	ch <- c.grows
	ch <- c.created
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	for _, st := range c.source.Snapshot() {
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(st.Capacity), st.Name)
		ch <- prometheus.MustNewConstMetric(c.free, prometheus.GaugeValue, float64(st.Free), st.Name)
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(st.InUse), st.Name)
		ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(st.Pending), st.Name)
		ch <- prometheus.MustNewConstMetric(c.grows, prometheus.CounterValue, float64(st.Grows), st.Name)
		ch <- prometheus.MustNewConstMetric(c.created, prometheus.CounterValue, float64(st.Created), st.Name)
	}
}
