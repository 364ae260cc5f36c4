// Package metrics exposes facade runtime statistics as Prometheus
// metrics. A Collector reads a core.Registry on every scrape, so no
// bookkeeping happens on the invocation hot path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkwrd/facade/core"
)

// Collector implements prometheus.Collector over a facade Registry.
type Collector struct {
	registry *core.Registry

	workersLive       *prometheus.Desc
	messagesProcessed *prometheus.Desc
	messagesDropped   *prometheus.Desc
	queueDepth        *prometheus.Desc
}

// NewCollector creates a Collector for the given registry. Nil selects
// core.DefaultRegistry.
func NewCollector(registry *core.Registry) *Collector {
	if registry == nil {
		registry = core.DefaultRegistry
	}

	return &Collector{
		registry: registry,
		workersLive: prometheus.NewDesc(
			"facade_workers_live",
			"Number of active facade worker goroutines currently running.",
			nil, nil,
		),
		messagesProcessed: prometheus.NewDesc(
			"facade_messages_processed_total",
			"Messages invoked against a facade's target.",
			[]string{"facade", "name"}, nil,
		),
		messagesDropped: prometheus.NewDesc(
			"facade_messages_dropped_total",
			"Messages dropped because they arrived after stop.",
			[]string{"facade", "name"}, nil,
		),
		queueDepth: prometheus.NewDesc(
			"facade_queue_depth",
			"Messages currently waiting in a facade's queue.",
			[]string{"facade", "name"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.workersLive
	ch <- c.messagesProcessed
	ch <- c.messagesDropped
	ch <- c.queueDepth
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.registry.Stats()

	ch <- prometheus.MustNewConstMetric(
		c.workersLive, prometheus.GaugeValue, float64(len(stats)))

	for _, s := range stats {
		ch <- prometheus.MustNewConstMetric(
			c.messagesProcessed, prometheus.CounterValue,
			float64(s.MessagesProcessed), s.ID, s.Name)
		ch <- prometheus.MustNewConstMetric(
			c.messagesDropped, prometheus.CounterValue,
			float64(s.MessagesDropped), s.ID, s.Name)
		ch <- prometheus.MustNewConstMetric(
			c.queueDepth, prometheus.GaugeValue,
			float64(s.QueueLen), s.ID, s.Name)
	}
}
