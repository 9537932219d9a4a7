package pipeline

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors wraps the Prometheus gauges and counters exported by a Hub.
// Constructed once and registered against a registry by the caller (the
// CLI entrypoint), then refreshed periodically by StartExporter.
type Collectors struct {
	dataFragments   prometheus.Gauge
	codingFragments prometheus.Gauge
	malformedDrops  prometheus.Gauge
	setsPurged      prometheus.Gauge
	setsHeld        prometheus.Gauge
	setsProcessed   prometheus.Gauge
	setsFailed      prometheus.Gauge
}

// NewCollectors builds the gauge set and registers it against reg.
func NewCollectors(reg *prometheus.Registry) *Collectors {
	c := &Collectors{
		dataFragments:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "shreds_data_fragments_total", Help: "Data fragments ingested"}),
		codingFragments: prometheus.NewGauge(prometheus.GaugeOpts{Name: "shreds_coding_fragments_total", Help: "Coding fragments ingested"}),
		malformedDrops:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "shreds_malformed_drops_total", Help: "Fragments dropped for failing wire validation"}),
		setsPurged:      prometheus.NewGauge(prometheus.GaugeOpts{Name: "shreds_fec_sets_purged_total", Help: "FEC sets evicted by the purge window"}),
		setsHeld:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "shreds_fec_sets_held", Help: "FEC sets currently held, incomplete"}),
		setsProcessed:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "shreds_fec_sets_processed_total", Help: "FEC sets successfully deshredded"}),
		setsFailed:      prometheus.NewGauge(prometheus.GaugeOpts{Name: "shreds_fec_sets_failed_total", Help: "FEC sets that failed recovery or deshredding"}),
	}
	reg.MustRegister(
		c.dataFragments,
		c.codingFragments,
		c.malformedDrops,
		c.setsPurged,
		c.setsHeld,
		c.setsProcessed,
		c.setsFailed,
	)
	return c
}

func (c *Collectors) update(m Metrics) {
	c.dataFragments.Set(float64(m.DataFragments))
	c.codingFragments.Set(float64(m.CodingFragments))
	c.malformedDrops.Set(float64(m.MalformedDrops))
	c.setsPurged.Set(float64(m.SetsPurged))
	c.setsHeld.Set(float64(m.SetsHeld))
	c.setsProcessed.Set(float64(m.SetsProcessed))
	c.setsFailed.Set(float64(m.SetsFailed))
}

// StartExporter refreshes c from h.Metrics() every interval until ctx is
// cancelled. This is the hub's metrics-tick task.
func (h *Hub) StartExporter(ctx context.Context, c *Collectors, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.update(h.Metrics())
		case <-ctx.Done():
			return
		}
	}
}
