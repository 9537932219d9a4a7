package pipeline

import "sync/atomic"

// Metrics is a point-in-time snapshot of the pipeline's counters.
type Metrics struct {
	DataFragments   uint64
	CodingFragments uint64
	MalformedDrops  uint64
	SetsPurged      uint64
	SetsHeld        int
	SetsProcessed   uint64
	SetsFailed      uint64
}

// Metrics returns a snapshot combining the assembler's fragment-level
// counters with the hub's set-level outcome counters.
func (h *Hub) Metrics() Metrics {
	am := h.assembler.Metrics()
	return Metrics{
		DataFragments:   am.DataFragments,
		CodingFragments: am.CodingFragments,
		MalformedDrops:  am.Malformed,
		SetsPurged:      am.Purged,
		SetsHeld:        am.SetsHeld,
		SetsProcessed:   atomic.LoadUint64(&h.setsProcessed),
		SetsFailed:      atomic.LoadUint64(&h.setsFailed),
	}
}
