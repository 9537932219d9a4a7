package fecset

// Metrics is a point-in-time snapshot of assembler counters, exported via
// the pipeline's Prometheus collectors.
type Metrics struct {
	DataFragments   uint64
	CodingFragments uint64
	Malformed       uint64
	Purged          uint64
	SetsHeld        int
}
