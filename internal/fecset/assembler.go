package fecset

import (
	"sync"

	"github.com/piotrostr/shreds/internal/shredwire"
)

// DefaultPurgeSlotWindow bounds how far behind the highest slot seen an
// incomplete set can sit before it is evicted, so sustained fragment loss
// can't grow the set map without bound.
const DefaultPurgeSlotWindow = 512

// Outcome reports what happened to a single Ingest call.
type Outcome struct {
	// Dropped is set when the fragment was silently discarded (too
	// small, duplicate, or malformed) and carries the reason.
	Dropped    bool
	DropReason string

	// Ready is set when the owning set just became complete and should
	// be handed to Recover. Key names the owning set whenever the
	// fragment was not dropped.
	Ready bool
	Key   Key
}

// Assembler buckets fragments by (slot, fec_set_index), deduplicates by
// fragment identity, and signals completeness. The fec_sets map and the
// ingress dedup set are only ever touched while holding mu.
type Assembler struct {
	mu sync.Mutex

	sets map[Key]*Set
	seen map[shredwire.ID]struct{}

	highestSlot uint64
	purgeWindow uint64

	metrics Metrics
}

// New creates an Assembler with the given purge window (in slots). A
// window of 0 disables purging.
func New(purgeWindow uint64) *Assembler {
	return &Assembler{
		sets:        make(map[Key]*Set),
		seen:        make(map[shredwire.ID]struct{}),
		purgeWindow: purgeWindow,
	}
}

// Ingest classifies, deduplicates, and buckets a raw fragment, returning
// whether it was dropped or completed its FEC set.
func (a *Assembler) Ingest(buf []byte) Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(buf) < 0x58 {
		return Outcome{Dropped: true, DropReason: "too small"}
	}

	c, err := shredwire.Classify(buf)
	if err != nil {
		a.metrics.Malformed++
		return Outcome{Dropped: true, DropReason: err.Error()}
	}

	if _, dup := a.seen[c.ID]; dup {
		return Outcome{Dropped: true, DropReason: "duplicate"}
	}
	a.seen[c.ID] = struct{}{}

	if c.ID.Slot > a.highestSlot {
		a.highestSlot = c.ID.Slot
		a.purgeLocked()
	}

	key := Key{Slot: c.ID.Slot, FECSetIndex: c.FECSetIndex}
	set, ok := a.sets[key]
	if !ok {
		set = newSet()
		a.sets[key] = set
	}

	if c.ID.IsData {
		position := c.ID.Index - c.FECSetIndex
		set.Data[position] = buf
		a.metrics.DataFragments++
		set.IsLastInSlot = set.IsLastInSlot || c.DataFlags.LastInSlot
	} else {
		set.Coding[uint32(c.Coding.Position)] = buf
		a.metrics.CodingFragments++
		set.setCounts(c.Coding)
	}

	if set.Processed {
		// A duplicate fragment arriving for an already-processed set
		// (possible if the dedup entry predates a purge) is a no-op.
		return Outcome{Key: key}
	}

	if set.Complete() {
		return Outcome{Ready: true, Key: key}
	}
	return Outcome{Key: key}
}

// Take removes and returns the set for key, marking it processed. Returns
// nil if the set is missing or was already processed.
func (a *Assembler) Take(key Key) *Set {
	a.mu.Lock()
	defer a.mu.Unlock()

	set, ok := a.sets[key]
	if !ok || set.Processed {
		return nil
	}
	set.Processed = true
	delete(a.sets, key)
	return set
}

// MarkFailed removes a set that failed reconstruction without emitting a
// successful-processing event. It only deletes the set from the map; it
// does not set Processed.
func (a *Assembler) MarkFailed(key Key) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sets, key)
}

// purgeLocked evicts sets whose slot is more than purgeWindow behind the
// highest slot seen so far. Caller must hold mu.
func (a *Assembler) purgeLocked() {
	if a.purgeWindow == 0 || a.highestSlot < a.purgeWindow {
		return
	}
	cutoff := a.highestSlot - a.purgeWindow
	for key := range a.sets {
		if key.Slot < cutoff {
			delete(a.sets, key)
			a.metrics.Purged++
		}
	}
}

// Metrics returns a snapshot of assembler-level counters.
func (a *Assembler) Metrics() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	m := a.metrics
	m.SetsHeld = len(a.sets)
	return m
}
