// Package fecset buckets shred fragments into FEC sets and reconstructs
// missing ones with Reed-Solomon erasure coding.
package fecset

import "github.com/piotrostr/shreds/internal/shredwire"

// Key identifies a FEC set by (slot, fec_set_index).
type Key struct {
	Slot        uint64
	FECSetIndex uint32
}

// Set is the unit of reconstruction: all fragments observed so far for one
// (slot, fec_set_index), bucketed by their zero-based position within the
// set so they line up directly with Reed-Solomon shard indices.
//
// Positions are derived once, at ingest time:
//   - a data fragment's position is (shred index - fec_set_index);
//   - a coding fragment's position is the "position" field from its own
//     coding header, which the wire format already encodes as a
//     zero-based index within the coding group.
type Set struct {
	Data   map[uint32][]byte
	Coding map[uint32][]byte

	// NumData/NumCoding are set once, from the first coding fragment seen,
	// and never change afterward.
	NumData   uint16
	NumCoding uint16
	countsSet bool

	IsLastInSlot bool
	Processed    bool
}

func newSet() *Set {
	return &Set{
		Data:   make(map[uint32][]byte),
		Coding: make(map[uint32][]byte),
	}
}

// CountsKnown reports whether NumData/NumCoding have been populated from a
// coding fragment yet. Kept exported for tests.
func (s *Set) CountsKnown() bool {
	return s.countsSet
}

// setCounts records the expected counts the first time they become known;
// subsequent calls are no-ops, per the "never change" invariant.
func (s *Set) setCounts(hdr shredwire.CodingHeader) {
	if s.countsSet {
		return
	}
	s.NumData = hdr.NumData
	s.NumCoding = hdr.NumCoding
	s.countsSet = true
}

// Complete reports whether this set has enough fragments to reconstruct:
// Reed-Solomon only needs any NumData shards out of the NumData+NumCoding
// total, whether they arrived as data or as coding fragments.
func (s *Set) Complete() bool {
	if !s.countsSet {
		return false
	}
	return len(s.Data)+len(s.Coding) >= int(s.NumData)
}
