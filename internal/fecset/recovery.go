package fecset

import (
	"github.com/klauspost/reedsolomon"
	"github.com/pkg/errors"

	"github.com/piotrostr/shreds/internal/shredwire"
)

// Unrecoverable is returned when a set has too many fragments missing for
// Reed-Solomon to rebuild the rest.
type Unrecoverable struct {
	Key       Key
	NumData   uint16
	NumCoding uint16
	Have      int
}

func (e *Unrecoverable) Error() string {
	return errors.Errorf("fec set %+v unrecoverable: have %d of %d data + %d coding shards",
		e.Key, e.Have, e.NumData, e.NumCoding).Error()
}

// Recover returns the ordered data fragments for a completed set, running
// Reed-Solomon reconstruction only if data fragments are missing.
func Recover(key Key, set *Set) ([]shredwire.DataFragment, error) {
	if !set.CountsKnown() {
		return nil, errors.Errorf("fec set %+v: coding header never seen, counts unknown", key)
	}

	if len(set.Data) >= int(set.NumData) {
		return orderedFragments(key, set)
	}

	have := len(set.Data) + len(set.Coding)
	if have < int(set.NumData) {
		return nil, &Unrecoverable{Key: key, NumData: set.NumData, NumCoding: set.NumCoding, Have: have}
	}

	total := int(set.NumData) + int(set.NumCoding)
	shards := make([][]byte, total)
	maxLen := 0

	for pos, buf := range set.Data {
		if int(pos) >= total {
			continue
		}
		shards[pos] = buf
		if len(buf) > maxLen {
			maxLen = len(buf)
		}
	}
	for pos, buf := range set.Coding {
		idx := int(pos) + int(set.NumData)
		if idx >= total {
			continue
		}
		shards[idx] = buf
		if len(buf) > maxLen {
			maxLen = len(buf)
		}
	}

	// Reed-Solomon requires equal-length shards; pad present shards to the
	// longest one seen and leave absent shards nil for Reconstruct to fill.
	for i, s := range shards {
		if s == nil {
			continue
		}
		if len(s) < maxLen {
			padded := make([]byte, maxLen)
			copy(padded, s)
			shards[i] = padded
		}
	}

	enc, err := reedsolomon.New(int(set.NumData), int(set.NumCoding))
	if err != nil {
		return nil, errors.Wrap(err, "construct reed-solomon codec")
	}
	if err := enc.Reconstruct(shards); err != nil {
		return nil, errors.Wrapf(err, "reconstruct fec set %+v", key)
	}

	for pos := uint32(0); pos < uint32(set.NumData); pos++ {
		if _, ok := set.Data[pos]; !ok {
			set.Data[pos] = shards[pos]
		}
	}

	return orderedFragments(key, set)
}

// orderedFragments reads each data fragment's variant back out (a
// reconstructed shard still carries its original wire header, including
// the on-wire size field that trims off reconstruction padding) and
// returns them sorted by absolute index.
func orderedFragments(key Key, set *Set) ([]shredwire.DataFragment, error) {
	out := make([]shredwire.DataFragment, 0, len(set.Data))
	for pos, buf := range set.Data {
		v, err := shredwire.DecodeVariant(buf)
		if err != nil {
			return nil, errors.Wrapf(err, "fec set %+v: decoding reconstructed shard at position %d", key, pos)
		}
		out = append(out, shredwire.DataFragment{
			Index:   key.FECSetIndex + pos,
			Buf:     buf,
			Variant: v,
		})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Index > out[j].Index; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}
