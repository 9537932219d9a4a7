// Package capture implements the `save` subcommand's datagram accumulator
// and its replay counterpart: packets are buffered in memory and, once
// the set grows past a size threshold, flushed to disk as
// snappy-compressed JSON, the same compression library kcptun applies to
// a live connection, used here instead on a flat file.
package capture

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// SizeThreshold is the accumulated-bytes point past which Recorder.Flush
// writes the snappy-compressed form instead of plain JSON.
const SizeThreshold = 8 << 20 // 8 MiB

// Recorder accumulates raw datagrams in memory until flushed.
type Recorder struct {
	mu      sync.Mutex
	packets [][]byte
	total   int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Add appends a copy of buf to the in-memory accumulator.
func (r *Recorder) Add(buf []byte) {
	cp := make([]byte, len(buf))
	copy(cp, buf)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.packets = append(r.packets, cp)
	r.total += len(cp)
}

// Len reports the number of accumulated packets.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.packets)
}

// Size reports the accumulated byte total across all packets.
func (r *Recorder) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// ShouldFlush reports whether the accumulator has exceeded SizeThreshold.
func (r *Recorder) ShouldFlush() bool {
	return r.Size() >= SizeThreshold
}

// Flush writes the accumulated packets to path as JSON, compressed with
// snappy (path gains a ".snappy" suffix) whenever the accumulator is at
// or past SizeThreshold; otherwise it writes plain JSON. The accumulator
// is cleared on success.
func (r *Recorder) Flush(path string) error {
	r.mu.Lock()
	packets := r.packets
	compress := r.total >= SizeThreshold
	r.mu.Unlock()

	if compress {
		path += ".snappy"
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create capture file %s", path)
	}
	defer f.Close()

	if compress {
		w := snappy.NewBufferedWriter(f)
		if err := json.NewEncoder(w).Encode(packets); err != nil {
			return errors.Wrap(err, "encode compressed capture")
		}
		if err := w.Close(); err != nil {
			return errors.Wrap(err, "flush compressed capture")
		}
	} else {
		if err := json.NewEncoder(f).Encode(packets); err != nil {
			return errors.Wrap(err, "encode capture")
		}
	}

	r.mu.Lock()
	r.packets = nil
	r.total = 0
	r.mu.Unlock()
	return nil
}

// Load reads a capture file written by Flush, transparently decompressing
// it if path ends in ".snappy".
func Load(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open capture file %s", path)
	}
	defer f.Close()

	var packets [][]byte
	if strings.HasSuffix(path, ".snappy") {
		r := snappy.NewReader(f)
		err = json.NewDecoder(r).Decode(&packets)
	} else {
		err = json.NewDecoder(f).Decode(&packets)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode capture file %s", path)
	}
	return packets, nil
}
