package pipeline

import (
	"context"
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/piotrostr/shreds/internal/entry"
)

const (
	offVariant         = 0x40
	offSlot            = 0x41
	offIndex           = 0x49
	offFECSetIndex     = 0x4F
	offDataFlags       = 0x55
	offDataSize        = 0x56
	offDataStart       = 0x58
	offCodingNumData   = 0x53
	offCodingNumCoding = 0x55
	offCodingPosition  = 0x57
	codingHeaderSize   = 0x59
)

func buildData(t *testing.T, slot uint64, index, fecSetIndex uint32, flags byte, payload []byte) []byte {
	t.Helper()
	size := offDataStart + len(payload)
	buf := make([]byte, size)
	buf[offVariant] = 0x80
	binary.LittleEndian.PutUint64(buf[offSlot:], slot)
	binary.LittleEndian.PutUint32(buf[offIndex:], index)
	binary.LittleEndian.PutUint32(buf[offFECSetIndex:], fecSetIndex)
	buf[offDataFlags] = flags
	binary.LittleEndian.PutUint16(buf[offDataSize:], uint16(size))
	copy(buf[offDataStart:], payload)
	return buf
}

func buildCoding(t *testing.T, slot uint64, index, fecSetIndex uint32, numData, numCoding, position uint16) []byte {
	t.Helper()
	buf := make([]byte, codingHeaderSize+8)
	buf[offVariant] = 0x40
	binary.LittleEndian.PutUint64(buf[offSlot:], slot)
	binary.LittleEndian.PutUint32(buf[offIndex:], index)
	binary.LittleEndian.PutUint32(buf[offFECSetIndex:], fecSetIndex)
	binary.LittleEndian.PutUint16(buf[offCodingNumData:], numData)
	binary.LittleEndian.PutUint16(buf[offCodingNumCoding:], numCoding)
	binary.LittleEndian.PutUint16(buf[offCodingPosition:], position)
	return buf
}

type stubConsumer struct {
	mu    sync.Mutex
	batch [][]entry.Entry
}

func (s *stubConsumer) ProcessEntries(ctx context.Context, entries []entry.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = append(s.batch, entries)
}

func (s *stubConsumer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batch)
}

// feedFullSet ingests 16 data fragments (the last carrying the
// last-in-slot flag) and 16 coding fragments declaring the counts, all
// data present so recovery's fast path applies.
func feedFullSet(t *testing.T, h *Hub, ctx context.Context, slot uint64) {
	t.Helper()
	for i := uint32(0); i < 16; i++ {
		var flags byte
		var payload []byte
		if i == 0 {
			payload = make([]byte, 8) // entry stream: count = 0
		}
		if i == 15 {
			flags = 0x80
		}
		h.ingest(ctx, buildData(t, slot, i, 0, flags, payload))
	}
	for i := uint32(0); i < 16; i++ {
		h.ingest(ctx, buildCoding(t, slot, 16+i, 0, 16, 16, uint16(i)))
	}
}

func TestPipelineSingleSetHappyPath(t *testing.T) {
	h := New(0, nil)
	consumer := &stubConsumer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.consumerLoop(ctx, consumer)

	feedFullSet(t, h, ctx, 100)

	deadline := time.Now().Add(time.Second)
	for consumer.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if consumer.count() != 1 {
		t.Fatalf("expected exactly one processed batch, got %d", consumer.count())
	}
	if m := h.Metrics(); m.SetsProcessed != 1 {
		t.Fatalf("expected SetsProcessed=1, got %d", m.SetsProcessed)
	}
}

func TestPipelineDuplicateSuppression(t *testing.T) {
	h := New(0, nil)
	consumer := &stubConsumer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.consumerLoop(ctx, consumer)

	feedFullSet(t, h, ctx, 200)
	feedFullSet(t, h, ctx, 200) // identical fragments, all duplicates

	deadline := time.Now().Add(time.Second)
	for consumer.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if m := h.Metrics(); m.SetsProcessed != 1 {
		t.Fatalf("expected SetsProcessed=1 after re-feeding duplicates, got %d", m.SetsProcessed)
	}
}

func TestPipelineMalformedDatagramCounted(t *testing.T) {
	h := New(0, nil)
	consumer := &stubConsumer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.consumerLoop(ctx, consumer)

	h.ingest(ctx, make([]byte, 12)) // undersized, dropped before classification even runs

	if m := h.Metrics(); m.MalformedDrops != 0 {
		t.Fatalf("a too-small datagram is dropped by ingest's own length guard, not counted as malformed; got %d", m.MalformedDrops)
	}

	feedFullSet(t, h, ctx, 300)

	deadline := time.Now().Add(time.Second)
	for consumer.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if m := h.Metrics(); m.SetsProcessed != 1 {
		t.Fatalf("expected the valid set to still process despite the earlier malformed datagram, got %d", m.SetsProcessed)
	}
}

func TestPipelineUnrecoverableSetStaysHeld(t *testing.T) {
	h := New(0, nil)
	consumer := &stubConsumer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.consumerLoop(ctx, consumer)

	for i := uint32(0); i < 8; i++ {
		h.ingest(ctx, buildData(t, 400, i, 0, 0, []byte{byte(i)}))
	}
	for i := uint32(0); i < 6; i++ {
		h.ingest(ctx, buildCoding(t, 400, 16+i, 0, 16, 16, uint16(i)))
	}

	time.Sleep(50 * time.Millisecond)

	if consumer.count() != 0 {
		t.Fatalf("expected no batch emitted for an under-populated set, got %d", consumer.count())
	}
	m := h.Metrics()
	if m.SetsFailed != 0 {
		t.Fatalf("a hole is not a failure, expected SetsFailed=0, got %d", m.SetsFailed)
	}
	if m.SetsHeld != 1 {
		t.Fatalf("expected the incomplete set to remain held, got %d", m.SetsHeld)
	}
}
