package deshred

import (
	"encoding/binary"
	"testing"

	"github.com/piotrostr/shreds/internal/shredwire"
)

const (
	offVariant = 0x40
	offSlot    = 0x41
	offIndex   = 0x49
	offSize    = 0x56
	offPayload = 0x58
)

func buildFragment(t *testing.T, index uint32, payload []byte) shredwire.DataFragment {
	t.Helper()
	size := offPayload + len(payload)
	buf := make([]byte, size)
	buf[offVariant] = 0x80
	binary.LittleEndian.PutUint64(buf[offSlot:], 1)
	binary.LittleEndian.PutUint32(buf[offIndex:], index)
	binary.LittleEndian.PutUint16(buf[offSize:], uint16(size))
	copy(buf[offPayload:], payload)

	v, err := shredwire.DecodeVariant(buf)
	if err != nil {
		t.Fatalf("DecodeVariant: %v", err)
	}
	return shredwire.DataFragment{Index: index, Buf: buf, Variant: v}
}

func TestDeshredConcatenatesInOrder(t *testing.T) {
	frags := []shredwire.DataFragment{
		buildFragment(t, 0, []byte("hello ")),
		buildFragment(t, 1, []byte("world")),
	}
	got, err := Deshred(frags)
	if err != nil {
		t.Fatalf("Deshred: %v", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestDeshredZeroLengthPayloadContributesNoBytes(t *testing.T) {
	frags := []shredwire.DataFragment{
		buildFragment(t, 0, []byte("a")),
		buildFragment(t, 1, nil),
		buildFragment(t, 2, []byte("b")),
	}
	got, err := Deshred(frags)
	if err != nil {
		t.Fatalf("Deshred: %v", err)
	}
	if string(got) != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
}

func TestDeshredEmptyInput(t *testing.T) {
	got, err := Deshred(nil)
	if err != nil {
		t.Fatalf("Deshred: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(got))
	}
}
