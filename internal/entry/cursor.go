package entry

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var errShortBuffer = errors.New("entry: buffer too short")

// cursor reads the hand-rolled binary codec transactions and entries are
// serialized with: fixed-width little-endian integers, shortvec
// (compact-u16) length-prefixed arrays, and raw byte runs.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, errShortBuffer
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) readU8() (byte, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) readBytes32() ([32]byte, error) {
	var out [32]byte
	b, err := c.take(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func (c *cursor) readBytes64() ([64]byte, error) {
	var out [64]byte
	b, err := c.take(64)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// readCompactU16 decodes Solana's shortvec length encoding: up to three
// bytes, 7 payload bits each, continuation in the high bit.
func (c *cursor) readCompactU16() (uint16, error) {
	var value uint32
	for shift := uint(0); shift < 3; shift++ {
		b, err := c.readU8()
		if err != nil {
			return 0, err
		}
		value |= uint32(b&0x7f) << (shift * 7)
		if b&0x80 == 0 {
			if value > 0xffff {
				return 0, errors.New("entry: shortvec length overflows u16")
			}
			return uint16(value), nil
		}
	}
	return 0, errors.New("entry: shortvec length encoding too long")
}

func (c *cursor) readShortVecBytes() ([]byte, error) {
	n, err := c.readCompactU16()
	if err != nil {
		return nil, err
	}
	return c.take(int(n))
}
