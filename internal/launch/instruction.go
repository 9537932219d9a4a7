package launch

import "github.com/pkg/errors"

// CreateIx is pump.fun's token-creation instruction: an 8-byte Anchor
// method discriminator followed by three Borsh-encoded strings.
type CreateIx struct {
	MethodID [8]byte
	Name     string
	Symbol   string
	URI      string
}

// SwapIx is pump.fun's bonding-curve buy/sell instruction: the
// discriminator followed by two little-endian u64 fields.
type SwapIx struct {
	MethodID    [8]byte
	Amount      uint64
	MaxSOLCost  uint64
}

// ErrNotRecognized means the instruction data matched neither competing
// deserialization; the caller should skip the instruction.
var ErrNotRecognized = errors.New("launch: instruction matched neither CreateIx nor SwapIx")

// ParseCreateIx attempts a Borsh decode of data as CreateIx. Borsh
// strings are a u32 little-endian length prefix followed by UTF-8 bytes;
// there is no tag byte distinguishing CreateIx from SwapIx. Bytes after
// the uri are not checked. The emitter tries ParseCreateIx first and
// falls back to ParseSwapIx only when it fails.
func ParseCreateIx(data []byte) (CreateIx, error) {
	var ix CreateIx
	if len(data) < 8 {
		return ix, errors.New("launch: instruction data shorter than method id")
	}
	copy(ix.MethodID[:], data[:8])
	rest := data[8:]

	name, rest, err := readBorshString(rest)
	if err != nil {
		return ix, errors.Wrap(err, "decode CreateIx.name")
	}
	symbol, rest, err := readBorshString(rest)
	if err != nil {
		return ix, errors.Wrap(err, "decode CreateIx.symbol")
	}
	uri, _, err := readBorshString(rest)
	if err != nil {
		return ix, errors.Wrap(err, "decode CreateIx.uri")
	}

	ix.Name, ix.Symbol, ix.URI = name, symbol, uri
	return ix, nil
}

// ParseSwapIx decodes data as SwapIx: discriminator, amount, max_sol_cost.
func ParseSwapIx(data []byte) (SwapIx, error) {
	var ix SwapIx
	if len(data) != 8+8+8 {
		return ix, errors.Errorf("launch: expected 24 bytes for SwapIx, got %d", len(data))
	}
	copy(ix.MethodID[:], data[:8])
	ix.Amount = readU64LE(data[8:16])
	ix.MaxSOLCost = readU64LE(data[16:24])
	return ix, nil
}

func readBorshString(b []byte) (string, []byte, error) {
	if len(b) < 4 {
		return "", nil, errors.New("launch: short buffer for borsh string length")
	}
	n := readU32LE(b[:4])
	b = b[4:]
	if uint64(len(b)) < uint64(n) {
		return "", nil, errors.New("launch: short buffer for borsh string body")
	}
	return string(b[:n]), b[n:], nil
}

func readU32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func readU64LE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
