package poolstate

import "github.com/pkg/errors"

// Only the two swap instruction variants drive pool-state updates; every
// other Raydium AMM instruction tag is parsed elsewhere in the real
// program and intentionally ignored here.
const (
	tagSwapBaseIn  = 9
	tagSwapBaseOut = 11
)

// SwapBaseIn is Raydium AMM instruction tag 9: a swap specifying the
// input amount and a minimum acceptable output.
type SwapBaseIn struct {
	AmountIn         uint64
	MinimumAmountOut uint64
}

// SwapBaseOut is tag 11: a swap specifying the desired output amount and
// a maximum acceptable input.
type SwapBaseOut struct {
	MaxAmountIn uint64
	AmountOut   uint64
}

// ErrNotASwap is returned by ParseSwapInstruction for any instruction tag
// other than SwapBaseIn/SwapBaseOut; the caller skips the instruction.
var ErrNotASwap = errors.New("poolstate: not a swap instruction")

// ParseSwapInstruction decodes instruction data against the Raydium AMM
// wire format: a single tag byte followed by two little-endian u64
// fields for both swap variants.
func ParseSwapInstruction(data []byte) (interface{}, error) {
	if len(data) < 1 {
		return nil, errors.New("poolstate: empty instruction data")
	}
	tag := data[0]
	rest := data[1:]

	switch tag {
	case tagSwapBaseIn:
		amountIn, rest, err := unpackU64(rest)
		if err != nil {
			return nil, errors.Wrap(err, "decode SwapBaseIn.amount_in")
		}
		minOut, _, err := unpackU64(rest)
		if err != nil {
			return nil, errors.Wrap(err, "decode SwapBaseIn.minimum_amount_out")
		}
		return SwapBaseIn{AmountIn: amountIn, MinimumAmountOut: minOut}, nil
	case tagSwapBaseOut:
		maxIn, rest, err := unpackU64(rest)
		if err != nil {
			return nil, errors.Wrap(err, "decode SwapBaseOut.max_amount_in")
		}
		amountOut, _, err := unpackU64(rest)
		if err != nil {
			return nil, errors.Wrap(err, "decode SwapBaseOut.amount_out")
		}
		return SwapBaseOut{MaxAmountIn: maxIn, AmountOut: amountOut}, nil
	default:
		return nil, ErrNotASwap
	}
}

func unpackU64(b []byte) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, errors.New("poolstate: short buffer for u64 field")
	}
	v := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	return v, b[8:], nil
}
