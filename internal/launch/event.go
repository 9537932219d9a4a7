package launch

import (
	"math/big"

	"github.com/piotrostr/shreds/internal/pubkey"
)

// Event accumulates everything observed for one detected token launch:
// the creation record (name/symbol/uri), the bonding-curve accounts, and
// the virtual reserves as mutated by any developer buys in the same or
// later transactions that reference the same mint.
type Event struct {
	Signature string `json:"signature"`

	Mint                   pubkey.Key `json:"mint"`
	BondingCurve           pubkey.Key `json:"bondingCurve"`
	AssociatedBondingCurve pubkey.Key `json:"associatedBondingCurve"`

	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`

	VirtualNativeReserve uint64 `json:"virtualNativeReserve"`
	VirtualTokenReserve  uint64 `json:"virtualTokenReserve"`
}

func newEvent(signature string, mint, bondingCurve, associatedCurve pubkey.Key) *Event {
	return &Event{
		Signature:              signature,
		Mint:                   mint,
		BondingCurve:           bondingCurve,
		AssociatedBondingCurve: associatedCurve,
		VirtualNativeReserve:   InitialVirtualNativeReserve,
		VirtualTokenReserve:    InitialVirtualTokenReserve,
	}
}

func (e *Event) applyCreate(ix CreateIx) {
	e.Name = ix.Name
	e.Symbol = ix.Symbol
	e.URI = ix.URI
}

// applySwap mutates the virtual reserves for an observed developer buy of
// ix.Amount tokens, charging the 1/101 fee on top of the constant-product
// cost and adding it to the native-side reserve. Reserve products exceed
// 64-bit range (3*10^10 * 1.073*10^15), so the cost is computed in
// math/big and narrowed back only once bounded.
func (e *Event) applySwap(ix SwapIx) {
	if ix.Amount == 0 || ix.Amount >= e.VirtualTokenReserve {
		return
	}

	nativeReserve := new(big.Int).SetUint64(e.VirtualNativeReserve)
	tokenReserve := new(big.Int).SetUint64(e.VirtualTokenReserve)
	amount := new(big.Int).SetUint64(ix.Amount)

	remaining := new(big.Int).Sub(tokenReserve, amount)
	numerator := new(big.Int).Mul(nativeReserve, amount)
	cost := ceilDiv(numerator, remaining)

	fee := ceilDiv(new(big.Int).Mul(cost, big.NewInt(DevBuyFeeNumerator)), big.NewInt(DevBuyFeeDenominator))
	totalNativeIn := new(big.Int).Add(cost, fee)

	e.VirtualNativeReserve += totalNativeIn.Uint64()
	e.VirtualTokenReserve -= ix.Amount
}

func ceilDiv(num, den *big.Int) *big.Int {
	q, r := new(big.Int), new(big.Int)
	q.DivMod(num, den, r)
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}
