package poolstate

import (
	"context"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"github.com/piotrostr/shreds/internal/entry"
	"github.com/piotrostr/shreds/internal/pubkey"
)

// SwapDirection names which side of the pool is being given up, derived
// purely from the parsed instruction variant and never from which vault
// happened to match the cross-check first.
type SwapDirection int

const (
	Coin2PC SwapDirection = iota
	PC2Coin
)

func (d SwapDirection) String() string {
	if d == Coin2PC {
		return "Coin2PC"
	}
	return "PC2Coin"
}

// LargeSwapEvent is emitted whenever a processed swap's SOL-denominated
// size exceeds LargeSwapThresholdSOL.
type LargeSwapEvent struct {
	Signature           string
	AmmID                pubkey.Key
	CoinMint, PcMint     pubkey.Key
	Direction            SwapDirection
	AmountSpecified      uint64
	OtherAmountThreshold uint64
	SOLAmount            float64
	PriceBefore          float64
	PriceAfter           float64
}

// Reducer mutates a directory of known pools in place as swap
// instructions stream past in decoded entries; it implements
// pipeline.Consumer.
type Reducer struct {
	log *logrus.Entry

	mu    sync.RWMutex
	pools map[pubkey.Key]*Pool

	onLargeSwap func(LargeSwapEvent)
}

// New builds a Reducer over an already-bootstrapped set of pools, keyed
// by amm id.
func New(log *logrus.Entry, pools map[pubkey.Key]*Pool) *Reducer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Reducer{log: log, pools: pools}
}

// OnLargeSwap registers a callback invoked synchronously whenever a swap
// exceeds the large-swap threshold; used by tests and by pump-mode-style
// forwarding to an external sink. Optional.
func (r *Reducer) OnLargeSwap(fn func(LargeSwapEvent)) { r.onLargeSwap = fn }

// Snapshot returns a copy of the named pool's state, or ok=false if the
// reducer holds no pool under that amm id.
func (r *Reducer) Snapshot(ammID pubkey.Key) (Snapshot, bool) {
	r.mu.RLock()
	pool, ok := r.pools[ammID]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}
	return pool.snapshot(), true
}

// ProcessEntries walks every transaction in every entry, reducing each
// Raydium AMM swap instruction into the matching pool's state.
func (r *Reducer) ProcessEntries(ctx context.Context, entries []entry.Entry) {
	for _, e := range entries {
		for _, tx := range e.Transactions {
			r.reduceTransaction(tx)
		}
	}
}

func (r *Reducer) reduceTransaction(tx entry.Transaction) {
	keys := tx.Message.StaticAccountKeys()
	var signature string
	if len(tx.Signatures) > 0 {
		signature = signatureString(tx.Signatures[0])
	}

	for _, ix := range tx.Message.Instructions {
		if int(ix.ProgramIDIndex) >= len(keys) {
			continue
		}
		if keys[ix.ProgramIDIndex] != RaydiumAMMProgramID {
			continue
		}

		parsed, err := ParseSwapInstruction(ix.Data)
		if err != nil {
			if err != ErrNotASwap {
				r.log.WithError(err).Warn("failed to parse raydium amm instruction")
			}
			continue
		}

		ammID, ok1 := accountAt(keys, ix.Accounts, accountIndexAmmID)
		coinVault, ok2 := accountAt(keys, ix.Accounts, accountIndexCoinVault)
		pcVault, ok3 := accountAt(keys, ix.Accounts, accountIndexPcVault)
		if !ok1 || !ok2 || !ok3 {
			r.log.WithField("signature", signature).Warn("failed to get account keys for raydium amm instruction")
			continue
		}

		r.applySwap(signature, ammID, coinVault, pcVault, parsed)
	}
}

func accountAt(keys []pubkey.Key, accounts []uint8, index int) (pubkey.Key, bool) {
	if index >= len(accounts) {
		return pubkey.Key{}, false
	}
	accIdx := accounts[index]
	if int(accIdx) >= len(keys) {
		return pubkey.Key{}, false
	}
	return keys[accIdx], true
}

func (r *Reducer) applySwap(signature string, ammID, coinVault, pcVault pubkey.Key, parsed interface{}) {
	r.mu.RLock()
	pool, ok := r.pools[ammID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	pool.mu.Lock()
	defer pool.mu.Unlock()

	if pool.Keys.CoinVault != coinVault || pool.Keys.PcVault != pcVault {
		r.log.WithFields(logrus.Fields{
			"amm_id":      ammID,
			"coin_vault":  coinVault,
			"pc_vault":    pcVault,
			"want_coin":   pool.Keys.CoinVault,
			"want_pc":     pool.Keys.PcVault,
		}).Error("vault mismatch, skipping instruction")
		return
	}

	var (
		direction            SwapDirection
		amountSpecified      uint64
		otherAmountThreshold uint64
		isSwapBaseIn         bool
	)

	switch v := parsed.(type) {
	case SwapBaseIn:
		isSwapBaseIn = true
		direction = Coin2PC
		amountSpecified = v.AmountIn
		otherAmountThreshold = v.MinimumAmountOut
	case SwapBaseOut:
		isSwapBaseIn = false
		direction = PC2Coin
		amountSpecified = v.MaxAmountIn
		otherAmountThreshold = v.AmountOut
	default:
		return
	}

	st := pool.State
	priceBefore := price(st)

	var newPC, newCoin uint64
	if isSwapBaseIn {
		// Coin is the side being given up: credit coin by the specified
		// input, debit pc by the fee-adjusted output.
		out := swapOutGivenIn(st.CoinVaultAmount, st.PcVaultAmount, st.SwapFeeNumerator, st.SwapFeeDenominator, amountSpecified)
		newCoin = saturatingAdd(st.CoinVaultAmount, amountSpecified)
		newPC = saturatingSub(st.PcVaultAmount, out)
	} else {
		// Pc is the side being given up: credit pc by the fee-adjusted
		// input required to buy the exact specified coin output.
		in := swapInGivenOut(st.PcVaultAmount, st.CoinVaultAmount, st.SwapFeeNumerator, st.SwapFeeDenominator, otherAmountThreshold)
		newPC = saturatingAdd(st.PcVaultAmount, in)
		newCoin = saturatingSub(st.CoinVaultAmount, otherAmountThreshold)
	}

	solIsCoin := pool.Keys.CoinMint == WSOLMint
	solIsPC := pool.Keys.PcMint == WSOLMint

	var lamports uint64
	switch {
	case solIsCoin && isSwapBaseIn:
		lamports = amountSpecified
	case solIsCoin && !isSwapBaseIn:
		lamports = otherAmountThreshold
	case solIsPC && isSwapBaseIn:
		lamports = otherAmountThreshold
	case solIsPC && !isSwapBaseIn:
		lamports = amountSpecified
	}
	solAmount := float64(lamports) / 1e9

	pool.State.PcVaultAmount = newPC
	pool.State.CoinVaultAmount = newCoin

	priceAfter := price(pool.State)

	if solAmount > LargeSwapThresholdSOL {
		event := LargeSwapEvent{
			Signature:            signature,
			AmmID:                 ammID,
			CoinMint:              pool.Keys.CoinMint,
			PcMint:                pool.Keys.PcMint,
			Direction:             direction,
			AmountSpecified:       amountSpecified,
			OtherAmountThreshold:  otherAmountThreshold,
			SOLAmount:             solAmount,
			PriceBefore:           priceBefore,
			PriceAfter:            priceAfter,
		}
		r.log.WithFields(logrus.Fields{
			"event":     "large_swap",
			"signature": signature,
			"sol":       solAmount,
			"amm_id":    ammID,
		}).Info("large swap observed")
		if r.onLargeSwap != nil {
			r.onLargeSwap(event)
		}
	}
}

// price is the pc/coin ratio; both vaults share the same implicit raw
// (pre-decimal) unit so no decimals adjustment is applied here, matching
// the reducer's raw-reserve bookkeeping.
func price(st State) float64 {
	if st.CoinVaultAmount == 0 {
		return 0
	}
	return float64(st.PcVaultAmount) / float64(st.CoinVaultAmount)
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

func signatureString(sig [64]byte) string {
	return base58.Encode(sig[:])
}
