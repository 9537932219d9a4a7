// Package poolstate is the pool-state reducer consumer: it bootstraps a
// directory of known Raydium AMM pools, then mutates each pool's reserve
// amounts in place as swap instructions stream past in decoded entries.
package poolstate

import (
	"sync"

	"github.com/piotrostr/shreds/internal/pubkey"
)

// DefaultSwapFeeNumerator and DefaultSwapFeeDenominator are Raydium AMM's
// standard swap fee, 0.25%, used when a pool's own fee fields were not
// available from the directory.
const (
	DefaultSwapFeeNumerator   = 25
	DefaultSwapFeeDenominator = 10000
)

// Keys identifies a pool's fixed accounts, checked against the positional
// accounts of every swap instruction that claims to target it.
type Keys struct {
	AmmID     pubkey.Key
	CoinVault pubkey.Key
	PcVault   pubkey.Key
	CoinMint  pubkey.Key
	PcMint    pubkey.Key
}

// State is the mutable half of a pool: vault reserves and fee schedule.
type State struct {
	CoinVaultAmount    uint64
	PcVaultAmount      uint64
	SwapFeeNumerator   uint64
	SwapFeeDenominator uint64
}

// Pool pairs a pool's fixed keys with its mutable reserve state behind its
// own lock, so the reducer never blocks on any pool but the one a given
// transaction touches.
type Pool struct {
	mu    sync.Mutex
	Keys  Keys
	State State
}

func newPool(keys Keys, coinAmount, pcAmount uint64) *Pool {
	return &Pool{
		Keys: keys,
		State: State{
			CoinVaultAmount:    coinAmount,
			PcVaultAmount:      pcAmount,
			SwapFeeNumerator:   DefaultSwapFeeNumerator,
			SwapFeeDenominator: DefaultSwapFeeDenominator,
		},
	}
}

// Snapshot is a point-in-time copy of a pool's reserves, safe to read
// without holding the pool's lock.
type Snapshot struct {
	Keys  Keys
	State State
}

func (p *Pool) snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{Keys: p.Keys, State: p.State}
}
