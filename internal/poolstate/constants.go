package poolstate

import "github.com/piotrostr/shreds/internal/pubkey"

// RaydiumAMMProgramID and WSOLMint are well-known, publicly documented
// Solana addresses: Raydium's v4 AMM program and the wrapped-SOL mint.
// They are not a detail left to a config file because the entire
// reducer's shape is specific to this one program.
var (
	RaydiumAMMProgramID = pubkey.MustFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	WSOLMint            = pubkey.MustFromBase58("So11111111111111111111111111111111111111112")
)

// Positional indexes into a Raydium AMM swap instruction's account list.
const (
	accountIndexAmmID     = 1
	accountIndexCoinVault = 5
	accountIndexPcVault   = 6
)

// LargeSwapThresholdSOL is the SOL-denominated (lamports / 10^9)
// swap size above which a large-swap event is emitted.
const LargeSwapThresholdSOL = 10.0
