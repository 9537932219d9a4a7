// Package launch is the launch-event emitter consumer: it watches decoded
// entries for pump.fun-style token-creation transactions and POSTs a
// structured webhook for each one observed.
package launch

import "github.com/piotrostr/shreds/internal/pubkey"

// MintAuthoritySentinel is the pump.fun bonding-curve mint authority
// account; its presence in a transaction's static account list, combined
// with the exact 18-account check, is what flags the transaction as a
// token launch.
var MintAuthoritySentinel = pubkey.MustFromBase58("TSLvdd1pWpHVjahSpsvCXUbgwsL3JAcvokwaKt1eokM")

// staticAccountCount is the exact static account-list length a pump.fun
// create/swap transaction carries; anything else is not a launch tx.
const staticAccountCount = 18

// Positional indexes of the bonding-curve accounts within a launch
// transaction's static account list.
const (
	accountIndexMint              = 2
	accountIndexBondingCurve      = 3
	accountIndexAssociatedCurve   = 4
)

// Virtual reserve constants a freshly created bonding curve starts at,
// before any developer buy is observed.
const (
	InitialVirtualNativeReserve = 30_000_000_000     // 30 SOL, in lamports
	InitialVirtualTokenReserve  = 1_073_000_000_000_000
)

// DevBuyFeeNumerator/Denominator is the 1/101 fee pump.fun deducts from a
// developer's opening buy.
const (
	DevBuyFeeNumerator   = 1
	DevBuyFeeDenominator = 101
)
