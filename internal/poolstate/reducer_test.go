package poolstate

import (
	"testing"

	"github.com/piotrostr/shreds/internal/entry"
	"github.com/piotrostr/shreds/internal/pubkey"
)

func swapInstructionData(tag byte, a, b uint64) []byte {
	buf := make([]byte, 17)
	buf[0] = tag
	putU64LE(buf[1:9], a)
	putU64LE(buf[9:17], b)
	return buf
}

func putU64LE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func keyFromByte(b byte) pubkey.Key {
	var k pubkey.Key
	k[0] = b
	return k
}

// buildSwapTx builds a single-instruction transaction targeting the
// Raydium AMM program id at account index 0, with the amm/coin-vault/pc-
// vault accounts at the positions the reducer expects.
func buildSwapTx(ammID, coinVault, pcVault pubkey.Key, data []byte) entry.Transaction {
	keys := []pubkey.Key{RaydiumAMMProgramID, ammID, {}, {}, {}, coinVault, pcVault}
	return entry.Transaction{
		Signatures: [][64]byte{{0xAB}},
		Message: entry.Message{
			AccountKeys: keys,
			Instructions: []entry.CompiledInstruction{
				{
					ProgramIDIndex: 0,
					Accounts:       []uint8{0, 1, 2, 3, 4, 5, 6},
					Data:           data,
				},
			},
		},
	}
}

func newTestPool() (*Pool, pubkey.Key, pubkey.Key, pubkey.Key) {
	ammID := keyFromByte(1)
	coinVault := keyFromByte(2)
	pcVault := keyFromByte(3)
	pool := newPool(Keys{
		AmmID:     ammID,
		CoinVault: coinVault,
		PcVault:   pcVault,
		CoinMint:  keyFromByte(9),
		PcMint:    WSOLMint,
	}, 1_000_000, 1_000_000)
	return pool, ammID, coinVault, pcVault
}

func TestReducerSwapBaseInCreditsCoinDebitsPC(t *testing.T) {
	pool, ammID, coinVault, pcVault := newTestPool()
	r := New(nil, map[pubkey.Key]*Pool{ammID: pool})

	tx := buildSwapTx(ammID, coinVault, pcVault, swapInstructionData(tagSwapBaseIn, 1000, 1))
	r.reduceTransaction(tx)

	snap, _ := r.Snapshot(ammID)
	if snap.State.CoinVaultAmount != 1_000_000+1000 {
		t.Fatalf("expected coin vault credited by amount_in to 1_001_000, got %d", snap.State.CoinVaultAmount)
	}
	if snap.State.PcVaultAmount >= 1_000_000 {
		t.Fatalf("expected pc vault debited by the computed output, got %d", snap.State.PcVaultAmount)
	}
}

func TestReducerSwapBaseOutCreditsPCDebitsCoin(t *testing.T) {
	pool, ammID, coinVault, pcVault := newTestPool()
	r := New(nil, map[pubkey.Key]*Pool{ammID: pool})

	tx := buildSwapTx(ammID, coinVault, pcVault, swapInstructionData(tagSwapBaseOut, 5000, 1000))
	r.reduceTransaction(tx)

	snap, _ := r.Snapshot(ammID)
	if snap.State.CoinVaultAmount != 1_000_000-1000 {
		t.Fatalf("expected coin vault debited by amount_out to 999_000, got %d", snap.State.CoinVaultAmount)
	}
	if snap.State.PcVaultAmount <= 1_000_000 {
		t.Fatalf("expected pc vault credited by the computed input, got %d", snap.State.PcVaultAmount)
	}
}

func TestReducerVaultMismatchSkipsUpdate(t *testing.T) {
	pool, ammID, _, _ := newTestPool()
	r := New(nil, map[pubkey.Key]*Pool{ammID: pool})

	wrongVault := keyFromByte(0xFF)
	tx := buildSwapTx(ammID, wrongVault, wrongVault, swapInstructionData(tagSwapBaseIn, 1000, 0))
	r.reduceTransaction(tx)

	snap, _ := r.Snapshot(ammID)
	if snap.State.CoinVaultAmount != 1_000_000 || snap.State.PcVaultAmount != 1_000_000 {
		t.Fatalf("expected no mutation on vault mismatch, got %+v", snap.State)
	}
}

func TestReducerLargeSwapFiresCallback(t *testing.T) {
	pool, ammID, coinVault, pcVault := newTestPool()
	pool.State.PcVaultAmount = 1_000_000_000_000
	pool.State.CoinVaultAmount = 1_000_000_000_000
	r := New(nil, map[pubkey.Key]*Pool{ammID: pool})

	var got *LargeSwapEvent
	r.OnLargeSwap(func(e LargeSwapEvent) { got = &e })

	// Base-out, pc (WSOL) side is the input: max_amount_in carries the
	// SOL-denominated quantity for this direction, 20 SOL here.
	tx := buildSwapTx(ammID, coinVault, pcVault, swapInstructionData(tagSwapBaseOut, 20_000_000_000, 999_999))
	r.reduceTransaction(tx)

	if got == nil {
		t.Fatalf("expected a large swap event")
	}
	if got.SOLAmount <= LargeSwapThresholdSOL {
		t.Fatalf("expected sol amount above threshold, got %f", got.SOLAmount)
	}
}

func TestReducerIgnoresNonSwapInstructions(t *testing.T) {
	pool, ammID, coinVault, pcVault := newTestPool()
	r := New(nil, map[pubkey.Key]*Pool{ammID: pool})

	tx := buildSwapTx(ammID, coinVault, pcVault, []byte{0, 1, 2, 3})
	r.reduceTransaction(tx)

	snap, _ := r.Snapshot(ammID)
	if snap.State.CoinVaultAmount != 1_000_000 {
		t.Fatalf("expected no mutation for an unhandled instruction tag")
	}
}
