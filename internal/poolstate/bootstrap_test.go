package poolstate

import (
	"context"
	"testing"

	"github.com/piotrostr/shreds/internal/pubkey"
)

type stubBalances map[pubkey.Key]uint64

func (s stubBalances) TokenAccountBalance(ctx context.Context, account pubkey.Key) (uint64, error) {
	return s[account], nil
}

func TestBootstrapBuildsPoolsFromRecords(t *testing.T) {
	ammID := keyFromByte(1)
	coinVault := keyFromByte(2)
	pcVault := keyFromByte(3)

	rpc := stubBalances{
		coinVault: 500,
		pcVault:   700,
	}

	records := []Record{{ID: ammID, BaseVault: coinVault, QuoteVault: pcVault, BaseMint: keyFromByte(9), QuoteMint: WSOLMint}}
	pools := Bootstrap(context.Background(), rpc, nil, records)

	pool, ok := pools[ammID]
	if !ok {
		t.Fatalf("expected a pool keyed by amm id")
	}
	if pool.State.CoinVaultAmount != 500 || pool.State.PcVaultAmount != 700 {
		t.Fatalf("expected bootstrapped reserve amounts, got %+v", pool.State)
	}
}

type erroringBalances struct{}

func (erroringBalances) TokenAccountBalance(ctx context.Context, account pubkey.Key) (uint64, error) {
	return 0, context.DeadlineExceeded
}

func TestBootstrapSkipsRecordOnRPCError(t *testing.T) {
	records := []Record{{ID: keyFromByte(1), BaseVault: keyFromByte(2), QuoteVault: keyFromByte(3)}}
	pools := Bootstrap(context.Background(), erroringBalances{}, nil, records)
	if len(pools) != 0 {
		t.Fatalf("expected no pools when rpc fails, got %d", len(pools))
	}
}
