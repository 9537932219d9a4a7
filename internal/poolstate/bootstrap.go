package poolstate

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/piotrostr/shreds/internal/pubkey"
)

// balanceFetcher is the subset of rpcclient.Client the bootstrap needs;
// narrowed to an interface so tests can stub the RPC round trip.
type balanceFetcher interface {
	TokenAccountBalance(ctx context.Context, account pubkey.Key) (uint64, error)
}

// Bootstrap turns directory records into live pools, fetching each
// vault's current token balance from rpc. This is the system's only use
// of RPC, and it runs once at startup.
func Bootstrap(ctx context.Context, rpc balanceFetcher, log *logrus.Entry, records []Record) map[pubkey.Key]*Pool {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	pools := make(map[pubkey.Key]*Pool, len(records))
	for _, rec := range records {
		coinAmount, err := rpc.TokenAccountBalance(ctx, rec.BaseVault)
		if err != nil {
			log.WithError(err).WithField("amm_id", rec.ID).Warn("failed to bootstrap coin vault balance")
			continue
		}
		pcAmount, err := rpc.TokenAccountBalance(ctx, rec.QuoteVault)
		if err != nil {
			log.WithError(err).WithField("amm_id", rec.ID).Warn("failed to bootstrap pc vault balance")
			continue
		}
		pools[rec.ID] = newPool(Keys{
			AmmID:     rec.ID,
			CoinVault: rec.BaseVault,
			PcVault:   rec.QuoteVault,
			CoinMint:  rec.BaseMint,
			PcMint:    rec.QuoteMint,
		}, coinAmount, pcAmount)
	}
	return pools
}
