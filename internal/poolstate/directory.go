package poolstate

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/piotrostr/shreds/internal/pubkey"
)

// Record is one pool entry from the directory's "unOfficial" array, using
// the field names Raydium's own liquidity-pool JSON export carries.
type Record struct {
	ID         pubkey.Key `json:"id"`
	BaseMint   pubkey.Key `json:"baseMint"`
	QuoteMint  pubkey.Key `json:"quoteMint"`
	BaseVault  pubkey.Key `json:"baseVault"`
	QuoteVault pubkey.Key `json:"quoteVault"`
}

type directoryFile struct {
	UnOfficial []Record `json:"unOfficial"`
}

// LoadDirectory reads the pool directory JSON file at path and returns the
// records in its unOfficial array whose base or quote mint is in mints.
func LoadDirectory(path string, mints []pubkey.Key) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open pool directory %s", path)
	}
	defer f.Close()
	return filterDirectory(f, mints)
}

func filterDirectory(r io.Reader, mints []pubkey.Key) ([]Record, error) {
	var file directoryFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode pool directory")
	}

	interest := make(map[pubkey.Key]struct{}, len(mints))
	for _, m := range mints {
		interest[m] = struct{}{}
	}

	var out []Record
	for _, rec := range file.UnOfficial {
		_, base := interest[rec.BaseMint]
		_, quote := interest[rec.QuoteMint]
		if base || quote {
			out = append(out, rec)
		}
	}
	return out, nil
}
