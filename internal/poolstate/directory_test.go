package poolstate

import (
	"strings"
	"testing"

	"github.com/piotrostr/shreds/internal/pubkey"
)

const sampleDirectory = `{
  "official": [],
  "unOfficial": [
    {
      "id": "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
      "baseMint": "3S8qX1MsMqRbiwKg2cQyx7nis1oHMgaCuc9c4VfvVdPN",
      "quoteMint": "So11111111111111111111111111111111111111112",
      "baseVault": "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
      "quoteVault": "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
    },
    {
      "id": "So11111111111111111111111111111111111111112",
      "baseMint": "So11111111111111111111111111111111111111112",
      "quoteMint": "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
      "baseVault": "So11111111111111111111111111111111111111112",
      "quoteVault": "So11111111111111111111111111111111111111112"
    },
    {
      "id": "3S8qX1MsMqRbiwKg2cQyx7nis1oHMgaCuc9c4VfvVdPN",
      "baseMint": "3S8qX1MsMqRbiwKg2cQyx7nis1oHMgaCuc9c4VfvVdPN",
      "quoteMint": "3S8qX1MsMqRbiwKg2cQyx7nis1oHMgaCuc9c4VfvVdPN",
      "baseVault": "3S8qX1MsMqRbiwKg2cQyx7nis1oHMgaCuc9c4VfvVdPN",
      "quoteVault": "3S8qX1MsMqRbiwKg2cQyx7nis1oHMgaCuc9c4VfvVdPN"
    }
  ]
}`

func TestFilterDirectoryKeepsOnlyMintsOfInterest(t *testing.T) {
	mint := pubkey.MustFromBase58("3S8qX1MsMqRbiwKg2cQyx7nis1oHMgaCuc9c4VfvVdPN")

	records, err := filterDirectory(strings.NewReader(sampleDirectory), []pubkey.Key{mint})
	if err != nil {
		t.Fatalf("filterDirectory: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 matching records (base or quote mint), got %d", len(records))
	}
}

func TestFilterDirectoryEmptyMintsYieldsNoRecords(t *testing.T) {
	records, err := filterDirectory(strings.NewReader(sampleDirectory), nil)
	if err != nil {
		t.Fatalf("filterDirectory: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records with an empty mint filter, got %d", len(records))
	}
}

func TestFilterDirectoryRejectsMalformedJSON(t *testing.T) {
	_, err := filterDirectory(strings.NewReader("not json"), nil)
	if err == nil {
		t.Fatalf("expected an error for malformed directory JSON")
	}
}
