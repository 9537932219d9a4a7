// Package pubkey implements the 32-byte account-key type used throughout
// the pipeline, rendered and parsed the way the chain itself does: base58.
package pubkey

import (
	"encoding/json"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Size is the on-wire length of an account key.
const Size = 32

// Key is a 32-byte account/mint/program identifier.
type Key [Size]byte

// Zero is the default, all-zero key.
var Zero Key

// FromBytes copies b into a Key. b must be exactly Size bytes.
func FromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != Size {
		return k, errors.Errorf("pubkey: want %d bytes, got %d", Size, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// FromBase58 decodes a base58-encoded account key.
func FromBase58(s string) (Key, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return Key{}, errors.Wrap(err, "base58 decode")
	}
	return FromBytes(decoded)
}

// MustFromBase58 is FromBase58 but panics on error; used only for
// compile-time-known constants (program IDs, sentinel mints).
func MustFromBase58(s string) Key {
	k, err := FromBase58(s)
	if err != nil {
		panic(err)
	}
	return k
}

// String renders the key as base58, the chain's native representation.
func (k Key) String() string {
	return base58.Encode(k[:])
}

// IsZero reports whether k is the all-zero key.
func (k Key) IsZero() bool {
	return k == Zero
}

func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Key) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := FromBase58(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
