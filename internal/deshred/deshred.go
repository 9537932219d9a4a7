// Package deshred concatenates a FEC set's ordered data fragments into a
// single byte stream ready for entry decoding.
package deshred

import (
	"bytes"

	"github.com/piotrostr/shreds/internal/shredwire"
)

// Deshred extracts each fragment's payload range, in index order, and
// concatenates them. A fragment with a zero-length payload (size field
// equal to the header-only size) contributes no bytes but is not an
// error.
func Deshred(fragments []shredwire.DataFragment) ([]byte, error) {
	var buf bytes.Buffer
	for _, f := range fragments {
		payload, err := shredwire.Payload(f.Buf, f.Variant)
		if err != nil {
			return nil, err
		}
		buf.Write(payload)
	}
	return buf.Bytes(), nil
}
