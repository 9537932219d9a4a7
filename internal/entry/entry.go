// Package entry decodes the deshredded byte stream into entries and the
// transactions they carry.
//
// The stream is a u64 little-endian entry count followed by that many
// entries serialized back-to-back, with no enveloping list header — the
// count is a separate field, not a sequence prefix the way a naive
// whole-buffer deserialization would assume.
package entry

// Entry is one batch of transactions sharing a single proof-of-history
// tick.
type Entry struct {
	NumHashes    uint64
	Hash         [32]byte
	Transactions []Transaction
}

// Decode parses a deshredded byte stream into entries.
//
//  1. If fewer than 8 bytes are available, the run was truncated but is
//     not an error: an empty, nil-error result is returned.
//  2. A count above maxEntryCount is treated as corrupt and returned as a
//     *DecodeError.
//  3. Entries are decoded one at a time; the first decode failure stops
//     the loop and returns everything decoded so far alongside a
//     *PartialDecodeError.
//
// Trailing bytes after the last entry are ignored.
func Decode(buf []byte) ([]Entry, error) {
	if len(buf) < 8 {
		return nil, nil
	}

	c := cursor{buf: buf}
	count, err := c.readU64()
	if err != nil {
		return nil, nil
	}
	if count > maxEntryCount {
		return nil, &DecodeError{Reason: "impossible entry count"}
	}

	entries := make([]Entry, 0, count)
	for i := uint64(0); i < count; i++ {
		e, err := decodeEntry(&c)
		if err != nil {
			return entries, &PartialDecodeError{Cause: err, Decoded: len(entries)}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeEntry(c *cursor) (Entry, error) {
	numHashes, err := c.readU64()
	if err != nil {
		return Entry{}, err
	}
	hash, err := c.readBytes32()
	if err != nil {
		return Entry{}, err
	}
	txCount, err := c.readU64()
	if err != nil {
		return Entry{}, err
	}
	if txCount > maxEntryCount {
		return Entry{}, errShortBuffer
	}

	txs := make([]Transaction, txCount)
	for i := range txs {
		tx, err := decodeTransaction(c)
		if err != nil {
			return Entry{}, err
		}
		txs[i] = tx
	}

	return Entry{NumHashes: numHashes, Hash: hash, Transactions: txs}, nil
}
