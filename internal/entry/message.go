package entry

import "github.com/piotrostr/shreds/internal/pubkey"

// versionedMessagePrefix marks a versioned (v0+) message; legacy messages
// begin directly with the header byte, whose value never sets this bit
// since num_required_signatures is bounded well under 0x80 in practice —
// this mirrors solana-sdk's own framing and is not re-validated here.
const versionedMessagePrefix = 0x80

// MessageHeader carries the signer/writability partition of the account
// list.
type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

// CompiledInstruction references accounts and a program by index into the
// owning message's static account list.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	Accounts       []uint8
	Data           []byte
}

// AddressTableLookup is carried on v0 messages but left unresolved here:
// this pipeline has no ledger to resolve looked-up accounts against, and
// StaticAccountKeys intentionally excludes them, matching solana-sdk's own
// method of the same name.
type AddressTableLookup struct {
	AccountKey      pubkey.Key
	WritableIndexes []uint8
	ReadonlyIndexes []uint8
}

// Message is a decoded transaction message, legacy or v0.
type Message struct {
	IsVersioned bool
	Version     uint8

	Header              MessageHeader
	AccountKeys         []pubkey.Key
	RecentBlockhash     [32]byte
	Instructions        []CompiledInstruction
	AddressTableLookups []AddressTableLookup
}

// StaticAccountKeys returns the message's directly-listed account keys,
// excluding any accounts resolved through address table lookups.
func (m Message) StaticAccountKeys() []pubkey.Key {
	return m.AccountKeys
}

// ContainsKey reports whether key appears among the static account keys.
func (m Message) ContainsKey(key pubkey.Key) bool {
	for _, k := range m.AccountKeys {
		if k == key {
			return true
		}
	}
	return false
}

func decodeMessage(c *cursor) (Message, error) {
	first, err := c.readU8()
	if err != nil {
		return Message{}, err
	}

	var m Message
	if first&versionedMessagePrefix != 0 {
		m.IsVersioned = true
		m.Version = first &^ versionedMessagePrefix
		hdr, err := decodeMessageHeader(c)
		if err != nil {
			return Message{}, err
		}
		m.Header = hdr
	} else {
		// The byte just read is num_required_signatures for a legacy
		// message; the header has no separate leading tag.
		roSigned, err := c.readU8()
		if err != nil {
			return Message{}, err
		}
		roUnsigned, err := c.readU8()
		if err != nil {
			return Message{}, err
		}
		m.Header = MessageHeader{
			NumRequiredSignatures:       first,
			NumReadonlySignedAccounts:   roSigned,
			NumReadonlyUnsignedAccounts: roUnsigned,
		}
	}

	keys, err := decodeAccountKeys(c)
	if err != nil {
		return Message{}, err
	}
	m.AccountKeys = keys

	blockhash, err := c.readBytes32()
	if err != nil {
		return Message{}, err
	}
	m.RecentBlockhash = blockhash

	ixs, err := decodeInstructions(c)
	if err != nil {
		return Message{}, err
	}
	m.Instructions = ixs

	if m.IsVersioned {
		lookups, err := decodeAddressTableLookups(c)
		if err != nil {
			return Message{}, err
		}
		m.AddressTableLookups = lookups
	}

	return m, nil
}

func decodeMessageHeader(c *cursor) (MessageHeader, error) {
	reqSigs, err := c.readU8()
	if err != nil {
		return MessageHeader{}, err
	}
	roSigned, err := c.readU8()
	if err != nil {
		return MessageHeader{}, err
	}
	roUnsigned, err := c.readU8()
	if err != nil {
		return MessageHeader{}, err
	}
	return MessageHeader{reqSigs, roSigned, roUnsigned}, nil
}

func decodeAccountKeys(c *cursor) ([]pubkey.Key, error) {
	n, err := c.readCompactU16()
	if err != nil {
		return nil, err
	}
	keys := make([]pubkey.Key, n)
	for i := range keys {
		raw, err := c.readBytes32()
		if err != nil {
			return nil, err
		}
		keys[i], err = pubkey.FromBytes(raw[:])
		if err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func decodeInstructions(c *cursor) ([]CompiledInstruction, error) {
	n, err := c.readCompactU16()
	if err != nil {
		return nil, err
	}
	out := make([]CompiledInstruction, n)
	for i := range out {
		progIdx, err := c.readU8()
		if err != nil {
			return nil, err
		}
		accounts, err := c.readShortVecBytes()
		if err != nil {
			return nil, err
		}
		data, err := c.readShortVecBytes()
		if err != nil {
			return nil, err
		}
		out[i] = CompiledInstruction{
			ProgramIDIndex: progIdx,
			Accounts:       append([]uint8(nil), accounts...),
			Data:           append([]byte(nil), data...),
		}
	}
	return out, nil
}

func decodeAddressTableLookups(c *cursor) ([]AddressTableLookup, error) {
	n, err := c.readCompactU16()
	if err != nil {
		return nil, err
	}
	out := make([]AddressTableLookup, n)
	for i := range out {
		raw, err := c.readBytes32()
		if err != nil {
			return nil, err
		}
		key, err := pubkey.FromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		writable, err := c.readShortVecBytes()
		if err != nil {
			return nil, err
		}
		readonly, err := c.readShortVecBytes()
		if err != nil {
			return nil, err
		}
		out[i] = AddressTableLookup{
			AccountKey:      key,
			WritableIndexes: append([]uint8(nil), writable...),
			ReadonlyIndexes: append([]uint8(nil), readonly...),
		}
	}
	return out, nil
}
