package shredwire

// Fixed byte offsets of the common shred header and the type-specific
// headers that follow it. These are the system's hard external contract
// (spec §6) — changing them breaks reconstruction against the live
// network, so they are never re-typed as magic numbers at call sites.
const (
	offSignature   = 0x00 // 64 bytes
	offVariant     = 0x40 // 1 byte
	offSlot        = 0x41 // 8 bytes, LE
	offIndex       = 0x49 // 4 bytes, LE
	offVersion     = 0x4D // 2 bytes, LE
	offFECSetIndex = 0x4F // 4 bytes, LE

	// Data-shred-only fields (Merkle variant).
	offParentOffset = 0x53 // 2 bytes, LE
	offDataFlags    = 0x55 // 1 byte
	offDataSize     = 0x56 // 2 bytes, LE — total on-wire shred size
	offDataPayload  = 0x58 // Merkle data payload start

	// Legacy data variant has no on-wire size field; its payload starts
	// at 0x56 and runs to the end of the buffer.
	offLegacyDataPayload = 0x56

	// Coding-shred-only fields, directly after the common header.
	offCodingNumData    = 0x53 // 2 bytes, LE
	offCodingNumCoding  = 0x55 // 2 bytes, LE
	offCodingPosition   = 0x57 // 2 bytes, LE
	minCodingHeaderSize = 0x59

	// minFragmentSize is the smallest buffer that could possibly be a
	// shred; anything shorter is dropped before touching the codec at all
	// (spec §4.B step 1 / §6).
	minFragmentSize = 0x58

	legacyCodeSentinel = 0b0101_1010
	legacyDataSentinel = 0b1010_0101
)
