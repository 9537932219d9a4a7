package shredwire

import "encoding/binary"

// Slot returns the slot number a fragment belongs to.
func Slot(buf []byte) (uint64, error) {
	if len(buf) < offSlot+8 {
		return 0, malformed("buffer too short for slot field")
	}
	return binary.LittleEndian.Uint64(buf[offSlot : offSlot+8]), nil
}

// Index returns the fragment's index within its slot.
func Index(buf []byte) (uint32, error) {
	if len(buf) < offIndex+4 {
		return 0, malformed("buffer too short for index field")
	}
	return binary.LittleEndian.Uint32(buf[offIndex : offIndex+4]), nil
}

// Version returns the shred-format version carried by the fragment.
func Version(buf []byte) (uint16, error) {
	if len(buf) < offVersion+2 {
		return 0, malformed("buffer too short for version field")
	}
	return binary.LittleEndian.Uint16(buf[offVersion : offVersion+2]), nil
}

// FECSetIndex returns the index of the FEC set a fragment belongs to.
func FECSetIndex(buf []byte) (uint32, error) {
	if len(buf) < offFECSetIndex+4 {
		return 0, malformed("buffer too short for fec_set_index field")
	}
	return binary.LittleEndian.Uint32(buf[offFECSetIndex : offFECSetIndex+4]), nil
}

// DataFlags is the decoded form of the data-shred flags byte: bit 7 marks
// the last shred in a slot, bit 6 is a soft hint that the contiguous run
// ending here decodes to a complete entry batch, and the low 6 bits carry
// the reference tick.
type DataFlags struct {
	LastInSlot   bool
	DataComplete bool
	ReferenceTick uint8
}

// DecodeDataFlags reads the data-flags byte, only meaningful for data
// fragments.
func DecodeDataFlags(buf []byte) (DataFlags, error) {
	if len(buf) < offDataFlags+1 {
		return DataFlags{}, malformed("buffer too short for data flags byte")
	}
	b := buf[offDataFlags]
	return DataFlags{
		LastInSlot:    b&0x80 != 0,
		DataComplete:  b&0x40 != 0,
		ReferenceTick: b & 0x3F,
	}, nil
}

// CodingHeader carries the erasure-coding parameters declared by a coding
// fragment: how many data and coding shreds make up its FEC set, and this
// fragment's position within the coding set.
type CodingHeader struct {
	NumData     uint16
	NumCoding   uint16
	Position    uint16
}

// DecodeCodingHeader reads the coding-shred header, only meaningful for
// coding fragments.
func DecodeCodingHeader(buf []byte) (CodingHeader, error) {
	if len(buf) < minCodingHeaderSize {
		return CodingHeader{}, malformed("buffer too short for coding header")
	}
	return CodingHeader{
		NumData:   binary.LittleEndian.Uint16(buf[offCodingNumData : offCodingNumData+2]),
		NumCoding: binary.LittleEndian.Uint16(buf[offCodingNumCoding : offCodingNumCoding+2]),
		Position:  binary.LittleEndian.Uint16(buf[offCodingPosition : offCodingPosition+2]),
	}, nil
}

// DataPayloadRange returns the [start,end) byte range within buf holding
// the fragment's payload, following spec §4.A: Merkle data fragments carry
// an explicit on-wire size field at offDataSize (total shred size; payload
// length is size-offDataPayload), legacy data fragments run from
// offLegacyDataPayload to end-of-buffer.
func DataPayloadRange(buf []byte, v Variant) (start, end int, err error) {
	if !v.IsData {
		return 0, 0, malformed("DataPayloadRange called on a non-data variant")
	}
	if v.IsLegacy {
		if len(buf) < offLegacyDataPayload {
			return 0, 0, malformed("buffer too short for legacy data payload")
		}
		return offLegacyDataPayload, len(buf), nil
	}

	if len(buf) < offDataSize+2 {
		return 0, 0, malformed("buffer too short for data size field")
	}
	size := int(binary.LittleEndian.Uint16(buf[offDataSize : offDataSize+2]))
	if size < offDataPayload || size > len(buf) {
		return 0, 0, malformed("data shred size field %d out of range for %d-byte buffer", size, len(buf))
	}
	return offDataPayload, size, nil
}
