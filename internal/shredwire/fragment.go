package shredwire

// ID is the (slot, index, is_data) triple used for ingress deduplication
// (spec §3). It is a plain comparable struct so it can be used directly
// as a map key.
type ID struct {
	Slot   uint64
	Index  uint32
	IsData bool
}

// Classified bundles the fields the assembler needs out of a raw fragment,
// computed once at ingest time.
type Classified struct {
	ID          ID
	Variant     Variant
	FECSetIndex uint32
	DataFlags   DataFlags // zero value if !Variant.IsData
	Coding      CodingHeader // zero value if Variant.IsData
}

// Classify runs the wire codec over buf and returns everything the FEC-set
// assembler needs to bucket and track it. It never copies buf.
func Classify(buf []byte) (Classified, error) {
	if len(buf) < minFragmentSize {
		return Classified{}, malformed("fragment too small (%d bytes)", len(buf))
	}

	v, err := DecodeVariant(buf)
	if err != nil {
		return Classified{}, err
	}

	slot, err := Slot(buf)
	if err != nil {
		return Classified{}, err
	}
	index, err := Index(buf)
	if err != nil {
		return Classified{}, err
	}
	fecSetIndex, err := FECSetIndex(buf)
	if err != nil {
		return Classified{}, err
	}

	c := Classified{
		ID:          ID{Slot: slot, Index: index, IsData: v.IsData},
		Variant:     v,
		FECSetIndex: fecSetIndex,
	}

	if v.IsData {
		flags, err := DecodeDataFlags(buf)
		if err != nil {
			return Classified{}, err
		}
		c.DataFlags = flags
	} else {
		hdr, err := DecodeCodingHeader(buf)
		if err != nil {
			return Classified{}, err
		}
		c.Coding = hdr
	}

	return c, nil
}

// Payload extracts buf's payload slice, per DataPayloadRange. Only valid
// for data fragments.
func Payload(buf []byte, v Variant) ([]byte, error) {
	start, end, err := DataPayloadRange(buf, v)
	if err != nil {
		return nil, err
	}
	return buf[start:end], nil
}

// DataFragment is a data shred that has passed wire validation and is
// ready for reassembly into an entry byte stream, whether it arrived
// directly off the wire or was rebuilt by Reed-Solomon reconstruction.
// Index is absolute (fec_set_index + position within the set).
type DataFragment struct {
	Index   uint32
	Buf     []byte
	Variant Variant
}

// FragmentPayload returns the data fragment's payload bytes.
func (f DataFragment) FragmentPayload() ([]byte, error) {
	return Payload(f.Buf, f.Variant)
}
