package entry

// Transaction is a decoded versioned (or legacy) transaction: a shortvec
// of 64-byte signatures followed by its message.
type Transaction struct {
	Signatures [][64]byte
	Message    Message
}

func decodeTransaction(c *cursor) (Transaction, error) {
	sigCount, err := c.readCompactU16()
	if err != nil {
		return Transaction{}, err
	}
	sigs := make([][64]byte, sigCount)
	for i := range sigs {
		sig, err := c.readBytes64()
		if err != nil {
			return Transaction{}, err
		}
		sigs[i] = sig
	}

	msg, err := decodeMessage(c)
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{Signatures: sigs, Message: msg}, nil
}
