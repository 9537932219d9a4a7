package launch

import (
	"context"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"github.com/piotrostr/shreds/internal/entry"
	"github.com/piotrostr/shreds/internal/pubkey"
)

// ProgramID is pump.fun's on-chain program.
var ProgramID = pubkey.MustFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

// Sink receives a completed launch event, typically the webhook poster.
type Sink interface {
	Send(ctx context.Context, event Event) error
}

// Emitter detects launch transactions and accumulates events per mint,
// implementing pipeline.Consumer.
type Emitter struct {
	log  *logrus.Entry
	sink Sink

	mu     sync.Mutex
	events map[pubkey.Key]*Event
}

// New builds an Emitter that forwards completed events to sink.
func New(log *logrus.Entry, sink Sink) *Emitter {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Emitter{log: log, sink: sink, events: make(map[pubkey.Key]*Event)}
}

// ProcessEntries implements pipeline.Consumer.
func (e *Emitter) ProcessEntries(ctx context.Context, entries []entry.Entry) {
	for _, en := range entries {
		for _, tx := range en.Transactions {
			e.reduceTransaction(ctx, tx)
		}
	}
}

func (e *Emitter) reduceTransaction(ctx context.Context, tx entry.Transaction) {
	keys := tx.Message.StaticAccountKeys()
	if len(keys) != staticAccountCount {
		return
	}
	if !tx.Message.ContainsKey(MintAuthoritySentinel) {
		return
	}

	var signature string
	if len(tx.Signatures) > 0 {
		signature = sigString(tx.Signatures[0])
	}

	for _, ix := range tx.Message.Instructions {
		if int(ix.ProgramIDIndex) >= len(keys) || keys[ix.ProgramIDIndex] != ProgramID {
			continue
		}
		e.applyInstruction(ctx, keys, signature, ix)
	}
}

func (e *Emitter) applyInstruction(ctx context.Context, keys []pubkey.Key, signature string, ix entry.CompiledInstruction) {
	if create, err := ParseCreateIx(ix.Data); err == nil {
		mint, bc, abc, ok := bondingCurveAccounts(keys, ix.Accounts)
		if !ok {
			e.log.WithField("signature", signature).Warn("launch create instruction missing expected accounts")
			return
		}
		event := e.eventFor(signature, mint, bc, abc)
		event.applyCreate(create)
		e.dispatch(ctx, mint)
		return
	}

	if swap, err := ParseSwapIx(ix.Data); err == nil {
		mint, bc, abc, ok := bondingCurveAccounts(keys, ix.Accounts)
		if !ok {
			return
		}
		event := e.eventFor(signature, mint, bc, abc)
		event.applySwap(swap)
		e.dispatch(ctx, mint)
	}
}

func bondingCurveAccounts(keys []pubkey.Key, accounts []uint8) (mint, bondingCurve, associatedCurve pubkey.Key, ok bool) {
	indexes := [3]int{accountIndexMint, accountIndexBondingCurve, accountIndexAssociatedCurve}
	out := [3]pubkey.Key{}
	for i, idx := range indexes {
		if idx >= len(accounts) {
			return mint, bondingCurve, associatedCurve, false
		}
		accIdx := accounts[idx]
		if int(accIdx) >= len(keys) {
			return mint, bondingCurve, associatedCurve, false
		}
		out[i] = keys[accIdx]
	}
	return out[0], out[1], out[2], true
}

func (e *Emitter) eventFor(signature string, mint, bondingCurve, associatedCurve pubkey.Key) *Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, ok := e.events[mint]
	if !ok {
		ev = newEvent(signature, mint, bondingCurve, associatedCurve)
		e.events[mint] = ev
	}
	return ev
}

func sigString(sig [64]byte) string {
	return base58.Encode(sig[:])
}

func (e *Emitter) dispatch(ctx context.Context, mint pubkey.Key) {
	if e.sink == nil {
		return
	}
	e.mu.Lock()
	ev := *e.events[mint]
	e.mu.Unlock()

	if err := e.sink.Send(ctx, ev); err != nil {
		e.log.WithError(err).WithField("mint", mint).Warn("failed to send launch event")
	}
}
