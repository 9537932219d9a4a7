// Package pipeline owns the UDP ingress socket, the FEC-set assembler, and
// the channels that carry decoded entries and errors out to consumers.
package pipeline

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/piotrostr/shreds/internal/deshred"
	"github.com/piotrostr/shreds/internal/entry"
	"github.com/piotrostr/shreds/internal/fecset"
)

// maxDatagramSize is 1280 (IPv6 minimum MTU) minus a 40-byte IPv6 header
// and an 8-byte UDP header.
const maxDatagramSize = 1232

// channelCapacity bounds the entry and error channels; once full, the
// ingest path blocks, which lets back-pressure fall through to dropped
// UDP datagrams at the kernel level rather than unbounded memory growth.
const channelCapacity = 2000

// Consumer processes a batch of entries decoded from one completed FEC
// set. Entries from different sets carry no cross-set ordering guarantee.
type Consumer interface {
	ProcessEntries(ctx context.Context, entries []entry.Entry)
}

// Hub is the pipeline's concurrency root: one recv loop, one metrics
// ticker, one consumer loop, one error-logging loop.
type Hub struct {
	assembler *fecset.Assembler
	log       *logrus.Entry

	entries chan []entry.Entry
	errs    chan error
	sigs    chan string

	setsProcessed uint64
	setsFailed    uint64
}

// New creates a Hub with the given FEC-set purge window (in slots).
func New(purgeWindow uint64, log *logrus.Entry) *Hub {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Hub{
		assembler: fecset.New(purgeWindow),
		log:       log,
		entries:   make(chan []entry.Entry, channelCapacity),
		errs:      make(chan error, channelCapacity),
		sigs:      make(chan string, channelCapacity),
	}
}

// Signatures exposes the optional signature-streaming channel. The hub
// itself never sends on it, so it carries only what a consumer holding
// the Hub chooses to publish.
func (h *Hub) Signatures() <-chan string { return h.sigs }

// Run binds a UDP socket on bindAddr and drives the pipeline until ctx is
// cancelled. It spawns the recv loop, the consumer loop, and the error
// logger, and blocks until ctx.Done().
func (h *Hub) Run(ctx context.Context, bindAddr string, consumer Consumer) error {
	conn, err := net.ListenPacket("udp", bindAddr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", bindAddr)
	}
	defer conn.Close()

	go h.recvLoop(ctx, conn)
	go h.consumerLoop(ctx, consumer)
	go h.errorLoop(ctx)

	h.log.WithField("bind", bindAddr).Info("pipeline listening")
	<-ctx.Done()
	return ctx.Err()
}

// recvLoop reads datagrams in a tight loop with no rate limit and no
// sleep; recv errors are logged at warn level and do not terminate the
// loop. Deadlines are reset before every read so ctx cancellation can
// unblock a stalled recv within one tick.
func (h *Hub) recvLoop(ctx context.Context, conn net.PacketConn) {
	buf := make([]byte, maxDatagramSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			h.log.WithError(err).Warn("udp recv error")
			continue
		}

		received := make([]byte, n)
		copy(received, buf[:n])
		h.ingest(ctx, received)
	}
}

// ingest feeds one raw datagram through the assembler and, if it just
// completed a FEC set, runs recovery, deshredding, and entry decoding.
func (h *Hub) ingest(ctx context.Context, buf []byte) {
	if len(buf) < 0x58 {
		return
	}

	outcome := h.assembler.Ingest(buf)
	if outcome.Dropped || !outcome.Ready {
		return
	}

	set := h.assembler.Take(outcome.Key)
	if set == nil {
		return
	}

	frags, err := fecset.Recover(outcome.Key, set)
	if err != nil {
		atomic.AddUint64(&h.setsFailed, 1)
		h.sendErr(ctx, errors.Wrapf(err, "recovering fec set %+v", outcome.Key))
		return
	}

	payload, err := deshred.Deshred(frags)
	if err != nil {
		atomic.AddUint64(&h.setsFailed, 1)
		h.sendErr(ctx, errors.Wrapf(err, "deshredding fec set %+v", outcome.Key))
		return
	}

	entries, decodeErr := entry.Decode(payload)
	if entries != nil {
		select {
		case h.entries <- entries:
		case <-ctx.Done():
			return
		}
	}
	if decodeErr != nil {
		h.sendErr(ctx, errors.Wrapf(decodeErr, "decoding entries for fec set %+v", outcome.Key))
	}

	atomic.AddUint64(&h.setsProcessed, 1)
}

func (h *Hub) sendErr(ctx context.Context, err error) {
	select {
	case h.errs <- err:
	case <-ctx.Done():
	}
}

func (h *Hub) consumerLoop(ctx context.Context, consumer Consumer) {
	for {
		select {
		case entries := <-h.entries:
			consumer.ProcessEntries(ctx, entries)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) errorLoop(ctx context.Context) {
	for {
		select {
		case err := <-h.errs:
			h.log.WithError(err).Warn("pipeline error")
		case <-ctx.Done():
			return
		}
	}
}
