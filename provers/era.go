package relayer

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Era buckets GRANDPA-side messages (storage-inclusion proofs, in this
// bridge's case) by the authority-set id that finalized the block they
// were read from, so the relayer can submit them to Ethereum in strictly
// ascending authority-set order even when proofs finish out of order
// (spec §4.H, grounded on original_source's
// relayer/src/message_relayer/common/ethereum/message_sender/mod.rs
// BTreeMap<u64, Era> accumulator).
type Era struct {
	SetID    uint64
	Messages []PendingMessage
	Finalized bool // set once this era's validator-set-rotation proof has landed
}

// PendingMessage is one message awaiting submission, tagged with the
// block (or slot) number it was read from. The accumulator treats Payload
// as opaque bytes; Relayer enqueues JSON-encoded LightClientUpdates.
type PendingMessage struct {
	BlockNumber uint64
	Payload     []byte // opaque bytes handed to Sender.Send as-is
}

// EraAccumulator holds pending eras keyed by authority-set id and drains
// them to a Sender in ascending id order, never skipping ahead to a later
// era before an earlier one's messages have all been sent — mirroring the
// original's processing loop, which only advances its BTreeMap cursor
// once the current era empties.
type EraAccumulator struct {
	mu   sync.Mutex
	eras map[uint64]*Era
}

// NewEraAccumulator returns an empty accumulator.
func NewEraAccumulator() *EraAccumulator {
	return &EraAccumulator{eras: make(map[uint64]*Era)}
}

// Add appends msg to the era for setID, creating the era if this is its
// first message.
func (a *EraAccumulator) Add(setID uint64, msg PendingMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	era, ok := a.eras[setID]
	if !ok {
		era = &Era{SetID: setID}
		a.eras[setID] = era
	}
	era.Messages = append(era.Messages, msg)
}

// MarkFinalized records that setID's validator-set-rotation proof has
// landed on-chain, which gates whether the *next* era's messages are safe
// to submit (the verifier contract trusts set N+1 only once set N's
// rotation proof is accepted).
func (a *EraAccumulator) MarkFinalized(setID uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if era, ok := a.eras[setID]; ok {
		era.Finalized = true
	}
}

// Sender submits a PendingMessage. Implementations talk to the bridge's
// on-chain verifier contract; the accumulator does not know the transport.
type Sender interface {
	Send(msg PendingMessage) error
}

// Drain submits every ready message across all known eras, oldest setID
// first, and only proceeds to an era once the one before it is both
// finalized and fully drained — ascending-id processing with finalization
// gating, per spec §4.H. Messages that fail to send are left in place for
// the next Drain call (transient errors, per bridgeerrors' KindTransient
// classification, are expected here and simply retried).
func (a *EraAccumulator) Drain(sender Sender) {
	a.mu.Lock()
	ids := make([]uint64, 0, len(a.eras))
	for id := range a.eras {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	a.mu.Unlock()

	for _, id := range ids {
		a.mu.Lock()
		era := a.eras[id]
		if id > ids[0] {
			prev, ok := a.eras[id-1]
			if ok && !prev.Finalized {
				a.mu.Unlock()
				break // earlier era still pending finalization; stop here
			}
		}
		pending := append([]PendingMessage(nil), era.Messages...)
		a.mu.Unlock()

		sent := 0
		for _, msg := range pending {
			if err := sender.Send(msg); err != nil {
				log.Warn().Err(err).Uint64("set_id", id).Uint64("block", msg.BlockNumber).Msg("message send failed, will retry")
				break
			}
			sent++
		}

		a.mu.Lock()
		era.Messages = era.Messages[sent:]
		a.mu.Unlock()
		if sent < len(pending) {
			break // this era is not fully drained; later eras wait
		}
	}
}
