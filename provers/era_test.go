package relayer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []PendingMessage
	fail map[uint64]bool // block numbers to fail once, then succeed
}

func (s *fakeSender) Send(msg PendingMessage) error {
	if s.fail[msg.BlockNumber] {
		delete(s.fail, msg.BlockNumber)
		return errors.New("transient send failure")
	}
	s.sent = append(s.sent, msg)
	return nil
}

// TestEraAccumulatorDrainsAscendingAndGatesOnFinalization covers spec
// §4.H: eras are processed in ascending set-id order, and an era later
// than an unfinalized one is never drained ahead of it.
func TestEraAccumulatorDrainsAscendingAndGatesOnFinalization(t *testing.T) {
	acc := NewEraAccumulator()
	acc.Add(1, PendingMessage{BlockNumber: 100})
	acc.Add(2, PendingMessage{BlockNumber: 200})
	acc.Add(3, PendingMessage{BlockNumber: 300})

	sender := &fakeSender{}
	acc.Drain(sender)

	// Era 1 has no predecessor to gate on, so it drains immediately.
	require.Len(t, sender.sent, 1)
	require.Equal(t, uint64(100), sender.sent[0].BlockNumber)

	// Era 2 is gated behind era 1's finalization.
	acc.MarkFinalized(1)
	acc.Drain(sender)
	require.Len(t, sender.sent, 2)
	require.Equal(t, uint64(200), sender.sent[1].BlockNumber)

	// Era 3 stays gated until era 2 is finalized too.
	acc.Drain(sender)
	require.Len(t, sender.sent, 2, "era 3 must not drain before era 2 is finalized")

	acc.MarkFinalized(2)
	acc.Drain(sender)
	require.Len(t, sender.sent, 3)
	require.Equal(t, uint64(300), sender.sent[2].BlockNumber)
}

// TestEraAccumulatorRetriesFailedMessages ensures a transient send
// failure leaves the message queued for the next Drain instead of
// dropping it.
func TestEraAccumulatorRetriesFailedMessages(t *testing.T) {
	acc := NewEraAccumulator()
	acc.Add(1, PendingMessage{BlockNumber: 1})
	acc.Add(1, PendingMessage{BlockNumber: 2})

	sender := &fakeSender{fail: map[uint64]bool{1: true}}
	acc.Drain(sender)
	require.Empty(t, sender.sent, "first message's failure must stop the era's drain, not skip ahead")

	acc.Drain(sender)
	require.Len(t, sender.sent, 2)
	require.Equal(t, uint64(1), sender.sent[0].BlockNumber)
	require.Equal(t, uint64(2), sender.sent[1].BlockNumber)
}
