package lightclient

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"

	"github.com/subeth-bridge/core/bridgeerrors"
	"github.com/subeth-bridge/core/consts"
	"github.com/subeth-bridge/core/types"
)

func testCommittee(t *testing.T) []zrntcommon.BLSPubkey {
	t.Helper()
	committee := make([]zrntcommon.BLSPubkey, consts.SyncCommitteeSize)
	for i := range committee {
		// Compressed point-at-infinity encoding (compression bit +
		// infinity bit set, all else zero) — a validly-decodable BLS12-381
		// G1 point, used here only to exercise the aggregation shape.
		committee[i][0] = 0xc0
	}
	return committee
}

func TestNewBootstrapsState(t *testing.T) {
	checkpoint := zrntcommon.BeaconBlockHeader{Slot: 1000}
	c, err := New(consts.Mainnet, checkpoint, testCommittee(t))
	require.NoError(t, err)
	require.Equal(t, StateBootstrapped, c.State())
}

func TestProcessRejectsLowVoteCount(t *testing.T) {
	checkpoint := zrntcommon.BeaconBlockHeader{Slot: 1000}
	c, err := New(consts.Mainnet, checkpoint, testCommittee(t))
	require.NoError(t, err)

	update := &types.LightClientUpdate{}
	update.Data.SyncAggregate.SyncCommitteeBits = make([]byte, 64) // all-zero bits: 0 participants

	err = c.Process(update)
	require.ErrorIs(t, err, bridgeerrors.ErrLowVoteCount)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "Bootstrapped", StateBootstrapped.String())
	require.Equal(t, "Operational", StateOperational.String())
}

func fullBits() []byte {
	bits := make([]byte, 64)
	for i := range bits {
		bits[i] = 0xff
	}
	return bits
}

func TestNewUsesSyncCommitteePeriodFormula(t *testing.T) {
	checkpoint := zrntcommon.BeaconBlockHeader{Slot: 9000}
	c, err := New(consts.Mainnet, checkpoint, testCommittee(t))
	require.NoError(t, err)
	require.Equal(t, consts.Period(9000), c.currentPeriod)
	require.Equal(t, uint64(1), c.currentPeriod) // 9000/8192 == 1, not 9000/1024 == 8
}

func TestProcessRejectsSignatureSlotNotAfterAttestedSlot(t *testing.T) {
	checkpoint := zrntcommon.BeaconBlockHeader{Slot: 1000}
	c, err := New(consts.Mainnet, checkpoint, testCommittee(t))
	require.NoError(t, err)

	update := &types.LightClientUpdate{}
	update.Data.SyncAggregate.SyncCommitteeBits = fullBits()
	update.Data.AttestedHeader.Beacon.Slot = 2000
	update.Data.SignatureSlot = "2000" // equal, not after

	err = c.Process(update)
	require.ErrorIs(t, err, bridgeerrors.ErrStaleUpdate)
}

func TestProcessRejectsAttestedSlotBehindFinalized(t *testing.T) {
	checkpoint := zrntcommon.BeaconBlockHeader{Slot: 1000}
	c, err := New(consts.Mainnet, checkpoint, testCommittee(t))
	require.NoError(t, err)

	update := &types.LightClientUpdate{}
	update.Data.SyncAggregate.SyncCommitteeBits = fullBits()
	update.Data.AttestedHeader.Beacon.Slot = 500
	update.Data.SignatureSlot = "600"

	err = c.Process(update)
	require.ErrorIs(t, err, bridgeerrors.ErrStaleUpdate)
}

func TestProcessRejectsForkMismatchBetweenSignatureAndAttestedSlot(t *testing.T) {
	checkpoint := zrntcommon.BeaconBlockHeader{Slot: 1000}
	c, err := New(consts.Mainnet, checkpoint, testCommittee(t))
	require.NoError(t, err)

	electraBoundary := consts.Mainnet.EpochElectra * consts.SlotsPerEpoch

	update := &types.LightClientUpdate{}
	update.Data.SyncAggregate.SyncCommitteeBits = fullBits()
	update.Data.AttestedHeader.Beacon.Slot = zrntcommon.Slot(electraBoundary - 1) // pre-Electra
	update.Data.SignatureSlot = fmt.Sprintf("%d", electraBoundary)               // Electra

	err = c.Process(update)
	require.ErrorIs(t, err, bridgeerrors.ErrForkMismatch)
}

func TestProcessReplayBackRequiresStart(t *testing.T) {
	checkpoint := zrntcommon.BeaconBlockHeader{Slot: 1000}
	c, err := New(consts.Mainnet, checkpoint, testCommittee(t))
	require.NoError(t, err)

	err = c.ProcessReplayBack(&types.LightClientUpdate{})
	require.ErrorIs(t, err, bridgeerrors.ErrNotStarted)
}

func TestStartReplayBackRequiresAwaitingState(t *testing.T) {
	checkpoint := zrntcommon.BeaconBlockHeader{Slot: 1000}
	c, err := New(consts.Mainnet, checkpoint, testCommittee(t))
	require.NoError(t, err)
	require.Equal(t, StateBootstrapped, c.State())

	err = c.StartReplayBack(5)
	require.ErrorIs(t, err, bridgeerrors.ErrNotStarted)
}

func TestStartReplayBackTwiceFailsWithAlreadyStarted(t *testing.T) {
	checkpoint := zrntcommon.BeaconBlockHeader{Slot: 1000}
	c, err := New(consts.Mainnet, checkpoint, testCommittee(t))
	require.NoError(t, err)
	c.state = StateAwaitingReplayBack

	require.NoError(t, c.StartReplayBack(3))
	require.Equal(t, StateReplayingBack, c.State())

	err = c.StartReplayBack(3)
	require.ErrorIs(t, err, bridgeerrors.ErrAlreadyStarted)
}
