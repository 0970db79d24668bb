package lightclient

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/protolambda/zrnt/eth2/configs"
	"github.com/protolambda/ztyp/tree"
	"github.com/rs/zerolog/log"

	"github.com/subeth-bridge/core/bridgeerrors"
	circuit "github.com/subeth-bridge/core/circuits"
	"github.com/subeth-bridge/core/consts"
	"github.com/subeth-bridge/core/types"
)

// StartReplayBack begins walking the client backward from targetPeriod
// toward its current period, one period's LightClientUpdate at a time,
// grounded on original_source's
// relayer/src/ethereum_checkpoints/replay_back.rs driver (spec §3's
// replay-back sub-protocol; here it lives beside the state machine rather
// than in a standalone external driver, since the light client already
// owns the state transition it performs). Fails if the client was not
// actually waiting on a replay (spec §7, AlreadyStarted/NotStarted).
func (c *Client) StartReplayBack(targetPeriod uint64) error {
	if c.state == StateReplayingBack {
		return bridgeerrors.ErrAlreadyStarted
	}
	if c.state != StateAwaitingReplayBack {
		return bridgeerrors.ErrNotStarted
	}
	c.replayTarget = targetPeriod
	c.replayCursor = targetPeriod
	c.state = StateReplayingBack
	log.Info().Uint64("from_period", targetPeriod).Uint64("to_period", c.currentPeriod).Msg("replay-back started")
	return nil
}

// ProcessReplayBack applies one step of the replay-back walk: an update
// for c.replayCursor's period, verified the same way Process verifies a
// forward update, then steps the cursor down by one period. Once the
// cursor reaches the client's already-known period, the client resumes
// normal forward operation.
func (c *Client) ProcessReplayBack(update *types.LightClientUpdate) error {
	if c.state != StateReplayingBack {
		return bridgeerrors.ErrNotStarted
	}

	bits := types.ParseSyncCommitteeBits([]byte(update.Data.SyncAggregate.SyncCommitteeBits))
	if countTrue(bits) < consts.SyncCommitteeSuperMajority {
		return bridgeerrors.ErrLowVoteCount
	}

	updateSlot := uint64(update.Data.AttestedHeader.Beacon.Slot)
	updatePeriod := consts.Period(updateSlot)
	if updatePeriod != c.replayCursor {
		return bridgeerrors.ErrHeaderChainBroken
	}

	if err := c.verifyAggregateSignature(update, c.currentSyncCommittee); err != nil {
		return bridgeerrors.ErrInvalidSignature
	}

	stateRoot := update.Data.AttestedHeader.Beacon.StateRoot
	c.recordHeader(updateSlot, [32]byte(stateRoot))
	c.currentSyncCommittee = update.Data.NextSyncCommittee.Pubkeys

	if c.replayCursor <= c.currentPeriod {
		c.state = StateOperational
		c.replayTarget = 0
		log.Info().Uint64("period", c.replayCursor).Msg("replay-back complete")
		return nil
	}
	c.replayCursor--
	return nil
}

// ProcessReplayBackVerified applies one replay-back step the same way
// ProcessReplayBack does, but trusts a pre-verified Eth2ScUpdateCircuit
// proof instead of re-running the native BLS pairing check itself — the
// accelerated path setup_circuit.go's Eth2ScUpdateCircuit exists for,
// used when the proof's public inputs (the signing committee's pubkey
// hash and the disclosed next_sync_committee's SSZ root) match what this
// step of the walk expects. The proof's constraints encode the BLS check
// but not the participation threshold, so the super-majority count is
// checked here as in ProcessReplayBack; this also re-derives both expected
// public values independently rather than trusting the caller's claim of
// which committee and which next-committee root the proof was produced
// against.
func (c *Client) ProcessReplayBackVerified(update *types.LightClientUpdate, proof *circuit.ProofWithCircuitData[circuit.Eth2ScUpdateTargets]) error {
	if c.state != StateReplayingBack {
		return bridgeerrors.ErrNotStarted
	}

	bits := types.ParseSyncCommitteeBits([]byte(update.Data.SyncAggregate.SyncCommitteeBits))
	if countTrue(bits) < consts.SyncCommitteeSuperMajority {
		return bridgeerrors.ErrLowVoteCount
	}

	updateSlot := uint64(update.Data.AttestedHeader.Beacon.Slot)
	updatePeriod := consts.Period(updateSlot)
	if updatePeriod != c.replayCursor {
		return bridgeerrors.ErrHeaderChainBroken
	}

	signingCommittee, err := c.CurrentCommitteeG1()
	if err != nil {
		return bridgeerrors.ErrInvalidSignature
	}
	expectedPubKeysHash := types.ComputeScPubKeysHash(signingCommittee)
	expectedNextRoot := [32]byte(update.Data.NextSyncCommittee.HashTreeRoot(configs.Mainnet, tree.GetHashFn()))

	want := circuit.NewEth2ScUpdateTargets(expectedPubKeysHash, expectedNextRoot)
	if !sameTargets(want, proof.Public) {
		return bridgeerrors.ErrInvalidSignature
	}

	if err := proof.Verify(ecc.BN254); err != nil {
		return bridgeerrors.ErrInvalidSignature
	}

	stateRoot := update.Data.AttestedHeader.Beacon.StateRoot
	c.recordHeader(updateSlot, [32]byte(stateRoot))
	c.currentSyncCommittee = update.Data.NextSyncCommittee.Pubkeys

	if c.replayCursor <= c.currentPeriod {
		c.state = StateOperational
		c.replayTarget = 0
		log.Info().Uint64("period", c.replayCursor).Msg("replay-back complete (accelerated)")
		return nil
	}
	c.replayCursor--
	return nil
}

// sameTargets compares two Eth2ScUpdateTargets wire-for-wire.
func sameTargets(a, b circuit.Eth2ScUpdateTargets) bool {
	fa, fb := a.Flatten(), b.Flatten()
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		av, aok := fa[i].(byte)
		bv, bok := fb[i].(byte)
		if !aok || !bok || av != bv {
			return false
		}
	}
	return true
}
