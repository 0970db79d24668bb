// Package lightclient implements the beacon-chain light-client state
// machine this bridge runs to track Ethereum finality, including its
// replay-back sub-protocol for catching up on sync-committee periods the
// client was not online for (spec §3, §6). Verification stays native —
// no SNARK — mirroring how only the GRANDPA side of this bridge is
// wrapped in zero-knowledge proofs.
package lightclient

import (
	"fmt"
	"strconv"

	"github.com/consensys/gnark-crypto/ecc/bls12-381"
	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"
	"github.com/protolambda/zrnt/eth2/configs"
	"github.com/protolambda/ztyp/tree"
	"github.com/rs/zerolog/log"

	"github.com/subeth-bridge/core/bridgeerrors"
	"github.com/subeth-bridge/core/consts"
	"github.com/subeth-bridge/core/sszmerkle"
	"github.com/subeth-bridge/core/types"
)

// State is the light client's tagged-union status (spec §3): it starts
// Bootstrapped off a trusted checkpoint, may need to AwaitReplayBack if
// the period gap to a fresh update is too large to bridge with a single
// LightClientUpdate, walks backward period by period while
// ReplayingBack, and settles into Operational once caught up.
type State int

const (
	StateBootstrapped State = iota
	StateAwaitingReplayBack
	StateReplayingBack
	StateOperational
)

func (s State) String() string {
	switch s {
	case StateBootstrapped:
		return "Bootstrapped"
	case StateAwaitingReplayBack:
		return "AwaitingReplayBack"
	case StateReplayingBack:
		return "ReplayingBack"
	case StateOperational:
		return "Operational"
	default:
		return "Unknown"
	}
}

// maxTrackedHeaders bounds the slot->header-root map (spec §3: "bounded
// slot-to-header-root map", preventing unbounded growth as the client
// tracks an ever-advancing chain).
const maxTrackedHeaders = 8192

// Client holds all light-client state: the current sync committee, the
// latest finalized header, the replay-back cursor when one is in
// progress, and a capped ring of recently finalized header roots keyed by
// slot (used by the Ethereum-event-inclusion verifier to locate the block
// root a receipt proof must chain up to).
type Client struct {
	Network consts.NetworkConfig

	state State

	currentSyncCommittee []zrntcommon.BLSPubkey
	currentPeriod        uint64

	// nextSyncCommittee is the committee disclosed by the most recently
	// processed update's next_sync_committee field (spec §3's
	// next_committee?). It is promoted to currentSyncCommittee only once
	// an update's attested slot actually crosses into the following
	// period; nil until the first update past bootstrap discloses one.
	nextSyncCommittee []zrntcommon.BLSPubkey

	finalizedHeader zrntcommon.BeaconBlockHeader
	finalizedSlot   uint64

	replayTarget  uint64 // period the replay-back started from
	replayCursor  uint64 // period currently being processed, descending from replayTarget toward currentPeriod

	headerRoots map[uint64][32]byte // slot -> beacon block root, bounded to maxTrackedHeaders
	headerOrder []uint64            // insertion order, for FIFO eviction
}

// New bootstraps a client from a trusted checkpoint header and its
// companion sync committee (obtained out of band, e.g. from a weak
// subjectivity checkpoint — spec §3 "Init").
func New(network consts.NetworkConfig, checkpoint zrntcommon.BeaconBlockHeader, committee []zrntcommon.BLSPubkey) (*Client, error) {
	if _, _, err := types.AggregatePublicKeys(committee, allTrue(len(committee))); err != nil {
		return nil, fmt.Errorf("lightclient: bootstrap committee: %w", err)
	}
	c := &Client{
		Network:              network,
		state:                StateBootstrapped,
		currentSyncCommittee: committee,
		currentPeriod:        consts.Period(uint64(checkpoint.Slot)),
		finalizedHeader:      checkpoint,
		finalizedSlot:        uint64(checkpoint.Slot),
		headerRoots:          make(map[uint64][32]byte),
	}
	return c, nil
}

func allTrue(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

// State returns the client's current tagged-union state.
func (c *Client) State() State { return c.state }

// ReplayCursor returns the period the client is currently replaying back,
// valid only while State() is StateReplayingBack.
func (c *Client) ReplayCursor() uint64 { return c.replayCursor }

// CurrentCommitteeG1 decodes the committee the client currently trusts as
// signer into affine BLS12-381 points, for callers (the accelerated
// replay-back path) that need the native point representation rather than
// the raw compressed pubkeys.
func (c *Client) CurrentCommitteeG1() ([]bls12381.G1Affine, error) {
	out := make([]bls12381.G1Affine, len(c.currentSyncCommittee))
	for i, pk := range c.currentSyncCommittee {
		if _, err := out[i].SetBytes(pk[:]); err != nil {
			return nil, fmt.Errorf("lightclient: decode committee pubkey %d: %w", i, err)
		}
	}
	return out, nil
}

// Process applies a LightClientUpdate: checks the sync-committee
// super-majority threshold, verifies the finality and next-sync-committee
// SSZ branches against the attested header's state root, verifies the
// aggregate BLS signature, and — if the update's period is more than one
// ahead of the client's current period — transitions to
// AwaitingReplayBack instead of applying it directly (spec §3, §7).
func (c *Client) Process(update *types.LightClientUpdate) error {
	bits := types.ParseSyncCommitteeBits([]byte(update.Data.SyncAggregate.SyncCommitteeBits))
	participating := countTrue(bits)
	if participating < consts.SyncCommitteeSuperMajority {
		return bridgeerrors.ErrLowVoteCount
	}

	attestedSlot := uint64(update.Data.AttestedHeader.Beacon.Slot)
	sigSlot, err := strconv.ParseUint(update.Data.SignatureSlot, 10, 64)
	if err != nil {
		return bridgeerrors.ErrDecodeFailure
	}

	// An update's sync-committee signature must postdate the header it
	// attests to, and the attested header itself must not regress behind
	// what the client already considers finalized (spec §4.G step 1).
	if sigSlot <= attestedSlot {
		return bridgeerrors.ErrStaleUpdate
	}
	if attestedSlot < c.finalizedSlot {
		return bridgeerrors.ErrStaleUpdate
	}

	attestedFork := c.Network.ForkAt(attestedSlot)
	if c.Network.ForkAt(sigSlot) != attestedFork {
		// The signature and the header it signs straddle a fork
		// boundary: the generalized-index table used below would be
		// ambiguous between the two, so the update is rejected rather
		// than guessed at.
		return bridgeerrors.ErrForkMismatch
	}
	fork := attestedFork

	attestedPeriod := consts.Period(attestedSlot)
	if attestedPeriod > c.currentPeriod+1 {
		c.state = StateAwaitingReplayBack
		return bridgeerrors.ReplayBackRequired(attestedPeriod)
	}

	// The update's signers are whichever committee actually serves the
	// period attestedSlot falls in. That is c.currentSyncCommittee unless
	// this update is the first to cross into the next period, in which
	// case it is the committee a previous update's next_sync_committee
	// already disclosed (spec §4.G step 2: select the next-period
	// committee only when it is known).
	signerCommittee := c.currentSyncCommittee
	if attestedPeriod == c.currentPeriod+1 {
		if c.nextSyncCommittee == nil {
			return bridgeerrors.ErrHeaderChainBroken
		}
		signerCommittee = c.nextSyncCommittee
	}

	finalityGI := consts.FinalityGIndex(fork)
	nextCommitteeGI := consts.NextSyncCommitteeGIndex(fork)

	stateRoot := update.Data.AttestedHeader.Beacon.StateRoot
	finalizedRoot, err := rootFromString(update.Data.AttestedHeader.Execution.StateRoot)
	if err != nil {
		return bridgeerrors.ErrDecodeFailure
	}
	finalityBranch, err := rootsFromStrings(update.Data.AttestedHeader.ExecutionBranch)
	if err != nil {
		return bridgeerrors.ErrDecodeFailure
	}
	if !sszmerkle.IsValidMerkleBranch(finalizedRoot, finalityBranch, finalityGI.Depth, uint64(finalityGI.Index), [32]byte(stateRoot)) {
		return bridgeerrors.ErrInvalidFinalityBranch
	}

	nextCommitteeRoot := update.Data.NextSyncCommittee.HashTreeRoot(configs.Mainnet, tree.GetHashFn())
	nextCommitteeBranch := make([][32]byte, len(update.Data.NextSyncCommitteeBranch))
	for i, r := range update.Data.NextSyncCommitteeBranch {
		nextCommitteeBranch[i] = [32]byte(r)
	}
	if !sszmerkle.IsValidMerkleBranch(nextCommitteeRoot, nextCommitteeBranch, nextCommitteeGI.Depth, uint64(nextCommitteeGI.Index), [32]byte(stateRoot)) {
		return bridgeerrors.ErrInvalidCommitteeBranch
	}

	// BLS aggregate signature verification over the attested header's
	// signing root is performed natively (gnark-crypto pairing), not
	// inside a circuit — only the GRANDPA side of this bridge proves
	// signatures in zero knowledge.
	if err := c.verifyAggregateSignature(update, signerCommittee); err != nil {
		return bridgeerrors.ErrInvalidSignature
	}

	c.recordHeader(attestedSlot, [32]byte(stateRoot))

	// Finality only advances on genuine progress (spec §4.G step 6); an
	// update repeating the client's already-finalized slot is accepted
	// but changes nothing.
	if attestedSlot > c.finalizedSlot {
		c.finalizedHeader = update.Data.AttestedHeader.Beacon
		c.finalizedSlot = attestedSlot
	}
	// The active committee rotates only once its period boundary is
	// actually crossed, never on every update.
	if attestedPeriod > c.currentPeriod {
		c.currentSyncCommittee = signerCommittee
		c.currentPeriod = attestedPeriod
	}
	c.nextSyncCommittee = update.Data.NextSyncCommittee.Pubkeys
	c.state = StateOperational

	log.Info().Uint64("slot", c.finalizedSlot).Uint64("period", c.currentPeriod).Msg("light client advanced")
	return nil
}

// verifyAggregateSignature checks the update's aggregate BLS signature
// against committee, natively (gnark-crypto pairing), per
// DOMAIN_SYNC_COMMITTEE signing-root rules. The caller supplies which
// committee signed: Process passes whichever of currentSyncCommittee or
// nextSyncCommittee actually serves the update's period, and replay-back
// passes c.currentSyncCommittee.
func (c *Client) verifyAggregateSignature(update *types.LightClientUpdate, committee []zrntcommon.BLSPubkey) error {
	header := update.Data.AttestedHeader.Beacon
	blockRoot := header.HashTreeRoot(tree.GetHashFn())

	domainType := zrntcommon.BLSDomainType{0x07, 0x00, 0x00, 0x00} // DOMAIN_SYNC_COMMITTEE
	var genesisRoot zrntcommon.Root
	copy(genesisRoot[:], c.Network.GenesisValidatorsRoot[:])
	var forkVersion zrntcommon.Version
	copy(forkVersion[:], c.Network.CurrentForkVersion[:])

	domain := zrntcommon.ComputeDomain(domainType, forkVersion, genesisRoot)
	signingRoot := zrntcommon.ComputeSigningRoot(blockRoot, domain)

	bits := types.ParseSyncCommitteeBits([]byte(update.Data.SyncAggregate.SyncCommitteeBits))
	aggPubkey, _, err := types.AggregatePublicKeys(committee, bits)
	if err != nil {
		return fmt.Errorf("lightclient: aggregate pubkeys: %w", err)
	}

	var signature bls12381.G2Affine
	if _, err := signature.SetBytes(update.Data.SyncAggregate.SyncCommitteeSignature[:]); err != nil {
		return fmt.Errorf("lightclient: decode signature: %w", err)
	}

	dst := []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")
	messageHash, err := bls12381.HashToG2(signingRoot[:], dst)
	if err != nil {
		return fmt.Errorf("lightclient: hash to G2: %w", err)
	}

	_, _, g1Gen, _ := bls12381.Generators()
	var negG1 bls12381.G1Affine
	negG1.Neg(&g1Gen)

	valid, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{aggPubkey, negG1},
		[]bls12381.G2Affine{messageHash, signature},
	)
	if err != nil {
		return fmt.Errorf("lightclient: pairing check: %w", err)
	}
	if !valid {
		return bridgeerrors.ErrInvalidSignature
	}
	return nil
}

func (c *Client) recordHeader(slot uint64, root [32]byte) {
	if _, exists := c.headerRoots[slot]; !exists {
		c.headerOrder = append(c.headerOrder, slot)
	}
	c.headerRoots[slot] = root
	for len(c.headerOrder) > maxTrackedHeaders {
		evict := c.headerOrder[0]
		c.headerOrder = c.headerOrder[1:]
		delete(c.headerRoots, evict)
	}
}

// HeaderRoot looks up a tracked finalized header root by slot, for the
// Ethereum-event-inclusion verifier to chain a receipt proof to.
func (c *Client) HeaderRoot(slot uint64) ([32]byte, bool) {
	root, ok := c.headerRoots[slot]
	return root, ok
}

func countTrue(bits []bool) int {
	n := 0
	for _, b := range bits {
		if b {
			n++
		}
	}
	return n
}

func rootFromString(s string) ([32]byte, error) {
	var out [32]byte
	b, err := types.HexToBytes(s)
	if err != nil || len(b) != 32 {
		return out, fmt.Errorf("lightclient: bad root %q", s)
	}
	copy(out[:], b)
	return out, nil
}

func rootsFromStrings(ss []string) ([][32]byte, error) {
	out := make([][32]byte, len(ss))
	for i, s := range ss {
		r, err := rootFromString(s)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
