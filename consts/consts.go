// Package consts collects the fork-dependent and protocol-width constants
// shared by the circuits, the light client, and the relayer. They are
// compile-time data, never process-wide mutable state.
package consts

const (
	// ED25519PublicKeySize is the wire size of a GRANDPA validator key.
	ED25519PublicKeySize = 32
	// ED25519PublicKeySizeInBits is ED25519PublicKeySize in bits.
	ED25519PublicKeySizeInBits = ED25519PublicKeySize * 8
	// ED25519SignatureSize is the wire size of a GRANDPA pre-commit signature.
	ED25519SignatureSize = 64

	// MaxValidatorCount bounds the validator set the hashing/finality
	// circuits accept; sets smaller than this are zero-padded.
	MaxValidatorCount = 128
	// ValidatorCount is an alias kept for parity with the teacher's
	// circuit field names (VALIDATOR_COUNT); it is the padded bound.
	ValidatorCount = MaxValidatorCount
	// ProcessedValidatorCount is the number of indexed-sign proofs folded
	// into one block-finality chain. Must be <= ValidatorCount.
	ProcessedValidatorCount = 90

	// GrandpaVoteLength is the fixed byte layout of a GRANDPA vote message:
	// 1 aux byte + 32-byte block hash + 4-byte block number + 8-byte round
	// + 8-byte authority-set-id.
	GrandpaVoteLength        = 53
	GrandpaVoteLengthInBits  = GrandpaVoteLength * 8
	GrandpaBlockHashOffset   = 1
	GrandpaBlockHashSize     = 32
	GrandpaTrailerOffset     = GrandpaBlockHashOffset + GrandpaBlockHashSize
	GrandpaTrailerSizeInBits = (GrandpaVoteLength - GrandpaTrailerOffset) * 8

	// SlotsPerEpoch is fixed by the beacon chain spec (Altair..Electra).
	SlotsPerEpoch = 32

	// SyncCommitteeSize is the number of validators in a beacon sync
	// committee.
	SyncCommitteeSize = 512
	// SyncCommitteeSuperMajority is the minimum participation count the
	// light client requires before advancing finality: a count below
	// 2/3*512 (341.33) fails, so the smallest passing count is 342.
	SyncCommitteeSuperMajority = (SyncCommitteeSize*2 + 2) / 3

	// EpochsPerSyncCommitteePeriod is the number of epochs a sync
	// committee serves before rotation (Altair..Electra).
	EpochsPerSyncCommitteePeriod = 256
	// SlotsPerSyncCommitteePeriod is a sync-committee period's width in
	// slots: 32 * 256 = 8192.
	SlotsPerSyncCommitteePeriod = SlotsPerEpoch * EpochsPerSyncCommitteePeriod
)

// GeneralizedIndex is a (depth, index) pair locating a field inside an SSZ
// container's merkle tree, after conversion from its generalized index.
type GeneralizedIndex struct {
	Depth int
	Index int
}

// Fork distinguishes the beacon-chain spec fork in force for a given slot,
// since the sync-committee/finality generalized indices shift by one depth
// at Electra (§3, §6).
type Fork int

const (
	ForkPreElectra Fork = iota
	ForkElectra
)

// NetworkConfig threads EpochElectra (the fork-activation epoch) through
// every depth/index lookup instead of relying on a global. There is no
// process-wide mutable state for fork selection.
//
// CurrentForkVersion/GenesisValidatorsRoot are the domain-separation
// inputs the light client needs to recompute a sync-committee signing
// root (BLS domain = DOMAIN_SYNC_COMMITTEE || fork_data_root). They hold
// only the network's present fork version, not a full historical
// schedule; a client re-verifying signatures from before the network's
// most recent fork boundary would need the version active at that slot,
// not this one.
type NetworkConfig struct {
	Name                  string
	EpochElectra          uint64
	CurrentForkVersion    [4]byte
	GenesisValidatorsRoot [32]byte
}

// Mainnet and Sepolia/Holesky-style presets used by the light-client tests
// and the relayer's default configuration. Electra epochs are the network's
// documented activation epoch. Holesky's genesis validators root matches
// the value the sync-committee-update fixtures in this repo were signed
// against; Mainnet's genesis validators root and both of Sepolia's domain
// fields are left zeroed here and must be supplied by deployment
// configuration before those networks are used.
var (
	Mainnet = NetworkConfig{
		Name:               "mainnet",
		EpochElectra:       364032,
		CurrentForkVersion: [4]byte{0x05, 0x00, 0x00, 0x00},
	}
	Sepolia = NetworkConfig{Name: "sepolia", EpochElectra: 222464}
	Holesky = NetworkConfig{
		Name:                  "holesky",
		EpochElectra:          115968,
		CurrentForkVersion:    [4]byte{0x90, 0x00, 0x00, 0x75},
		GenesisValidatorsRoot: [32]byte{0xd8, 0xea, 0x17, 0x1f, 0x3c, 0x94, 0xae, 0xa2, 0x1e, 0xbc, 0x42, 0xa1, 0xed, 0x61, 0x05, 0x2a, 0xcf, 0x3f, 0x92, 0x09, 0xc0, 0x0e, 0x4e, 0xfb, 0xaa, 0xdd, 0xac, 0x09, 0xed, 0x9b, 0x80, 0x78},
	}
)

// Epoch converts a slot number to its containing epoch.
func Epoch(slot uint64) uint64 {
	return slot / SlotsPerEpoch
}

// Period converts a slot number to its containing sync-committee period.
// The one formula every period comparison in the light client must share —
// computed from epoch*256 rather than slot/8192 directly so it stays
// readable next to Epoch.
func Period(slot uint64) uint64 {
	return Epoch(slot) / EpochsPerSyncCommitteePeriod
}

// ForkAt returns the fork in effect at the given slot for the network.
func (n NetworkConfig) ForkAt(slot uint64) Fork {
	if Epoch(slot) >= n.EpochElectra {
		return ForkElectra
	}
	return ForkPreElectra
}

// currentCommitteeGIndex, nextCommitteeGIndex, and finalityGIndex hold the
// bit-exact table from spec §3/§6:
//
//	field                     pre-Electra      Electra
//	current_sync_committee    depth=5 idx=22   depth=6 idx=22
//	next_sync_committee       depth=5 idx=23   depth=6 idx=23
//	finality                  depth=6 idx=41   depth=7 idx=41
var (
	currentCommitteeGIndex = [2]GeneralizedIndex{
		ForkPreElectra: {Depth: 5, Index: 22},
		ForkElectra:    {Depth: 6, Index: 22},
	}
	nextCommitteeGIndex = [2]GeneralizedIndex{
		ForkPreElectra: {Depth: 5, Index: 23},
		ForkElectra:    {Depth: 6, Index: 23},
	}
	finalityGIndex = [2]GeneralizedIndex{
		ForkPreElectra: {Depth: 6, Index: 41},
		ForkElectra:    {Depth: 7, Index: 41},
	}
)

// CurrentSyncCommitteeGIndex returns the (depth, index) pair for the
// current_sync_committee field at the given fork.
func CurrentSyncCommitteeGIndex(f Fork) GeneralizedIndex { return currentCommitteeGIndex[f] }

// NextSyncCommitteeGIndex returns the (depth, index) pair for the
// next_sync_committee field at the given fork.
func NextSyncCommitteeGIndex(f Fork) GeneralizedIndex { return nextCommitteeGIndex[f] }

// FinalityGIndex returns the (depth, index) pair for the finalized_header
// field at the given fork.
func FinalityGIndex(f Fork) GeneralizedIndex { return finalityGIndex[f] }
