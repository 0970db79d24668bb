package relayer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/emulated/sw_bls12381"
	"github.com/consensys/gnark/std/math/uints"
	"github.com/protolambda/zrnt/eth2/configs"
	"github.com/protolambda/ztyp/tree"
	"github.com/rs/zerolog/log"

	"github.com/subeth-bridge/core/bridgeerrors"
	"github.com/subeth-bridge/core/chainclient"
	circuit "github.com/subeth-bridge/core/circuits"
	"github.com/subeth-bridge/core/consts"
	"github.com/subeth-bridge/core/lightclient"
	cfgtypes "github.com/subeth-bridge/core/provers/types"
	"github.com/subeth-bridge/core/types"
)

// RelayerMain bootstraps a light client from config's trusted checkpoint
// and runs it forward, draining every period it advances through to the
// Vara/Gear chain via the era accumulator (spec §3, §4.H, §6).
func RelayerMain(config *cfgtypes.Config) {
	network := networkByName(config.Network)
	relayer, err := NewRelayer(config, NewAPIFetcher(config.RPCEndpoint), network)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create relayer")
	}

	if err := relayer.Bootstrap(); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap light client")
	}

	relayer.loadCircuit() // optional accelerator; absent is not fatal

	relayer.Run()
}

func networkByName(name string) consts.NetworkConfig {
	switch name {
	case "sepolia":
		return consts.Sepolia
	case "holesky":
		return consts.Holesky
	default:
		return consts.Mainnet
	}
}

// Relayer drives a lightclient.Client forward over a sequence of
// sync-committee periods, handing each verified advancement to an
// EraAccumulator keyed by sync-committee period, and drains that
// accumulator to the destination chain (spec §4.H's ascending,
// finalization-gated submission order, generalized here from
// authority-set id to beacon sync-committee period since this relayer's
// domain is the Ethereum-to-Substrate direction of the bridge).
type Relayer struct {
	config  *cfgtypes.Config
	network consts.NetworkConfig
	fetcher cfgtypes.Fetcher
	client  *lightclient.Client
	eras    *EraAccumulator
	sender  Sender

	// ccs/pk are the compiled Eth2ScUpdateCircuit and its proving key,
	// loaded lazily: present only when a deployment has run
	// setup_circuit.go (the module root's main package) and placed
	// artifacts on disk. When absent,
	// replay-back falls back to the native BLS verification path
	// (lightclient.ProcessReplayBack).
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// NewRelayer creates a Relayer for the given fetcher and network. It does
// not yet hold a lightclient.Client; call Bootstrap before Run.
func NewRelayer(config *cfgtypes.Config, fetcher cfgtypes.Fetcher, network consts.NetworkConfig) (*Relayer, error) {
	_ = os.MkdirAll(config.RootDir, 0755)

	var sender Sender
	if config.VaraEndpoint != "" {
		sender = &chainSender{client: chainclient.New(config.VaraEndpoint)}
	}

	return &Relayer{
		config:  config,
		network: network,
		fetcher: fetcher,
		eras:    NewEraAccumulator(),
		sender:  sender,
	}, nil
}

// Bootstrap initializes the relayer's light client from the fetcher's
// trusted checkpoint for config.BootstrapRoot.
func (r *Relayer) Bootstrap() error {
	checkpoint, err := r.fetcher.Bootstrap(r.config.BootstrapRoot)
	if err != nil {
		return fmt.Errorf("relayer: bootstrap: %w", err)
	}

	client, err := lightclient.New(r.network, checkpoint.Header, checkpoint.Committee)
	if err != nil {
		return fmt.Errorf("relayer: init light client: %w", err)
	}
	r.client = client
	log.Info().Uint64("slot", uint64(checkpoint.Header.Slot)).Msg("light client bootstrapped")
	return nil
}

// loadCircuit attempts to load the compiled Eth2ScUpdateCircuit and its
// proving key from .build/ under config.RootDir. Its absence silently
// disables the accelerated replay-back path.
func (r *Relayer) loadCircuit() {
	ccsPath := filepath.Join(r.config.RootDir, ".build/Eth2ScUpdateCircuit.ccs")
	pkPath := filepath.Join(r.config.RootDir, ".build/Eth2ScUpdateCircuit.pk")

	fCcs, err := os.Open(ccsPath)
	if err != nil {
		log.Debug().Msg("no compiled Eth2ScUpdateCircuit on disk, replay-back will use native BLS verification")
		return
	}
	ccs := groth16.NewCS(ecc.BN254)
	if _, err := ccs.ReadFrom(fCcs); err != nil {
		_ = fCcs.Close()
		log.Warn().Err(err).Msg("failed to read Eth2ScUpdateCircuit, disabling accelerated replay-back")
		return
	}
	_ = fCcs.Close()

	fpk, err := os.Open(pkPath)
	if err != nil {
		log.Warn().Err(err).Msg("no proving key for Eth2ScUpdateCircuit, disabling accelerated replay-back")
		return
	}
	pk := groth16.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(fpk); err != nil {
		_ = fpk.Close()
		log.Warn().Err(err).Msg("failed to read Eth2ScUpdateCircuit proving key, disabling accelerated replay-back")
		return
	}
	_ = fpk.Close()

	vkPath := filepath.Join(r.config.RootDir, ".build/Eth2ScUpdateCircuit.vk")
	fvk, err := os.Open(vkPath)
	if err != nil {
		log.Warn().Err(err).Msg("no verifying key for Eth2ScUpdateCircuit, disabling accelerated replay-back")
		return
	}
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(fvk); err != nil {
		_ = fvk.Close()
		log.Warn().Err(err).Msg("failed to read Eth2ScUpdateCircuit verifying key, disabling accelerated replay-back")
		return
	}
	_ = fvk.Close()

	r.ccs, r.pk, r.vk = ccs, pk, vk
	log.Info().Int("constraints", ccs.GetNbConstraints()).Msg("loaded Eth2ScUpdateCircuit accelerator")
}

// Run polls for light client updates starting at config.InitPeriod and
// processes them forever, handling replay-back requests as they arise and
// draining the era accumulator after every period the client advances
// through.
func (r *Relayer) Run() {
	period := r.config.InitPeriod

	for {
		update, err := r.fetcher.ScUpdate(period)
		if err != nil {
			log.Warn().Err(err).Uint64("period", period).Msg("fetch failed, retrying")
			time.Sleep(time.Second)
			continue
		}

		if err := r.client.Process(update); err != nil {
			if target, ok := replayTarget(err); ok {
				r.runReplayBack(target)
				continue // resume forward polling once caught up
			}
			log.Warn().Err(err).Uint64("period", period).Msg("update rejected")
			time.Sleep(time.Second)
			continue
		}

		r.enqueueAdvancement(period, update)
		if r.sender != nil {
			r.eras.Drain(r.sender)
		}

		period++
	}
}

// replayTarget unwraps a bridgeerrors.ReplayBackRequired error's target
// period, if err is one.
func replayTarget(err error) (uint64, bool) {
	lcErr, ok := err.(*bridgeerrors.LightClientError)
	if !ok || lcErr.Code != "ReplayBackRequired" {
		return 0, false
	}
	return lcErr.TargetPeriod, true
}

// runReplayBack walks the client backward to target, one period at a
// time, preferring the accelerated Eth2ScUpdateCircuit path when a
// compiled circuit is loaded.
func (r *Relayer) runReplayBack(target uint64) {
	if err := r.client.StartReplayBack(target); err != nil {
		log.Error().Err(err).Uint64("target", target).Msg("failed to start replay-back")
		return
	}

	for {
		cursor := r.client.ReplayCursor()
		update, err := r.fetcher.ScUpdate(cursor)
		if err != nil {
			log.Warn().Err(err).Uint64("period", cursor).Msg("replay-back fetch failed, retrying")
			time.Sleep(time.Second)
			continue
		}

		if r.ccs != nil && r.pk != nil && r.vk != nil {
			err = r.processReplayBackAccelerated(update)
		} else {
			err = r.client.ProcessReplayBack(update)
		}
		if err != nil {
			log.Error().Err(err).Uint64("period", cursor).Msg("replay-back step failed")
			time.Sleep(time.Second)
			continue
		}

		r.enqueueAdvancement(cursor, update)
		if r.client.State() == lightclient.StateOperational {
			return
		}
	}
}

// processReplayBackAccelerated proves update with the loaded
// Eth2ScUpdateCircuit and hands the resulting proof to
// lightclient.ProcessReplayBackVerified, instead of the native BLS check.
func (r *Relayer) processReplayBackAccelerated(update *types.LightClientUpdate) error {
	proof, err := r.proveEth2ScUpdate(update)
	if err != nil {
		return fmt.Errorf("relayer: accelerated replay-back proving: %w", err)
	}
	return r.client.ProcessReplayBackVerified(update, proof)
}

// proveEth2ScUpdate runs the full in-circuit BLS sync-committee-update
// proof for update, against the sync committee the client currently
// trusts as signer.
func (r *Relayer) proveEth2ScUpdate(update *types.LightClientUpdate) (*circuit.ProofWithCircuitData[circuit.Eth2ScUpdateTargets], error) {
	committee, err := r.client.CurrentCommitteeG1()
	if err != nil {
		return nil, err
	}
	pubKeysHash := types.ComputeScPubKeysHash(committee)

	sigBytes := update.Data.SyncAggregate.SyncCommitteeSignature[:]
	bits := types.ParseSyncCommitteeBits(update.Data.SyncAggregate.SyncCommitteeBits)

	witness := &circuit.Eth2ScUpdateCircuit{
		Slot:          uint64(update.Data.AttestedHeader.Beacon.Slot),
		ProposerIndex: uint64(update.Data.AttestedHeader.Beacon.ProposerIndex),
	}
	for i := 0; i < 32; i++ {
		witness.ParentRoot[i] = uints.NewU8(update.Data.AttestedHeader.Beacon.ParentRoot[i])
		witness.StateRoot[i] = uints.NewU8(update.Data.AttestedHeader.Beacon.StateRoot[i])
		witness.BodyRoot[i] = uints.NewU8(update.Data.AttestedHeader.Beacon.BodyRoot[i])
		witness.ScPubKeysHash[i] = uints.NewU8(pubKeysHash[i])
	}
	for i := 0; i < 512; i++ {
		witness.ScPubKeys[i] = sw_bls12381.NewG1Affine(committee[i])
		if bits[i] {
			witness.ScBits[i] = 1
		} else {
			witness.ScBits[i] = 0
		}
	}
	var signature bls12381.G2Affine
	if _, err := signature.SetBytes(sigBytes); err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}
	witness.AggregatedSig = sw_bls12381.NewG2Affine(signature)

	nextRoot := update.Data.NextSyncCommittee.HashTreeRoot(configs.Mainnet, tree.GetHashFn())
	for i := 0; i < 32; i++ {
		witness.NextScRoot[i] = uints.NewU8(nextRoot[i])
	}
	for i := 0; i < 6; i++ {
		for j := 0; j < 32; j++ {
			witness.NextScBranch[i][j] = uints.NewU8(update.Data.NextSyncCommitteeBranch[i][j])
		}
	}

	fullWitness, err := frontend.NewWitness(witness, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("build witness: %w", err)
	}
	proof, err := groth16.Prove(r.ccs, r.pk, fullWitness, backend.WithProverHashToFieldFunction(sha256.New()))
	if err != nil {
		return nil, fmt.Errorf("groth16 prove: %w", err)
	}
	return circuit.NewProofWithCircuitData(proof, r.vk, circuit.NewEth2ScUpdateTargets(pubKeysHash, [32]byte(nextRoot))), nil
}

// enqueueAdvancement records the update the client just accepted for
// period into the era accumulator, and marks the previous era finalized
// (its sync-committee rotation is now superseded, so any message gated on
// it is safe to submit).
func (r *Relayer) enqueueAdvancement(period uint64, update *types.LightClientUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		log.Error().Err(err).Uint64("period", period).Msg("failed to marshal update for submission")
		return
	}
	r.eras.Add(period, PendingMessage{
		BlockNumber: uint64(update.Data.AttestedHeader.Beacon.Slot),
		Payload:     payload,
	})
	if period > 0 {
		r.eras.MarkFinalized(period - 1)
	}
}

// chainSender adapts chainclient.Client to the Sender interface,
// SCALE-encoding-by-proxy via hex (the wrapped proof/update payload is
// opaque to this relayer; the destination program decodes it).
type chainSender struct {
	client *chainclient.Client
}

func (s *chainSender) Send(msg PendingMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err := s.client.SubmitExtrinsic(ctx, "0x"+hex.EncodeToString(msg.Payload))
	return err
}
