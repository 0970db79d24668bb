package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/rs/zerolog/log"

	circuit "github.com/subeth-bridge/core/circuits"
	cfgtypes "github.com/subeth-bridge/core/provers/types"
	bridgetypes "github.com/subeth-bridge/core/types"
)

// runValidatorSetChange proves a full validator-set rotation (spec §6,
// §4.B "Open Question" resolution in circuits/compose.go): that the
// previous era's validator set (cfg.PrevValidatorSetPath) produced enough
// GRANDPA pre-commit signatures (cfg.SignsPath) over a vote
// (cfg.VotePath) finalizing a block committing to the new era's
// validator set (cfg.ValidatorSetPath), then composes that
// ValidatorSignsChain proof with the new set's own ValidatorSetHash proof
// into one ComposeValidatorSetRotationCircuit proof.
func runValidatorSetChange(cfg *cfgtypes.Config) error {
	if cfg.PrevValidatorSetPath == "" || cfg.ValidatorSetPath == "" || cfg.SignsPath == "" || cfg.VotePath == "" {
		return fmt.Errorf("validator-set-change: --prev-validator-set-path, --validator-set-path, --signs-path and --vote-path are all required")
	}

	prevX, prevY, err := loadValidatorSetXY(cfg.PrevValidatorSetPath)
	if err != nil {
		return err
	}
	nextPubkeys, err := loadValidatorSet(cfg.ValidatorSetPath)
	if err != nil {
		return err
	}
	signs, err := loadSigns(cfg.SignsPath)
	if err != nil {
		return err
	}
	aux, blockHash, trailer, err := loadVote(cfg.VotePath)
	if err != nil {
		return err
	}

	paddedPrevX, prevCount := bridgetypes.PadValidatorSet(prevX)
	paddedPrevY := padValidatorKeysY(prevY)
	prevSetHash := bridgetypes.ComputeValidatorSetHash(prevX)

	log.Info().Int("signers", len(signs)).Msg("proving validator signs chain")
	chainLink, chainCCS, err := buildValidatorSignsChain(prevSetHash, paddedPrevX, paddedPrevY, prevCount, aux, blockHash, trailer, signs)
	if err != nil {
		return err
	}

	log.Info().Int("validator_count", len(nextPubkeys)).Msg("proving new era validator set hash")
	setHashLink, setHashCCS, nextSetHash, err := proveValidatorSetHash(nextPubkeys)
	if err != nil {
		return err
	}

	log.Info().Msg("compiling validator set rotation circuit")
	scs := ecc.BN254.ScalarField()
	innerCircuit := &circuit.ComposeValidatorSetRotationCircuit{
		RotationChain: circuit.PlaceholderRecursiveProof(chainCCS),
		SetHashProof:  circuit.PlaceholderRecursiveProof(setHashCCS),
	}
	ccs, err := frontend.Compile(scs, r1cs.NewBuilder, innerCircuit)
	if err != nil {
		return fmt.Errorf("validator-set-change: compile: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return fmt.Errorf("validator-set-change: setup: %w", err)
	}

	rotationChain, err := circuit.AssignRecursiveProof(chainLink.Proof, chainLink.VK, chainLink.PublicWitness)
	if err != nil {
		return err
	}
	setHashProof, err := circuit.AssignRecursiveProof(setHashLink.Proof, setHashLink.VK, setHashLink.PublicWitness)
	if err != nil {
		return err
	}

	rotationWit := &circuit.ComposeValidatorSetRotationCircuit{
		RotationChain: rotationChain,
		SetHashProof:  setHashProof,
		Public: circuit.ValidatorSetRotationTargets{
			PrevSetHash: bytes32Target(prevSetHash),
			NextSetHash: bytes32Target(nextSetHash),
			Vote:        voteTarget(aux, blockHash, trailer),
		},
	}
	fullWitness, err := frontend.NewWitness(rotationWit, scs)
	if err != nil {
		return fmt.Errorf("validator-set-change: build witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return fmt.Errorf("validator-set-change: prove: %w", err)
	}
	publicWitness, err := fullWitness.Public()
	if err != nil {
		return fmt.Errorf("validator-set-change: public witness: %w", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return fmt.Errorf("validator-set-change: self-verify: %w", err)
	}

	buildDir := filepath.Join(cfg.RootDir, ".build")
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("validator-set-change: mkdir: %w", err)
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ComposeValidatorSetRotationCircuit.ccs"), ccs); err != nil {
		return err
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ComposeValidatorSetRotationCircuit.pk"), pk); err != nil {
		return err
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ComposeValidatorSetRotationCircuit.vk"), vk); err != nil {
		return err
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ComposeValidatorSetRotationCircuit.proof"), proof); err != nil {
		return err
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ComposeValidatorSetRotationCircuit.public"), publicWitness); err != nil {
		return err
	}

	log.Info().Msg("validator set rotation circuit artifacts and proof written")
	return nil
}
