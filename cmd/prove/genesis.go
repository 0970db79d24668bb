package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/rs/zerolog/log"

	circuit "github.com/subeth-bridge/core/circuits"
	"github.com/subeth-bridge/core/consts"
	cfgtypes "github.com/subeth-bridge/core/provers/types"
	bridgetypes "github.com/subeth-bridge/core/types"
)

// runGenesis compiles ValidatorSetHashCircuit, runs its Groth16 setup, and
// proves the trusted genesis validator set's commitment — the root proof
// every later validator-set-rotation composes against (spec §6, §4.C).
// cfg.ValidatorSetPath names the genesis validator set (a JSON array of
// hex-encoded Ed25519 pubkeys).
func runGenesis(cfg *cfgtypes.Config) error {
	if cfg.ValidatorSetPath == "" {
		return fmt.Errorf("genesis: --validator-set-path is required")
	}
	pubkeys, err := loadValidatorSet(cfg.ValidatorSetPath)
	if err != nil {
		return err
	}

	log.Info().Msg("compiling validator set hash circuit")

	innerCircuit := &circuit.ValidatorSetHashCircuit{}
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, innerCircuit)
	if err != nil {
		return fmt.Errorf("genesis: compile: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return fmt.Errorf("genesis: setup: %w", err)
	}

	witness, err := genesisWitness(pubkeys)
	if err != nil {
		return err
	}
	fullWitness, err := frontend.NewWitness(witness, ecc.BN254.ScalarField())
	if err != nil {
		return fmt.Errorf("genesis: build witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return fmt.Errorf("genesis: prove: %w", err)
	}
	publicWitness, err := fullWitness.Public()
	if err != nil {
		return fmt.Errorf("genesis: public witness: %w", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return fmt.Errorf("genesis: self-verify: %w", err)
	}

	buildDir := filepath.Join(cfg.RootDir, ".build")
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("genesis: mkdir: %w", err)
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ValidatorSetHashCircuit.ccs"), ccs); err != nil {
		return err
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ValidatorSetHashCircuit.pk"), pk); err != nil {
		return err
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ValidatorSetHashCircuit.vk"), vk); err != nil {
		return err
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ValidatorSetHashCircuit.proof"), proof); err != nil {
		return err
	}
	if err := writeGroth16Artifact(filepath.Join(buildDir, "ValidatorSetHashCircuit.public"), publicWitness); err != nil {
		return err
	}

	log.Info().
		Int("max_validators", consts.MaxValidatorCount).
		Int("validator_count", len(pubkeys)).
		Msg("genesis circuit artifacts and proof written")
	return nil
}

// genesisWitness builds a ValidatorSetHashCircuit assignment from a
// genesis validator set, padding to consts.MaxValidatorCount and
// computing Hash with the same native blake2 routine Define asserts
// against in-circuit (types.ComputeValidatorSetHash).
func genesisWitness(pubkeys [][32]byte) (*circuit.ValidatorSetHashCircuit, error) {
	padded, count := bridgetypes.PadValidatorSet(pubkeys)
	hash := bridgetypes.ComputeValidatorSetHash(pubkeys)

	w := &circuit.ValidatorSetHashCircuit{Count: count}
	for i := range padded {
		for b := 0; b < 32; b++ {
			w.PubKeys[i][b] = padded[i][b]
		}
	}
	for b := 0; b < 32; b++ {
		w.Hash[b] = hash[b]
	}
	return w, nil
}

func writeGroth16Artifact(path string, v io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()
	if _, err := v.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
