package main

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	circuit "github.com/subeth-bridge/core/circuits"
	bridgetypes "github.com/subeth-bridge/core/types"
)

// proveValidatorSetHash compiles ValidatorSetHashCircuit, runs its Groth16
// setup, and proves the commitment over pubkeys for `prove
// validator-set-change`'s new-era hash proof, building its witness with
// genesisWitness, the same builder `prove genesis` uses (spec §4.C).
func proveValidatorSetHash(pubkeys [][32]byte) (signChainLink, constraint.ConstraintSystem, [32]byte, error) {
	scs := ecc.BN254.ScalarField()

	ccs, err := frontend.Compile(scs, r1cs.NewBuilder, &circuit.ValidatorSetHashCircuit{})
	if err != nil {
		return signChainLink{}, nil, [32]byte{}, fmt.Errorf("validator-set-hash: compile: %w", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return signChainLink{}, nil, [32]byte{}, fmt.Errorf("validator-set-hash: setup: %w", err)
	}

	w, err := genesisWitness(pubkeys)
	if err != nil {
		return signChainLink{}, nil, [32]byte{}, err
	}
	full, err := frontend.NewWitness(w, scs)
	if err != nil {
		return signChainLink{}, nil, [32]byte{}, fmt.Errorf("validator-set-hash: build witness: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, full)
	if err != nil {
		return signChainLink{}, nil, [32]byte{}, fmt.Errorf("validator-set-hash: prove: %w", err)
	}
	pub, err := full.Public()
	if err != nil {
		return signChainLink{}, nil, [32]byte{}, fmt.Errorf("validator-set-hash: public witness: %w", err)
	}

	hash := bridgetypes.ComputeValidatorSetHash(pubkeys)
	return signChainLink{Proof: proof, VK: vk, PublicWitness: pub}, ccs, hash, nil
}
