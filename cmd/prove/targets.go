package main

import (
	circuit "github.com/subeth-bridge/core/circuits"
)

// bytes32Target converts a 32-byte digest into the circuit.Bytes32Target
// shape a witness's public ValidatorSet/Vote fields are assigned from.
func bytes32Target(b [32]byte) circuit.Bytes32Target {
	var out circuit.Bytes32Target
	for i, v := range b {
		out[i] = circuit.ByteTarget{Val: v}
	}
	return out
}

// voteTarget converts a vote's raw fields into the circuit.GrandpaVoteTargets
// shape ValidatorSignsChain*Circuit and ComposeValidatorSetRotationCircuit
// witnesses carry their public vote as.
func voteTarget(aux byte, blockHash [32]byte, trailer [voteTrailerSize]byte) circuit.GrandpaVoteTargets {
	var t circuit.GrandpaVoteTargets
	t.Aux = circuit.ByteTarget{Val: aux}
	t.BlockHash = bytes32Target(blockHash)
	for i, v := range trailer {
		t.Trailer[i] = circuit.ByteTarget{Val: v}
	}
	return t
}
