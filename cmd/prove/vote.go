package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/subeth-bridge/core/consts"
)

// voteFile is the on-disk JSON shape `prove validator-set-change` reads
// the GRANDPA pre-commit vote from: the SCALE enum discriminant byte, the
// finalized block's hash, and the block-number/round/set-id trailer
// (circuits/block_finality.go's GrandpaVoteTargets layout, spec §4.D).
type voteFile struct {
	Aux       string `json:"aux"`
	BlockHash string `json:"block_hash"`
	Trailer   string `json:"trailer"`
}

const voteTrailerSize = consts.GrandpaVoteLength - consts.GrandpaTrailerOffset

// loadVote reads path and returns the vote's fixed-width fields, each
// range-checked to the exact byte width GrandpaVoteTargets expects.
func loadVote(path string) (aux byte, blockHash [32]byte, trailer [voteTrailerSize]byte, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, blockHash, trailer, fmt.Errorf("load vote: %w", err)
	}
	var v voteFile
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, blockHash, trailer, fmt.Errorf("load vote: parse %s: %w", path, err)
	}

	auxBytes, err := hex.DecodeString(v.Aux)
	if err != nil || len(auxBytes) != 1 {
		return 0, blockHash, trailer, fmt.Errorf("load vote: aux must be 1 byte hex")
	}
	aux = auxBytes[0]

	bh, err := hex.DecodeString(v.BlockHash)
	if err != nil || len(bh) != 32 {
		return 0, blockHash, trailer, fmt.Errorf("load vote: block_hash must be 32 bytes hex")
	}
	copy(blockHash[:], bh)

	tr, err := hex.DecodeString(v.Trailer)
	if err != nil || len(tr) != voteTrailerSize {
		return 0, blockHash, trailer, fmt.Errorf("load vote: trailer must be %d bytes hex", voteTrailerSize)
	}
	copy(trailer[:], tr)

	return aux, blockHash, trailer, nil
}
