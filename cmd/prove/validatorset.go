package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/subeth-bridge/core/consts"
)

// loadValidatorSet reads path as a JSON array of hex-encoded 32-byte
// Ed25519 public keys (e.g. `["ab12...", "cd34..."]`), the input format
// `prove genesis`/`prove validator-set-change` expect for a validator
// set.
func loadValidatorSet(path string) ([][32]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load validator set: %w", err)
	}
	var hexKeys []string
	if err := json.Unmarshal(raw, &hexKeys); err != nil {
		return nil, fmt.Errorf("load validator set: parse %s: %w", path, err)
	}
	out := make([][32]byte, len(hexKeys))
	for i, h := range hexKeys {
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, fmt.Errorf("load validator set: entry %d: %w", i, err)
		}
		if len(b) != 32 {
			return nil, fmt.Errorf("load validator set: entry %d: want 32 bytes, got %d", i, len(b))
		}
		copy(out[i][:], b)
	}
	return out, nil
}

// validatorKeyXY is one validator's key reinterpreted as a point on
// circuits.GrandpaSignatureCurve: X carries the validator's original
// 32-byte Ed25519-style authority id (the bytes ValidatorSetHashCircuit's
// commitment still hashes), Y is the companion coordinate a prover needs
// to assert the point lies on curve (circuits/block_finality.go's
// on-curve check). Loaded separately from loadValidatorSet's plain byte
// list because the committed validator set format predates the
// curve-substitution decision (DESIGN.md) and never carried a Y half.
type validatorKeyXY struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// loadValidatorSetXY reads path as a JSON array of validatorKeyXY,
// ascending in the same order the set's commitment hash was computed
// over, and returns the raw 32-byte X halves (for ValidatorSetHashCircuit
// parity) alongside the parsed Y field elements (for
// SingleValidatorSignCircuit's PubKeyY witness).
func loadValidatorSetXY(path string) (xs [][32]byte, ys []*big.Int, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load validator set (xy): %w", err)
	}
	var entries []validatorKeyXY
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, nil, fmt.Errorf("load validator set (xy): parse %s: %w", path, err)
	}
	xs = make([][32]byte, len(entries))
	ys = make([]*big.Int, len(entries))
	for i, e := range entries {
		xb, err := hex.DecodeString(e.X)
		if err != nil {
			return nil, nil, fmt.Errorf("load validator set (xy): entry %d x: %w", i, err)
		}
		if len(xb) != 32 {
			return nil, nil, fmt.Errorf("load validator set (xy): entry %d: want 32-byte x, got %d", i, len(xb))
		}
		copy(xs[i][:], xb)

		y, ok := new(big.Int).SetString(e.Y, 16)
		if !ok {
			return nil, nil, fmt.Errorf("load validator set (xy): entry %d: invalid y %q", i, e.Y)
		}
		ys[i] = y
	}
	return xs, ys, nil
}

// padValidatorKeysY zero-pads ys up to consts.MaxValidatorCount entries in
// the same order bridgetypes.PadValidatorSet pads the matching X halves,
// so PubKeys[i] and PubKeyY[i] always refer to the same validator.
func padValidatorKeysY(ys []*big.Int) (padded [consts.MaxValidatorCount]*big.Int) {
	for i := range padded {
		padded[i] = big.NewInt(0)
	}
	for i, y := range ys {
		padded[i] = y
	}
	return padded
}

// signerEntry is one GRANDPA pre-commit signature `prove
// validator-set-change` folds into a ValidatorSignsChain proof.
type signerEntry struct {
	PubKeyX string `json:"pubkey_x"`
	PubKeyY string `json:"pubkey_y"`
	SigRX   string `json:"sig_rx"`
	SigRY   string `json:"sig_ry"`
	SigS    string `json:"sig_s"`
	Index   int    `json:"index"`
}

// loadSigns reads path as a JSON array of signerEntry, ascending by Index
// (the order ValidatorSignsChainCircuit folds links in).
func loadSigns(path string) ([]signerEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load signs: %w", err)
	}
	var entries []signerEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("load signs: parse %s: %w", path, err)
	}
	return entries, nil
}
