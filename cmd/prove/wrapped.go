package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/subeth-bridge/core/chainclient"
	cfgtypes "github.com/subeth-bridge/core/provers/types"
)

// runWrapped reads a previously-produced proof/common-circuit-data/
// verifier-only-circuit-data triple and submits the three files' raw
// bytes, hex-encoded and concatenated in that order, as one extrinsic to
// the configured Vara/Gear endpoint (spec §6, §8). The files are not
// parsed or re-encoded.
func runWrapped(cfg *cfgtypes.Config) error {
	if cfg.ProofWithPublicInputsPath == "" || cfg.CommonCircuitDataPath == "" || cfg.VerifierOnlyCircuitDataPath == "" {
		return fmt.Errorf("wrapped: --proof-with-public-inputs-path, --common-circuit-data-path and --verifier-only-circuit-data-path are all required")
	}

	proofBytes, err := os.ReadFile(cfg.ProofWithPublicInputsPath)
	if err != nil {
		return fmt.Errorf("wrapped: read proof: %w", err)
	}
	commonBytes, err := os.ReadFile(cfg.CommonCircuitDataPath)
	if err != nil {
		return fmt.Errorf("wrapped: read common circuit data: %w", err)
	}
	vkBytes, err := os.ReadFile(cfg.VerifierOnlyCircuitDataPath)
	if err != nil {
		return fmt.Errorf("wrapped: read verifier-only circuit data: %w", err)
	}

	log.Info().
		Str("vara_endpoint", cfg.VaraEndpoint).
		Int("proof_bytes", len(proofBytes)).
		Int("common_bytes", len(commonBytes)).
		Int("vk_bytes", len(vkBytes)).
		Msg("submitting wrapped proof")

	extrinsic := "0x" + hex.EncodeToString(proofBytes) + hex.EncodeToString(commonBytes) + hex.EncodeToString(vkBytes)

	client := chainclient.New(cfg.VaraEndpoint)
	txHash, err := client.SubmitExtrinsic(context.Background(), extrinsic)
	if err != nil {
		return fmt.Errorf("wrapped: submit extrinsic: %w", err)
	}

	log.Info().Str("tx_hash", txHash).Msg("wrapped proof submitted")
	return nil
}
