package types

import (
	"os"
	"strconv"
)

// Config holds the relayer configuration
type Config struct {
	RootDir string

	// RPCEndpoint is the beacon node API base URL
	RPCEndpoint string
	// InitPeriod is the period to start fetching updates from
	InitPeriod uint64

	Slot uint64

	// VaraEndpoint is the Substrate/Gear node the `prove` subcommands and
	// the era relayer submit wrapped proofs to (spec §6, §4.H).
	VaraEndpoint string

	// Network selects the beacon-chain fork schedule the light client
	// uses for its generalized-index tables (consts.Mainnet/Sepolia/Holesky).
	Network string
	// BootstrapRoot is the beacon block root the relayer bootstraps its
	// light client from, via Fetcher.Bootstrap (spec §3 "Init").
	BootstrapRoot string

	// ProofWithPublicInputsPath, CommonCircuitDataPath and
	// VerifierOnlyCircuitDataPath name the artifact paths `prove wrapped`
	// reads, kept as plain file paths rather than a config struct so this
	// mirrors the original CLI's flag names exactly (spec §6).
	ProofWithPublicInputsPath   string
	CommonCircuitDataPath       string
	VerifierOnlyCircuitDataPath string

	// ValidatorSetPath names a JSON file of hex-encoded Ed25519 pubkeys
	// (`prove genesis`/`prove validator-set-change`'s input validator set).
	ValidatorSetPath string
	// PrevValidatorSetPath is the previous era's validator set, required
	// by `prove validator-set-change` alongside ValidatorSetPath (the new
	// era's set).
	PrevValidatorSetPath string
	// SignsPath names a JSON file describing one GRANDPA round's signer
	// set (`prove validator-set-change`'s finality evidence for the
	// previous era).
	SignsPath string
	// VotePath names a JSON file describing the GRANDPA pre-commit vote
	// (spec §4.D) the previous era's validators signed, attesting
	// finality of the block that commits to the new validator set.
	VotePath string
}

func NewConfig(args ...string) *Config {
	// Parse configuration from environment variables or command line args
	config := Config{
		RootDir:      getEnv("ROOT", "."),
		RPCEndpoint:  getEnv("RPC_ENDPOINT", "https://lodestar-sepolia.chainsafe.io/"),
		VaraEndpoint: getEnv("VARA_ENDPOINT", "http://127.0.0.1:9944"),
		Network:      getEnv("NETWORK", "mainnet"),
		InitPeriod:   0,
		Slot:         0,
	}

	for i := 0; i < len(args); i++ {
		if len(args) <= i+1 {
			continue // bare flags (subcommand names) have no value; skip rather than panic
		}

		switch args[i] {
		case "--slot":
			config.Slot, _ = strconv.ParseUint(args[i+1], 10, 64)
			i++
		case "--root":
			config.RootDir = args[i+1]
			i++
		case "--init-period":
			config.InitPeriod, _ = strconv.ParseUint(args[i+1], 10, 64)
			i++
		case "--rpc":
			config.RPCEndpoint = args[i+1]
			i++
		case "--vara-endpoint":
			config.VaraEndpoint = args[i+1]
			i++
		case "--network":
			config.Network = args[i+1]
			i++
		case "--bootstrap-root":
			config.BootstrapRoot = args[i+1]
			i++
		case "--proof-with-public-inputs-path":
			config.ProofWithPublicInputsPath = args[i+1]
			i++
		case "--common-circuit-data-path":
			config.CommonCircuitDataPath = args[i+1]
			i++
		case "--verifier-only-circuit-data-path":
			config.VerifierOnlyCircuitDataPath = args[i+1]
			i++
		case "--validator-set-path":
			config.ValidatorSetPath = args[i+1]
			i++
		case "--prev-validator-set-path":
			config.PrevValidatorSetPath = args[i+1]
			i++
		case "--signs-path":
			config.SignsPath = args[i+1]
			i++
		case "--vote-path":
			config.VotePath = args[i+1]
			i++
		}
	}

	return &config
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
