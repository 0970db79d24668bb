// Command prove drives the three proving entry points this bridge exposes
// to an operator (spec §6): bootstrapping a genesis validator-set-hash
// proof, composing a validator-set-rotation (validator-set-change) proof
// on top of it, and submitting three already-produced artifact files to
// the configured Vara/Gear endpoint. Subcommand
// dispatch and flag parsing follow the same manual argv/env style as
// provers/types/config.go rather than introducing a CLI framework the
// rest of this module never uses.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	cfgtypes "github.com/subeth-bridge/core/provers/types"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: prove <genesis|validator-set-change|wrapped> [flags]")
		os.Exit(1)
	}

	cmd := os.Args[1]
	cfg := cfgtypes.NewConfig(os.Args[2:]...)

	var err error
	switch cmd {
	case "genesis":
		err = runGenesis(cfg)
	case "validator-set-change":
		err = runValidatorSetChange(cfg)
	case "wrapped":
		err = runWrapped(cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", cmd)
		os.Exit(1)
	}

	if err != nil {
		log.Fatal().Err(err).Str("subcommand", cmd).Msg("prove failed")
	}
}
