package main

import (
	"os"

	"github.com/subeth-bridge/core/provers"
	"github.com/subeth-bridge/core/provers/types"
)

func main() {
	relayer.RelayerMain(types.NewConfig(os.Args...))
}
