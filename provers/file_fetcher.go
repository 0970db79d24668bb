package relayer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	cfgtypes "github.com/subeth-bridge/core/provers/types"
	"github.com/subeth-bridge/core/types"
)

// FileFetcher implements cfgtypes.Fetcher by reading recorded JSON
// fixtures off disk instead of calling a beacon node, for offline replay
// and for tests that exercise Relayer/EraAccumulator without a live API
// (spec §6). Dir holds one file per artifact: update_<period>.json for
// ScUpdate, block_<slot>.json for Block.
type FileFetcher struct {
	Dir string
}

// NewFileFetcher creates a new FileFetcher rooted at the given fixture directory.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Dir: dir}
}

// ScUpdate reads and parses the light client update recorded for period.
func (f *FileFetcher) ScUpdate(period uint64) (*types.LightClientUpdate, error) {
	path := filepath.Join(f.Dir, fmt.Sprintf("update_%d.json", period))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var update types.LightClientUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &update, nil
}

// Block reads and parses the beacon block recorded for slot.
func (f *FileFetcher) Block(slot uint64) (*cfgtypes.BlockAPIResponse, error) {
	path := filepath.Join(f.Dir, fmt.Sprintf("block_%d.json", slot))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var block cfgtypes.BlockAPIResponse
	if err := json.Unmarshal(data, &block); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &block, nil
}

// Bootstrap reads and parses the checkpoint fixture recorded for
// blockRoot (bootstrap_<root>.json), for offline replay of the relayer's
// bootstrap step.
func (f *FileFetcher) Bootstrap(blockRoot string) (*cfgtypes.Bootstrap, error) {
	path := filepath.Join(f.Dir, fmt.Sprintf("bootstrap_%s.json", blockRoot))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var bootstrap cfgtypes.Bootstrap
	if err := json.Unmarshal(data, &bootstrap); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &bootstrap, nil
}
