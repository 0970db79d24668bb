package relayer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cfgtypes "github.com/subeth-bridge/core/provers/types"
	"github.com/subeth-bridge/core/types"
)

func TestFileFetcherImplementsFetcher(t *testing.T) {
	var _ cfgtypes.Fetcher = &FileFetcher{}
}

func TestFileFetcherScUpdate(t *testing.T) {
	dir := t.TempDir()
	update := types.LightClientUpdate{}
	data, err := json.Marshal(update)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "update_42.json"), data, 0o644))

	f := NewFileFetcher(dir)
	got, err := f.ScUpdate(42)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestFileFetcherScUpdateMissingFile(t *testing.T) {
	f := NewFileFetcher(t.TempDir())
	_, err := f.ScUpdate(7)
	require.Error(t, err)
}

func TestFileFetcherBootstrap(t *testing.T) {
	dir := t.TempDir()
	bootstrap := cfgtypes.Bootstrap{}
	data, err := json.Marshal(bootstrap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bootstrap_0xabc.json"), data, 0o644))

	f := NewFileFetcher(dir)
	got, err := f.Bootstrap("0xabc")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestFileFetcherBlock(t *testing.T) {
	dir := t.TempDir()
	block := cfgtypes.BlockAPIResponse{}
	data, err := json.Marshal(block)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "block_100.json"), data, 0o644))

	f := NewFileFetcher(dir)
	got, err := f.Block(100)
	require.NoError(t, err)
	require.NotNil(t, got)
}
