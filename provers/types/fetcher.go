package types

import (
	"github.com/protolambda/zrnt/eth2/beacon/electra"
	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"

	"github.com/subeth-bridge/core/types"
)

// ScUpdateAPIResponse represents the Beacon API response structure
type ScUpdateAPIResponse = []types.LightClientUpdate

// BlockAPIResponse represents the Beacon API v2 response for blocks
type BlockAPIResponse struct {
	Version             string                    `json:"version"`
	ExecutionOptimistic bool                      `json:"execution_optimistic"`
	Finalized           bool                      `json:"finalized"`
	Data                electra.SignedBeaconBlock `json:"data"`
}

// Bootstrap is the trusted checkpoint a light client starts from: an
// attested header plus the sync committee serving its period, mirroring
// the Beacon API's GET /eth/v1/beacon/light_client/bootstrap/{block_root}
// response (spec §3 "Init").
type Bootstrap struct {
	Header    zrntcommon.BeaconBlockHeader
	Committee []zrntcommon.BLSPubkey
}

// Fetcher defines the interface the era relayer polls for light-client
// updates, beacon blocks (for the Ethereum-event-inclusion path), and the
// trusted checkpoint it bootstraps lightclient.New from.
type Fetcher interface {
	// ScUpdate retrieves the LightClientUpdate proving period's
	// sync-committee transition to period+1.
	ScUpdate(period uint64) (*types.LightClientUpdate, error)
	Block(slot uint64) (*BlockAPIResponse, error)
	// Bootstrap retrieves the checkpoint header and sync committee
	// identified by blockRoot, the relayer's starting trust anchor.
	Bootstrap(blockRoot string) (*Bootstrap, error)
}
