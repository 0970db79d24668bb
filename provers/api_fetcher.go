package relayer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	zrntcommon "github.com/protolambda/zrnt/eth2/beacon/common"

	"github.com/subeth-bridge/core/bridgeerrors"
	types2 "github.com/subeth-bridge/core/provers/types"
	"github.com/subeth-bridge/core/types"
)

// APIFetcher implements Fetcher by calling Beacon API REST endpoint
type APIFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewAPIFetcher creates a new APIFetcher with the given base URL
func NewAPIFetcher(baseURL string) *APIFetcher {
	return &APIFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{},
	}
}

// get issues one GET against path (with optional query) and returns the
// response body, classifying failures into the relayer's typed error
// surface (spec §7): a transport error or any status other than 200 is
// ErrEndpointUnavailable, so the relayer's retry loop can tell it apart
// from a permanently malformed payload.
func (a *APIFetcher) get(path string, query url.Values) ([]byte, error) {
	endpoint, err := url.Parse(a.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api fetcher: invalid base url: %w", err)
	}
	endpoint.Path = path
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	resp, err := a.Client.Get(endpoint.String())
	if err != nil {
		return nil, bridgeerrors.ErrEndpointUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, bridgeerrors.ErrEndpointUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, bridgeerrors.ErrEndpointUnavailable
	}
	return body, nil
}

// ScUpdate retrieves the light client update proving period's transition
// to period+1, via GET
// /eth/v1/beacon/light_client/updates?start_period=&count=1.
func (a *APIFetcher) ScUpdate(period uint64) (*types.LightClientUpdate, error) {
	query := url.Values{}
	query.Set("start_period", strconv.FormatUint(period, 10))
	query.Set("count", "1")

	body, err := a.get("/eth/v1/beacon/light_client/updates", query)
	if err != nil {
		return nil, err
	}

	var apiResponse types2.ScUpdateAPIResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, bridgeerrors.ErrDecodeFailure
	}
	if len(apiResponse) == 0 {
		return nil, fmt.Errorf("api fetcher: no light client update for period %d", period)
	}
	return &apiResponse[0], nil
}

// Block retrieves a beacon block by slot via GET /eth/v2/beacon/blocks/{slot}.
func (a *APIFetcher) Block(slot uint64) (*types2.BlockAPIResponse, error) {
	body, err := a.get(fmt.Sprintf("/eth/v2/beacon/blocks/%d", slot), nil)
	if err != nil {
		return nil, err
	}

	var blockResponse types2.BlockAPIResponse
	if err := json.Unmarshal(body, &blockResponse); err != nil {
		return nil, bridgeerrors.ErrDecodeFailure
	}
	return &blockResponse, nil
}

// Bootstrap retrieves the trusted checkpoint header and sync committee for
// blockRoot via GET /eth/v1/beacon/light_client/bootstrap/{block_root}.
func (a *APIFetcher) Bootstrap(blockRoot string) (*types2.Bootstrap, error) {
	body, err := a.get("/eth/v1/beacon/light_client/bootstrap/"+blockRoot, nil)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Data struct {
			Header struct {
				Beacon zrntcommon.BeaconBlockHeader `json:"beacon"`
			} `json:"header"`
			CurrentSyncCommittee zrntcommon.SyncCommittee `json:"current_sync_committee"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, bridgeerrors.ErrDecodeFailure
	}

	return &types2.Bootstrap{
		Header:    raw.Data.Header.Beacon,
		Committee: raw.Data.CurrentSyncCommittee.Pubkeys,
	}, nil
}
