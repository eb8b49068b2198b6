package client

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"stationsync/internal/models"
)

// UpstreamClient talks to the vendor station API. The stations endpoint and
// the per-station data endpoint share the api-key query parameter and the
// X-Api-Secret header.
type UpstreamClient struct {
	*BaseClient
	stationsURL string
	dataURL     string
	apiKey      string
}

type stationListResponse struct {
	Stations []models.Station `json:"stations"`
}

// SnapshotPayload is the vendor's per-station data response. Sensors keep the
// vendor's nested shape untouched.
type SnapshotPayload struct {
	StationID     int             `json:"station_id"`
	StationIDUUID string          `json:"station_id_uuid"`
	GeneratedAt   int64           `json:"generated_at"`
	Sensors       []models.Sensor `json:"sensors"`
}

// NewUpstreamClient builds the vendor client. stationsURL is expected to end
// in "?" or "&" so the api-key parameter can be appended directly, matching
// the deployment convention for BASE_URL_STATIONS.
func NewUpstreamClient(stationsURL, dataURL, apiKey, apiSecret string, config ClientConfig, logger *zap.Logger) *UpstreamClient {
	headers := map[string]string{
		"X-Api-Secret": apiSecret,
	}
	return &UpstreamClient{
		BaseClient:  NewBaseClient("upstream", config, headers, logger),
		stationsURL: stationsURL,
		dataURL:     dataURL,
		apiKey:      apiKey,
	}
}

// ListStations fetches every station the configured key has access to.
func (c *UpstreamClient) ListStations(ctx context.Context) ([]models.Station, error) {
	url := fmt.Sprintf("%sapi-key=%s", c.stationsURL, c.apiKey)

	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station list: %w", err)
	}

	var response stationListResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse station list: %w", err)
	}
	return response.Stations, nil
}

// StationData fetches the current sensor payload for one station.
func (c *UpstreamClient) StationData(ctx context.Context, stationUUID string) (*SnapshotPayload, error) {
	data, err := c.RawStationData(ctx, stationUUID)
	if err != nil {
		return nil, err
	}

	var payload SnapshotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse station data: %w", err)
	}
	return &payload, nil
}

// RawStationData returns the vendor response body untouched, for the proxy
// endpoint that bypasses the store.
func (c *UpstreamClient) RawStationData(ctx context.Context, stationUUID string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s%s?api-key=%s", c.dataURL, stationUUID, c.apiKey)

	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station data: %w", err)
	}
	return data, nil
}
