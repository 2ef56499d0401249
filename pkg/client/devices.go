package client

import "context"

// DeviceService handles device connectivity API calls
type DeviceService struct {
	client *Client
}

// Statuses retrieves the connectivity state of all known devices
func (s *DeviceService) Statuses(ctx context.Context) ([]DeviceStatus, error) {
	var statuses []DeviceStatus
	if err := s.client.doRequest(ctx, "GET", "/api/v1/devices/status", nil, &statuses); err != nil {
		return nil, err
	}

	return statuses, nil
}
