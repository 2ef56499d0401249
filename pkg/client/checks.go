package client

import (
	"context"
	"strconv"
)

// CheckService triggers on-demand detector runs
type CheckService struct {
	client *Client
}

// RunGeofence runs the geofence check, optionally scoped to one farm
func (s *CheckService) RunGeofence(ctx context.Context, farmID *int64) (*CheckSummary, error) {
	path := "/api/v1/checks/geofence"
	if farmID != nil {
		path += "?farm_id=" + strconv.FormatInt(*farmID, 10)
	}

	var summary CheckSummary
	if err := s.client.doRequest(ctx, "POST", path, nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// RunVaccinations runs the missed-vaccination check
func (s *CheckService) RunVaccinations(ctx context.Context) (*CheckSummary, error) {
	var summary CheckSummary
	if err := s.client.doRequest(ctx, "POST", "/api/v1/checks/vaccinations", nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// RunVitals runs the vitals health check
func (s *CheckService) RunVitals(ctx context.Context) (*CheckSummary, error) {
	var summary CheckSummary
	if err := s.client.doRequest(ctx, "POST", "/api/v1/checks/vitals", nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// ReportEscape reports an escape sighting for an animal
func (s *CheckService) ReportEscape(ctx context.Context, animalID int64) (*EscapeReport, error) {
	req := map[string]int64{"animal_id": animalID}

	var report EscapeReport
	if err := s.client.doRequest(ctx, "POST", "/api/v1/escapes", req, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
