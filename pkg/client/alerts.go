package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// ResolveAlertRequest represents a manual alert resolution request
type ResolveAlertRequest struct {
	ResolvedBy string `json:"resolved_by"`
	Notes      string `json:"notes,omitempty"`
}

// BulkResolveRequest represents a bulk alert resolution request
type BulkResolveRequest struct {
	IDs        []int64 `json:"ids"`
	ResolvedBy string  `json:"resolved_by"`
	Notes      string  `json:"notes,omitempty"`
}

// AlertListOptions contains options for listing alerts
type AlertListOptions struct {
	ListOptions
	AnimalID *int64  `json:"animal_id,omitempty"`
	FarmID   *int64  `json:"farm_id,omitempty"`
	Category *string `json:"category,omitempty"`
	Severity *string `json:"severity,omitempty"`
	IsOpen   *bool   `json:"is_open,omitempty"`
	Search   *string `json:"search,omitempty"`
}

// List retrieves a page of alerts
func (s *AlertService) List(ctx context.Context, opts *AlertListOptions) (*PaginatedAlerts, error) {
	query := url.Values{}

	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
		if opts.AnimalID != nil {
			query.Set("animal_id", strconv.FormatInt(*opts.AnimalID, 10))
		}
		if opts.FarmID != nil {
			query.Set("farm_id", strconv.FormatInt(*opts.FarmID, 10))
		}
		if opts.Category != nil {
			query.Set("category", *opts.Category)
		}
		if opts.Severity != nil {
			query.Set("severity", *opts.Severity)
		}
		if opts.IsOpen != nil {
			query.Set("is_open", strconv.FormatBool(*opts.IsOpen))
		}
		if opts.Search != nil {
			query.Set("search", *opts.Search)
		}
	}

	path := "/api/v1/alerts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page PaginatedAlerts
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// Get retrieves a single alert by ID
func (s *AlertService) Get(ctx context.Context, id int64) (*Alert, error) {
	path := fmt.Sprintf("/api/v1/alerts/%d", id)

	var alert Alert
	if err := s.client.doRequest(ctx, "GET", path, nil, &alert); err != nil {
		return nil, err
	}

	return &alert, nil
}

// Resolve closes an open alert
func (s *AlertService) Resolve(ctx context.Context, id int64, resolvedBy, notes string) error {
	path := fmt.Sprintf("/api/v1/alerts/%d/resolve", id)
	req := ResolveAlertRequest{ResolvedBy: resolvedBy, Notes: notes}
	return s.client.doRequest(ctx, "POST", path, req, nil)
}

// BulkResolve closes multiple open alerts and returns how many were resolved
func (s *AlertService) BulkResolve(ctx context.Context, ids []int64, resolvedBy, notes string) (int64, error) {
	req := BulkResolveRequest{IDs: ids, ResolvedBy: resolvedBy, Notes: notes}

	var result struct {
		Resolved int64 `json:"resolved"`
	}
	if err := s.client.doRequest(ctx, "POST", "/api/v1/alerts/resolve", req, &result); err != nil {
		return 0, err
	}

	return result.Resolved, nil
}

// Summary retrieves open alert counts by severity
func (s *AlertService) Summary(ctx context.Context) (*AlertSummary, error) {
	var summary AlertSummary
	if err := s.client.doRequest(ctx, "GET", "/api/v1/alerts/summary", nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}

// Notifications retrieves the delivery log for an alert
func (s *AlertService) Notifications(ctx context.Context, id int64) ([]NotificationLog, error) {
	path := fmt.Sprintf("/api/v1/alerts/%d/notifications", id)

	var logs []NotificationLog
	if err := s.client.doRequest(ctx, "GET", path, nil, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}
