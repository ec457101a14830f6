package mygram

import (
	"context"
)

// HealthChecker probes the server with an INFO round trip.
type HealthChecker struct {
	client *Client
}

func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{
		client: client,
	}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.client == nil {
		return false
	}

	_, err := hc.client.Info(ctx)
	return err == nil
}
