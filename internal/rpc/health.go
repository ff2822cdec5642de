package rpc

import (
	"context"
	"time"
)

const healthTimeout = 5 * time.Second

// HealthCheck pings a single endpoint. A node is healthy when it answers
// within healthTimeout and is at most staleBlockThreshold blocks behind
// best (pass 0 to skip the recency check).
func HealthCheck(ctx context.Context, url string, best uint64, ping Pinger) (Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	latency, height, err := ping(ctx, url)
	ep := Endpoint{
		URL:     url,
		Latency: latency,
		Height:  height,
		Healthy: err == nil,
		Checked: true,
	}
	if err == nil && best > 0 && best > height && best-height > staleBlockThreshold {
		ep.Healthy = false
	}
	return ep, err
}
