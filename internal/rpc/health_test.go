package rpc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lcdServer answers the latest-block query with the given height.
func lcdServer(t *testing.T, height uint64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"block":{"header":{"chain_id":"osmosis-1","height":"%d"}}}`, height)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthCheckHealthy(t *testing.T) {
	srv := lcdServer(t, 1000)

	ep, err := HealthCheck(context.Background(), srv.URL, 0, RESTPing)
	require.NoError(t, err)

	assert.True(t, ep.Healthy)
	assert.True(t, ep.Checked)
	assert.Equal(t, srv.URL, ep.URL)
	assert.Equal(t, uint64(1000), ep.Height)
	assert.Greater(t, ep.Latency, time.Duration(0))
}

func TestHealthCheckUnreachable(t *testing.T) {
	ep, err := HealthCheck(context.Background(), "http://127.0.0.1:19994", 0, RESTPing)
	require.Error(t, err)
	assert.False(t, ep.Healthy)
}

func TestHealthCheckStaleBehind(t *testing.T) {
	srv := lcdServer(t, 500)

	ep, err := HealthCheck(context.Background(), srv.URL, 510, RESTPing)
	require.NoError(t, err)
	assert.False(t, ep.Healthy, "node is too far behind")
	assert.Equal(t, uint64(500), ep.Height)
}

func TestHealthCheckJustWithinThreshold(t *testing.T) {
	srv := lcdServer(t, 997)

	ep, err := HealthCheck(context.Background(), srv.URL, 1000, RESTPing)
	require.NoError(t, err)
	assert.True(t, ep.Healthy, "exactly at threshold is still healthy")
}

func TestHealthCheckAheadOfBest(t *testing.T) {
	srv := lcdServer(t, 1005)

	ep, err := HealthCheck(context.Background(), srv.URL, 1000, RESTPing)
	require.NoError(t, err)
	assert.True(t, ep.Healthy)
}

func TestHealthCheckCancelledContext(t *testing.T) {
	srv := lcdServer(t, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ep, err := HealthCheck(ctx, srv.URL, 0, RESTPing)
	require.Error(t, err)
	assert.False(t, ep.Healthy)
}
