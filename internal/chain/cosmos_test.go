package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lcdServer serves fixed bodies per path; unknown paths are 404.
func lcdServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

const (
	atomHash   = "27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2"
	latestPath = "/cosmos/base/tendermint/v1beta1/blocks/latest"
)

// ---------------------------------------------------------------------------
// Ping / LatestHeight
// ---------------------------------------------------------------------------

func TestRESTPingSuccess(t *testing.T) {
	srv := lcdServer(t, map[string]string{
		latestPath: `{"block":{"header":{"chain_id":"osmosis-1","height":"21345678"}}}`,
	})

	c := NewRESTClient(srv.URL + "/")
	latency, height, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(21345678), height)
	assert.Greater(t, latency, time.Duration(0))
	assert.Equal(t, srv.URL, c.URL(), "trailing slash is trimmed")
}

func TestRESTPingBadHeight(t *testing.T) {
	srv := lcdServer(t, map[string]string{
		latestPath: `{"block":{"header":{"height":"abc"}}}`,
	})
	_, _, err := NewRESTClient(srv.URL).Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing block height")
}

func TestRESTPingHTTPError(t *testing.T) {
	srv := lcdServer(t, map[string]string{})
	_, _, err := NewRESTClient(srv.URL).Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestRESTPingConnectionRefused(t *testing.T) {
	c := NewRESTClient("http://127.0.0.1:19993")
	_, _, err := c.Ping(context.Background())
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// Balances
// ---------------------------------------------------------------------------

func TestAllBalances(t *testing.T) {
	srv := lcdServer(t, map[string]string{
		"/cosmos/bank/v1beta1/balances/osmo1abc": `{"balances":[{"denom":"uosmo","amount":"1500000"},{"denom":"ibc/` + atomHash + `","amount":"42"}]}`,
	})

	coins, err := NewRESTClient(srv.URL).AllBalances(context.Background(), "osmo1abc")
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "uosmo", coins[0].Denom)
	assert.Equal(t, "1500000", coins[0].Amount.String())
	assert.Equal(t, "ibc/"+atomHash, coins[1].Denom)
}

func TestAllBalancesBadAmount(t *testing.T) {
	srv := lcdServer(t, map[string]string{
		"/cosmos/bank/v1beta1/balances/osmo1abc": `{"balances":[{"denom":"uosmo","amount":"1.5"}]}`,
	})
	_, err := NewRESTClient(srv.URL).AllBalances(context.Background(), "osmo1abc")
	require.Error(t, err)
}

func TestQueryBalancesResolvesIBCDenoms(t *testing.T) {
	srv := lcdServer(t, map[string]string{
		"/cosmos/bank/v1beta1/balances/osmo1abc":         `{"balances":[{"denom":"uosmo","amount":"7"},{"denom":"ibc/` + atomHash + `","amount":"42"}]}`,
		"/ibc/apps/transfer/v1/denom_traces/" + atomHash: `{"denom_trace":{"path":"transfer/channel-0","base_denom":"uatom"}}`,
	})

	coins, err := NewRESTClient(srv.URL).QueryBalances(context.Background(), "osmo1abc")
	require.NoError(t, err)
	require.Len(t, coins, 2)

	assert.Equal(t, "uosmo", coins[0].Denom)
	assert.Empty(t, coins[0].IBCDenom)

	assert.Equal(t, "uatom", coins[1].Denom)
	assert.Equal(t, "ibc/"+atomHash, coins[1].IBCDenom)
	assert.Equal(t, "transfer/channel-0", coins[1].Path)
	assert.Equal(t, "42", coins[1].Amount.String())
}

func TestQueryBalancesUnresolvableDenom(t *testing.T) {
	srv := lcdServer(t, map[string]string{
		"/cosmos/bank/v1beta1/balances/osmo1abc": `{"balances":[{"denom":"ibc/DEADBEEF","amount":"1"}]}`,
	})

	_, err := NewRESTClient(srv.URL).QueryBalances(context.Background(), "osmo1abc")
	require.ErrorIs(t, err, ErrDenomTrace)
	assert.Contains(t, err.Error(), "couldn't get denom from ibc address")
}

func TestQueryBalancesSkipsTraceForNativeDenoms(t *testing.T) {
	var traces atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/ibc/") {
			traces.Add(1)
		}
		w.Write([]byte(`{"balances":[{"denom":"uatom","amount":"1"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	coins, err := NewRESTClient(srv.URL).QueryBalances(context.Background(), "cosmos1abc")
	require.NoError(t, err)
	assert.Len(t, coins, 1)
	assert.Equal(t, int32(0), traces.Load())
}

func TestDenomTraceEmptyBaseDenom(t *testing.T) {
	srv := lcdServer(t, map[string]string{
		"/ibc/apps/transfer/v1/denom_traces/ABC": `{"denom_trace":{"path":"transfer/channel-1","base_denom":""}}`,
	})
	_, err := NewRESTClient(srv.URL).DenomTrace(context.Background(), "ibc/ABC")
	assert.ErrorIs(t, err, ErrDenomTrace)
}
