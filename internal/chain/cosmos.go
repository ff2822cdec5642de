package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrDenomTrace is returned when an ibc/ denom cannot be resolved.
var ErrDenomTrace = errors.New("couldn't get denom from ibc address")

// Coin is a balance on a Cosmos chain. IBCDenom keeps the on-chain
// "ibc/<hash>" denom when Denom was resolved through a denom trace.
type Coin struct {
	Denom    string   `json:"denom"`
	Amount   math.Int `json:"amount"`
	IBCDenom string   `json:"ibc_denom,omitempty"`
	Path     string   `json:"path,omitempty"`
}

// DenomTrace is the origin of an IBC voucher.
type DenomTrace struct {
	Path      string `json:"path"`
	BaseDenom string `json:"base_denom"`
}

// RESTClient is a minimal Cosmos SDK REST (LCD) client.
type RESTClient struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewRESTClient creates a new REST client.
func NewRESTClient(baseURL string) *RESTClient {
	return &RESTClient{
		url:    strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 15 * time.Second},
		logger: zerolog.Nop(),
	}
}

// WithLogger returns c logging through l.
func (c *RESTClient) WithLogger(l zerolog.Logger) *RESTClient {
	c.logger = l.With().Str("component", "cosmos-rest").Str("url", c.url).Logger()
	return c
}

// URL returns the endpoint the client talks to.
func (c *RESTClient) URL() string { return c.url }

// LatestHeight returns the height of the latest block.
func (c *RESTClient) LatestHeight(ctx context.Context) (uint64, error) {
	var resp struct {
		Block struct {
			Header struct {
				Height  string `json:"height"`
				ChainID string `json:"chain_id"`
			} `json:"header"`
		} `json:"block"`
	}
	if err := c.get(ctx, "/cosmos/base/tendermint/v1beta1/blocks/latest", &resp); err != nil {
		return 0, err
	}
	h, err := strconv.ParseUint(resp.Block.Header.Height, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing block height %q: %w", resp.Block.Header.Height, err)
	}
	return h, nil
}

// Ping tests the endpoint and returns latency + latest height.
func (c *RESTClient) Ping(ctx context.Context) (time.Duration, uint64, error) {
	start := time.Now()
	height, err := c.LatestHeight(ctx)
	latency := time.Since(start)
	return latency, height, err
}

// AllBalances returns every balance of owner with on-chain denoms.
func (c *RESTClient) AllBalances(ctx context.Context, owner string) ([]Coin, error) {
	var resp struct {
		Balances []struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"balances"`
	}
	path := "/cosmos/bank/v1beta1/balances/" + url.PathEscape(owner) + "?pagination.limit=1000"
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	coins := make([]Coin, 0, len(resp.Balances))
	for _, b := range resp.Balances {
		amt, ok := math.NewIntFromString(b.Amount)
		if !ok {
			return nil, fmt.Errorf("parsing %s amount %q", b.Denom, b.Amount)
		}
		coins = append(coins, Coin{Denom: b.Denom, Amount: amt})
	}
	return coins, nil
}

// DenomTrace resolves an "ibc/<hash>" denom (or a bare hash) to its trace.
func (c *RESTClient) DenomTrace(ctx context.Context, ibcDenom string) (*DenomTrace, error) {
	hash := strings.TrimPrefix(ibcDenom, "ibc/")
	var resp struct {
		DenomTrace *DenomTrace `json:"denom_trace"`
	}
	if err := c.get(ctx, "/ibc/apps/transfer/v1/denom_traces/"+url.PathEscape(hash), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDenomTrace, err)
	}
	if resp.DenomTrace == nil || resp.DenomTrace.BaseDenom == "" {
		return nil, fmt.Errorf("%w: %s", ErrDenomTrace, ibcDenom)
	}
	return resp.DenomTrace, nil
}

// QueryBalances returns owner's balances with every ibc/ denom replaced by
// its base denom. Traces are resolved concurrently.
func (c *RESTClient) QueryBalances(ctx context.Context, owner string) ([]Coin, error) {
	coins, err := c.AllBalances(ctx, owner)
	if err != nil {
		return nil, err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i := range coins {
		if !strings.HasPrefix(coins[i].Denom, "ibc/") {
			continue
		}
		eg.Go(func() error {
			trace, err := c.DenomTrace(ctx, coins[i].Denom)
			if err != nil {
				return err
			}
			coins[i].IBCDenom = coins[i].Denom
			coins[i].Denom = trace.BaseDenom
			coins[i].Path = trace.Path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return coins, nil
}

// --- internal ---

func (c *RESTClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("path", path).Msg("cosmos REST request")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cosmos REST request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("reading cosmos REST response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("cosmos REST %s: HTTP %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing cosmos REST response: %w", err)
	}
	return nil
}
