package price

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/Mohsinsiddi/namcli/internal/asset"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// apiKeyHeader carries a CoinGecko demo API key.
const apiKeyHeader = "x-cg-demo-api-key"

// Fetcher retrieves token prices from CoinGecko.
type Fetcher struct {
	client   *http.Client
	baseURL  string
	currency string
	apiKey   string
	logger   zerolog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithAPIKey sends key with every request.
func WithAPIKey(key string) Option {
	return func(f *Fetcher) { f.apiKey = key }
}

// WithBaseURL points the fetcher at another CoinGecko-compatible API.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the fetcher's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.logger = l.With().Str("component", "price").Logger() }
}

// NewFetcher creates a new price fetcher.
func NewFetcher(currency string, opts ...Option) *Fetcher {
	if currency == "" {
		currency = "usd"
	}
	f := &Fetcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  defaultBaseURL,
		currency: strings.ToLower(currency),
		logger:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Currency returns the lowercased fiat currency code.
func (f *Fetcher) Currency() string { return f.currency }

// PriceByID returns the price of a single CoinGecko coin.
func (f *Fetcher) PriceByID(ctx context.Context, id string) (math.LegacyDec, error) {
	prices, err := f.fetchBatch(ctx, []string{id})
	if err != nil {
		return math.LegacyDec{}, err
	}
	p, ok := prices[id]
	if !ok {
		return math.LegacyDec{}, fmt.Errorf("price not available for: %s", id)
	}
	return p, nil
}

// TokenPrices prices every asset in one request and returns the prices
// keyed by token address. Assets without a CoinGecko id, or that CoinGecko
// does not price, are left out.
func (f *Fetcher) TokenPrices(ctx context.Context, assets asset.Map) (map[string]math.LegacyDec, error) {
	unique := make(map[string]struct{})
	for _, a := range assets {
		if a.CoinGeckoID != "" {
			unique[a.CoinGeckoID] = struct{}{}
		}
	}
	result := make(map[string]math.LegacyDec)
	if len(unique) == 0 {
		return result, nil
	}

	idList := make([]string, 0, len(unique))
	for id := range unique {
		idList = append(idList, id)
	}
	sort.Strings(idList)

	prices, err := f.fetchBatch(ctx, idList)
	if err != nil {
		return nil, err
	}

	for addr, a := range assets {
		if p, ok := prices[a.CoinGeckoID]; ok {
			result[addr] = p
		}
	}
	return result, nil
}

func (f *Fetcher) fetchBatch(ctx context.Context, ids []string) (map[string]math.LegacyDec, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", f.currency)
	endpoint := f.baseURL + "/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.apiKey != "" {
		req.Header.Set(apiKeyHeader, f.apiKey)
	}

	f.logger.Debug().Strs("ids", ids).Str("currency", f.currency).Msg("fetching prices")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading price response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("price api returned status %d", resp.StatusCode)
	}

	// Response: {"cosmos":{"usd":6.12}, ...}
	var raw map[string]map[string]json.Number
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing price response: %w", err)
	}

	prices := make(map[string]math.LegacyDec)
	for id, currencies := range raw {
		n, ok := currencies[f.currency]
		if !ok {
			continue
		}
		p, err := parseNumber(n)
		if err != nil {
			f.logger.Debug().Err(err).Str("id", id).Msg("skipping unparseable price")
			continue
		}
		prices[id] = p
	}
	return prices, nil
}

// parseNumber converts a JSON number, including exponent notation such as
// 1.2e-05, to a decimal.
func parseNumber(n json.Number) (math.LegacyDec, error) {
	s := n.String()
	if !strings.ContainsAny(s, "eE") {
		return math.LegacyNewDecFromStr(s)
	}
	bf, ok := new(big.Float).SetPrec(256).SetString(s)
	if !ok {
		return math.LegacyDec{}, fmt.Errorf("invalid number %q", s)
	}
	return math.LegacyNewDecFromStr(bf.Text('f', math.LegacyPrecision))
}
