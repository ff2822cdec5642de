package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mohsinsiddi/namcli/internal/txkind"
)

// ErrDecode is returned when the indexer answers with a body that cannot be
// decoded, including numeric fields that are not decimals.
var ErrDecode = errors.New("indexer: malformed response")

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// APIError is returned for non-2xx responses.
type APIError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 120 {
		body = body[:120] + "…"
	}
	return fmt.Sprintf("indexer: GET %s: HTTP %d: %s", e.Path, e.StatusCode, body)
}

// IsNotFound reports whether err is a 404 from the indexer.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the Namada indexer REST API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates an indexer client for baseURL (e.g.
// "https://indexer.namada.net").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the indexer URL the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

// GasTableEntries returns the raw rows of GET /api/v1/gas.
func (c *Client) GasTableEntries(ctx context.Context) ([]GasTableEntry, error) {
	var raw []gasTableEntryJSON
	if err := c.get(ctx, "/api/v1/gas", &raw); err != nil {
		return nil, err
	}
	out := make([]GasTableEntry, 0, len(raw))
	for _, r := range raw {
		limit, err := ParseDec(r.GasLimit)
		if err != nil {
			return nil, fmt.Errorf("gas limit for %s: %w", r.TxKind, err)
		}
		out = append(out, GasTableEntry{TxKind: r.TxKind, Token: r.Token, GasLimit: limit})
	}
	return out, nil
}

// GasTable fetches the gas table and maps it onto every known transaction
// kind. A kind missing from the response is a decode error.
func (c *Client) GasTable(ctx context.Context) (GasTable, error) {
	entries, err := c.GasTableEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode gas table: %w", err)
	}
	return BuildGasTable(entries)
}

// BuildGasTable picks, for every kind in txkind.All, the first entry whose
// indexer kind matches.
func BuildGasTable(entries []GasTableEntry) (GasTable, error) {
	table := make(GasTable, len(txkind.All))
	for _, k := range txkind.All {
		found := false
		for _, e := range entries {
			if e.TxKind == k.Indexer() {
				table[k] = GasLimit{Native: e.GasLimit}
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("couldn't decode gas table: %w: no entry for %s", ErrDecode, k.Indexer())
		}
	}
	return table, nil
}

// GasPrices returns the minimum gas price of every token accepted for fees.
func (c *Client) GasPrices(ctx context.Context) ([]GasPriceEntry, error) {
	return c.gasPrices(ctx, "/api/v1/gas-price")
}

// GasPrice returns the minimum gas price entries for one token. An empty
// slice means the token is not accepted for fees.
func (c *Client) GasPrice(ctx context.Context, token string) ([]GasPriceEntry, error) {
	return c.gasPrices(ctx, "/api/v1/gas-price/"+url.PathEscape(token))
}

func (c *Client) gasPrices(ctx context.Context, path string) ([]GasPriceEntry, error) {
	var raw []gasPriceEntryJSON
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, err
	}
	out := make([]GasPriceEntry, 0, len(raw))
	for _, r := range raw {
		amt, err := ParseDec(r.MinDenomAmount)
		if err != nil {
			return nil, fmt.Errorf("gas price for %s: %w", r.Token, err)
		}
		out = append(out, GasPriceEntry{Token: r.Token, MinDenomAmount: amt})
	}
	return out, nil
}

// ChainParameters returns GET /api/v1/chain/parameters.
func (c *Client) ChainParameters(ctx context.Context) (*Parameters, error) {
	var raw parametersJSON
	if err := c.get(ctx, "/api/v1/chain/parameters", &raw); err != nil {
		return nil, err
	}
	return raw.decode()
}

// ChainTokens returns every token registered on the chain.
func (c *Client) ChainTokens(ctx context.Context) ([]Token, error) {
	var tokens []Token
	if err := c.get(ctx, "/api/v1/chain/token", &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// RPCURL returns the node RPC URL the indexer advertises.
func (c *Client) RPCURL(ctx context.Context) (string, error) {
	var raw rpcURLJSON
	if err := c.get(ctx, "/api/v1/chain/rpc-url", &raw); err != nil {
		return "", err
	}
	if raw.URL == "" {
		return "", fmt.Errorf("%w: empty rpc url", ErrDecode)
	}
	return raw.URL, nil
}

// RevealedPublicKey returns the public key revealed on chain by address, or
// "" when none has been revealed yet.
func (c *Client) RevealedPublicKey(ctx context.Context, address string) (string, error) {
	var raw revealedPublicKeyJSON
	err := c.get(ctx, "/api/v1/revealed-public-key/"+url.PathEscape(address), &raw)
	if IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return raw.PublicKey, nil
}

// IsPublicKeyRevealed reports whether address has revealed its public key.
func (c *Client) IsPublicKeyRevealed(ctx context.Context, address string) (bool, error) {
	pk, err := c.RevealedPublicKey(ctx, address)
	if err != nil {
		return false, err
	}
	return pk != "", nil
}

// Balances returns the transparent balances of address.
func (c *Client) Balances(ctx context.Context, address string) ([]Balance, error) {
	var raw []balanceJSON
	if err := c.get(ctx, "/api/v1/account/"+url.PathEscape(address), &raw); err != nil {
		return nil, err
	}
	out := make([]Balance, 0, len(raw))
	for _, r := range raw {
		amt, err := ParseDec(r.MinDenomAmount)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", r.TokenAddress, err)
		}
		out = append(out, Balance{TokenAddress: r.TokenAddress, MinDenomAmount: amt})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("indexer: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading indexer response: %w", err)
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("indexer request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return nil
}
