package fees

import (
	"context"
	"fmt"
	"sort"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Mohsinsiddi/namcli/internal/asset"
	"github.com/Mohsinsiddi/namcli/internal/indexer"
	"github.com/Mohsinsiddi/namcli/internal/state"
	"github.com/Mohsinsiddi/namcli/internal/txkind"
)

// Indexer is the subset of the indexer client the graph reads from.
type Indexer interface {
	GasTable(ctx context.Context) (indexer.GasTable, error)
	GasPrices(ctx context.Context) ([]indexer.GasPriceEntry, error)
	GasPrice(ctx context.Context, token string) ([]indexer.GasPriceEntry, error)
	ChainParameters(ctx context.Context) (*indexer.Parameters, error)
	ChainTokens(ctx context.Context) ([]indexer.Token, error)
	IsPublicKeyRevealed(ctx context.Context, address string) (bool, error)
}

// PriceSource returns fiat prices keyed by token address. Tokens it cannot
// price are left out of the map.
type PriceSource interface {
	TokenPrices(ctx context.Context, assets asset.Map) (map[string]math.LegacyDec, error)
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the graph's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Graph) { g.logger = l.With().Str("component", "fees").Logger() }
}

// WithPriceSource enables fiat values in fee options.
func WithPriceSource(p PriceSource) Option {
	return func(g *Graph) { g.prices = p }
}

// WithPreferredGasToken seeds the stored gas-token preference.
func WithPreferredGasToken(addr string) Option {
	return func(g *Graph) { g.preferred = addr }
}

// WithAccount seeds the acting account address.
func WithAccount(addr string) Option {
	return func(g *Graph) { g.account = addr }
}

// WithPersist is called with the new preference whenever the stored gas
// token changes, including the automatic reset.
func WithPersist(fn func(string) error) Option {
	return func(g *Graph) { g.persist = fn }
}

// Graph wires the fee computations into a state graph. It is safe for
// concurrent use.
type Graph struct {
	idx       Indexer
	prices    PriceSource
	logger    zerolog.Logger
	preferred string
	account   string
	persist   func(string) error

	// StoredGasToken is the user's preferred gas token; "" means native.
	StoredGasToken *state.Atom[string]
	// Account is the acting account address; "" means no account.
	Account *state.Atom[string]

	parameters   *state.Query[*indexer.Parameters]
	nativeToken  *state.Query[string]
	chainTokens  *state.Query[[]indexer.Token]
	assets       *state.Query[asset.Map]
	gasToken     *state.Query[string]
	gasLimits    *state.Query[indexer.GasTable]
	minGasPrice  *state.Query[MinimumPrice]
	allGasPrices *state.Query[[]indexer.GasPriceEntry]
	dollarMap    *state.Query[map[string]math.LegacyDec]
	tokenOptions *state.Query[[]TokenOption]

	gasLimit  *state.Family[[]txkind.Kind, math.LegacyDec]
	gasConfig *state.Family[[]txkind.Kind, GasConfig]
}

// NewGraph builds the graph over idx.
func NewGraph(idx Indexer, opts ...Option) *Graph {
	g := &Graph{idx: idx, logger: zerolog.Nop()}
	for _, o := range opts {
		o(g)
	}

	g.StoredGasToken = state.NewAtom("stored-gas-token", "")
	if g.preferred != "" {
		g.StoredGasToken.Set(g.preferred)
	}
	g.StoredGasToken.Watch(func(v string) {
		if g.persist == nil {
			return
		}
		if err := g.persist(v); err != nil {
			g.logger.Warn().Err(err).Msg("could not persist gas token preference")
		}
	})
	g.Account = state.NewAtom("account", g.account)

	g.parameters = state.NewQuery("chain-parameters", func(context.Context) ([]any, func(context.Context) (*indexer.Parameters, error), error) {
		return []any{"chain-parameters"}, g.idx.ChainParameters, nil
	})

	g.nativeToken = state.NewQuery("native-token", func(ctx context.Context) ([]any, func(context.Context) (string, error), error) {
		p, err := g.parameters.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		addr := p.NativeTokenAddress
		return []any{addr}, func(context.Context) (string, error) { return addr, nil }, nil
	}).DependsOn(g.parameters)

	g.chainTokens = state.NewQuery("chain-tokens", func(context.Context) ([]any, func(context.Context) ([]indexer.Token, error), error) {
		return []any{"chain-tokens"}, g.idx.ChainTokens, nil
	})

	g.assets = state.NewQuery("chain-assets", func(ctx context.Context) ([]any, func(context.Context) (asset.Map, error), error) {
		tokens, err := g.chainTokens.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		native, err := g.nativeToken.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		return []any{tokens, native}, func(context.Context) (asset.Map, error) {
			return asset.MapAddressesToAssets(tokens, native), nil
		}, nil
	}).DependsOn(g.chainTokens, g.nativeToken)

	g.gasToken = state.NewQuery("gas-token", func(ctx context.Context) ([]any, func(context.Context) (string, error), error) {
		tok := g.StoredGasToken.Get()
		if tok == "" {
			native, err := g.nativeToken.Get(ctx)
			if err != nil {
				return nil, nil, err
			}
			tok = native
		}
		if tok == "" {
			return nil, nil, fmt.Errorf("%w: %w", state.ErrUnavailable, ErrNoGasToken)
		}
		return []any{tok}, func(context.Context) (string, error) { return tok, nil }, nil
	}).DependsOn(g.StoredGasToken, g.nativeToken)

	g.gasLimits = state.NewQuery("minimum-gas-limits", func(context.Context) ([]any, func(context.Context) (indexer.GasTable, error), error) {
		return []any{"minimum-gas-limits"}, g.idx.GasTable, nil
	})

	g.minGasPrice = state.NewQuery("minimum-gas-price", func(ctx context.Context) ([]any, func(context.Context) (MinimumPrice, error), error) {
		tok, err := g.gasToken.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		assets, err := g.assets.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		return []any{tok, sortedKeys(assets)}, func(ctx context.Context) (MinimumPrice, error) {
			return g.fetchMinimumGasPrice(ctx, tok, assets)
		}, nil
	}).DependsOn(g.gasToken, g.assets)

	g.allGasPrices = state.NewQuery("gas-price-for-all-tokens", func(context.Context) ([]any, func(context.Context) ([]indexer.GasPriceEntry, error), error) {
		return []any{"gas-price-for-all-tokens"}, g.idx.GasPrices, nil
	})

	g.dollarMap = state.NewQuery("gas-dollar-map", func(ctx context.Context) ([]any, func(context.Context) (map[string]math.LegacyDec, error), error) {
		entries, err := g.allGasPrices.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		assets, err := g.assets.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		priced := make(asset.Map, len(entries))
		for _, e := range entries {
			if a, ok := assets[e.Token]; ok {
				priced[e.Token] = a
			}
		}
		return []any{sortedKeys(priced)}, func(ctx context.Context) (map[string]math.LegacyDec, error) {
			if g.prices == nil || len(priced) == 0 {
				return map[string]math.LegacyDec{}, nil
			}
			return g.prices.TokenPrices(ctx, priced)
		}, nil
	}).DependsOn(g.allGasPrices, g.assets)

	g.tokenOptions = state.NewQuery("gas-token-options", func(ctx context.Context) ([]any, func(context.Context) ([]TokenOption, error), error) {
		entries, err := g.allGasPrices.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		assets, err := g.assets.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		return []any{entries, sortedKeys(assets)}, func(context.Context) ([]TokenOption, error) {
			return TokenOptions(entries, assets), nil
		}, nil
	}).DependsOn(g.allGasPrices, g.assets)

	g.gasLimit = state.NewFamily(txkind.Key, func(kinds []txkind.Kind) *state.Query[math.LegacyDec] {
		kinds = append([]txkind.Kind(nil), kinds...)
		return state.NewQuery("gas-limit", func(ctx context.Context) ([]any, func(context.Context) (math.LegacyDec, error), error) {
			table, err := g.gasLimits.Get(ctx)
			if err != nil {
				return nil, nil, err
			}
			acct := g.Account.Get()
			return []any{txkind.Key(kinds), acct, table}, func(ctx context.Context) (math.LegacyDec, error) {
				revealed := false
				if acct != "" {
					var err error
					if revealed, err = g.idx.IsPublicKeyRevealed(ctx, acct); err != nil {
						return math.LegacyDec{}, err
					}
				}
				return ComputeGasLimit(kinds, revealed, table)
			}, nil
		}).DependsOn(g.gasLimits, g.Account)
	})

	g.gasConfig = state.NewFamily(txkind.Key, func(kinds []txkind.Kind) *state.Query[GasConfig] {
		limitQ := g.gasLimit.Get(kinds)
		return state.NewQuery("default-gas-config", func(ctx context.Context) ([]any, func(context.Context) (GasConfig, error), error) {
			limit, err := limitQ.Get(ctx)
			if err != nil {
				return nil, nil, err
			}
			price, err := g.minGasPrice.Get(ctx)
			if err != nil {
				return nil, nil, err
			}
			tok, err := g.gasToken.Get(ctx)
			if err != nil {
				return nil, nil, err
			}
			cfg := GasConfig{
				GasLimit:  limit,
				GasPrice:  price.Display(),
				GasToken:  tok,
				BasePrice: price.Base,
				Exponent:  price.Exponent,
			}
			if err := cfg.checkPrecision(); err != nil {
				return nil, nil, err
			}
			return []any{cfg, cfg.BasePrice}, func(context.Context) (GasConfig, error) { return cfg, nil }, nil
		}).DependsOn(limitQ, g.minGasPrice, g.gasToken)
	})

	return g
}

func (g *Graph) fetchMinimumGasPrice(ctx context.Context, tok string, assets asset.Map) (MinimumPrice, error) {
	entries, err := g.idx.GasPrice(ctx, tok)
	if err != nil {
		return MinimumPrice{}, err
	}
	var cost *indexer.GasPriceEntry
	for i := range entries {
		if entries[i].Token == tok {
			cost = &entries[i]
			break
		}
	}
	if cost == nil && len(entries) > 0 {
		cost = &entries[0]
	}
	if cost == nil {
		if g.StoredGasToken.Get() != "" {
			g.logger.Warn().Str("token", tok).Msg("no gas price for preferred token, falling back to native token")
			g.StoredGasToken.Reset()
		}
		return MinimumPrice{}, fmt.Errorf("%w: %s", ErrNoGasPrice, tok)
	}
	a, ok := assets[tok]
	if !ok {
		return MinimumPrice{}, fmt.Errorf("%w: %s", ErrMissingAsset, tok)
	}
	return MinimumPrice{Base: cost.MinDenomAmount, Exponent: a.Exponent}, nil
}

// GasConfig returns the default gas configuration for kinds.
func (g *Graph) GasConfig(ctx context.Context, kinds []txkind.Kind) (GasConfig, error) {
	return g.gasConfig.Get(kinds).Get(ctx)
}

// GasConfigNode exposes the gas-config query for kinds so callers can
// subscribe to its changes.
func (g *Graph) GasConfigNode(kinds []txkind.Kind) *state.Query[GasConfig] {
	return g.gasConfig.Get(kinds)
}

// GasLimit returns the summed gas limit for kinds and the acting account.
func (g *Graph) GasLimit(ctx context.Context, kinds []txkind.Kind) (math.LegacyDec, error) {
	return g.gasLimit.Get(kinds).Get(ctx)
}

// GasToken returns the resolved gas token: the stored preference, else the
// chain's native token.
func (g *Graph) GasToken(ctx context.Context) (string, error) {
	return g.gasToken.Get(ctx)
}

// MinimumGasPrice returns the gas token's minimum price in display units.
func (g *Graph) MinimumGasPrice(ctx context.Context) (math.LegacyDec, error) {
	p, err := g.minGasPrice.Get(ctx)
	if err != nil {
		return math.LegacyDec{}, err
	}
	return p.Display(), nil
}

// GasLimits returns the session-cached gas table.
func (g *Graph) GasLimits(ctx context.Context) (indexer.GasTable, error) {
	return g.gasLimits.Get(ctx)
}

// Assets returns the address→asset map of the chain tokens.
func (g *Graph) Assets(ctx context.Context) (asset.Map, error) {
	return g.assets.Get(ctx)
}

// Parameters returns the chain parameters.
func (g *Graph) Parameters(ctx context.Context) (*indexer.Parameters, error) {
	return g.parameters.Get(ctx)
}

// GasPriceForAllTokens returns the minimum gas price of every token.
func (g *Graph) GasPriceForAllTokens(ctx context.Context) ([]indexer.GasPriceEntry, error) {
	return g.allGasPrices.Get(ctx)
}

// GasDollarMap returns fiat prices of the gas tokens.
func (g *Graph) GasDollarMap(ctx context.Context) (map[string]math.LegacyDec, error) {
	return g.dollarMap.Get(ctx)
}

// GasTokenOptions returns every token accepted for gas with its asset.
func (g *Graph) GasTokenOptions(ctx context.Context) ([]TokenOption, error) {
	return g.tokenOptions.Get(ctx)
}

// FeeOptions prices the gas limit for kinds in every gas token. The limit,
// token options, fiat prices and current selection load concurrently.
func (g *Graph) FeeOptions(ctx context.Context, kinds []txkind.Kind) ([]FeeOption, error) {
	var (
		limit    math.LegacyDec
		opts     []TokenOption
		dollars  map[string]math.LegacyDec
		selected string
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		limit, err = g.GasLimit(ctx, kinds)
		return err
	})
	eg.Go(func() (err error) {
		opts, err = g.GasTokenOptions(ctx)
		return err
	})
	eg.Go(func() error {
		d, err := g.GasDollarMap(ctx)
		if err != nil {
			g.logger.Debug().Err(err).Msg("fiat prices unavailable")
			d = map[string]math.LegacyDec{}
		}
		dollars = d
		return nil
	})
	eg.Go(func() error {
		tok, err := g.GasToken(ctx)
		if err != nil {
			g.logger.Debug().Err(err).Msg("gas token unresolved")
		}
		selected = tok
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return BuildFeeOptions(opts, limit, dollars, selected), nil
}

// Preload fetches the session-wide inputs concurrently.
func (g *Graph) Preload(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { _, err := g.parameters.Get(ctx); return err })
	eg.Go(func() error { _, err := g.chainTokens.Get(ctx); return err })
	eg.Go(func() error { _, err := g.gasLimits.Get(ctx); return err })
	return eg.Wait()
}

// SetGasToken stores a preferred gas token.
func (g *Graph) SetGasToken(addr string) { g.StoredGasToken.Set(addr) }

// ResetGasToken clears the preference so the native token is used.
func (g *Graph) ResetGasToken() { g.StoredGasToken.Reset() }

// SetAccount switches the acting account.
func (g *Graph) SetAccount(addr string) { g.Account.Set(addr) }

// RefreshPrices drops memoized gas and fiat prices.
func (g *Graph) RefreshPrices() {
	g.minGasPrice.Invalidate()
	g.allGasPrices.Invalidate()
	g.dollarMap.Invalidate()
}

func sortedKeys(m asset.Map) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
