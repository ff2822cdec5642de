package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"

	"github.com/Mohsinsiddi/namcli/internal/account"
	"github.com/Mohsinsiddi/namcli/internal/chain"
	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/fees"
	"github.com/Mohsinsiddi/namcli/internal/indexer"
	"github.com/Mohsinsiddi/namcli/internal/price"
	"github.com/Mohsinsiddi/namcli/internal/rpc"
	"github.com/Mohsinsiddi/namcli/internal/txkind"
)

// envPriceAPIKey takes precedence over the key stored in the keychain.
const envPriceAPIKey = envPrefix + "_PRICE_API_KEY"

func newIndexer() *indexer.Client {
	return indexer.NewClient(cfg.Indexer(),
		indexer.WithHTTPClient(&http.Client{Timeout: config.IndexerTimeout}),
		indexer.WithLogger(logger),
	)
}

func newKeystore() *account.Keystore {
	return account.DefaultKeystore(cfg.Dir())
}

func newAccountManager() *account.Manager {
	return account.NewManager(
		account.WithStore(account.NewConfigStore(cfg)),
		account.WithSecretStore(newKeystore()),
	)
}

func newPriceFetcher() *price.Fetcher {
	key := os.Getenv(envPriceAPIKey)
	if key == "" {
		key = account.PriceAPIKey(newKeystore())
	}
	return price.NewFetcher(cfg.PriceCurrency,
		price.WithAPIKey(key),
		price.WithLogger(logger),
	)
}

// newGraph builds the fee graph for accountAddr ("" means no account).
// Gas-token changes made through the graph are written back to the config
// unless extra overrides the persist hook.
func newGraph(idx fees.Indexer, accountAddr string, extra ...fees.Option) *fees.Graph {
	opts := []fees.Option{
		fees.WithLogger(logger),
		fees.WithPriceSource(newPriceFetcher()),
		fees.WithPreferredGasToken(cfg.GasToken),
		fees.WithAccount(accountAddr),
		fees.WithPersist(func(tok string) error {
			if tok == cfg.GasToken {
				return nil
			}
			cfg.SetGasToken(tok)
			return cfg.Save()
		}),
	}
	return fees.NewGraph(idx, append(opts, extra...)...)
}

// resolveAddress accepts a raw Namada address or an account name. An empty
// nameOrAddr resolves to the default account, or "" when optional is set
// and no account exists.
func resolveAddress(mgr *account.Manager, nameOrAddr string, optional bool) (string, error) {
	if nameOrAddr != "" {
		if _, err := account.ValidateAddress(nameOrAddr); err == nil {
			return nameOrAddr, nil
		}
		a, err := mgr.Get(nameOrAddr)
		if err != nil {
			return "", fmt.Errorf("account %q: %w", nameOrAddr, err)
		}
		return a.Address, nil
	}

	if cfg.DefaultAccount != "" {
		if a, err := mgr.Get(cfg.DefaultAccount); err == nil {
			return a.Address, nil
		}
		logger.Debug().Str("account", cfg.DefaultAccount).Msg("configured default account is gone")
	}
	a, err := mgr.Resolve("")
	if err != nil {
		if optional {
			return "", nil
		}
		return "", errors.New("no account given and no default set; add one with `namcli account add <name> <address>`")
	}
	return a.Address, nil
}

// parseKinds reads --kind values; no kinds means a transparent transfer.
func parseKinds(raw []string) ([]txkind.Kind, error) {
	if len(raw) == 0 {
		return []txkind.Kind{txkind.TransparentTransfer}, nil
	}
	return txkind.ParseList(raw)
}

// restCandidates lists custom REST URLs first, then the built-in ones for
// the current network mode.
func restCandidates(c *chain.Chain) []string {
	urls := slices.Clone(cfg.GetREST(c.Name))
	for _, u := range c.RESTs(cfg.NetworkMode) {
		if !slices.Contains(urls, u) {
			urls = append(urls, u)
		}
	}
	return urls
}

// pickREST selects the REST endpoint of c using the configured algorithm.
func pickREST(ctx context.Context, c *chain.Chain) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RESTSelectTimeout)
	defer cancel()
	url, err := rpc.SelectBest(ctx, restCandidates(c), cfg.RPCAlgorithm, logger)
	if err != nil {
		return "", fmt.Errorf("%s REST: %w", c.DisplayName, err)
	}
	return url, nil
}
