package chain

import (
	"errors"
	"strings"
)

// ErrChainNotFound is returned when a chain is not in the registry.
var ErrChainNotFound = errors.New("chain not found")

// Network holds the per-mode endpoints of an IBC source chain.
type Network struct {
	ChainID  string   `json:"chain_id"`
	RPCs     []string `json:"rpcs"`
	RESTs    []string `json:"rests"`
	Explorer string   `json:"explorer,omitempty"`
}

// Chain holds all metadata for a single IBC source chain.
type Chain struct {
	Name         string  `json:"name"`
	DisplayName  string  `json:"display_name"`
	Bech32Prefix string  `json:"bech32_prefix"`
	FeeDenom     string  `json:"fee_denom"`
	Mainnet      Network `json:"mainnet"`
	Testnet      Network `json:"testnet"`
}

// Registry is the IBC chain registry.
type Registry struct {
	chains []Chain
	byName map[string]*Chain
	byID   map[string]*Chain
}

// NewRegistry creates and returns the registry of IBC source chains.
func NewRegistry() *Registry {
	chains := allChains()
	r := &Registry{
		chains: chains,
		byName: make(map[string]*Chain, len(chains)),
		byID:   make(map[string]*Chain, 2*len(chains)),
	}
	for i := range r.chains {
		c := &r.chains[i]
		r.byName[c.Name] = c
		r.byID[c.Mainnet.ChainID] = c
		r.byID[c.Testnet.ChainID] = c
	}
	return r
}

// All returns every chain in the registry.
func (r *Registry) All() []Chain {
	return r.chains
}

// GetByName finds a chain by its slug name (e.g. "osmosis", "cosmoshub").
func (r *Registry) GetByName(name string) (*Chain, error) {
	c, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// GetByChainID finds a chain by a mainnet or testnet chain id.
func (r *Registry) GetByChainID(id string) (*Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return c, nil
}

// Resolve accepts either a slug or a chain id.
func (r *Registry) Resolve(nameOrID string) (*Chain, error) {
	if c, err := r.GetByName(nameOrID); err == nil {
		return c, nil
	}
	return r.GetByChainID(nameOrID)
}

// Network returns the endpoints for mode ("mainnet"/"testnet").
func (c *Chain) Network(mode string) Network {
	if mode == "testnet" {
		return c.Testnet
	}
	return c.Mainnet
}

// ChainID returns the chain id in the given mode.
func (c *Chain) ChainID(mode string) string { return c.Network(mode).ChainID }

// RESTs returns the REST (LCD) endpoints in the given mode.
func (c *Chain) RESTs(mode string) []string { return c.Network(mode).RESTs }

// RPCs returns the Tendermint RPC endpoints in the given mode.
func (c *Chain) RPCs(mode string) []string { return c.Network(mode).RPCs }

// --- chain data ---

func allChains() []Chain {
	return []Chain{
		{
			Name: "celestia", DisplayName: "Celestia", Bech32Prefix: "celestia", FeeDenom: "utia",
			Mainnet: Network{
				ChainID:  "celestia",
				RPCs:     []string{"https://celestia-rpc.publicnode.com", "https://rpc.lunaroasis.net"},
				RESTs:    []string{"https://celestia-rest.publicnode.com", "https://api.lunaroasis.net"},
				Explorer: "https://www.mintscan.io/celestia",
			},
			Testnet: Network{
				ChainID: "mocha-4",
				RPCs:    []string{"https://celestia-testnet-rpc.publicnode.com"},
				RESTs:   []string{"https://celestia-testnet-rest.publicnode.com"},
			},
		},
		{
			Name: "cosmoshub", DisplayName: "Cosmos Hub", Bech32Prefix: "cosmos", FeeDenom: "uatom",
			Mainnet: Network{
				ChainID:  "cosmoshub-4",
				RPCs:     []string{"https://cosmos-rpc.publicnode.com", "https://rpc-cosmoshub.blockapsis.com"},
				RESTs:    []string{"https://cosmos-rest.publicnode.com", "https://lcd-cosmoshub.blockapsis.com"},
				Explorer: "https://www.mintscan.io/cosmos",
			},
			Testnet: Network{
				ChainID: "theta-testnet-001",
				RPCs:    []string{"https://rpc.sentry-01.theta-testnet.polypore.xyz"},
				RESTs:   []string{"https://rest.sentry-01.theta-testnet.polypore.xyz"},
			},
		},
		{
			Name: "dydx", DisplayName: "dYdX", Bech32Prefix: "dydx", FeeDenom: "adydx",
			Mainnet: Network{
				ChainID:  "dydx-mainnet-1",
				RPCs:     []string{"https://dydx-rpc.publicnode.com"},
				RESTs:    []string{"https://dydx-rest.publicnode.com"},
				Explorer: "https://www.mintscan.io/dydx",
			},
			Testnet: Network{
				ChainID: "dydx-testnet-4",
				RPCs:    []string{"https://dydx-testnet-rpc.polkachu.com"},
				RESTs:   []string{"https://dydx-testnet-api.polkachu.com"},
			},
		},
		{
			Name: "osmosis", DisplayName: "Osmosis", Bech32Prefix: "osmo", FeeDenom: "uosmo",
			Mainnet: Network{
				ChainID:  "osmosis-1",
				RPCs:     []string{"https://osmosis-rpc.publicnode.com", "https://rpc.osmosis.zone"},
				RESTs:    []string{"https://osmosis-rest.publicnode.com", "https://lcd.osmosis.zone"},
				Explorer: "https://www.mintscan.io/osmosis",
			},
			Testnet: Network{
				ChainID: "osmo-test-5",
				RPCs:    []string{"https://rpc.osmotest5.osmosis.zone"},
				RESTs:   []string{"https://lcd.osmotest5.osmosis.zone"},
			},
		},
		{
			Name: "stargaze", DisplayName: "Stargaze", Bech32Prefix: "stars", FeeDenom: "ustars",
			Mainnet: Network{
				ChainID:  "stargaze-1",
				RPCs:     []string{"https://stargaze-rpc.publicnode.com", "https://rpc.stargaze-apis.com"},
				RESTs:    []string{"https://stargaze-rest.publicnode.com", "https://rest.stargaze-apis.com"},
				Explorer: "https://www.mintscan.io/stargaze",
			},
			Testnet: Network{
				ChainID: "elgafar-1",
				RPCs:    []string{"https://rpc.elgafar-1.stargaze-apis.com"},
				RESTs:   []string{"https://rest.elgafar-1.stargaze-apis.com"},
			},
		},
		{
			Name: "stride", DisplayName: "Stride", Bech32Prefix: "stride", FeeDenom: "ustrd",
			Mainnet: Network{
				ChainID:  "stride-1",
				RPCs:     []string{"https://stride-rpc.publicnode.com", "https://stride-rpc.polkachu.com"},
				RESTs:    []string{"https://stride-rest.publicnode.com", "https://stride-api.polkachu.com"},
				Explorer: "https://www.mintscan.io/stride",
			},
			Testnet: Network{
				ChainID: "stride-internal-1",
				RPCs:    []string{"https://stride-testnet-rpc.polkachu.com"},
				RESTs:   []string{"https://stride-testnet-api.polkachu.com"},
			},
		},
	}
}
