package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	defaultMode      = "mainnet"
	defaultAlgorithm = "fastest"
	defaultCurrency  = "USD"
	defaultInterval  = 10

	configFile   = "config.json"
	accountsFile = "accounts.json"
)

var (
	networkModes = []string{"mainnet", "testnet"}
	algorithms   = []string{"fastest", "round-robin", "failover"}
)

// Load reads config from dir (or creates defaults). dir defaults to
// $NAMCLI_CONFIG_DIR, then ~/.namcli.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = os.Getenv(EnvConfigDir)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".namcli")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.CustomREST == nil {
		cfg.CustomREST = make(map[string][]string)
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Indexer returns the configured indexer URL, or the default one for the
// network mode.
func (c *Config) Indexer() string {
	if c.IndexerURL != "" {
		return strings.TrimRight(c.IndexerURL, "/")
	}
	if c.IsTestnet() {
		return TestnetIndexerURL
	}
	return MainnetIndexerURL
}

// IsTestnet reports whether the network mode is testnet.
func (c *Config) IsTestnet() bool { return c.NetworkMode == "testnet" }

// SetNetworkMode switches between mainnet and testnet.
func (c *Config) SetNetworkMode(mode string) error {
	mode = strings.ToLower(mode)
	if !slices.Contains(networkModes, mode) {
		return fmt.Errorf("unknown network mode %q (want mainnet or testnet)", mode)
	}
	c.NetworkMode = mode
	return nil
}

// SetRPCAlgorithm sets how REST endpoints are picked.
func (c *Config) SetRPCAlgorithm(algo string) error {
	if !slices.Contains(algorithms, algo) {
		return fmt.Errorf("unknown algorithm %q (want %s)", algo, strings.Join(algorithms, ", "))
	}
	c.RPCAlgorithm = algo
	return nil
}

// SetGasToken stores the preferred gas token.
func (c *Config) SetGasToken(addr string) { c.GasToken = addr }

// ResetGasToken clears the preferred gas token so the native token is used.
func (c *Config) ResetGasToken() { c.GasToken = "" }

// AddREST adds a custom REST URL for an IBC chain.
func (c *Config) AddREST(chain, url string) error {
	if c.CustomREST == nil {
		c.CustomREST = make(map[string][]string)
	}
	if slices.Contains(c.CustomREST[chain], url) {
		return fmt.Errorf("REST endpoint %s already exists for chain %s", url, chain)
	}
	c.CustomREST[chain] = append(c.CustomREST[chain], url)
	return nil
}

// RemoveREST removes a custom REST URL for an IBC chain.
func (c *Config) RemoveREST(chain, url string) error {
	urls := c.CustomREST[chain]
	idx := slices.Index(urls, url)
	if idx == -1 {
		return fmt.Errorf("REST endpoint %s not found for chain %s", url, chain)
	}
	c.CustomREST[chain] = slices.Delete(urls, idx, idx+1)
	return nil
}

// GetREST returns custom REST URLs for an IBC chain.
func (c *Config) GetREST(chain string) []string {
	return c.CustomREST[chain]
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// LoadAccounts reads accounts.json.
func (c *Config) LoadAccounts() (*AccountsFile, error) {
	return loadJSON[AccountsFile](filepath.Join(c.configDir, accountsFile))
}

// SaveAccounts writes accounts.json.
func (c *Config) SaveAccounts(af *AccountsFile) error {
	return saveJSON(filepath.Join(c.configDir, accountsFile), af)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		NetworkMode:   defaultMode,
		RPCAlgorithm:  defaultAlgorithm,
		PriceCurrency: defaultCurrency,
		WatchInterval: defaultInterval,
		CustomREST:    make(map[string][]string),
		configDir:     dir,
	}
}

func loadJSON[T any](path string) (*T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &zero, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
