package config

// Config holds all namcli configuration.
type Config struct {
	IndexerURL     string              `json:"indexer_url"     mapstructure:"indexer_url"`
	NetworkMode    string              `json:"network_mode"    mapstructure:"network_mode"` // "mainnet" | "testnet"
	DefaultAccount string              `json:"default_account" mapstructure:"default_account"`
	GasToken       string              `json:"gas_token"       mapstructure:"gas_token"` // preferred gas token address; "" = native
	PriceCurrency  string              `json:"price_currency"  mapstructure:"price_currency"`
	WatchInterval  int                 `json:"watch_interval"  mapstructure:"watch_interval"` // seconds
	RPCAlgorithm   string              `json:"rpc_algorithm"   mapstructure:"rpc_algorithm"`  // "fastest" | "round-robin" | "failover"
	CustomREST     map[string][]string `json:"custom_rest"     mapstructure:"custom_rest"`    // per IBC chain

	// internal: config dir path used for Save()
	configDir string
}

// Account kinds.
const (
	KindTransparent = "transparent"
	KindShielded    = "shielded"
)

// Account represents a stored account entry.
type Account struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Kind          string `json:"kind"`                      // "transparent" | "shielded"
	ViewingKeyRef string `json:"viewing_key_ref,omitempty"` // keyring reference for shielded accounts
	IsDefault     bool   `json:"is_default"`
	CreatedAt     string `json:"created_at"`
}

// AccountsFile is the structure of accounts.json.
type AccountsFile struct {
	Accounts []Account `json:"accounts"`
}
