package config

import "time"

// Default indexer endpoints per network mode.
const (
	MainnetIndexerURL = "https://indexer.namada.net"
	TestnetIndexerURL = "https://indexer.testnet.namada.net"
)

// EnvConfigDir overrides the config directory.
const EnvConfigDir = "NAMCLI_CONFIG_DIR"

// IBC transfer constants.
const (
	IBCTimeout     = 60 * time.Second // MsgTransfer timeout timestamp offset
	IBCTransferGas = uint64(222_000)  // gas for a MsgTransfer on the source chain
	IBCPort        = "transfer"
)

// Timeout constants used across cmd.
const (
	RESTSelectTimeout = 10 * time.Second // Best benchmark / REST selection
	IndexerTimeout    = 15 * time.Second // single indexer round-trip budget
)
