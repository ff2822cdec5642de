package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/fees"
	"github.com/Mohsinsiddi/namcli/internal/transfer"
	"github.com/Mohsinsiddi/namcli/internal/txkind"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return rootCmd.Execute()
}

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"init"},
		{"config", "list"},
		{"config", "set-indexer"},
		{"config", "set-gas-token"},
		{"config", "reset-gas-token"},
		{"config", "set-currency"},
		{"config", "set-price-key"},
		{"account", "add"},
		{"account", "list"},
		{"account", "use"},
		{"account", "remove"},
		{"balance"},
		{"chain", "params"},
		{"chain", "tokens"},
		{"chain", "rpc"},
		{"gas", "table"},
		{"gas", "price"},
		{"fee"},
		{"fee", "options"},
		{"fee", "watch"},
		{"ibc", "chains"},
		{"ibc", "balances"},
		{"ibc", "transfer"},
		{"ibc", "rest", "benchmark"},
		{"shield"},
		{"unshield"},
		{"plan", "show"},
	}
	for _, p := range paths {
		c, _, err := rootCmd.Find(p)
		require.NoError(t, err, p)
		assert.Equal(t, p[len(p)-1], c.Name())
	}
}

func TestFeeKindFlagIsInherited(t *testing.T) {
	for _, sub := range []string{"options", "watch"} {
		c, _, err := rootCmd.Find([]string{"fee", sub})
		require.NoError(t, err)
		assert.NotNil(t, c.InheritedFlags().Lookup("kind"), sub)
	}
}

func TestFeePickRejectsOneOffToken(t *testing.T) {
	t.Cleanup(func() {
		feePick, feeToken = false, ""
		for _, name := range []string{"pick", "token"} {
			feeOptionsCmd.Flags().Lookup(name).Changed = false
		}
	})
	dir := t.TempDir()

	err := run(t, "--config", dir, "fee", "options", "--pick", "--token", atomToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pick")
	assert.Contains(t, err.Error(), "token")

	saved, err := config.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, saved.GasToken)
}

func TestConfigCommandsPersist(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, run(t, "--config", dir, "config", "set-currency", "eur"))
	require.NoError(t, run(t, "--config", dir, "config", "set-network-mode", "testnet"))
	require.NoError(t, run(t, "--config", dir, "config", "set-gas-token", atomToken))

	saved, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "EUR", saved.PriceCurrency)
	assert.True(t, saved.IsTestnet())
	assert.Equal(t, atomToken, saved.GasToken)

	require.NoError(t, run(t, "--config", dir, "config", "reset-gas-token"))
	saved, err = config.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, saved.GasToken)
}

func TestConfigRejectsUnknownAlgorithm(t *testing.T) {
	err := run(t, "--config", t.TempDir(), "config", "set-algorithm", "random")
	assert.Error(t, err)
}

func TestIBCRESTAddAndRemove(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, run(t, "--config", dir, "ibc", "rest", "add", "osmosis-1", "https://lcd.custom.osmo"))
	saved, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://lcd.custom.osmo"}, saved.GetREST("osmosis"), "chain ids resolve to the registry name")

	require.NoError(t, run(t, "--config", dir, "ibc", "rest", "remove", "osmosis", "https://lcd.custom.osmo"))
	saved, err = config.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, saved.GetREST("osmosis"))

	assert.Error(t, run(t, "--config", dir, "ibc", "rest", "add", "solana", "https://x"))
}

func TestPlanShowReadsSavedPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "shield.json")
	gas := fees.GasConfig{GasLimit: dec("75000"), GasPrice: dec("0.000001"), GasToken: namToken}
	plan, err := transfer.NewShieldPlan(transfer.Params{
		ChainID: "namada.5f5de2dd1b88cba30586420",
		Source:  aliceAddr,
		Target:  shieldedPA,
		Token:   namToken,
		Amount:  dec("2"),
		Gas:     &gas,
	})
	require.NoError(t, err)
	require.NoError(t, transfer.Save(path, plan))

	require.NoError(t, run(t, "--config", t.TempDir(), "plan", "show", path))

	loaded, err := transfer.Load(path)
	require.NoError(t, err)
	assert.Equal(t, txkind.ShieldingTransfer, loaded.Kind)
	assert.WithinDuration(t, plan.CreatedAt, loaded.CreatedAt, time.Second)
}

func TestPlanShowMissingFile(t *testing.T) {
	assert.Error(t, run(t, "--config", t.TempDir(), "plan", "show", filepath.Join(t.TempDir(), "nope.json")))
}
