package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/namcli/internal/account"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Indexer in use: " + cfg.Indexer()))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetIndexerCmd = &cobra.Command{
	Use:   "set-indexer <url>",
	Short: "Set the indexer URL (empty string restores the default)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.IndexerURL = strings.TrimSpace(args[0])
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Indexer set to %s", cfg.Indexer())))
		return nil
	},
}

var configSetNetworkModeCmd = &cobra.Command{
	Use:   "set-network-mode <mainnet|testnet>",
	Short: "Set the default network mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetNetworkMode(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Network mode set to %q", cfg.NetworkMode)))
		return nil
	},
}

var configSetGasTokenCmd = &cobra.Command{
	Use:   "set-gas-token <token-address>",
	Short: "Set the preferred gas token",
	Long: `Set the preferred gas token. The token must have a minimum gas price on
the indexer; otherwise the next fee computation falls back to the native
token and clears the preference.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.SetGasToken(strings.TrimSpace(args[0]))
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Gas token set to %s", ui.Addr(cfg.GasToken))))
		return nil
	},
}

var configResetGasTokenCmd = &cobra.Command{
	Use:   "reset-gas-token",
	Short: "Pay fees in the native token again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.ResetGasToken()
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Gas token reset to the native token"))
		return nil
	},
}

var configSetCurrencyCmd = &cobra.Command{
	Use:   "set-currency <code>",
	Short: "Set the fiat currency for prices (e.g. USD, EUR)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.PriceCurrency = strings.ToUpper(strings.TrimSpace(args[0]))
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Price currency set to %s", cfg.PriceCurrency)))
		return nil
	},
}

var configSetPriceKeyCmd = &cobra.Command{
	Use:   "set-price-key <api-key>",
	Short: "Store the CoinGecko API key in the OS keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := account.StorePriceAPIKey(newKeystore(), strings.TrimSpace(args[0])); err != nil {
			return err
		}
		fmt.Println(ui.Success("Price API key stored in the keychain"))
		fmt.Println(ui.Hint(fmt.Sprintf("%s overrides the stored key.", envPriceAPIKey)))
		return nil
	},
}

var configSetAlgorithmCmd = &cobra.Command{
	Use:   "set-algorithm <fastest|round-robin|failover>",
	Short: "Set how IBC chain REST endpoints are picked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetRPCAlgorithm(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("REST algorithm set to %q", cfg.RPCAlgorithm)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(
		configListCmd,
		configSetIndexerCmd,
		configSetNetworkModeCmd,
		configSetGasTokenCmd,
		configResetGasTokenCmd,
		configSetCurrencyCmd,
		configSetPriceKeyCmd,
		configSetAlgorithmCmd,
	)
}
