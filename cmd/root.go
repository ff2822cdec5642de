package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/logging"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/namcli/cmd.Version=1.2.3" .
var Version = "0.1.0"

// envPrefix must be used when overriding settings through the environment,
// e.g. NAMCLI_INDEXER_URL.
const envPrefix = "NAMCLI"

var (
	cfgDir      string
	cfg         *config.Config
	verbose     bool
	testnet     bool
	mainnet     bool
	indexerFlag string

	logger = zerolog.Nop()
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "namcli",
	Short: "Namada fees, balances and transfer plans from the terminal",
	Long: `namcli reads a Namada indexer to estimate transaction fees, list
balances, pick a gas token and compose shielding, unshielding and IBC
transfer plans.

Global flags --testnet and --mainnet override the configured network mode
for a single invocation. --indexer (or NAMCLI_INDEXER_URL) overrides the
indexer for a single invocation.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := applyOverrides(cfg, cmd.Root().PersistentFlags()); err != nil {
			return err
		}
		if testnet {
			cfg.NetworkMode = "testnet"
		}
		if mainnet {
			cfg.NetworkMode = "mainnet"
		}
		logger = logging.New(verbose)
		logger.Debug().
			Str("indexer", cfg.Indexer()).
			Str("mode", cfg.NetworkMode).
			Str("config_dir", cfg.Dir()).
			Msg("config loaded")
		return nil
	},
}

// applyOverrides layers NAMCLI_* environment variables and the --indexer
// flag over the persisted config. Bound flags win over the environment.
func applyOverrides(c *config.Config, flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if f := flags.Lookup("indexer"); f != nil {
		if err := v.BindPFlag("indexer_url", f); err != nil {
			return err
		}
	}

	if u := v.GetString("indexer_url"); u != "" {
		c.IndexerURL = u
	}
	if mode := v.GetString("network_mode"); mode != "" {
		if err := c.SetNetworkMode(mode); err != nil {
			return fmt.Errorf("%s_NETWORK_MODE: %w", envPrefix, err)
		}
	}
	if cur := v.GetString("price_currency"); cur != "" {
		c.PriceCurrency = strings.ToUpper(cur)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: $NAMCLI_CONFIG_DIR or ~/.namcli)")
	rootCmd.PersistentFlags().StringVar(&indexerFlag, "indexer", "", "indexer URL for this invocation")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use testnet instead of mainnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use mainnet instead of testnet")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	rootCmd.AddCommand(
		initCmd,
		configCmd,
		accountCmd,
		balanceCmd,
		chainCmd,
		gasCmd,
		feeCmd,
		ibcCmd,
		shieldCmd,
		unshieldCmd,
		planCmd,
	)
}
