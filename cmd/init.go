package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/indexer"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long:  "Launch the interactive setup wizard to pick the network, indexer, REST selection algorithm and a first account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Banner())

		result, err := ui.RunWizard()
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Println(ui.Warn("Setup cancelled, nothing was saved."))
			return nil
		}

		if result.NetworkMode != "" {
			if err := cfg.SetNetworkMode(result.NetworkMode); err != nil {
				return err
			}
		}
		if result.IndexerURL != "" {
			cfg.IndexerURL = result.IndexerURL
		}
		if result.RPCAlgorithm != "" {
			if err := cfg.SetRPCAlgorithm(result.RPCAlgorithm); err != nil {
				return err
			}
		}

		if err := checkIndexer(cmd.Context(), cfg.Indexer()); err != nil {
			fmt.Println(ui.Warn(fmt.Sprintf("Indexer %s is not reachable: %v", cfg.Indexer(), err)))
		}

		if result.AccountAddress != "" {
			name := result.AccountName
			if name == "" {
				name = "default"
			}
			mgr := newAccountManager()
			if _, err := mgr.Add(name, result.AccountAddress); err != nil {
				fmt.Println(ui.Warn(fmt.Sprintf("Could not add account: %v", err)))
			} else {
				if err := mgr.SetDefault(name); err != nil {
					return err
				}
				cfg.DefaultAccount = name
			}
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println(ui.Success("namcli configured! Run `namcli --help` to explore commands."))
		return nil
	},
}

func checkIndexer(ctx context.Context, url string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, config.IndexerTimeout)
	defer cancel()
	return indexer.NewClient(url, indexer.WithLogger(logger)).Health(ctx)
}
