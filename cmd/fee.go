package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/fees"
	"github.com/Mohsinsiddi/namcli/internal/state"
	"github.com/Mohsinsiddi/namcli/internal/txkind"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

var (
	feeKinds   []string
	feeAccount string
	feeToken   string
	feePick    bool
)

var feeCmd = &cobra.Command{
	Use:   "fee",
	Short: "Estimate the fee of a transaction",
	Long: `Estimate the fee of a transaction made of one or more kinds.

The gas limit is the sum of the gas table rows of every kind, plus a
RevealPk row when the account has not revealed its public key yet. The
gas price is the minimum price of the preferred gas token, or of the
native token when no preference is set.

Kinds: ` + strings.Join(txkind.Names(), ", ") + `

Examples:
  namcli fee                                   # one transparent transfer
  namcli fee --kind Bond --kind ClaimRewards --account alice
  namcli fee --kind IbcTransfer --token tnam1...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds, err := parseKinds(feeKinds)
		if err != nil {
			return err
		}
		graph, err := feeGraph()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*config.IndexerTimeout)
		defer cancel()

		gas, err := graph.GasConfig(ctx, kinds)
		if err != nil {
			return explainFeeError(err)
		}
		assets, err := graph.Assets(ctx)
		if err != nil {
			return err
		}
		symbol := assets.Symbol(gas.GasToken)

		fmt.Println(ui.FeeLine(gas, symbol))
		if verbose {
			fmt.Println(ui.RenderGasConfig(gas, symbol))
		}
		return nil
	},
}

var feeOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Compare the fee in every accepted gas token",
	Long: `List the fee of the transaction in every token the chain accepts for
gas, with its fiat value when a price is known. --pick opens a picker and
stores the chosen token as the preferred gas token, so it cannot be
combined with the one-off --token.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds, err := parseKinds(feeKinds)
		if err != nil {
			return err
		}
		graph, err := feeGraph()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*config.IndexerTimeout)
		defer cancel()

		spin := ui.NewSpinner("Computing fee options...")
		spin.Start()
		opts, err := graph.FeeOptions(ctx, kinds)
		spin.Stop()
		if err != nil {
			return explainFeeError(err)
		}

		if !feePick {
			fmt.Println(ui.RenderFeeOptions(opts, cfg.PriceCurrency))
			return nil
		}

		current := ui.SelectedToken(opts)
		tok, err := ui.PickGasToken(opts, cfg.PriceCurrency)
		if err != nil {
			return err
		}
		if tok == "" {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if tok == current {
			fmt.Println(ui.Info("Gas token unchanged."))
			return nil
		}
		graph.SetGasToken(tok)
		assets, err := graph.Assets(ctx)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Fees will be paid in %s", assets.Symbol(tok))))
		return nil
	},
}

var feeWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live fee view that follows gas-token and account changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds, err := parseKinds(feeKinds)
		if err != nil {
			return err
		}
		mgr := newAccountManager()
		addr, err := resolveAddress(mgr, feeAccount, true)
		if err != nil {
			return err
		}
		graph := newGraph(newIndexer(), addr)

		accounts := []string{addr}
		for _, a := range mgr.List() {
			if a.Address != addr && !a.IsShielded() {
				accounts = append(accounts, a.Address)
			}
		}

		events := make(chan state.Event, 16)
		sub := graph.GasConfigNode(kinds).Subscribe(events)
		defer sub.Unsubscribe()

		interval := time.Duration(cfg.WatchInterval) * time.Second
		if interval <= 0 {
			interval = 10 * time.Second
		}

		return ui.RunFeeWatch(ui.FeeWatchModel{
			Title:    fmt.Sprintf("Fees on Namada (%s)", cfg.NetworkMode),
			Currency: cfg.PriceCurrency,
			Interval: interval,
			Accounts: accounts,
			Load: func() (ui.FeeSnapshot, error) {
				return loadFeeSnapshot(graph, kinds)
			},
			SetToken:   graph.SetGasToken,
			SetAccount: graph.SetAccount,
			Refresh:    graph.RefreshPrices,
			Events:     events,
		})
	},
}

// feeGraph builds the graph for --account and --token. --token applies to
// this invocation only and is not written back to the config.
func feeGraph() (*fees.Graph, error) {
	addr, err := resolveAddress(newAccountManager(), feeAccount, true)
	if err != nil {
		return nil, err
	}
	var extra []fees.Option
	if feeToken != "" {
		extra = append(extra,
			fees.WithPersist(nil),
			fees.WithPreferredGasToken(feeToken),
		)
	}
	return newGraph(newIndexer(), addr, extra...), nil
}

func loadFeeSnapshot(graph *fees.Graph, kinds []txkind.Kind) (ui.FeeSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*config.IndexerTimeout)
	defer cancel()

	gas, err := graph.GasConfig(ctx, kinds)
	if err != nil {
		return ui.FeeSnapshot{}, explainFeeError(err)
	}
	opts, err := graph.FeeOptions(ctx, kinds)
	if err != nil {
		return ui.FeeSnapshot{}, explainFeeError(err)
	}
	assets, err := graph.Assets(ctx)
	if err != nil {
		return ui.FeeSnapshot{}, err
	}
	return ui.FeeSnapshot{
		Config:  gas,
		Symbol:  assets.Symbol(gas.GasToken),
		Options: opts,
		Account: graph.Account.Get(),
	}, nil
}

// explainFeeError adds a hint to the errors a user can act on.
func explainFeeError(err error) error {
	switch {
	case errors.Is(err, fees.ErrMissingGasLimit):
		return fmt.Errorf("%w (the indexer's gas table is incomplete)", err)
	case errors.Is(err, fees.ErrMissingAsset):
		return fmt.Errorf("%w (reset with `namcli config reset-gas-token`)", err)
	case errors.Is(err, fees.ErrPrecision):
		return fmt.Errorf("%w (choose another gas token with `namcli fee options --pick`)", err)
	case errors.Is(err, state.ErrUnavailable):
		return fmt.Errorf("%w (is the indexer at %s reachable?)", err, cfg.Indexer())
	}
	return err
}

func init() {
	feeCmd.PersistentFlags().StringArrayVarP(&feeKinds, "kind", "k", nil, "transaction kind (repeatable)")
	feeCmd.PersistentFlags().StringVarP(&feeAccount, "account", "a", "", "account name or address (default: default account)")
	feeCmd.Flags().StringVar(&feeToken, "token", "", "gas token address for this estimate only")
	feeOptionsCmd.Flags().StringVar(&feeToken, "token", "", "gas token address for this estimate only")
	feeOptionsCmd.Flags().BoolVar(&feePick, "pick", false, "pick and store the preferred gas token")
	feeOptionsCmd.MarkFlagsMutuallyExclusive("pick", "token")
	feeCmd.AddCommand(feeOptionsCmd, feeWatchCmd)
}
