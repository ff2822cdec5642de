package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/namcli/internal/asset"
	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/indexer"
	"github.com/Mohsinsiddi/namcli/internal/txkind"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

var gasCmd = &cobra.Command{
	Use:   "gas",
	Short: "Gas limits and minimum gas prices",
}

var gasTableCmd = &cobra.Command{
	Use:   "table",
	Short: "Show the gas limit of every transaction kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.IndexerTimeout)
		defer cancel()

		table, err := newIndexer().GasTable(ctx)
		if err != nil {
			return err
		}
		t := ui.NewTable([]ui.Column{
			{Title: "Kind", Width: 22},
			{Title: "Indexer name", Width: 22},
			{Title: "Gas limit", Width: 12, Right: true},
		})
		for _, k := range txkind.All {
			t.AddRow(ui.Row{ui.Val(string(k)), ui.Meta(k.Indexer()), table[k].Native.TruncateInt().String()})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var gasPriceCmd = &cobra.Command{
	Use:   "price [token-address]",
	Short: "Show minimum gas prices",
	Long: `Show the minimum gas price per gas unit for every token the chain accepts
for fees, or for a single token.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.IndexerTimeout)
		defer cancel()

		idx := newIndexer()
		var (
			prices []indexer.GasPriceEntry
			err    error
		)
		if len(args) == 1 {
			prices, err = idx.GasPrice(ctx, args[0])
		} else {
			prices, err = idx.GasPrices(ctx)
		}
		if err != nil {
			return err
		}
		if len(prices) == 0 {
			fmt.Println(ui.Warn("The indexer has no gas price for that token."))
			return nil
		}

		assets, err := newGraph(idx, "").Assets(ctx)
		if err != nil {
			return err
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Token", Width: 8},
			{Title: "Address", Width: 46},
			{Title: "Base units", Width: 14, Right: true},
			{Title: "Display", Width: 14, Right: true},
		})
		for _, p := range prices {
			display := "—"
			if a, ok := assets[p.Token]; ok {
				display = ui.FormatAmount(asset.ToDisplayAmount(a, p.MinDenomAmount), int(a.Exponent))
			}
			t.AddRow(ui.Row{
				ui.Val(assets.Symbol(p.Token)),
				ui.Addr(p.Token),
				ui.FormatAmount(p.MinDenomAmount, 6),
				display,
			})
		}
		fmt.Println(t.Render())
		if cfg.GasToken != "" {
			fmt.Println(ui.Meta("Preferred gas token: " + assets.Symbol(cfg.GasToken)))
		}
		return nil
	},
}

func init() {
	gasCmd.AddCommand(gasTableCmd, gasPriceCmd)
}
