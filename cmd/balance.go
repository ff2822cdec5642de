package cmd

import (
	"context"
	"fmt"
	"sort"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/namcli/internal/account"
	"github.com/Mohsinsiddi/namcli/internal/asset"
	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/indexer"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

var balanceAccount string

var balanceCmd = &cobra.Command{
	Use:   "balance [account-or-address]",
	Short: "Show transparent balances with fiat values",
	Long: `Show the transparent balances of an account as reported by the indexer.

Examples:
  namcli balance                  # default account
  namcli balance alice
  namcli balance tnam1qz... --testnet`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && balanceAccount == "" {
			balanceAccount = args[0]
		}
		addr, err := resolveAddress(newAccountManager(), balanceAccount, false)
		if err != nil {
			return err
		}
		if kind, _ := account.ValidateAddress(addr); kind == account.KindShielded {
			return fmt.Errorf("%s is a shielded address; the indexer only reports transparent balances", ui.TruncateAddr(addr))
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*config.IndexerTimeout)
		defer cancel()

		spin := ui.NewSpinner(fmt.Sprintf("Fetching balances from %s...", cfg.Indexer()))
		spin.Start()
		idx := newIndexer()
		balances, err := idx.Balances(ctx, addr)
		if err != nil {
			spin.Stop()
			return err
		}
		assets, err := newGraph(idx, addr).Assets(ctx)
		if err != nil {
			spin.Stop()
			return err
		}
		prices, err := newPriceFetcher().TokenPrices(ctx, assets)
		spin.Stop()
		if err != nil {
			logger.Debug().Err(err).Msg("price feed unavailable")
			prices = nil
		}

		rows := balanceRows(balances, assets, prices)
		if len(rows) == 0 {
			fmt.Println(ui.Info(fmt.Sprintf("No balances for %s", ui.Addr(addr))))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Token", Width: 10},
			{Title: "Amount", Width: 24, Right: true},
			{Title: "Value", Width: 16, Right: true},
			{Title: "Address", Width: 20},
		})
		for _, r := range rows {
			value := "—"
			if r.Value != nil {
				value = ui.FormatFiat(*r.Value, cfg.PriceCurrency)
			}
			t.AddRow(ui.Row{ui.Val(r.Symbol), r.Amount, value, ui.Meta(ui.TruncateAddr(r.Token))})
		}
		fmt.Println(ui.StyleTitle.Render(fmt.Sprintf("Balances of %s (%s)", ui.TruncateAddr(addr), cfg.NetworkMode)))
		fmt.Println(t.Render())
		return nil
	},
}

type balanceRow struct {
	Token  string
	Symbol string
	Amount string
	Value  *math.LegacyDec
}

// balanceRows converts raw balances into display rows, sorted by symbol.
// Tokens without display metadata are shown in base units.
func balanceRows(balances []indexer.Balance, assets asset.Map, prices map[string]math.LegacyDec) []balanceRow {
	rows := make([]balanceRow, 0, len(balances))
	for _, b := range balances {
		if b.MinDenomAmount.IsNil() || b.MinDenomAmount.IsZero() {
			continue
		}
		row := balanceRow{Token: b.TokenAddress, Symbol: assets.Symbol(b.TokenAddress)}
		a, ok := assets[b.TokenAddress]
		if !ok {
			row.Amount = ui.FormatAmount(b.MinDenomAmount, 0)
			rows = append(rows, row)
			continue
		}
		display := asset.ToDisplayAmount(a, b.MinDenomAmount)
		row.Amount = ui.FormatAmount(display, int(a.Exponent))
		if p, ok := prices[b.TokenAddress]; ok {
			v := display.Mul(p)
			row.Value = &v
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Symbol < rows[j].Symbol })
	return rows
}

func init() {
	balanceCmd.Flags().StringVarP(&balanceAccount, "account", "a", "", "account name or address")
}
