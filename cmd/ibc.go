package cmd

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/namcli/internal/asset"
	"github.com/Mohsinsiddi/namcli/internal/chain"
	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/rpc"
	"github.com/Mohsinsiddi/namcli/internal/transfer"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

var (
	ibcChain    string
	ibcSender   string
	ibcReceiver string
	ibcDenom    string
	ibcAmount   string
	ibcChannel  string
	ibcOut      string
)

var ibcCmd = &cobra.Command{
	Use:   "ibc",
	Short: "IBC source chains, their balances and transfers into Namada",
}

var ibcChainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List supported IBC source chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 12},
			{Title: "Display", Width: 12},
			{Title: "Chain ID", Width: 20},
			{Title: "Prefix", Width: 10},
			{Title: "Fee denom", Width: 10},
			{Title: "REST", Width: 6, Right: true},
		})
		for _, c := range chain.NewRegistry().All() {
			t.AddRow(ui.Row{
				ui.ChainName(c.Name),
				c.DisplayName,
				c.ChainID(cfg.NetworkMode),
				c.Bech32Prefix,
				c.FeeDenom,
				fmt.Sprintf("%d", len(restCandidates(&c))),
			})
		}
		fmt.Println(ui.StyleTitle.Render(fmt.Sprintf("IBC source chains (%s)", cfg.NetworkMode)))
		fmt.Println(t.Render())
		return nil
	},
}

var ibcBalancesCmd = &cobra.Command{
	Use:   "balances <address>",
	Short: "Show balances on an IBC source chain",
	Long: `Show the balances of a Cosmos address on an IBC source chain. ibc/
denoms are resolved to their base denom through the chain's denom traces.

Example:
  namcli ibc balances osmo1... --chain osmosis`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().Resolve(ibcChain)
		if err != nil {
			return fmt.Errorf("unknown chain %q, see `namcli ibc chains`", ibcChain)
		}

		spin := ui.NewSpinner(fmt.Sprintf("Querying %s...", ui.ChainName(c.DisplayName)))
		spin.Start()
		url, err := pickREST(cmd.Context(), c)
		if err != nil {
			spin.Stop()
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), config.IndexerTimeout)
		defer cancel()
		coins, err := chain.NewRESTClient(url).WithLogger(logger).QueryBalances(ctx, args[0])
		spin.Stop()
		if err != nil {
			return err
		}

		if len(coins) == 0 {
			fmt.Println(ui.Info(fmt.Sprintf("No balances for %s on %s", ui.Addr(args[0]), c.DisplayName)))
			return nil
		}
		t := ui.NewTable([]ui.Column{
			{Title: "Denom", Width: 12},
			{Title: "Amount", Width: 24, Right: true},
			{Title: "Path", Width: 20},
			{Title: "On-chain denom", Width: 24},
		})
		for _, coin := range coins {
			t.AddRow(ui.Row{ui.Val(coinLabel(coin)), coinAmount(coin), coin.Path, ui.Meta(coin.IBCDenom)})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta("via " + url))
		return nil
	},
}

var ibcTransferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Compose an IBC transfer into Namada",
	Long: `Compose a MsgTransfer from an IBC source chain to a Namada address. The
plan is printed (or written with --out) for the source chain's wallet to
sign. The fee is paid in the transferred denom; the timeout is 60s.

--amount is in display units when the denom is known (e.g. uatom), in base
units otherwise.

Example:
  namcli ibc transfer --chain cosmoshub --sender cosmos1... \
    --receiver tnam1... --denom uatom --amount 1.5 --channel channel-1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		receiver, err := resolveAddress(newAccountManager(), ibcReceiver, false)
		if err != nil {
			return err
		}
		amount, err := ibcBaseAmount(ibcDenom, ibcAmount)
		if err != nil {
			return err
		}
		plan, err := transfer.NewIBCPlan(transfer.IBCParams{
			SourceChain: ibcChain,
			Mode:        cfg.NetworkMode,
			Sender:      ibcSender,
			Receiver:    receiver,
			Denom:       ibcDenom,
			Amount:      amount,
			ChannelID:   ibcChannel,
		})
		if err != nil {
			return err
		}
		return emitPlan(plan, ibcOut)
	},
}

var ibcRESTCmd = &cobra.Command{
	Use:   "rest",
	Short: "Manage REST endpoints of IBC source chains",
}

var ibcRESTAddCmd = &cobra.Command{
	Use:   "add <chain> <url>",
	Short: "Add a custom REST URL for a chain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().Resolve(args[0])
		if err != nil {
			return fmt.Errorf("unknown chain %q", args[0])
		}
		if err := cfg.AddREST(c.Name, args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Added REST for %s: %s", ui.ChainName(c.Name), args[1])))
		return nil
	},
}

var ibcRESTRemoveCmd = &cobra.Command{
	Use:   "remove <chain> <url>",
	Short: "Remove a custom REST URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().Resolve(args[0])
		if err != nil {
			return fmt.Errorf("unknown chain %q", args[0])
		}
		if err := cfg.RemoveREST(c.Name, args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed REST for %s: %s", c.Name, args[1])))
		return nil
	},
}

var ibcRESTListCmd = &cobra.Command{
	Use:   "list <chain>",
	Short: "List REST endpoints of a chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().Resolve(args[0])
		if err != nil {
			return fmt.Errorf("unknown chain %q", args[0])
		}
		fmt.Println(ui.StyleTitle.Render(fmt.Sprintf("REST endpoints for %s", c.DisplayName)))
		for _, u := range c.Mainnet.RESTs {
			fmt.Printf("  %s %s\n", ui.Meta("(mainnet)"), u)
		}
		for _, u := range c.Testnet.RESTs {
			fmt.Printf("  %s %s\n", ui.Meta("(testnet)"), u)
		}
		for _, u := range cfg.GetREST(c.Name) {
			fmt.Printf("  %s %s\n", ui.Meta("(custom) "), u)
		}
		return nil
	},
}

var ibcRESTBenchmarkCmd = &cobra.Command{
	Use:   "benchmark <chain>",
	Short: "Benchmark the REST endpoints of a chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chain.NewRegistry().Resolve(args[0])
		if err != nil {
			return fmt.Errorf("unknown chain %q", args[0])
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render(fmt.Sprintf("Benchmarking %s REST endpoints...", c.DisplayName)))

		ctx, cancel := context.WithTimeout(cmd.Context(), config.RESTSelectTimeout)
		defer cancel()
		results := rpc.Benchmark(ctx, restCandidates(c), rpc.RESTPing)

		t := ui.NewTable([]ui.Column{
			{Title: "REST URL", Width: 44},
			{Title: "Latency", Width: 10, Right: true},
			{Title: "Height", Width: 12, Right: true},
			{Title: "Status", Width: 10},
		})
		for _, r := range results {
			status := ui.Success("healthy")
			latency := fmt.Sprintf("%dms", r.Latency.Milliseconds())
			height := fmt.Sprintf("%d", r.Height)
			if r.Err != nil {
				status = ui.Err("down")
				latency = "—"
				height = "—"
			}
			t.AddRow(ui.Row{r.URL, latency, height, status})
		}
		fmt.Println(t.Render())

		best, err := rpc.NewPicker(rpc.Algorithm(cfg.RPCAlgorithm)).Pick(rpc.ResultsToEndpoints(results))
		if err != nil {
			return err
		}
		fmt.Println(ui.Info(fmt.Sprintf("%s pick: %s", cfg.RPCAlgorithm, best.URL)))
		return nil
	},
}

// ibcBaseAmount converts a display amount of a known denom to base units.
// Amounts of unknown denoms must already be whole base units.
func ibcBaseAmount(denom, raw string) (math.Int, error) {
	amt, err := transfer.ParseAmount(raw)
	if err != nil {
		return math.Int{}, err
	}
	if a, err := asset.ByBaseDenom(denom); err == nil {
		amt = asset.ToBaseAmount(a, amt)
	}
	if !amt.IsInteger() {
		return math.Int{}, fmt.Errorf("%w: %s is not a whole number of %s", transfer.ErrInvalidAmount, raw, denom)
	}
	return amt.TruncateInt(), nil
}

func coinLabel(c chain.Coin) string {
	if a, err := asset.ByBaseDenom(c.Denom); err == nil {
		return a.Symbol
	}
	return c.Denom
}

func coinAmount(c chain.Coin) string {
	if a, err := asset.ByBaseDenom(c.Denom); err == nil {
		return ui.FormatAmount(asset.ToDisplayAmount(a, math.LegacyNewDecFromInt(c.Amount)), int(a.Exponent))
	}
	return c.Amount.String() + " " + ui.Meta(strings.TrimPrefix(c.Denom, "ibc/"))
}

func init() {
	ibcBalancesCmd.Flags().StringVar(&ibcChain, "chain", "", "source chain name or chain id")
	_ = ibcBalancesCmd.MarkFlagRequired("chain")

	ibcTransferCmd.Flags().StringVar(&ibcChain, "chain", "", "source chain name or chain id")
	ibcTransferCmd.Flags().StringVar(&ibcSender, "sender", "", "sender address on the source chain")
	ibcTransferCmd.Flags().StringVar(&ibcReceiver, "receiver", "", "Namada receiver: address or account name (default: default account)")
	ibcTransferCmd.Flags().StringVar(&ibcDenom, "denom", "", "denom on the source chain, e.g. uatom")
	ibcTransferCmd.Flags().StringVar(&ibcAmount, "amount", "", "amount to transfer")
	ibcTransferCmd.Flags().StringVar(&ibcChannel, "channel", "", "source channel, e.g. channel-1")
	ibcTransferCmd.Flags().StringVarP(&ibcOut, "out", "o", "", "write the plan to a file instead of stdout")
	for _, f := range []string{"chain", "sender", "denom", "amount", "channel"} {
		_ = ibcTransferCmd.MarkFlagRequired(f)
	}

	ibcRESTCmd.AddCommand(ibcRESTAddCmd, ibcRESTRemoveCmd, ibcRESTListCmd, ibcRESTBenchmarkCmd)
	ibcCmd.AddCommand(ibcChainsCmd, ibcBalancesCmd, ibcTransferCmd, ibcRESTCmd)
}
