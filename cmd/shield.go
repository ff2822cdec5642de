package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/namcli/internal/account"
	"github.com/Mohsinsiddi/namcli/internal/asset"
	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/transfer"
	"github.com/Mohsinsiddi/namcli/internal/txkind"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

var (
	moveSource string
	moveTarget string
	moveToken  string
	moveAmount string
	moveOut    string
)

var shieldCmd = &cobra.Command{
	Use:   "shield",
	Short: "Compose a shielding transfer (tnam… → znam…)",
	Long: `Compose a transfer from a transparent address into the shielded pool.
--source and --target accept account names or raw addresses; --source
defaults to the default account. --token is a token address or a symbol
such as NAM. The plan carries the gas config for a ShieldingTransfer.

Example:
  namcli shield --target vault --token NAM --amount 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd.Context(), txkind.ShieldingTransfer, transfer.NewShieldPlan)
	},
}

var unshieldCmd = &cobra.Command{
	Use:   "unshield",
	Short: "Compose an unshielding transfer (znam… → tnam…)",
	Long: `Compose a transfer out of the shielded pool into a transparent address.
Unshielding is signed by a disposable key, so the plan is marked
accordingly; fees are estimated for an UnshieldingTransfer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd.Context(), txkind.UnshieldingTransfer, transfer.NewUnshieldPlan)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect saved transfer plans",
}

var planShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show a plan written with --out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := transfer.Load(args[0])
		if err != nil {
			return err
		}
		pairs := [][2]string{
			{"Kind", ui.Val(string(plan.Kind))},
			{"From", ui.Addr(plan.Source)},
			{"To", ui.Addr(plan.Target)},
			{"Amount", ui.FormatAmount(plan.Amount, 18) + " " + plan.Token},
			{"Created", plan.CreatedAt.Format("2006-01-02 15:04:05 MST")},
		}
		if plan.ChainID != "" {
			pairs = append(pairs, [2]string{"Chain", plan.ChainID})
		}
		if plan.Gas != nil {
			pairs = append(pairs, [2]string{"Fee", ui.FormatAmount(plan.Gas.Fee(), 6) + " (gas token " + ui.TruncateAddr(plan.Gas.GasToken) + ")"})
		}
		if plan.Memo != "" {
			pairs = append(pairs, [2]string{"Memo", plan.Memo})
		}
		if plan.RequiresDisposableSigner {
			pairs = append(pairs, [2]string{"Signer", ui.Warn("disposable signer required")})
		}
		fmt.Println(ui.KeyValueBlock("Transfer plan", pairs))
		return nil
	},
}

type planBuilder func(transfer.Params) (*transfer.Plan, error)

func runMove(parent context.Context, kind txkind.Kind, build planBuilder) error {
	mgr := newAccountManager()
	source, err := resolveAddress(mgr, moveSource, false)
	if err != nil {
		return err
	}
	target, err := resolveAddress(mgr, moveTarget, false)
	if err != nil {
		return err
	}
	amount, err := transfer.ParseAmount(moveAmount)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(parent, 2*config.IndexerTimeout)
	defer cancel()

	// The fee is paid by the transparent side.
	payer := source
	if k, _ := account.ValidateAddress(source); k == account.KindShielded {
		payer = target
	}
	graph := newGraph(newIndexer(), payer)

	assets, err := graph.Assets(ctx)
	if err != nil {
		return err
	}
	token, a, err := resolveToken(assets, moveToken)
	if err != nil {
		return err
	}
	gas, err := graph.GasConfig(ctx, []txkind.Kind{kind})
	if err != nil {
		return explainFeeError(err)
	}
	params, err := graph.Parameters(ctx)
	if err != nil {
		return err
	}

	plan, err := build(transfer.Params{
		ChainID: params.ChainID,
		Source:  source,
		Target:  target,
		Token:   token,
		Amount:  amount,
		Asset:   a,
		Gas:     &gas,
	})
	if err != nil {
		return err
	}
	if err := emitPlan(plan, moveOut); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, ui.FeeLine(gas, assets.Symbol(gas.GasToken)))
	return nil
}

// resolveToken accepts a token address or a symbol known to the chain.
func resolveToken(assets asset.Map, tok string) (string, *asset.Asset, error) {
	if a, ok := assets[tok]; ok {
		return tok, &a, nil
	}
	for addr, a := range assets {
		if a.Symbol == tok || a.Base == tok {
			return addr, &a, nil
		}
	}
	if _, err := account.ValidateAddress(tok); err == nil {
		// Unknown metadata: amount stays in display units without a base amount.
		return tok, nil, nil
	}
	return "", nil, fmt.Errorf("unknown token %q, see `namcli chain tokens`", tok)
}

// emitPlan prints plan as JSON, or writes it to path.
func emitPlan(plan *transfer.Plan, path string) error {
	if path == "" {
		return transfer.WriteJSON(os.Stdout, plan)
	}
	if err := transfer.Save(path, plan); err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("%s plan written to %s", plan.Kind, path)))
	fmt.Println(ui.Hint("Inspect it with: namcli plan show " + path))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{shieldCmd, unshieldCmd} {
		c.Flags().StringVar(&moveSource, "source", "", "source account or address (default: default account)")
		c.Flags().StringVar(&moveTarget, "target", "", "target account or address")
		c.Flags().StringVar(&moveToken, "token", "NAM", "token address or symbol")
		c.Flags().StringVar(&moveAmount, "amount", "", "amount in display units")
		c.Flags().StringVarP(&moveOut, "out", "o", "", "write the plan to a file instead of stdout")
		_ = c.MarkFlagRequired("target")
		_ = c.MarkFlagRequired("amount")
	}
	planCmd.AddCommand(planShowCmd)
}
