package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/namcli/internal/asset"
	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/ui"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Namada chain information from the indexer",
}

var chainParamsCmd = &cobra.Command{
	Use:   "params",
	Short: "Show chain parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.IndexerTimeout)
		defer cancel()

		p, err := newIndexer().ChainParameters(ctx)
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock(fmt.Sprintf("Chain parameters (%s)", cfg.NetworkMode), [][2]string{
			{"Chain ID", ui.Val(p.ChainID)},
			{"Native token", ui.Addr(p.NativeTokenAddress)},
			{"APR", ui.FormatAmount(p.APR.MulInt64(100), 2) + "%"},
			{"Epochs per year", p.EpochsPerYear},
			{"Unbonding length", p.UnbondingLength},
			{"Pipeline length", p.PipelineLength},
			{"Genesis time", p.GenesisTime},
			{"Max block time", p.MaxBlockTime},
			{"Min epoch duration", p.MinDuration},
			{"Min blocks per epoch", p.MinNumOfBlocks},
			{"Max signatures per tx", p.MaxSignaturesPerTransaction},
		}))
		return nil
	},
}

var chainTokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List tokens known to the chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.IndexerTimeout)
		defer cancel()

		idx := newIndexer()
		tokens, err := idx.ChainTokens(ctx)
		if err != nil {
			return err
		}
		params, err := idx.ChainParameters(ctx)
		if err != nil {
			return err
		}
		assets := asset.MapAddressesToAssets(tokens, params.NativeTokenAddress)

		t := ui.NewTable([]ui.Column{
			{Title: "Symbol", Width: 8},
			{Title: "Address", Width: 46},
			{Title: "Trace", Width: 28},
		})
		for _, tok := range tokens {
			sym := "?"
			if a, ok := assets[tok.Address]; ok {
				sym = a.Symbol
			}
			trace := tok.Trace
			if trace == "" {
				trace = ui.Meta("native")
			}
			t.AddRow(ui.Row{ui.Val(sym), ui.Addr(tok.Address), trace})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d token(s), %d with display metadata", len(tokens), len(assets))))
		return nil
	},
}

var chainRPCCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Show the Namada RPC the indexer follows",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.IndexerTimeout)
		defer cancel()

		idx := newIndexer()
		url, err := idx.RPCURL(ctx)
		if err != nil {
			return err
		}
		status := ui.Success("healthy")
		if err := idx.Health(ctx); err != nil {
			status = ui.Err("down")
		}
		fmt.Println(ui.KeyValueBlock("Namada endpoints", [][2]string{
			{"Indexer", idx.BaseURL() + "  " + status},
			{"RPC", ui.Addr(url)},
		}))
		return nil
	},
}

func init() {
	chainCmd.AddCommand(chainParamsCmd, chainTokensCmd, chainRPCCmd)
}
