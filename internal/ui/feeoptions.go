package ui

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/namcli/internal/fees"
)

// amountPlaces is the precision fee amounts are shown with.
const amountPlaces = 6

// FeeLine is the single-line fee summary for a gas config:
// "Transaction fee: 0.0017 NAM".
func FeeLine(cfg fees.GasConfig, symbol string) string {
	return fmt.Sprintf("Transaction fee: %s %s", FormatAmount(cfg.Fee(), amountPlaces), symbol)
}

// RenderGasConfig shows the parts of a gas config and its total fee.
func RenderGasConfig(cfg fees.GasConfig, symbol string) string {
	return KeyValueBlock("⛽ Gas configuration", [][2]string{
		{"Gas token", symbol + "  " + StyleMeta.Render(TruncateAddr(cfg.GasToken))},
		{"Gas limit", FormatAmount(cfg.GasLimit, amountPlaces)},
		{"Gas price", gasPriceText(cfg, symbol)},
		{"Fee", FormatAmount(cfg.Fee(), amountPlaces) + " " + symbol},
	})
}

// RenderFeeOptions lists every gas token with its fee amount and, where a
// fiat price is known, the fiat value. Tokens without a price get no fiat
// line at all.
func RenderFeeOptions(opts []fees.FeeOption, currency string) string {
	var sb strings.Builder
	for _, o := range opts {
		marker := "  "
		symbol := StyleValue.Render(o.Symbol)
		if o.Selected {
			marker = StyleSuccess.Render("● ")
			symbol = StyleSuccess.Render(o.Symbol)
		}
		sb.WriteString(marker + padR(symbol, 10) + " " +
			padR(Val(FormatAmount(o.Amount, amountPlaces)), 16) + " " +
			StyleMeta.Render(TruncateAddr(o.Token)) + "\n")
		if o.Dollar != nil {
			sb.WriteString("  " + padR("", 10) + " " + StyleInfo.Render("≈ "+FormatFiat(*o.Dollar, currency)) + "\n")
		}
	}
	if len(opts) == 0 {
		sb.WriteString(StyleMeta.Render("  no gas tokens available") + "\n")
	}
	return sb.String()
}

// SelectedToken returns the token of the selected option, or "".
func SelectedToken(opts []fees.FeeOption) string {
	for _, o := range opts {
		if o.Selected {
			return o.Token
		}
	}
	return ""
}

// gasPriceText falls back to base units when the display price is too small
// to show.
func gasPriceText(cfg fees.GasConfig, symbol string) string {
	if cfg.GasPrice.IsZero() && !cfg.BasePrice.IsNil() && !cfg.BasePrice.IsZero() {
		return FormatAmount(cfg.BasePrice, amountPlaces) + " base units"
	}
	return FormatAmount(cfg.GasPrice, 12) + " " + symbol
}
