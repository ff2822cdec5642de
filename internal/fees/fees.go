// Package fees derives gas configurations and fee options from indexer data,
// the selected account and the preferred gas token.
package fees

import (
	"errors"
	"fmt"

	"cosmossdk.io/math"

	"github.com/Mohsinsiddi/namcli/internal/asset"
	"github.com/Mohsinsiddi/namcli/internal/indexer"
	"github.com/Mohsinsiddi/namcli/internal/txkind"
)

var (
	// ErrNoGasToken means neither a preferred nor a native token is known.
	ErrNoGasToken = errors.New("no gas token")
	// ErrNoGasPrice means the indexer has no minimum gas price for the token.
	ErrNoGasPrice = errors.New("no minimum gas price for token")
	// ErrMissingAsset means the gas token has no display metadata.
	ErrMissingAsset = errors.New("missing asset for gas token")
	// ErrMissingGasLimit means the gas table has no row for a kind.
	ErrMissingGasLimit = errors.New("missing gas limit")
	// ErrPrecision means a non-zero fee is too small to hold in 18 decimals.
	ErrPrecision = errors.New("fee below decimal precision")
)

// GasConfig is the fee configuration attached to a transaction.
type GasConfig struct {
	GasLimit math.LegacyDec `json:"gasLimit"`
	GasPrice math.LegacyDec `json:"gasPrice"`
	GasToken string         `json:"gasToken"`

	// BasePrice is the minimum price in base units. When set, Fee scales
	// BasePrice × GasLimit down by Exponent so no digits are lost to an
	// early conversion.
	BasePrice math.LegacyDec `json:"-"`
	Exponent  int64          `json:"-"`
}

// Fee returns gasPrice × gasLimit in display units of the gas token.
func (g GasConfig) Fee() math.LegacyDec {
	if g.BasePrice.IsNil() {
		return g.GasPrice.Mul(g.GasLimit)
	}
	return asset.ScaleDown(g.BasePrice.Mul(g.GasLimit), g.Exponent)
}

// checkPrecision fails when a non-zero price and limit produce a zero fee.
func (g GasConfig) checkPrecision() error {
	if g.BasePrice.IsNil() || g.BasePrice.IsZero() || g.GasLimit.IsZero() {
		return nil
	}
	if g.Fee().IsZero() {
		return fmt.Errorf("%w: %s base units × %s gas for %s", ErrPrecision, g.BasePrice, g.GasLimit, asset.ShortenAddress(g.GasToken))
	}
	return nil
}

// MinimumPrice is a token's minimum gas price in base units along with the
// exponent of its display unit.
type MinimumPrice struct {
	Base     math.LegacyDec
	Exponent int64
}

// Display is the price in display units. It may truncate for tokens with
// large exponents; use GasConfig.Fee for amounts.
func (p MinimumPrice) Display() math.LegacyDec {
	return asset.ScaleDown(p.Base, p.Exponent)
}

// TokenOption is a token the indexer accepts for gas, with its minimum
// price in base units. Asset is nil for tokens without display metadata.
type TokenOption struct {
	Address        string
	Asset          *asset.Asset
	MinDenomAmount math.LegacyDec
}

// FeeOption is one line of the fee picker. Dollar is nil when no fiat price
// is known for the token.
type FeeOption struct {
	Token    string
	Symbol   string
	Asset    *asset.Asset
	Amount   math.LegacyDec
	Dollar   *math.LegacyDec
	Selected bool
}

// WithRevealPk prefixes kinds with RevealPk unless the key is revealed.
func WithRevealPk(kinds []txkind.Kind, revealed bool) []txkind.Kind {
	if revealed {
		return kinds
	}
	out := make([]txkind.Kind, 0, len(kinds)+1)
	out = append(out, txkind.RevealPk)
	return append(out, kinds...)
}

// ComputeGasLimit sums the table's native limits over kinds, including the
// reveal surcharge when the account has not revealed its public key.
func ComputeGasLimit(kinds []txkind.Kind, revealed bool, table indexer.GasTable) (math.LegacyDec, error) {
	total := math.LegacyZeroDec()
	for _, k := range WithRevealPk(kinds, revealed) {
		row, ok := table[k]
		if !ok || row.Native.IsNil() {
			return math.LegacyDec{}, fmt.Errorf("%w: %s", ErrMissingGasLimit, k)
		}
		total = total.Add(row.Native)
	}
	return total, nil
}

// TokenOptions pairs every priced token with its asset. Tokens without an
// asset are kept with a nil Asset.
func TokenOptions(prices []indexer.GasPriceEntry, assets asset.Map) []TokenOption {
	out := make([]TokenOption, 0, len(prices))
	for _, p := range prices {
		opt := TokenOption{Address: p.Token, MinDenomAmount: p.MinDenomAmount}
		if a, ok := assets[p.Token]; ok {
			opt.Asset = &a
		}
		out = append(out, opt)
	}
	return out
}

// BuildFeeOptions prices gasLimit in every token option. The total is
// converted to display units when the asset is known. A fiat value is
// attached only when dollars has a price for the token.
func BuildFeeOptions(opts []TokenOption, gasLimit math.LegacyDec, dollars map[string]math.LegacyDec, selected string) []FeeOption {
	out := make([]FeeOption, 0, len(opts))
	for _, o := range opts {
		amount := o.MinDenomAmount.Mul(gasLimit)
		symbol := asset.ShortenAddress(o.Address)
		if o.Asset != nil {
			amount = asset.ToDisplayAmount(*o.Asset, amount)
			symbol = o.Asset.Symbol
		}
		fo := FeeOption{
			Token:    o.Address,
			Symbol:   symbol,
			Asset:    o.Asset,
			Amount:   amount,
			Selected: o.Address == selected,
		}
		if fiat, ok := dollars[o.Address]; ok && !fiat.IsNil() {
			d := fo.Amount.Mul(fiat)
			fo.Dollar = &d
		}
		out = append(out, fo)
	}
	return out
}
