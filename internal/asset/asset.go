package asset

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"cosmossdk.io/math"

	"github.com/Mohsinsiddi/namcli/internal/indexer"
)

// ErrUnknownAsset is returned when no asset metadata exists for a denom.
var ErrUnknownAsset = errors.New("unknown asset")

// Asset is the display metadata of a token.
type Asset struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Base        string `json:"base"`     // smallest denomination, e.g. "uatom"
	Exponent    int64  `json:"exponent"` // base units per display unit = 10^Exponent
	CoinGeckoID string `json:"coingecko_id,omitempty"`
}

// Namada is the native asset.
func Namada() Asset {
	return Asset{Symbol: "NAM", Name: "Namada", Base: "unam", Exponent: 6, CoinGeckoID: "namada"}
}

// knownAssets lists IBC assets by base denom.
var knownAssets = map[string]Asset{
	"uatom":  {Symbol: "ATOM", Name: "Cosmos Hub", Base: "uatom", Exponent: 6, CoinGeckoID: "cosmos"},
	"uosmo":  {Symbol: "OSMO", Name: "Osmosis", Base: "uosmo", Exponent: 6, CoinGeckoID: "osmosis"},
	"utia":   {Symbol: "TIA", Name: "Celestia", Base: "utia", Exponent: 6, CoinGeckoID: "celestia"},
	"ustrd":  {Symbol: "STRD", Name: "Stride", Base: "ustrd", Exponent: 6, CoinGeckoID: "stride"},
	"ustars": {Symbol: "STARS", Name: "Stargaze", Base: "ustars", Exponent: 6, CoinGeckoID: "stargaze"},
	"adydx":  {Symbol: "DYDX", Name: "dYdX", Base: "adydx", Exponent: 18, CoinGeckoID: "dydx-chain"},
	"unam":   Namada(),
}

// ByBaseDenom looks up an asset by its smallest denomination.
func ByBaseDenom(denom string) (Asset, error) {
	a, ok := knownAssets[strings.ToLower(denom)]
	if !ok {
		return Asset{}, ErrUnknownAsset
	}
	return a, nil
}

// Map is an address→asset lookup.
type Map map[string]Asset

// Symbol returns the symbol for address, or a shortened address when the
// asset is unknown.
func (m Map) Symbol(address string) string {
	if a, ok := m[address]; ok {
		return a.Symbol
	}
	return ShortenAddress(address)
}

// MapAddressesToAssets resolves every chain token to its display metadata.
// The native token maps to NAM; IBC tokens map through the base denom of
// their trace. Tokens with unknown denoms are left out.
func MapAddressesToAssets(tokens []indexer.Token, nativeAddress string) Map {
	out := make(Map, len(tokens))
	for _, t := range tokens {
		if t.Address == nativeAddress || (!t.IsIBC() && nativeAddress == "") {
			out[t.Address] = Namada()
			continue
		}
		if !t.IsIBC() {
			continue
		}
		if a, err := ByBaseDenom(t.BaseDenom()); err == nil {
			out[t.Address] = a
		}
	}
	return out
}

// ToDisplayAmount converts an amount in base units to display units.
func ToDisplayAmount(a Asset, base math.LegacyDec) math.LegacyDec {
	return ScaleDown(base, a.Exponent)
}

// ScaleDown divides v by 10^exp.
func ScaleDown(v math.LegacyDec, exp int64) math.LegacyDec {
	if exp == 0 {
		return v
	}
	return v.Quo(pow10(exp))
}

// ToBaseAmount converts a display amount to base units.
func ToBaseAmount(a Asset, display math.LegacyDec) math.LegacyDec {
	if a.Exponent == 0 {
		return display
	}
	return display.Mul(pow10(a.Exponent))
}

func pow10(exp int64) math.LegacyDec {
	return math.LegacyNewDecFromInt(math.NewIntWithDecimal(1, int(exp)))
}

// IBCDenom returns the on-chain "ibc/<HASH>" denom for a full trace such as
// "transfer/channel-0/uatom".
func IBCDenom(trace string) string {
	sum := sha256.Sum256([]byte(trace))
	return "ibc/" + strings.ToUpper(hex.EncodeToString(sum[:]))
}

// ShortenAddress shortens a bech32 address for display: tnam1qxy…w8ka.
func ShortenAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-4:]
}
