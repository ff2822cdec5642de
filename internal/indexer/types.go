package indexer

import (
	"encoding/json"
	"fmt"
	"strings"

	"cosmossdk.io/math"

	"github.com/Mohsinsiddi/namcli/internal/txkind"
)

// GasLimit is one row of the gas table. Native is the limit in gas units.
type GasLimit struct {
	Native math.LegacyDec
}

// GasTable maps every transaction kind to its gas limit.
type GasTable map[txkind.Kind]GasLimit

// GasTableEntry is a raw row of GET /api/v1/gas.
type GasTableEntry struct {
	TxKind   string
	Token    string
	GasLimit math.LegacyDec
}

// GasPriceEntry is a raw row of GET /api/v1/gas-price. MinDenomAmount is
// the price of one gas unit in the token's smallest denomination.
type GasPriceEntry struct {
	Token          string
	MinDenomAmount math.LegacyDec
}

// Token is a chain token known to the indexer. Trace is set for IBC tokens
// ("channel-0/uatom") and empty for the native token.
type Token struct {
	Address string `json:"address"`
	Trace   string `json:"trace,omitempty"`
}

// IsIBC reports whether the token arrived over IBC.
func (t Token) IsIBC() bool { return t.Trace != "" }

// BaseDenom returns the last path segment of the IBC trace, or "" for
// native tokens.
func (t Token) BaseDenom() string {
	if t.Trace == "" {
		return ""
	}
	if i := strings.LastIndex(t.Trace, "/"); i >= 0 {
		return t.Trace[i+1:]
	}
	return t.Trace
}

// Parameters holds the chain parameters the wallet cares about.
type Parameters struct {
	ChainID                     string         `json:"chainId"`
	NativeTokenAddress          string         `json:"nativeTokenAddress"`
	UnbondingLength             string         `json:"unbondingLength"`
	PipelineLength              string         `json:"pipelineLength"`
	EpochsPerYear               string         `json:"epochsPerYear"`
	GenesisTime                 string         `json:"genesisTime"`
	MaxBlockTime                string         `json:"maxBlockTime"`
	MinDuration                 string         `json:"minDuration"`
	MinNumOfBlocks              string         `json:"minNumOfBlocks"`
	EpochSwitchBlocksDelay      string         `json:"epochSwitchBlocksDelay"`
	MaxSignaturesPerTransaction string         `json:"maxSignaturesPerTransaction"`
	APR                         math.LegacyDec `json:"-"`
}

// Balance is one token balance of an account, in the smallest denomination.
type Balance struct {
	TokenAddress   string
	MinDenomAmount math.LegacyDec
}

// --- wire formats ---

type gasTableEntryJSON struct {
	TxKind   string          `json:"txKind"`
	Token    string          `json:"token"`
	GasLimit json.RawMessage `json:"gasLimit"`
}

type gasPriceEntryJSON struct {
	Token          string          `json:"token"`
	MinDenomAmount json.RawMessage `json:"minDenomAmount"`
}

type balanceJSON struct {
	TokenAddress   string          `json:"tokenAddress"`
	MinDenomAmount json.RawMessage `json:"minDenomAmount"`
}

// parametersJSON mirrors Parameters but accepts numeric fields as either
// strings or numbers.
type parametersJSON struct {
	ChainID                     string          `json:"chainId"`
	NativeTokenAddress          string          `json:"nativeTokenAddress"`
	UnbondingLength             json.RawMessage `json:"unbondingLength"`
	PipelineLength              json.RawMessage `json:"pipelineLength"`
	EpochsPerYear               json.RawMessage `json:"epochsPerYear"`
	GenesisTime                 json.RawMessage `json:"genesisTime"`
	MaxBlockTime                json.RawMessage `json:"maxBlockTime"`
	MinDuration                 json.RawMessage `json:"minDuration"`
	MinNumOfBlocks              json.RawMessage `json:"minNumOfBlocks"`
	EpochSwitchBlocksDelay      json.RawMessage `json:"epochSwitchBlocksDelay"`
	MaxSignaturesPerTransaction json.RawMessage `json:"maxSignaturesPerTransaction"`
	APR                         json.RawMessage `json:"apr"`
}

type rpcURLJSON struct {
	URL string `json:"url"`
}

type revealedPublicKeyJSON struct {
	PublicKey string `json:"publicKey"`
}

// ParseDec parses a decimal given as a JSON string ("0.5") or number (0.5).
func ParseDec(raw json.RawMessage) (math.LegacyDec, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return math.LegacyDec{}, fmt.Errorf("%w: missing number", ErrDecode)
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return math.LegacyDec{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		s = strings.TrimSpace(str)
	}
	d, err := math.LegacyNewDecFromStr(s)
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("%w: %q is not a decimal", ErrDecode, s)
	}
	return d, nil
}

// rawString renders a string-or-number field as a plain string.
func rawString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if json.Unmarshal(raw, &str) == nil {
		return str
	}
	return s
}

func (p parametersJSON) decode() (*Parameters, error) {
	out := &Parameters{
		ChainID:                     p.ChainID,
		NativeTokenAddress:          p.NativeTokenAddress,
		UnbondingLength:             rawString(p.UnbondingLength),
		PipelineLength:              rawString(p.PipelineLength),
		EpochsPerYear:               rawString(p.EpochsPerYear),
		GenesisTime:                 rawString(p.GenesisTime),
		MaxBlockTime:                rawString(p.MaxBlockTime),
		MinDuration:                 rawString(p.MinDuration),
		MinNumOfBlocks:              rawString(p.MinNumOfBlocks),
		EpochSwitchBlocksDelay:      rawString(p.EpochSwitchBlocksDelay),
		MaxSignaturesPerTransaction: rawString(p.MaxSignaturesPerTransaction),
		APR:                         math.LegacyZeroDec(),
	}
	if len(p.APR) > 0 && string(p.APR) != "null" {
		apr, err := ParseDec(p.APR)
		if err != nil {
			return nil, fmt.Errorf("apr: %w", err)
		}
		out.APR = apr
	}
	return out, nil
}
