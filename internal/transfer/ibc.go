package transfer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/math"

	"github.com/Mohsinsiddi/namcli/internal/account"
	"github.com/Mohsinsiddi/namcli/internal/asset"
	"github.com/Mohsinsiddi/namcli/internal/chain"
	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/txkind"
)

var registry = chain.NewRegistry()

// MsgTransferType is the protobuf type URL of an ICS-20 transfer.
const MsgTransferType = "/ibc.applications.transfer.v1.MsgTransfer"

// Coin is a Cosmos SDK coin with an integer amount in base units.
type Coin struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// StdFee is the fee attached to the source-chain transaction.
type StdFee struct {
	Amount []Coin `json:"amount"`
	Gas    string `json:"gas"`
}

// MsgTransfer is an ICS-20 transfer message, JSON-encoded the way Cosmos
// signers expect (amino-style field names, integers as strings).
type MsgTransfer struct {
	Type             string `json:"@type"`
	SourcePort       string `json:"source_port"`
	SourceChannel    string `json:"source_channel"`
	Token            Coin   `json:"token"`
	Sender           string `json:"sender"`
	Receiver         string `json:"receiver"`
	TimeoutTimestamp string `json:"timeout_timestamp"` // unix nanoseconds
	Memo             string `json:"memo"`
	Fee              StdFee `json:"fee"`
}

// IBCParams are the inputs of an IBC transfer into Namada.
type IBCParams struct {
	// SourceChain is a registry name or chain id.
	SourceChain string
	Mode        string
	Sender      string
	Receiver    string
	Denom       string
	Amount      math.Int
	ChannelID   string
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

// NewIBCPlan builds a MsgTransfer from a Cosmos chain to a Namada address.
// Fees are paid in the transferred denom with a zero amount.
func NewIBCPlan(p IBCParams) (*Plan, error) {
	c, err := registry.Resolve(p.SourceChain)
	if err != nil {
		return nil, fmt.Errorf("source chain %q: %w", p.SourceChain, err)
	}
	chainID := c.ChainID(p.Mode)
	if p.SourceChain != c.Name {
		// An explicit chain id selects its own network.
		chainID = p.SourceChain
	}

	if err := account.ValidateCosmosAddress(p.Sender, c.Bech32Prefix); err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	if _, err := account.ValidateAddress(p.Receiver); err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}
	if err := ValidateChannel(p.ChannelID); err != nil {
		return nil, err
	}
	if p.Denom == "" {
		return nil, errors.New("denom is required")
	}
	if p.Amount.IsNil() || !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	// Second precision, like the Cosmos JS signers.
	deadline := time.Unix(now().Unix(), 0).Add(config.IBCTimeout)
	memo := chainID + "->Namada"

	msg := &MsgTransfer{
		Type:             MsgTransferType,
		SourcePort:       config.IBCPort,
		SourceChannel:    p.ChannelID,
		Token:            Coin{Denom: p.Denom, Amount: p.Amount},
		Sender:           strings.TrimSpace(p.Sender),
		Receiver:         strings.TrimSpace(p.Receiver),
		TimeoutTimestamp: strconv.FormatInt(deadline.UnixNano(), 10),
		Memo:             memo,
		Fee: StdFee{
			Amount: []Coin{{Denom: p.Denom, Amount: math.ZeroInt()}},
			Gas:    strconv.FormatUint(config.IBCTransferGas, 10),
		},
	}

	base := p.Amount
	amount := math.LegacyNewDecFromInt(base)
	if a, err := asset.ByBaseDenom(p.Denom); err == nil {
		amount = asset.ToDisplayAmount(a, amount)
	}
	return &Plan{
		Kind:       txkind.IbcTransfer,
		ChainID:    chainID,
		Source:     msg.Sender,
		Target:     msg.Receiver,
		Token:      p.Denom,
		Amount:     amount,
		BaseAmount: &base,
		Memo:       memo,
		IBC:        msg,
		CreatedAt:  now().UTC(),
	}, nil
}
