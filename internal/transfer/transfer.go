// Package transfer composes unsigned transfer plans for an external signer:
// shielding, unshielding and IBC transfers into Namada.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/math"

	"github.com/Mohsinsiddi/namcli/internal/account"
	"github.com/Mohsinsiddi/namcli/internal/asset"
	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/Mohsinsiddi/namcli/internal/fees"
	"github.com/Mohsinsiddi/namcli/internal/txkind"
)

var (
	// ErrInvalidAmount is returned for zero, negative or unparsable amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidChannel is returned when the channel id is not channel-<n>.
	ErrInvalidChannel = errors.New("invalid channel id")
	// ErrWrongAddressKind is returned when e.g. a shielded address is given
	// where a transparent one is expected.
	ErrWrongAddressKind = errors.New("wrong address kind")
)

// Plan is an unsigned transfer ready for signing by the wallet.
type Plan struct {
	Kind    txkind.Kind `json:"kind"`
	ChainID string      `json:"chainId"`
	Source  string      `json:"source"`
	Target  string      `json:"target"`
	Token   string      `json:"token"`
	// Amount is in display units; BaseAmount in the smallest denomination
	// when the token's asset is known. An IBC denom with no known asset
	// has no display unit, so its Amount equals BaseAmount.
	Amount     math.LegacyDec  `json:"amount"`
	BaseAmount *math.Int       `json:"baseAmount,omitempty"`
	Gas        *fees.GasConfig `json:"gasConfig,omitempty"`
	Memo       string          `json:"memo,omitempty"`

	// RequiresDisposableSigner is set on unshielding plans: the wallet must
	// generate a one-off keypair to pay fees from the transparent side.
	RequiresDisposableSigner bool `json:"requiresDisposableSigner,omitempty"`

	IBC *MsgTransfer `json:"ibc,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Params are the inputs shared by shield and unshield plans.
type Params struct {
	ChainID string
	Source  string
	Target  string
	Token   string
	Amount  math.LegacyDec
	Asset   *asset.Asset
	Gas     *fees.GasConfig
	Memo    string
}

// NewShieldPlan moves tokens from a transparent to a shielded address.
func NewShieldPlan(p Params) (*Plan, error) {
	if err := expectKind(p.Source, config.KindTransparent, "source"); err != nil {
		return nil, err
	}
	if err := expectKind(p.Target, config.KindShielded, "target"); err != nil {
		return nil, err
	}
	return newPlan(txkind.ShieldingTransfer, p)
}

// NewUnshieldPlan moves tokens from a shielded to a transparent address.
func NewUnshieldPlan(p Params) (*Plan, error) {
	if err := expectKind(p.Source, config.KindShielded, "source"); err != nil {
		return nil, err
	}
	if err := expectKind(p.Target, config.KindTransparent, "target"); err != nil {
		return nil, err
	}
	plan, err := newPlan(txkind.UnshieldingTransfer, p)
	if err != nil {
		return nil, err
	}
	plan.RequiresDisposableSigner = true
	return plan, nil
}

func newPlan(kind txkind.Kind, p Params) (*Plan, error) {
	if p.Amount.IsNil() || !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	if p.Token == "" {
		return nil, errors.New("token is required")
	}
	plan := &Plan{
		Kind:      kind,
		ChainID:   p.ChainID,
		Source:    strings.TrimSpace(p.Source),
		Target:    strings.TrimSpace(p.Target),
		Token:     p.Token,
		Amount:    p.Amount,
		Gas:       p.Gas,
		Memo:      p.Memo,
		CreatedAt: time.Now().UTC(),
	}
	if p.Asset != nil {
		base := asset.ToBaseAmount(*p.Asset, p.Amount)
		if !base.IsInteger() {
			return nil, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidAmount, p.Amount, p.Asset.Exponent)
		}
		b := base.TruncateInt()
		plan.BaseAmount = &b
	}
	return plan, nil
}

func expectKind(addr, want, role string) error {
	kind, err := account.ValidateAddress(addr)
	if err != nil {
		return fmt.Errorf("%s: %w", role, err)
	}
	if kind != want {
		return fmt.Errorf("%w: %s must be a %s address, got %s", ErrWrongAddressKind, role, want, kind)
	}
	return nil
}

// ParseAmount parses a positive decimal display amount such as "1.5".
func ParseAmount(s string) (math.LegacyDec, error) {
	d, err := math.LegacyNewDecFromStr(strings.TrimSpace(s))
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("%w %q: %v", ErrInvalidAmount, s, err)
	}
	if !d.IsPositive() {
		return math.LegacyDec{}, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}
	return d, nil
}

// ValidateChannel checks an IBC channel id ("channel-17").
func ValidateChannel(id string) error {
	n, ok := strings.CutPrefix(id, "channel-")
	if !ok || n == "" {
		return fmt.Errorf("%w: %q", ErrInvalidChannel, id)
	}
	if _, err := strconv.ParseUint(n, 10, 64); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidChannel, id)
	}
	return nil
}

// WriteJSON writes plan as indented JSON.
func WriteJSON(w io.Writer, plan *Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// Save writes plan to path, creating parent directories.
func Save(path string, plan *Plan) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, plan); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a plan written by Save.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	return &p, nil
}
