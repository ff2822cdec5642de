package txkind

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownKind is returned when a string does not name a transaction kind.
var ErrUnknownKind = errors.New("unknown transaction kind")

// Kind is a transaction kind as the wallet names it.
type Kind string

const (
	Bond                Kind = "Bond"
	Unbond              Kind = "Unbond"
	Redelegate          Kind = "Redelegate"
	Withdraw            Kind = "Withdraw"
	ClaimRewards        Kind = "ClaimRewards"
	VoteProposal        Kind = "VoteProposal"
	TransparentTransfer Kind = "TransparentTransfer"
	ShieldedTransfer    Kind = "ShieldedTransfer"
	ShieldingTransfer   Kind = "ShieldingTransfer"
	UnshieldingTransfer Kind = "UnshieldingTransfer"
	IbcTransfer         Kind = "IbcTransfer"
	RevealPk            Kind = "RevealPk"
)

// All lists every kind the gas table must cover, in display order.
var All = []Kind{
	Bond,
	Unbond,
	Redelegate,
	Withdraw,
	ClaimRewards,
	VoteProposal,
	TransparentTransfer,
	ShieldedTransfer,
	ShieldingTransfer,
	UnshieldingTransfer,
	IbcTransfer,
	RevealPk,
}

var toIndexer = map[Kind]string{
	Bond:                "bond",
	Unbond:              "unbond",
	Redelegate:          "redelegation",
	Withdraw:            "withdraw",
	ClaimRewards:        "claimRewards",
	VoteProposal:        "voteProposal",
	TransparentTransfer: "transparentTransfer",
	ShieldedTransfer:    "shieldedTransfer",
	ShieldingTransfer:   "shieldingTransfer",
	UnshieldingTransfer: "unshieldingTransfer",
	IbcTransfer:         "ibcMsgTransfer",
	RevealPk:            "revealPk",
}

// Indexer returns the indexer's name for k. Kinds without a mapping are
// passed through lower-camel-cased.
func (k Kind) Indexer() string {
	if s, ok := toIndexer[k]; ok {
		return s
	}
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Parse accepts either the wallet name ("Bond") or the indexer name ("bond"),
// case-insensitively.
func Parse(s string) (Kind, error) {
	for _, k := range All {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, k.Indexer()) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ParseList parses a list of kind names, failing on the first unknown one.
func ParseList(ss []string) ([]Kind, error) {
	out := make([]Kind, 0, len(ss))
	for _, s := range ss {
		k, err := Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// Key returns a canonical string for a set of kinds. Order is significant
// because the same kind may appear more than once in a batch.
func Key(kinds []Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

// Names returns the sorted wallet names of every known kind.
func Names() []string {
	out := make([]string, len(All))
	for i, k := range All {
		out[i] = string(k)
	}
	sort.Strings(out)
	return out
}
