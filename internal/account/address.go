package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Bech32 prefixes used by Namada.
const (
	PrefixTransparent = "tnam"
	PrefixShielded    = "znam"
	PrefixViewingKey  = "zvknam"
)

// transparentPayloadLen is the decoded size of a tnam address: a one-byte
// discriminant followed by a 20-byte hash.
const transparentPayloadLen = 21

// ErrInvalidAddress is returned for malformed or foreign addresses.
var ErrInvalidAddress = errors.New("invalid address")

// ValidateAddress checks that addr is a bech32m Namada address and returns
// its account kind.
func ValidateAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	hrp, data, version, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if version != bech32.VersionM {
		return "", fmt.Errorf("%w: %s is not bech32m", ErrInvalidAddress, addr)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	switch hrp {
	case PrefixTransparent:
		if len(payload) != transparentPayloadLen {
			return "", fmt.Errorf("%w: payload is %d bytes", ErrInvalidAddress, len(payload))
		}
		return KindTransparent, nil
	case PrefixShielded:
		return KindShielded, nil
	default:
		return "", fmt.Errorf("%w: unexpected prefix %q", ErrInvalidAddress, hrp)
	}
}

// ValidateViewingKey checks the prefix of a shielded viewing key. Viewing
// keys exceed the bech32 length limit, so only the prefix is checked.
func ValidateViewingKey(key string) error {
	if !strings.HasPrefix(strings.TrimSpace(key), PrefixViewingKey+"1") {
		return fmt.Errorf("%w: viewing key must start with %s1", ErrInvalidAddress, PrefixViewingKey)
	}
	return nil
}

// ValidateCosmosAddress checks a bech32 address of an IBC source chain.
func ValidateCosmosAddress(addr, prefix string) error {
	hrp, _, version, err := bech32.DecodeGeneric(strings.TrimSpace(addr))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if version != bech32.Version0 {
		return fmt.Errorf("%w: %s is not bech32", ErrInvalidAddress, addr)
	}
	if prefix != "" && hrp != prefix {
		return fmt.Errorf("%w: expected prefix %q, got %q", ErrInvalidAddress, prefix, hrp)
	}
	return nil
}
