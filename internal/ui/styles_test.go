package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoContainsPrefixAndMessage(t *testing.T) {
	result := Info("test message")
	assert.Contains(t, result, "ℹ")
	assert.Contains(t, result, "test message")
}

func TestHintContainsPrefixAndMessage(t *testing.T) {
	result := Hint("namcli account add")
	assert.Contains(t, result, "💡")
	assert.Contains(t, result, "namcli account add")
}

func TestSuccessWarnErrPrefixes(t *testing.T) {
	assert.Contains(t, Success("done"), "✓")
	assert.Contains(t, Warn("careful"), "⚠")
	assert.Contains(t, Err("failed"), "✗")
}

func TestInfoDifferentFromHint(t *testing.T) {
	assert.NotEqual(t, Info("message"), Hint("message"))
}

func TestTruncateAddrShortAddress(t *testing.T) {
	assert.Equal(t, "tnam1qq4", TruncateAddr("tnam1qq4"))
}

func TestTruncateAddrLongAddress(t *testing.T) {
	addr := "tnam1qq4aspkf0u8qptc6rlpn9ra8vw5jd9ereq57ajcj"
	assert.Equal(t, "tnam1qq4…ajcj", TruncateAddr(addr))
}

func TestTruncateAddrEmptyString(t *testing.T) {
	assert.Equal(t, "", TruncateAddr(""))
}

func TestBannerMentionsNamada(t *testing.T) {
	assert.Contains(t, Banner(), "Namada")
}

func TestAllFormattersReturnNonEmpty(t *testing.T) {
	formatters := map[string]func(string) string{
		"Success":   Success,
		"Warn":      Warn,
		"Err":       Err,
		"Info":      Info,
		"Hint":      Hint,
		"Addr":      Addr,
		"Val":       Val,
		"Meta":      Meta,
		"ChainName": ChainName,
	}
	for name, fn := range formatters {
		t.Run(name, func(t *testing.T) {
			result := fn("test")
			assert.NotEmpty(t, result)
			assert.Contains(t, result, "test", "%s should contain the input message", name)
		})
	}
}
