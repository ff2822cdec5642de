package ui

import (
	"strings"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// padR / trimErr
// ---------------------------------------------------------------------------

func TestPadRShort(t *testing.T) {
	result := padR("hi", 10)
	assert.Equal(t, 10, len(result))
	assert.True(t, strings.HasPrefix(result, "hi"))
}

func TestPadRLonger(t *testing.T) {
	assert.Equal(t, "toolongstring", padR("toolongstring", 5))
}

func TestPadREmpty(t *testing.T) {
	assert.Equal(t, "    ", padR("", 4))
}

func TestTrimErrShortString(t *testing.T) {
	assert.Equal(t, "short error", trimErr("short error"))
}

func TestTrimErrLongStringTruncated(t *testing.T) {
	result := trimErr(strings.Repeat("x", 50))
	assert.True(t, strings.HasSuffix(result, "…"))
	assert.Equal(t, 30, len(strings.TrimSuffix(result, "…")))
}

func TestTrimErrDialTCP(t *testing.T) {
	result := trimErr("gas-price: Get \"http://x\": dial tcp 127.0.0.1:80: refused")
	assert.True(t, strings.HasPrefix(result, "dial tcp"))
}

func TestTrimErrHTTPStatus(t *testing.T) {
	result := trimErr("indexer GET /api/v1/gas: HTTP 503")
	assert.Equal(t, "HTTP 503", result)
}

// ---------------------------------------------------------------------------
// FormatAmount / FormatFiat
// ---------------------------------------------------------------------------

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in     string
		places int
		want   string
	}{
		{"0.0017", 6, "0.0017"},
		{"1.700000000000000000", 6, "1.7"},
		{"12", 6, "12"},
		{"0.000000123", 6, "0"},
		{"0.000085", 6, "0.000085"},
		{"123.456789", 2, "123.45"},
		{"-0.5", 6, "-0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(math.LegacyMustNewDecFromStr(tt.in), tt.places))
		})
	}
}

func TestFormatAmountNil(t *testing.T) {
	assert.Equal(t, "—", FormatAmount(math.LegacyDec{}, 6))
}

func TestFormatFiat(t *testing.T) {
	assert.Equal(t, "0.00 USD", FormatFiat(math.LegacyMustNewDecFromStr("0.0034"), "usd"))
	assert.Equal(t, "1.50 EUR", FormatFiat(math.LegacyMustNewDecFromStr("1.499"), "EUR"))
	assert.Equal(t, "1234.57 USD", FormatFiat(math.LegacyMustNewDecFromStr("1234.567"), "USD"))
	assert.Equal(t, "-2.05 USD", FormatFiat(math.LegacyMustNewDecFromStr("-2.05"), "USD"))
}
