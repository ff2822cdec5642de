package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceAddr   = "tnam1qq4aspkf0u8qptc6rlpn9ra8vw5jd9ereq57ajcj"
	bobAddr     = "tnam1qxqmvd7clnfvdknrt8nfvvgn5ytsmeu4uss674r0"
	shieldedPA  = "znam1lprgn0gprm9lkcl3f20se259x09c6jwapkk2zmrucqwqjtqtfq28tttesyuh7fux42uhgl6aam2"
	viewingKey  = "zvknam177pl88py60tsalk63rzhx52p9ccheewj0ydmty2yk7a5we9c9aek2lunlf3qc3m6dasljun06vxfmy4enjarv0phhzmklfenu50thhwcl5ykp5phnsre6xvhxf5g6qm8a5mwhj8e7mnt7pv67j347yd4h5252tw0"
	cosmosAddr  = "cosmos1r06jrqmda9h8t7k8l80dmfxe96lycqdemj5pyh"
	osmoAddr    = "osmo1tkhcz26v44ajppc0myzq5shwdz24glwyg9umw4"
	tnamBech32  = "tnam1qq4aspkf0u8qptc6rlpn9ra8vw5jd9ereqpzd7as" // classic checksum
	cosmosBechM = "cosmos1qq4aspkf0u8qptc6rlpn9ra8vw5jd9ereq25xdq5"
)

func TestValidateTransparentAddress(t *testing.T) {
	for _, addr := range []string{aliceAddr, bobAddr, "  " + aliceAddr + "\n"} {
		kind, err := ValidateAddress(addr)
		require.NoError(t, err, addr)
		assert.Equal(t, KindTransparent, kind)
	}
}

func TestValidateShieldedAddress(t *testing.T) {
	kind, err := ValidateAddress(shieldedPA)
	require.NoError(t, err)
	assert.Equal(t, KindShielded, kind)
}

func TestValidateAddressRejectsBech32Classic(t *testing.T) {
	_, err := ValidateAddress(tnamBech32)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestValidateAddressRejectsForeignPrefix(t *testing.T) {
	_, err := ValidateAddress(cosmosBechM)
	require.ErrorIs(t, err, ErrInvalidAddress)
	assert.Contains(t, err.Error(), "cosmos")
}

func TestValidateAddressRejectsBadChecksum(t *testing.T) {
	broken := aliceAddr[:len(aliceAddr)-1] + "q"
	_, err := ValidateAddress(broken)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestValidateAddressRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "tnam", "0x1234567890abcdef", "not an address"} {
		_, err := ValidateAddress(s)
		assert.ErrorIs(t, err, ErrInvalidAddress, s)
	}
}

func TestValidateViewingKey(t *testing.T) {
	assert.NoError(t, ValidateViewingKey(viewingKey))
	assert.ErrorIs(t, ValidateViewingKey(shieldedPA), ErrInvalidAddress)
	assert.ErrorIs(t, ValidateViewingKey(""), ErrInvalidAddress)
}

func TestValidateCosmosAddress(t *testing.T) {
	assert.NoError(t, ValidateCosmosAddress(cosmosAddr, "cosmos"))
	assert.NoError(t, ValidateCosmosAddress(osmoAddr, "osmo"))
	assert.NoError(t, ValidateCosmosAddress(osmoAddr, ""))

	assert.ErrorIs(t, ValidateCosmosAddress(osmoAddr, "cosmos"), ErrInvalidAddress)
	assert.ErrorIs(t, ValidateCosmosAddress(cosmosBechM, "cosmos"), ErrInvalidAddress, "bech32m is not a cosmos address")
	assert.ErrorIs(t, ValidateCosmosAddress("cosmos1xyz", "cosmos"), ErrInvalidAddress)
}
