package txkind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryKindHasIndexerName(t *testing.T) {
	for _, k := range All {
		_, ok := toIndexer[k]
		assert.True(t, ok, "kind %s has no indexer name", k)
	}
}

func TestIndexerNames(t *testing.T) {
	assert.Equal(t, "ibcMsgTransfer", IbcTransfer.Indexer())
	assert.Equal(t, "redelegation", Redelegate.Indexer())
	assert.Equal(t, "revealPk", RevealPk.Indexer())
}

func TestIndexerNameFallback(t *testing.T) {
	assert.Equal(t, "transfer", Kind("Transfer").Indexer())
	assert.Equal(t, "", Kind("").Indexer())
}

func TestParseWalletAndIndexerNames(t *testing.T) {
	k, err := Parse("Bond")
	require.NoError(t, err)
	assert.Equal(t, Bond, k)

	k, err = Parse("ibcMsgTransfer")
	require.NoError(t, err)
	assert.Equal(t, IbcTransfer, k)

	k, err = Parse("shieldingtransfer")
	require.NoError(t, err)
	assert.Equal(t, ShieldingTransfer, k)
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("Teleport")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseListStopsOnError(t *testing.T) {
	_, err := ParseList([]string{"Bond", "nope"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	kinds, err := ParseList([]string{" Bond", "Withdraw "})
	require.NoError(t, err)
	assert.Equal(t, []Kind{Bond, Withdraw}, kinds)
}

func TestKeyKeepsOrderAndDuplicates(t *testing.T) {
	assert.Equal(t, "Bond,Bond", Key([]Kind{Bond, Bond}))
	assert.NotEqual(t, Key([]Kind{Bond, Unbond}), Key([]Kind{Unbond, Bond}))
	assert.Equal(t, "", Key(nil))
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	require.Len(t, names, len(All))
	assert.Equal(t, "Bond", names[0])
}
