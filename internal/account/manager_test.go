package account_test

import (
	"testing"

	"github.com/Mohsinsiddi/namcli/internal/account"
	"github.com/Mohsinsiddi/namcli/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceAddr  = "tnam1qq4aspkf0u8qptc6rlpn9ra8vw5jd9ereq57ajcj"
	bobAddr    = "tnam1qxqmvd7clnfvdknrt8nfvvgn5ytsmeu4uss674r0"
	shieldedPA = "znam1lprgn0gprm9lkcl3f20se259x09c6jwapkk2zmrucqwqjtqtfq28tttesyuh7fux42uhgl6aam2"
	viewingKey = "zvknam177pl88py60tsalk63rzhx52p9ccheewj0ydmty2yk7a5we9c9aek2lunlf3qc3m6dasljun06vxfmy4enjarv0phhzmklfenu50thhwcl5ykp5phnsre6xvhxf5g6qm8a5mwhj8e7mnt7pv67j347yd4h5252tw0"
)

func TestAddTransparentAccount(t *testing.T) {
	mgr := account.NewManager(account.WithInMemoryStore())

	a, err := mgr.Add("alice", aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, account.KindTransparent, a.Kind)
	assert.True(t, a.IsDefault, "first account becomes the default")
	assert.NotEmpty(t, a.CreatedAt)

	got, err := mgr.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, aliceAddr, got.Address)
}

func TestAddDuplicateAccountErrors(t *testing.T) {
	mgr := account.NewManager(account.WithInMemoryStore())
	_, err := mgr.Add("dup", aliceAddr)
	require.NoError(t, err)

	_, err = mgr.Add("dup", bobAddr)
	assert.ErrorIs(t, err, account.ErrAccountExists)
}

func TestAddInvalidAddress(t *testing.T) {
	mgr := account.NewManager(account.WithInMemoryStore())
	_, err := mgr.Add("bad", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	assert.ErrorIs(t, err, account.ErrInvalidAddress)
	assert.Empty(t, mgr.List())
}

func TestAddShieldedKeepsViewingKeyOutOfStore(t *testing.T) {
	ks := account.NewInMemoryKeystore()
	mgr := account.NewManager(account.WithInMemoryStore(), account.WithSecretStore(ks))

	a, err := mgr.AddShielded("savings", shieldedPA, viewingKey)
	require.NoError(t, err)
	assert.True(t, a.IsShielded())
	assert.Equal(t, account.Ref("vk.savings"), a.ViewingKeyRef)

	vk, err := mgr.ViewingKey("savings")
	require.NoError(t, err)
	assert.Equal(t, viewingKey, vk)
}

func TestAddShieldedRejectsTransparentAddress(t *testing.T) {
	mgr := account.NewManager(account.WithInMemoryStore())
	_, err := mgr.AddShielded("x", aliceAddr, viewingKey)
	assert.ErrorIs(t, err, account.ErrInvalidAddress)
}

func TestViewingKeyOfTransparentAccount(t *testing.T) {
	mgr := account.NewManager(account.WithInMemoryStore())
	_, _ = mgr.Add("alice", aliceAddr)
	_, err := mgr.ViewingKey("alice")
	assert.ErrorIs(t, err, account.ErrNoViewingKey)
}

func TestRemoveDeletesViewingKey(t *testing.T) {
	ks := account.NewInMemoryKeystore()
	mgr := account.NewManager(account.WithInMemoryStore(), account.WithSecretStore(ks))
	a, err := mgr.AddShielded("savings", shieldedPA, viewingKey)
	require.NoError(t, err)

	require.NoError(t, mgr.Remove("savings"))
	_, err = ks.Retrieve(a.ViewingKeyRef)
	assert.Error(t, err)

	_, err = mgr.Get("savings")
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestRemoveNonExistentAccount(t *testing.T) {
	mgr := account.NewManager(account.WithInMemoryStore())
	assert.ErrorIs(t, mgr.Remove("ghost"), account.ErrAccountNotFound)
}

func TestListIsSorted(t *testing.T) {
	mgr := account.NewManager(account.WithInMemoryStore())
	_, _ = mgr.Add("zed", aliceAddr)
	_, _ = mgr.Add("amy", bobAddr)

	list := mgr.List()
	require.Len(t, list, 2)
	assert.Equal(t, "amy", list[0].Name)
	assert.Equal(t, "zed", list[1].Name)
}

func TestSetDefaultAndResolve(t *testing.T) {
	mgr := account.NewManager(account.WithInMemoryStore())
	_, _ = mgr.Add("alice", aliceAddr)
	_, _ = mgr.Add("bob", bobAddr)

	require.NoError(t, mgr.SetDefault("bob"))
	assert.Equal(t, "bob", mgr.Default().Name)

	a, err := mgr.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "bob", a.Name)

	a, err = mgr.Resolve("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Name)

	assert.ErrorIs(t, mgr.SetDefault("ghost"), account.ErrAccountNotFound)
}

func TestResolveWithoutAccounts(t *testing.T) {
	mgr := account.NewManager(account.WithInMemoryStore())
	assert.Nil(t, mgr.Default())
	_, err := mgr.Resolve("")
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestConfigStorePersistsAcrossManagers(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	ks := account.NewInMemoryKeystore()
	mgr := account.NewManager(account.WithStore(account.NewConfigStore(cfg)), account.WithSecretStore(ks))
	_, err = mgr.Add("alice", aliceAddr)
	require.NoError(t, err)
	_, err = mgr.AddShielded("savings", shieldedPA, viewingKey)
	require.NoError(t, err)

	again := account.NewManager(account.WithStore(account.NewConfigStore(cfg)), account.WithSecretStore(ks))
	list := again.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alice", again.Default().Name)

	af, err := cfg.LoadAccounts()
	require.NoError(t, err)
	for _, e := range af.Accounts {
		assert.NotContains(t, e.ViewingKeyRef, "zvknam", "viewing keys never reach accounts.json")
	}
}

func TestPriceAPIKeyRoundTrip(t *testing.T) {
	ks := account.NewInMemoryKeystore()
	assert.Equal(t, "", account.PriceAPIKey(ks))

	require.NoError(t, account.StorePriceAPIKey(ks, "CG-abc"))
	assert.Equal(t, "CG-abc", account.PriceAPIKey(ks))
}
