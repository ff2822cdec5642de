package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWizardKeys(t *testing.T, keys ...tea.KeyMsg) wizardModel {
	t.Helper()
	var m tea.Model = initialWizard()
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	wm, ok := m.(wizardModel)
	require.True(t, ok)
	return wm
}

func TestWizardFullRun(t *testing.T) {
	m := runWizardKeys(t,
		key("down"), key("enter"), // testnet
		key("https://idx.example"), key("enter"),
		key("down"), key("enter"), // round-robin
		key("tnam1qq4aspkf0u8qptc6rlpn9ra8vw5jd9ereq57ajcj"), key("enter"),
	)

	assert.Equal(t, stepDone, m.step)
	assert.Equal(t, "testnet", m.result.NetworkMode)
	assert.Equal(t, "https://idx.example", m.result.IndexerURL)
	assert.Equal(t, "round-robin", m.result.RPCAlgorithm)
	assert.Equal(t, "tnam1qq4aspkf0u8qptc6rlpn9ra8vw5jd9ereq57ajcj", m.result.AccountAddress)
	assert.Equal(t, "default", m.result.AccountName)
}

func TestWizardSkipsOptionalInputs(t *testing.T) {
	m := runWizardKeys(t, key("enter"), key("enter"), key("enter"), key("enter"))
	assert.Equal(t, "mainnet", m.result.NetworkMode)
	assert.Empty(t, m.result.IndexerURL)
	assert.Equal(t, "fastest", m.result.RPCAlgorithm)
	assert.Empty(t, m.result.AccountAddress)
}

func TestWizardInputAcceptsJK(t *testing.T) {
	m := runWizardKeys(t, key("enter"), key("jk"), key("backspace"))
	assert.Equal(t, "j", m.input)
}

func TestWizardPasteBracketsStripped(t *testing.T) {
	m := runWizardKeys(t, key("enter"), key("[https://idx.example]"), key("enter"))
	assert.Equal(t, "https://idx.example", m.result.IndexerURL)
}

func TestWizardCancel(t *testing.T) {
	m := runWizardKeys(t, key("esc"))
	assert.True(t, m.cancelled)
}
