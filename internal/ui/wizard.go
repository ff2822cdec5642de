package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WizardResult holds answers collected by the setup wizard. Empty strings
// mean the step was skipped.
type WizardResult struct {
	NetworkMode    string
	IndexerURL     string
	RPCAlgorithm   string
	AccountAddress string
	AccountName    string
}

// --- Bubble Tea model ---

type wizardStep int

const (
	stepMode wizardStep = iota
	stepIndexer
	stepAlgorithm
	stepAccount
	stepDone
)

type wizardModel struct {
	step      wizardStep
	result    WizardResult
	cursor    int
	choices   []string
	input     string
	inputMode bool
	cancelled bool
}

var (
	modes      = []string{"mainnet", "testnet"}
	algorithms = []string{"fastest", "round-robin", "failover"}
)

func initialWizard() wizardModel {
	return wizardModel{step: stepMode, choices: modes}
}

func (m wizardModel) Init() tea.Cmd { return nil }

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.inputMode && key.Type == tea.KeyRunes {
		m.input += string(key.Runes)
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}

	case "enter":
		if m.inputMode {
			m.applyInput()
		} else {
			m.applyChoice()
		}
		m.advance()

	case "backspace":
		if m.inputMode && len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	}

	if m.step == stepDone {
		return m, tea.Quit
	}
	return m, nil
}

func (m *wizardModel) advance() {
	m.step++
	m.cursor = 0
	m.input = ""
	switch m.step {
	case stepIndexer, stepAccount:
		m.choices = nil
		m.inputMode = true
	case stepAlgorithm:
		m.choices = algorithms
		m.inputMode = false
	default:
		m.inputMode = false
	}
}

func (m *wizardModel) applyChoice() {
	if m.cursor >= len(m.choices) {
		return
	}
	switch m.step {
	case stepMode:
		m.result.NetworkMode = m.choices[m.cursor]
	case stepAlgorithm:
		m.result.RPCAlgorithm = m.choices[m.cursor]
	}
}

func (m *wizardModel) applyInput() {
	// Strip whitespace and accidental brackets from paste.
	val := strings.Trim(strings.TrimSpace(m.input), "[]")
	switch m.step {
	case stepIndexer:
		m.result.IndexerURL = val
	case stepAccount:
		if val != "" {
			m.result.AccountAddress = val
			m.result.AccountName = "default"
		}
	}
}

func (m wizardModel) View() string {
	var s string

	switch m.step {
	case stepMode:
		s = renderMenu("Select network:", m.choices, m.cursor)
	case stepIndexer:
		s = renderInput("Indexer URL (optional)", "Press Enter to use the network default:", m.input)
	case stepAlgorithm:
		s = renderMenu("How should IBC REST endpoints be picked?", m.choices, m.cursor)
	case stepAccount:
		s = renderInput("Add an account (optional)", "Enter a tnam1… or znam1… address, or press Enter to skip:", m.input)
	case stepDone:
		s = Success("Setup complete!") + "\n"
	}

	return StyleBorder.Render(s) + "\n"
}

func renderInput(title, help, input string) string {
	s := StyleTitle.Render(title) + "\n\n"
	s += StyleMeta.Render(help) + "\n"
	s += "> " + StyleAddress.Render(input) + "█\n"
	return s
}

func renderMenu(title string, items []string, cursor int) string {
	s := StyleTitle.Render(title) + "\n\n"
	for i, item := range items {
		icon := "  "
		style := lipgloss.NewStyle().Foreground(ColorValue)
		if i == cursor {
			icon = "▸ "
			style = StyleSelected
		}
		s += icon + style.Render(item) + "\n"
	}
	s += "\n" + StyleMeta.Render("↑/↓ navigate · Enter select · Esc cancel")
	return s
}

// RunWizard launches the interactive setup wizard. A cancelled wizard
// returns (nil, nil).
func RunWizard() (*WizardResult, error) {
	final, err := tea.NewProgram(initialWizard()).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard error: %w", err)
	}
	fm := final.(wizardModel)
	if fm.cancelled {
		return nil, nil
	}
	return &fm.result, nil
}
