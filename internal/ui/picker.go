package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mohsinsiddi/namcli/internal/fees"
)

// gasTokenPicker lets the user choose the gas token from priced fee options.
// The cursor wraps at both ends and starts on the token in use.
type gasTokenPicker struct {
	opts     []fees.FeeOption
	currency string
	cursor   int
	chosen   string
	aborted  bool
}

func newGasTokenPicker(opts []fees.FeeOption, currency string) gasTokenPicker {
	m := gasTokenPicker{opts: opts, currency: currency}
	for i, o := range opts {
		if o.Selected {
			m.cursor = i
			break
		}
	}
	return m
}

func (m gasTokenPicker) Init() tea.Cmd { return nil }

func (m gasTokenPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || len(m.opts) == 0 {
		return m, nil
	}
	n := len(m.opts)
	switch km.String() {
	case "q", "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	case "up", "k", "shift+tab":
		m.cursor = (m.cursor + n - 1) % n
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % n
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = n - 1
	case "enter", " ":
		m.chosen = m.opts[m.cursor].Token
		return m, tea.Quit
	}
	return m, nil
}

func (m gasTokenPicker) View() string {
	if m.aborted || m.chosen != "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n" + StyleTitle.Render("  ⛽ Select gas token") + "\n\n")
	for i, o := range m.opts {
		current := "  "
		if o.Selected {
			current = StyleSuccess.Render("● ")
		}
		fiat := ""
		if o.Dollar != nil {
			fiat = "≈ " + FormatFiat(*o.Dollar, m.currency)
		}
		row := padR(o.Symbol, 8) + " " + padR(FormatAmount(o.Amount, amountPlaces), 14) + " " + padR(fiat, 14)
		if i == m.cursor {
			sb.WriteString("  " + current + StyleSelected.Render(row) + "\n")
			continue
		}
		sb.WriteString("  " + current + StyleValue.Render(row) + StyleMeta.Render(TruncateAddr(o.Token)) + "\n")
	}
	sb.WriteString("\n" + StyleMeta.Render("  ● in use   ↑↓ move   enter pay with   esc keep current") + "\n")
	return sb.String()
}

// PickGasToken asks the user for a gas token among opts and returns its
// address. It returns "" when the user keeps the current token.
func PickGasToken(opts []fees.FeeOption, currency string) (string, error) {
	if len(opts) == 0 {
		return "", errors.New("no gas tokens to pick from")
	}
	final, err := tea.NewProgram(newGasTokenPicker(opts, currency), tea.WithAltScreen()).Run()
	if err != nil {
		return "", fmt.Errorf("gas token picker: %w", err)
	}
	return final.(gasTokenPicker).chosen, nil
}
