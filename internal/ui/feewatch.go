package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mohsinsiddi/namcli/internal/fees"
	"github.com/Mohsinsiddi/namcli/internal/state"
)

// FeeSnapshot is everything the fee watch shows for one state of the graph.
type FeeSnapshot struct {
	Config  fees.GasConfig
	Symbol  string
	Options []fees.FeeOption
	Account string
}

// FeeWatchModel is the Bubble Tea model for the live fee view. It reloads
// whenever the watched gas-config node changes and refreshes prices every
// Interval.
type FeeWatchModel struct {
	Title    string
	Currency string
	Interval time.Duration
	Accounts []string // addresses to cycle through with "a"

	// Load reads the current snapshot; it runs off the UI goroutine.
	Load func() (FeeSnapshot, error)
	// SetToken, SetAccount and Refresh mutate the graph; the resulting
	// node change arrives on Events.
	SetToken   func(addr string)
	SetAccount func(addr string)
	Refresh    func()
	Events     <-chan state.Event

	Snapshot FeeSnapshot
	Loaded   bool
	Loading  bool
	Updated  time.Time
	ErrMsg   string
	Quitting bool

	cursor     int
	accountIdx int
	frame      int
	flash      string
}

type feeSnapshotMsg FeeSnapshot
type feeErrMsg string
type feeNodeChangedMsg state.Event
type feeRefreshMsg struct{}
type feeSpinMsg struct{}

func (m FeeWatchModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.listenCmd(), feeSpin(), m.refreshTick())
}

func feeSpin() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg { return feeSpinMsg{} })
}

func (m FeeWatchModel) refreshTick() tea.Cmd {
	if m.Interval <= 0 {
		return nil
	}
	return tea.Tick(m.Interval, func(time.Time) tea.Msg { return feeRefreshMsg{} })
}

func (m FeeWatchModel) loadCmd() tea.Cmd {
	if m.Load == nil {
		return nil
	}
	load := m.Load
	return func() tea.Msg {
		snap, err := load()
		if err != nil {
			return feeErrMsg(err.Error())
		}
		return feeSnapshotMsg(snap)
	}
}

// listenCmd waits for the next node event. It is re-armed after every event.
func (m FeeWatchModel) listenCmd() tea.Cmd {
	if m.Events == nil {
		return nil
	}
	ch := m.Events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return feeNodeChangedMsg(ev)
	}
}

func (m FeeWatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.flash = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.Snapshot.Options)-1 {
				m.cursor++
			}

		case "enter", " ":
			if m.SetToken != nil && m.cursor < len(m.Snapshot.Options) {
				opt := m.Snapshot.Options[m.cursor]
				m.SetToken(opt.Token)
				m.flash = "Gas token: " + opt.Symbol
				m.Loading = true
			}

		case "a":
			if m.SetAccount != nil && len(m.Accounts) > 1 {
				m.accountIdx = (m.accountIdx + 1) % len(m.Accounts)
				m.SetAccount(m.Accounts[m.accountIdx])
				m.flash = "Account: " + TruncateAddr(m.Accounts[m.accountIdx])
				m.Loading = true
			}

		case "r":
			if m.Refresh != nil {
				m.Refresh()
				m.flash = "Refreshing prices…"
				m.Loading = true
			}
		}

	case feeNodeChangedMsg:
		m.Loading = true
		return m, tea.Batch(m.loadCmd(), m.listenCmd())

	case feeRefreshMsg:
		if m.Refresh != nil {
			m.Refresh()
		}
		return m, m.refreshTick()

	case feeSpinMsg:
		m.frame = (m.frame + 1) % len(spinFrames)
		return m, feeSpin()

	case feeSnapshotMsg:
		m.Snapshot = FeeSnapshot(msg)
		m.Loaded = true
		m.Loading = false
		m.ErrMsg = ""
		m.Updated = time.Now()
		if m.cursor >= len(m.Snapshot.Options) {
			m.cursor = max(0, len(m.Snapshot.Options)-1)
		}

	case feeErrMsg:
		m.Loading = false
		m.ErrMsg = trimErr(string(msg))
	}

	return m, nil
}

func (m FeeWatchModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	title := "⛽ Live Fees"
	if m.Title != "" {
		title += "  ·  " + m.Title
	}
	sb.WriteString(StyleTitle.Render(title) + "\n")

	switch {
	case m.ErrMsg != "":
		sb.WriteString(Err(m.ErrMsg) + "\n\n")
	case m.Loading || !m.Loaded:
		sb.WriteString(StyleInfo.Render(spinFrames[m.frame]+" recomputing…") + "\n\n")
	default:
		sb.WriteString(StyleMeta.Render("  updated "+m.Updated.Format("15:04:05")) + "\n\n")
	}

	if m.Loaded {
		snap := m.Snapshot
		if snap.Account != "" {
			sb.WriteString(StyleMeta.Render("  account ") + Addr(TruncateAddr(snap.Account)) + "\n")
		}
		sb.WriteString("  " + Val(FeeLine(snap.Config, snap.Symbol)) + "\n")
		sb.WriteString(StyleMeta.Render(fmt.Sprintf("  gas limit %s × price %s",
			FormatAmount(snap.Config.GasLimit, amountPlaces), FormatAmount(snap.Config.GasPrice, 12))) + "\n\n")

		for i, o := range snap.Options {
			line := m.optionLine(o)
			if i == m.cursor {
				sb.WriteString(StyleSelected.Render("▸ "+line) + "\n")
			} else {
				sb.WriteString("  " + line + "\n")
			}
		}
	}

	sb.WriteString("\n")
	if m.flash != "" {
		sb.WriteString(StyleSuccess.Render("  ✓ " + m.flash))
	} else {
		sb.WriteString(feeWatchControls(len(m.Accounts) > 1))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m FeeWatchModel) optionLine(o fees.FeeOption) string {
	mark := "  "
	if o.Selected {
		mark = "● "
	}
	line := mark + padR(o.Symbol, 8) + " " + padR(FormatAmount(o.Amount, amountPlaces), 14)
	if o.Dollar != nil {
		line += " ≈ " + FormatFiat(*o.Dollar, m.Currency)
	}
	return line
}

func feeWatchControls(canSwitchAccount bool) string {
	sep := StyleMeta.Render("   ")
	var sb strings.Builder
	sb.WriteString(StyleMeta.Render("[ ↑↓ ] navigate"))
	sb.WriteString(sep)
	sb.WriteString(StyleInfo.Render("[ Enter ]") + StyleMeta.Render(" use token"))
	if canSwitchAccount {
		sb.WriteString(sep)
		sb.WriteString(StyleInfo.Render("[ a ]") + StyleMeta.Render(" next account"))
	}
	sb.WriteString(sep)
	sb.WriteString(StyleWarning.Render("[ r ]") + StyleMeta.Render(" refresh prices"))
	sb.WriteString(sep)
	sb.WriteString(StyleMeta.Render("[ q ] quit"))
	return sb.String()
}

// RunFeeWatch starts the live fee view and blocks until the user quits.
func RunFeeWatch(m FeeWatchModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
