package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Mohsinsiddi/namcli/internal/asset"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: success, selected token
	ColorWarning   = lipgloss.Color("#FFB800") // amber: warnings
	ColorError     = lipgloss.Color("#FF4444") // red: errors
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, denoms
	ColorValue     = lipgloss.Color("#FFFFFF") // white: amounts
	ColorMeta      = lipgloss.Color("#555555") // dim gray: metadata
	ColorBorder    = lipgloss.Color("#3A3A00") // olive: UI chrome
	ColorChain     = lipgloss.Color("#FFFF00") // namada yellow: titles, chain names
	ColorHighlight = lipgloss.Color("#F15BB5") // pink: headers, cursor
	ColorInfo      = lipgloss.Color("#7FB3FF") // light blue: info lines
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Banner returns the namcli banner.
func Banner() string {
	art := `
  ┏┓╻┏━┓┏┳┓┏━╸╻  ╻
  ┃┗┫┣━┫┃┃┃┃  ┃  ┃
  ╹ ╹╹ ╹╹ ╹┗━╸┗━╸╹`
	tagline := StyleMeta.Render("  Namada fees, accounts & transfers from the terminal")
	return StyleChain.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational line.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a suggestion, usually a command to run next.
func Hint(msg string) string { return StyleMeta.Render("💡 " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a chain name.
func ChainName(c string) string { return StyleChain.Render(c) }

// TruncateAddr shortens an address for display: tnam1qxy…w8ka.
func TruncateAddr(addr string) string { return asset.ShortenAddress(addr) }
