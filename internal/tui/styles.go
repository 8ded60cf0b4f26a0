package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wolapp/wolctl/internal/theme"
	"github.com/wolapp/wolctl/internal/version"
)

// AppName is shown in the header of every screen.
const AppName = "WOLCTL"

// Layout constants for responsive terminal width
const (
	DefaultWidth  = 80
	DefaultHeight = 24
	ModalWidth    = 52
)

// Color palette. lipgloss resolves each AdaptiveColor against the background
// set by the theme package.
var (
	PrimaryColor = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"} // Purple
	SuccessColor = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	TextColor    = lipgloss.AdaptiveColor{Light: "#1C1917", Dark: "#F5F5F4"}
	SubtleColor  = lipgloss.AdaptiveColor{Light: "#78716C", Dark: "#A8A29E"}
	BorderColor  = lipgloss.AdaptiveColor{Light: "#A8A29E", Dark: "#57534E"}
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Box is the plain bordered panel
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// PrimaryBoxStyle highlights intro panels
	PrimaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1)

	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ErrorColor).
			Foreground(ErrorColor).
			Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	PrimaryButtonStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true).
				Border(lipgloss.NormalBorder()).
				BorderForeground(PrimaryColor).
				Padding(0, 1)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SuccessTextStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor)

	BlurredInputStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)
)

// navEntries are the tabs shown in the header, in key order.
var navEntries = []struct {
	key    string
	label  string
	screen Screen
}{
	{"1", "machines", ScreenMachines},
	{"2", "add machine", ScreenAdd},
	{"3", "arp table", ScreenArp},
}

// BuildHeaderContent renders the app name, the server and the nav tabs with
// the active screen highlighted.
func BuildHeaderContent(active Screen, server string) string {
	title := TitleStyle.Render(AppName+" "+version.Version) + " " + SubtitleStyle.Render(server)

	var tabs []string
	for _, e := range navEntries {
		label := e.key + " " + e.label
		if e.screen == active {
			tabs = append(tabs, PrimaryButtonStyle.Render(label))
		} else {
			tabs = append(tabs, ButtonStyle.Render(label))
		}
	}

	icon := "☀ light"
	if theme.Dark() {
		icon = "☾ dark"
	}
	tabs = append(tabs, ButtonStyle.Render("t "+icon))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(tabs, " ")...),
	)
}

// RenderApplicationContainer wraps a screen with the header and a footer of
// help text, filling the terminal.
func RenderApplicationContainer(content, footerText string, active Screen, server string, width, height int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width - 2).
		Padding(0, 1).
		Render(BuildHeaderContent(active, server))

	footer := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(width - 2).
		Padding(0, 1).
		Render(footerText)

	body := lipgloss.NewStyle().
		Width(width - 2).
		Padding(1, 1).
		Render(content)

	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight > lipgloss.Height(body) {
		body = lipgloss.PlaceVertical(bodyHeight, lipgloss.Top, body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// RenderModal centers a bordered dialog over the screen area.
func RenderModal(content string, width, height int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	box := PrimaryBoxStyle.
		Width(min(ModalWidth, width-4)).
		Padding(1, 2).
		Render(content)
	return lipgloss.Place(width-4, height/2, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(BorderColor),
	)
}

func joinWithGap(parts []string, gap string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, gap)
		}
		out = append(out, p)
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
