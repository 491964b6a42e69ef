package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trustieee/timey-sub000/internal/engine"
)

// timey theme (CLI + TUI).

const (
	IconChores  = "🧹"
	IconSparkle = "✨"
	IconDone    = "✅"
	IconTodo    = "⬜"
	IconSkip    = "➖"
	IconTrophy  = "🏆"
	IconGift    = "🎁"
	IconTimer   = "⏱️"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconScroll  = "📜"
	IconLock    = "🔒"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusText(status engine.ChoreStatus) string {
	switch status {
	case engine.StatusCompleted:
		return Good.Render("done")
	case engine.StatusNA:
		return Muted.Render("n/a")
	case engine.StatusIncomplete:
		return Warn.Render("todo")
	default:
		return Muted.Render(string(status))
	}
}

func StatusIcon(status engine.ChoreStatus) string {
	switch status {
	case engine.StatusCompleted:
		return IconDone
	case engine.StatusNA:
		return IconSkip
	default:
		return IconTodo
	}
}

// XPText colors a signed XP figure.
func XPText(xp int) string {
	switch {
	case xp > 0:
		return Good.Render(fmt.Sprintf("+%d", xp))
	case xp < 0:
		return Bad.Render(fmt.Sprintf("%d", xp))
	default:
		return Muted.Render("0")
	}
}

// ProgressBar draws value/total as a fixed-width bar.
func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := int(float64(value) / float64(total) * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// StatsLine is the one-line level summary shared by the CLI and the board.
func StatsLine(st engine.PlayerStats) string {
	return fmt.Sprintf("%s %s %s %d/%d XP (total %d)",
		Gold.Render(fmt.Sprintf("Level %d", st.Level)),
		ProgressBar(st.XPIntoLevel, st.XPToNextLevel, 20),
		Muted.Render("·"),
		st.XPIntoLevel, st.XPToNextLevel, st.TotalXP)
}
