package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/session"
	"github.com/trustieee/timey-sub000/internal/ui"
)

type boardModel struct {
	ctx  context.Context
	sess *session.Session

	width  int
	height int

	profile engine.Profile
	stats   engine.PlayerStats
	play    engine.PlayState
	today   string

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	profile engine.Profile
	err     error
}

type changedMsg struct {
	log string
	err error
}

type tickMsg time.Time

func newBoardModel(ctx context.Context, sess *session.Session) boardModel {
	return boardModel{
		ctx:     ctx,
		sess:    sess,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		p, err := m.sess.Refresh(m.ctx)
		return loadedMsg{profile: p, err: err}
	}
}

func (m boardModel) setStatusCmd(id int, status engine.ChoreStatus) tea.Cmd {
	return func() tea.Msg {
		change, err := m.sess.SetChoreStatus(m.ctx, id, status)
		if err != nil {
			return changedMsg{err: err}
		}
		log := fmt.Sprintf("Chore %d → %s (%s XP)", id, status, ui.XPText(change.XPDelta))
		if change.LevelUp {
			log += fmt.Sprintf(" %s level %d, +%d %s", ui.BadgeLevelUp, change.After.Level, change.TokensGranted, ui.IconGift)
		}
		return changedMsg{log: log}
	}
}

func (m boardModel) togglePlayCmd() tea.Cmd {
	return func() tea.Msg {
		if m.play.Open {
			if _, err := m.sess.StopPlay(m.ctx); err != nil {
				return changedMsg{err: err}
			}
			return changedMsg{log: "Play session stopped."}
		}
		if _, err := m.sess.StartPlay(m.ctx); err != nil {
			return changedMsg{err: err}
		}
		return changedMsg{log: "Play session started. Have fun!"}
	}
}

func (m boardModel) chores() []engine.ChoreEntry {
	return m.profile.History[m.today].Chores
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.play = m.sess.PlayStatus()
		if m.play.Open && m.play.Remaining <= 0 {
			return m, tea.Batch(tick(), m.loadCmd())
		}
		return m, tick()
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.profile = msg.profile
		m.today = m.sess.Engine().Today()
		m.stats = m.sess.Engine().CalculatePlayerStats(m.profile)
		m.play = m.sess.PlayStatus()
		if n := len(m.chores()); m.selected >= n {
			m.selected = n - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil
	case changedMsg:
		if msg.err != nil {
			var gate session.GateError
			if errors.As(msg.err, &gate) {
				m.lastLog = ui.IconLock + " " + gate.Error()
			} else {
				m.lastLog = "Failed: " + msg.err.Error()
			}
			return m, nil
		}
		m.lastLog = msg.log
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.chores())-1 {
				m.selected++
			}
			return m, nil
		case " ", "enter":
			ch, ok := m.selectedChore()
			if !ok {
				return m, nil
			}
			next := engine.StatusCompleted
			if ch.Status == engine.StatusCompleted {
				next = engine.StatusIncomplete
			}
			return m, m.setStatusCmd(ch.ID, next)
		case "n":
			ch, ok := m.selectedChore()
			if !ok {
				return m, nil
			}
			next := engine.StatusNA
			if ch.Status == engine.StatusNA {
				next = engine.StatusIncomplete
			}
			return m, m.setStatusCmd(ch.ID, next)
		case "p":
			return m, m.togglePlayCmd()
		}
	}
	return m, nil
}

func (m boardModel) selectedChore() (engine.ChoreEntry, bool) {
	chores := m.chores()
	if m.selected < 0 || m.selected >= len(chores) {
		return engine.ChoreEntry{}, false
	}
	return chores[m.selected], true
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 30
	if m.width > 0 {
		if maxLeft := m.width / 2; maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.loading && m.today == "" {
		return "timey: loading…"
	}
	return fmt.Sprintf("%s | %s | %s",
		ui.Heading(ui.IconChores, "timey"), m.sess.UserID(), ui.StatsLine(m.stats))
}

func (m boardModel) renderSidebar() string {
	lines := []string{ui.H2.Render("Play " + ui.IconTimer)}
	lines = append(lines, renderPlay(m.play))
	lines = append(lines, "")
	lines = append(lines, ui.H2.Render("Rewards "+ui.IconGift))
	lines = append(lines, fmt.Sprintf("tokens: %d", m.profile.Rewards.Available))
	if bonus := engine.GetPermanentBonus(m.profile, engine.RewardExtendPlayTime); bonus > 0 {
		lines = append(lines, fmt.Sprintf("+%.0f min play", bonus))
	}
	if bonus := engine.GetPermanentBonus(m.profile, engine.RewardReduceCooldown); bonus > 0 {
		lines = append(lines, fmt.Sprintf("-%.0f min cooldown", bonus))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- space: done/undo")
	lines = append(lines, "- n: n/a")
	lines = append(lines, "- p: start/stop play")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func renderPlay(st engine.PlayState) string {
	used := engine.FormatMinutes(int(st.Used / time.Minute))
	allowed := engine.FormatMinutes(int(st.Allowed / time.Minute))
	line := fmt.Sprintf("%s / %s", used, allowed)
	switch {
	case st.Open:
		return line + " " + ui.Good.Render("playing")
	case st.CanStart:
		return line + " " + ui.Muted.Render("ready")
	case st.Reason == engine.ReasonCoolingOff:
		return line + " " + ui.Warn.Render("until "+st.CooldownUntil.Format("15:04"))
	default:
		return line + " " + ui.Bad.Render(st.Reason)
	}
}

func (m boardModel) renderMain() string {
	if m.loading && m.today == "" {
		return "Loading…"
	}
	day := m.profile.History[m.today]
	c := engine.DayCompletion(day)
	out := []string{
		fmt.Sprintf("%s %s  %d/%d done  %s XP",
			ui.H2.Render("Today"), m.today, c.Completed, c.Total-c.NA, ui.XPText(day.XP.Final)),
	}
	if day.Completed {
		out = append(out, ui.Muted.Render("(finalized)"))
	}
	out = append(out, "")

	if len(day.Chores) == 0 {
		out = append(out, "(nothing scheduled today)")
		return strings.Join(out, "\n")
	}
	for i, ch := range day.Chores {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		row := fmt.Sprintf("%s%s %s", cursor, ui.StatusIcon(ch.Status), ch.Text)
		if i == m.selected {
			row = ui.SelectedRow.Render(row)
		}
		out = append(out, row)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
