package tui

import (
	"bytes"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fchimpan/leetboard/internal/calendar"
	"github.com/fchimpan/leetboard/internal/dashboard"
	"github.com/fchimpan/leetboard/internal/heatmap"
	"github.com/fchimpan/leetboard/internal/stats"
)

type Options struct {
	// Now supplies the current time; nil means time.Now.
	Now func() time.Time
	// Today pins the heatmap window. Zero follows Now.
	Today  time.Time
	Policy heatmap.Policy
}

type Model struct {
	users     []stats.User
	standings []dashboard.Standing
	winners   map[dashboard.Metric]string

	now    func() time.Time
	pinned time.Time
	today  time.Time
	policy heatmap.Policy

	selected int

	w int
	h int

	viewBuf bytes.Buffer
}

// refreshEvery is how often the window is re-anchored so a dashboard left
// open past midnight rolls to the new day.
const refreshEvery = time.Minute

type tickMsg time.Time

func NewModel(users []stats.User, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Policy == nil {
		opts.Policy = heatmap.DefaultPolicy
	}
	m := &Model{
		users:     users,
		standings: dashboard.Leaderboard(users),
		winners:   dashboard.Winners(users),
		now:       opts.Now,
		pinned:    opts.Today,
		policy:    opts.Policy,
	}
	m.today = m.anchor()
	return m
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) anchor() time.Time {
	if !m.pinned.IsZero() {
		return calendar.Midnight(m.pinned)
	}
	return calendar.Midnight(m.now())
}

func (m *Model) Init() tea.Cmd {
	return tickCmd(refreshEvery)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.w = msg.Width
		m.h = msg.Height
		return m, nil
	case tickMsg:
		m.today = m.anchor()
		return m, tickCmd(refreshEvery)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "right", "l", "tab":
			m.selectUser(m.selected + 1)
		case "left", "h", "shift+tab":
			m.selectUser(m.selected - 1)
		case "p", "P":
			m.togglePolicy()
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) selectUser(i int) {
	n := len(m.users)
	if n == 0 {
		return
	}
	m.selected = ((i % n) + n) % n
}

func (m *Model) togglePolicy() {
	if m.policy.Name() == heatmap.PolicyPercentile {
		m.policy = heatmap.FixedThreshold
		return
	}
	m.policy = heatmap.Percentile
}

// Selected returns the user whose heatmap is shown.
func (m *Model) Selected() (stats.User, bool) {
	if len(m.users) == 0 {
		return stats.User{}, false
	}
	return m.users[m.selected], true
}

func (m *Model) View() string {
	m.viewBuf.Reset()
	b := &m.viewBuf

	b.WriteString(styleTitle.Render("LeetCode Progress Dashboard"))
	b.WriteString("\n\n")

	u, ok := m.Selected()
	if !ok {
		b.WriteString(styleDim.Render("no user statistics available (q quit)"))
		b.WriteByte('\n')
		return b.String()
	}

	if len(m.users) > 1 {
		b.WriteString(RenderComparison(m.users, m.winners))
		b.WriteString("\n\n")
		b.WriteString(RenderLeaderboard(m.standings))
		b.WriteString("\n\n")
		b.WriteString(renderTabs(m.users, m.selected))
		b.WriteString("\n\n")
	}

	name := u.Username
	if u.Profile.Name != "" {
		name += " (" + u.Profile.Name + ")"
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		styleValue.Render(name),
		styleLabel.Render("  streak "),
		styleOk.Render(printer.Sprintf("%d", u.Activity.Streak)),
		styleLabel.Render("  ranking "),
		styleValue.Render(formatRanking(u.Profile.Ranking)),
	))
	b.WriteString("\n\n")

	grid := heatmap.BuildGrid(u.Activity.Submissions, m.today, heatmap.WithPolicy(m.policy))
	b.WriteString(RenderHeatmap(grid, m.w))
	b.WriteString("\n\n")
	b.WriteString(RenderProgress(dashboard.Progress(u)))
	b.WriteString("\n\n")

	help := "p policy  q quit"
	if len(m.users) > 1 {
		help = "←/→ user  " + help
	}
	b.WriteString(styleDim.Render(help))
	b.WriteByte('\n')
	return b.String()
}
