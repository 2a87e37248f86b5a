package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/subcast/subcast/internal/player"
	"github.com/subcast/subcast/internal/track"
)

const (
	tickInterval = 100 * time.Millisecond
	seekStep     = 5 * time.Second
	seekStepBig  = 30 * time.Second
	volumeStep   = 0.1

	// standard subtitle line length
	maxCaptionWidth = 42
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#93C5FD")).Bold(true)
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	stateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#06D6A0"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF476F"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))
)

type tickMsg time.Time

type reloadedMsg struct{}

// Model is the terminal player surface. Playback state lives in the
// Player; the model only carries what the view needs between frames.
type Model struct {
	player *player.Player
	ctx    context.Context
	source string

	width  int
	height int
	spin   spinner.Model
	bar    progress.Model
}

func NewModel(ctx context.Context, p *player.Player, source string) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)
	bar := progress.New(
		progress.WithGradient("#5A56E0", "#EE6FF8"),
		progress.WithoutPercentage(),
	)

	return Model{
		player: p,
		ctx:    ctx,
		source: source,
		width:  80,
		height: 24,
		spin:   sp,
		bar:    bar,
	}
}

// Run starts the terminal player and blocks until the user quits.
func Run(ctx context.Context, p *player.Player, source string) error {
	m := NewModel(ctx, p, source)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("failed to run terminal player: %w", err)
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case tickMsg:
		// the view pulls fresh player state on every frame; the tick
		// only forces a redraw
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case reloadedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.player.Toggle()
	case "left":
		m.player.SeekBy(-seekStep)
	case "right":
		m.player.SeekBy(seekStep)
	case "shift+left":
		m.player.SeekBy(-seekStepBig)
	case "shift+right":
		m.player.SeekBy(seekStepBig)
	case "up":
		m.player.SetVolume(m.player.Status().Volume + volumeStep)
	case "down":
		m.player.SetVolume(m.player.Status().Volume - volumeStep)
	case "m":
		m.player.ToggleMute()
	case "r":
		return m, m.reload()
	}
	return m, nil
}

// reload refetches the current source off the event loop. Load is
// supersession-safe, so a reload racing a watched-file reload is fine.
func (m Model) reload() tea.Cmd {
	p, ctx, source := m.player, m.ctx, m.source
	return func() tea.Msg {
		p.Load(ctx, source)
		return reloadedMsg{}
	}
}

func (m Model) View() string {
	st := m.player.Status()

	var b strings.Builder
	b.WriteString(" " + m.headerLine(st) + "\n")
	b.WriteString(m.captionArea() + "\n")
	b.WriteString(" " + m.transportLine(st) + "\n")
	b.WriteString(" " + m.statusLine(st) + "\n")
	b.WriteString(helpStyle.Render(" space: play/pause • ←/→: seek 5s • shift+←/→: 30s • ↑/↓: volume • m: mute • r: reload • q: quit"))
	return b.String()
}

func (m Model) headerLine(st player.Status) string {
	source := st.Source
	if source == "" {
		source = "built-in sample"
	}

	header := titleStyle.Render("subcast") + "  " +
		sourceStyle.Render(source) + "  " +
		sourceStyle.Render(fmt.Sprintf("%d cues", st.CueCount))
	if st.State == player.StateLoading {
		header += "  " + m.spin.View()
	}
	return header
}

func (m Model) captionArea() string {
	lines := WrapCaption(m.player.ActiveText(), m.captionWidth())
	caption := captionStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.captionHeight(), lipgloss.Center, lipgloss.Center, caption)
}

func (m Model) transportLine(st player.Status) string {
	percent := 0.0
	if st.Duration > 0 {
		percent = float64(st.Position) / float64(st.Duration)
		if percent > 1 {
			percent = 1
		}
	}

	return fmt.Sprintf("%s %s %s",
		track.FormatTimestamp(st.Position),
		m.bar.ViewAs(percent),
		track.FormatTimestamp(st.Duration),
	)
}

func (m Model) statusLine(st player.Status) string {
	line := stateGlyph(st.State) + " " + stateStyle.Render(st.State.String())
	line += sourceStyle.Render(fmt.Sprintf("  vol %d%%", int(st.Volume*100+0.5)))
	if st.Muted {
		line += mutedStyle.Render("  muted")
	}
	if st.Offset != 0 {
		line += sourceStyle.Render(fmt.Sprintf("  offset %v", st.Offset))
	}
	if st.LoadErr != nil {
		line += errorStyle.Render("  load failed: " + st.LoadErr.Error())
	}
	return line
}

func (m Model) captionWidth() int {
	w := m.width - 8
	if w > maxCaptionWidth {
		w = maxCaptionWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) captionHeight() int {
	h := m.height - 5
	if h < 3 {
		h = 3
	}
	return h
}

func barWidth(total int) int {
	w := total - 30
	if w < 10 {
		w = 10
	}
	return w
}

func stateGlyph(s player.State) string {
	switch s {
	case player.StatePlaying:
		return "▶"
	case player.StatePaused:
		return "⏸"
	case player.StateReady:
		return "■"
	default:
		return "·"
	}
}
