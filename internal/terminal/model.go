package terminal

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wolfman30/mozbe-site/internal/chatdemo"
	"github.com/wolfman30/mozbe-site/internal/countup"
	"github.com/wolfman30/mozbe-site/internal/site"
)

// OpMsg carries one surface op into the program.
type OpMsg chatdemo.Op

// CounterMsg updates the displayed value of header metric Index.
type CounterMsg struct {
	Index int
	Value string
}

// StatusMsg replaces the status line.
type StatusMsg string

// ErrMsg surfaces a driver failure.
type ErrMsg struct{ Err error }

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	metricValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	metricLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	assistantStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	userStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1)
	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	typingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

const headerLines = 4

// Model renders the demo board in a scrolling viewport.
type Model struct {
	ctx    context.Context
	driver Driver
	board  *chatdemo.Board

	viewport viewport.Model
	spinner  spinner.Model
	width    int

	labels []string
	values []string
	status string
	err    error
}

// NewModel creates the terminal model. Metrics with invalid targets show
// their raw text and never animate.
func NewModel(ctx context.Context, driver Driver, metrics []site.Metric) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = typingStyle

	m := Model{
		ctx:      ctx,
		driver:   driver,
		board:    chatdemo.NewBoard(),
		viewport: viewport.New(80, 20),
		spinner:  sp,
		width:    80,
		status:   "starting…",
	}
	for _, metric := range metrics {
		m.labels = append(m.labels, metric.Label)
		if metric.Valid {
			m.values = append(m.values, "0")
		} else {
			m.values = append(m.values, metric.Raw)
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			m.status = "replaying"
			return m, m.replayCmd()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerLines - 2
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}
		m.refresh(false)
		return m, nil

	case OpMsg:
		op := chatdemo.Op(msg)
		m.board.Apply(op)
		if op.Kind == chatdemo.OpClear {
			m.status = "playing"
		}
		m.refresh(op.Kind == chatdemo.OpScroll)
		return m, nil

	case CounterMsg:
		if msg.Index >= 0 && msg.Index < len(m.values) {
			m.values[msg.Index] = msg.Value
		}
		return m, nil

	case StatusMsg:
		m.status = string(msg)
		return m, nil

	case ErrMsg:
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.board.Snapshot().Typing {
			m.refresh(false)
		}
		return m, cmd
	}
	return m, nil
}

// refresh re-renders the board into the viewport; follow pins it to the
// bottom like the browser's scrollTop = scrollHeight.
func (m *Model) refresh(follow bool) {
	m.viewport.SetContent(RenderBoard(m.board.Snapshot(), m.width, m.spinner.View()))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m Model) View() string {
	var metrics []string
	for i, label := range m.labels {
		metrics = append(metrics, metricValueStyle.Render(m.values[i])+" "+metricLabelStyle.Render(label))
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Mozbe · AI receptionist demo"),
		strings.Join(metrics, "   "),
		"",
	)
	footer := helpStyle.Render("r replay · q quit · " + m.status)
	if m.err != nil {
		footer = errorStyle.Render("error: "+m.err.Error()) + "\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.driver.Start(m.ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return nil
	}
}

func (m Model) replayCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.driver.Replay(m.ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return nil
	}
}

// RenderBoard lays bubbles out like the page: assistant left, user right,
// confirmations as a standalone line.
func RenderBoard(snap chatdemo.BoardSnapshot, width int, spin string) string {
	if width <= 0 {
		width = 80
	}
	maxBubble := width * 3 / 4
	if maxBubble < 10 {
		maxBubble = width
	}

	var lines []string
	for _, b := range snap.Bubbles {
		switch b.Role {
		case chatdemo.RoleAssistant:
			lines = append(lines, renderBubble(assistantStyle, b.Text, maxBubble))
		case chatdemo.RoleUser:
			lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, renderBubble(userStyle, b.Text, maxBubble)))
		default:
			lines = append(lines, confirmStyle.Render("✓ "+b.Text))
		}
	}
	if snap.Typing {
		lines = append(lines, spin+typingStyle.Render(" typing…"))
	}
	return strings.Join(lines, "\n")
}

// renderBubble wraps text that would overflow maxWidth including the border
// and padding.
func renderBubble(style lipgloss.Style, text string, maxWidth int) string {
	inner := maxWidth - style.GetHorizontalFrameSize()
	if inner > 0 && lipgloss.Width(text) > inner {
		text = lipgloss.NewStyle().Width(inner).Render(text)
	}
	return style.Render(text)
}

// StartCounters animates every valid metric through countup.Run, one
// goroutine per metric, delivering frames through send.
func StartCounters(ctx context.Context, metrics []site.Metric, clock countup.Sleeper, send func(tea.Msg)) {
	for i, metric := range metrics {
		if !metric.Valid {
			continue
		}
		go func(index int, target float64) {
			_ = countup.Run(ctx, clock, target, countup.FrameInterval, func(v string) {
				send(CounterMsg{Index: index, Value: v})
			})
		}(i, metric.Target)
	}
}
