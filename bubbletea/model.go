package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"github.com/samarthsinh2660/fluentify"
	"github.com/samarthsinh2660/fluentify/goldmark"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the generation TUI.
type Model struct {
	// Viewport is the scrollable unit list. Exported for test access.
	Viewport viewport.Model
	// Spinner animates the unit being generated.
	Spinner spinner.Model

	gen    Generator
	params fluentify.Params
	theme  fluentify.Theme
	styles Styles

	updates     <-chan fluentify.State
	unsubscribe func()
	autoStart   bool
	courses     fluentify.CourseLister

	// course is the finished course as the server lists it, once fetched.
	course *fluentify.CourseSummary

	state fluentify.State
	focus int // 0-based index of the focused generated unit, -1 = none
	ready bool
	quit  bool
}

// Option configures a [Model].
type Option func(*Model)

// WithAutoStart starts a session as soon as the program runs.
func WithAutoStart() Option {
	return func(m *Model) { m.autoStart = true }
}

// WithCourseLister looks up each completed course through l so the
// completion banner can show its title.
func WithCourseLister(l fluentify.CourseLister) Option {
	return func(m *Model) { m.courses = l }
}

// New creates a Model that drives gen with params. It subscribes to gen
// immediately so no snapshot published after New is missed.
func New(gen Generator, params fluentify.Params, theme fluentify.Theme, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	updates, unsubscribe := gen.Subscribe()
	m := Model{
		Spinner:     sp,
		gen:         gen,
		params:      params,
		theme:       theme,
		styles:      NewStyles(theme),
		updates:     updates,
		unsubscribe: unsubscribe,
		state:       gen.State(),
		focus:       -1,
	}
	m.Spinner.Style = m.styles.Generating
	for _, o := range opts {
		o(&m)
	}
	return m
}

// State returns the last snapshot the model rendered.
func (m Model) State() fluentify.State { return m.state }

// Focus returns the 1-based number of the focused unit, or 0.
func (m Model) Focus() int { return m.focus + 1 }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Spinner.Tick, waitForState(m.updates)}
	if m.autoStart {
		gen, params := m.gen, m.params
		cmds = append(cmds, func() tea.Msg {
			gen.Start(params)
			return nil
		})
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		completed := msg.State.IsComplete && !m.state.IsComplete
		m.state = msg.State
		if !m.state.IsComplete {
			m.course = nil
		}
		m = m.clampFocus()
		m.Viewport.SetContent(m.renderContent())
		if completed && m.courses != nil && m.state.CourseID != nil {
			return m, tea.Batch(waitForState(m.updates), fetchCourse(m.courses, *m.state.CourseID))
		}
		return m, waitForState(m.updates)

	case CourseMsg:
		if m.state.IsComplete && m.state.CourseID != nil && *m.state.CourseID == msg.Course.ID {
			c := msg.Course
			m.course = &c
		}
		return m, nil

	case closedMsg:
		if m.quit {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		if m.state.CurrentGenerating != nil {
			m.Viewport.SetContent(m.renderContent())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

const chromeHeight = 3 // header, status and help lines

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	h := max(msg.Height-chromeHeight, 1)
	if !m.ready {
		m.Viewport = viewport.New(msg.Width, h)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = h
	}
	m.Viewport.SetContent(m.renderContent())
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quit = true
		m.unsubscribe()
		_ = m.gen.Close()
		return m, tea.Quit
	case "r":
		m.focus = -1
		m.gen.Start(m.params)
		return m, nil
	case "x":
		m.focus = -1
		m.gen.Reset()
		return m, nil
	case "tab":
		m = m.cycleFocus(1)
		m.Viewport.SetContent(m.renderContent())
		return m, nil
	case "shift+tab":
		m = m.cycleFocus(-1)
		m.Viewport.SetContent(m.renderContent())
		return m, nil
	}
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// cycleFocus moves focus to the next generated unit in direction dir,
// wrapping around. Empty slots are skipped.
func (m Model) cycleFocus(dir int) Model {
	n := len(m.state.Units)
	if n == 0 {
		m.focus = -1
		return m
	}
	start := m.focus
	if start < 0 && dir < 0 {
		start = 0
	}
	for i := 1; i <= n; i++ {
		idx := ((start+dir*i)%n + n) % n
		if m.state.Units[idx] != nil {
			m.focus = idx
			return m
		}
	}
	m.focus = -1
	return m
}

// clampFocus drops focus from a slot that no longer holds a unit, as
// after a resize or reset.
func (m Model) clampFocus() Model {
	if m.focus >= len(m.state.Units) || (m.focus >= 0 && m.state.Units[m.focus] == nil) {
		m.focus = -1
	}
	return m
}

func (m Model) header() string {
	title := "Fluentify"
	lang := m.params.Language
	if m.state.Language != "" {
		lang = m.state.Language
	}
	lang = SanitizeLine(lang)
	parts := []string{m.styles.Title.Render(title), lang, m.params.ExpectedDuration, m.params.Expertise}
	if m.state.CourseID != nil {
		parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("course #%d", *m.state.CourseID)))
	}
	return strings.Join(nonEmpty(parts), m.styles.Muted.Render(" · "))
}

func (m Model) renderContent() string {
	st := m.state
	if len(st.Units) == 0 {
		if st.Error != nil {
			return ""
		}
		return m.styles.Muted.Render("Press r to generate a course.")
	}

	var b strings.Builder
	numWidth := len(fmt.Sprint(len(st.Units)))
	titleWidth := max(m.Viewport.Width-numWidth-16, 10)
	for i, u := range st.Units {
		num := i + 1
		var marker, title, label string
		switch {
		case u != nil:
			marker = m.styles.Done.Render("✓")
			title = SanitizeLine(u.Title)
			if title == "" {
				title = "Untitled unit"
			}
			label = m.styles.Done.Render("ready")
		case st.CurrentGenerating != nil && *st.CurrentGenerating == num:
			marker = m.Spinner.View()
			title = "Generating…"
			label = m.styles.Generating.Render("writing")
		default:
			marker = m.styles.Pending.Render("·")
			title = "Waiting"
			label = m.styles.Pending.Render("pending")
		}
		title = padRight(runewidth.Truncate(title, titleWidth, "…"), titleWidth)
		if i == m.focus {
			title = m.styles.Focused.Render(title)
		} else if u == nil {
			title = m.styles.Pending.Render(title)
		}
		fmt.Fprintf(&b, " %s %*d  %s  %s\n", marker, numWidth, num, title, label)
	}

	if m.focus >= 0 && m.focus < len(st.Units) && st.Units[m.focus] != nil {
		b.WriteString("\n")
		b.WriteString(goldmark.RenderUnit(m.focus+1, *st.Units[m.focus], m.Viewport.Width-2, m.theme))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) statusLine() string {
	st := m.state
	switch {
	case st.Error != nil:
		return m.styles.Error.Render("Error: " + SanitizeLine(*st.Error))
	case st.IsComplete:
		banner := m.styles.Done.Render("Course ready! ")
		if m.course != nil && m.course.Title != "" {
			banner += m.styles.Accent.Render(SanitizeLine(m.course.Title)) + " "
		}
		return banner + m.styles.Muted.Render(st.Progress+" units")
	case st.IsGenerating:
		if st.CurrentGenerating != nil {
			return fmt.Sprintf("%s Generating unit %d of %d %s", m.Spinner.View(), *st.CurrentGenerating,
				st.TotalUnits, m.styles.Muted.Render(st.Progress))
		}
		if st.CourseID == nil {
			return m.Spinner.View() + " Creating your course..."
		}
		return fmt.Sprintf("%s Preparing units %s", m.Spinner.View(), m.styles.Muted.Render(st.Progress))
	default:
		return m.styles.Muted.Render("Idle")
	}
}

func (m Model) helpLine() string {
	keys := "r retry · x reset · tab units · q quit"
	if !m.state.IsGenerating && m.state.Error == nil && !m.state.IsComplete {
		keys = "r generate · q quit"
	}
	return m.styles.Muted.Render(keys)
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	if w := uniseg.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func nonEmpty(parts []string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
