// Package tui is a small live surface over one engine instance: start and
// stop a performance and nudge its parameters from the keyboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"murmur/internal/engine"
)

var (
	deepTeal  = lipgloss.Color("#19CDB7")
	paleAmber = lipgloss.Color("#FFD27F")
	dimGray   = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(deepTeal).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(paleAmber)

	playingStyle = lipgloss.NewStyle().
			Foreground(deepTeal).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(deepTeal).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			MarginTop(1)
)

var scales = []engine.Scale{
	engine.ScalePentatonic,
	engine.ScaleMinor,
	engine.ScaleMajor,
	engine.ScaleChromatic,
	engine.ScaleWholeTone,
}

var moods = []engine.Mood{
	engine.MoodMelancholic,
	engine.MoodUplifting,
	engine.MoodEthereal,
	engine.MoodMysterious,
}

// Model drives the jam session.
type Model struct {
	eng        *engine.Engine
	spinner    spinner.Model
	params     engine.Params
	identifier string
	playing    bool
	scaleIdx   int
	moodIdx    int
}

func New(eng *engine.Engine) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = playingStyle
	return Model{
		eng:     eng,
		spinner: sp,
		params: engine.Params{
			Scale:         engine.ScalePentatonic,
			BaseFrequency: 220,
			Tempo:         80,
			Complexity:    0.5,
			Mood:          engine.MoodEthereal,
		},
		identifier: uuid.NewString(),
		moodIdx:    2,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.eng.Stop()
		return m, tea.Quit
	case " ":
		if m.playing {
			m.eng.Stop()
			m.playing = false
		} else {
			m.restart()
		}
	case "n":
		// New identifier: a different performance from the same parameters.
		m.identifier = uuid.NewString()
		if m.playing {
			m.restart()
		}
	case "up":
		m.params.Tempo += 5
		m.replay()
	case "down":
		if m.params.Tempo > 5 {
			m.params.Tempo -= 5
		}
		m.replay()
	case "right":
		m.params.Complexity = clamp01(m.params.Complexity + 0.1)
		m.replay()
	case "left":
		m.params.Complexity = clamp01(m.params.Complexity - 0.1)
		m.replay()
	case "s":
		m.scaleIdx = (m.scaleIdx + 1) % len(scales)
		m.params.Scale = scales[m.scaleIdx]
		m.replay()
	case "m":
		m.moodIdx = (m.moodIdx + 1) % len(moods)
		m.params.Mood = moods[m.moodIdx]
		m.replay()
	case "+":
		m.params.BaseFrequency *= 2
		m.replay()
	case "-":
		if m.params.BaseFrequency > 55 {
			m.params.BaseFrequency /= 2
		}
		m.replay()
	}
	return m, nil
}

// restart plays from the top with the current identifier and parameters.
func (m *Model) restart() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.eng.Play(ctx, m.params, m.identifier)
	m.playing = m.eng.Playing()
}

// replay re-seeds the running performance after a parameter change; the
// identifier stays, so the draw choices replay under the new parameters.
func (m *Model) replay() {
	if m.playing {
		m.restart()
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("murmur — generative audio engine"))
	b.WriteString("\n")

	state := lipgloss.NewStyle().Foreground(dimGray).Render("stopped")
	if m.playing {
		state = playingStyle.Render("playing " + m.spinner.View())
	}

	rows := []struct{ label, value string }{
		{"state", state},
		{"identifier", valueStyle.Render(shorten(m.identifier))},
		{"scale", valueStyle.Render(string(m.params.Scale))},
		{"base freq", valueStyle.Render(fmt.Sprintf("%.1f Hz", m.params.BaseFrequency))},
		{"tempo", valueStyle.Render(fmt.Sprintf("%d BPM", m.params.Tempo))},
		{"complexity", valueStyle.Render(fmt.Sprintf("%.1f", m.params.Complexity))},
		{"mood", valueStyle.Render(string(m.params.Mood))},
	}
	var body strings.Builder
	for _, r := range rows {
		body.WriteString(labelStyle.Render(r.label))
		body.WriteString(r.value)
		body.WriteString("\n")
	}
	b.WriteString(boxStyle.Render(strings.TrimRight(body.String(), "\n")))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		"space play/stop · n new seed · ↑/↓ tempo · ←/→ complexity · s scale · m mood · +/- octave · q quit"))
	b.WriteString("\n")
	return b.String()
}

func shorten(id string) string {
	if len(id) > 13 {
		return id[:13] + "…"
	}
	return id
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
