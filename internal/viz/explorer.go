package viz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/analysis"
	"github.com/san-kum/dunbrack/internal/config"
)

// Source answers rotamer queries.
type Source interface {
	Rotamers(k dunbrack.Kind, phi, psi float64) dunbrack.Rotamers
}

const (
	stateMenu = iota
	stateExplore
	stateEdit
)

const (
	minStep = 1.0
	maxStep = 90.0
)

// Explorer is a Bubble Tea model that queries a library as φ/ψ change.
type Explorer struct {
	src           Source
	state, cursor int
	kinds         []dunbrack.Kind
	kind          dunbrack.Kind
	phi, psi      float64
	step          float64
	top           int
	presets       []string
	preset        int
	input         textinput.Model
	err           string
	set           dunbrack.Rotamers
	profile       []float64
	width, height int
}

// NewExplorer starts on the residue menu at the alpha helix backbone.
func NewExplorer(src Source) Explorer {
	var presets []string
	for _, g := range config.ListGroups() {
		for _, p := range config.ListPresets(g) {
			presets = append(presets, g+"/"+p)
		}
	}
	ti := textinput.New()
	ti.Prompt = "φ ψ: "
	ti.Placeholder = "-60 140"
	ti.CharLimit = 32
	ti.Width = 24
	return Explorer{
		src:     src,
		input:   ti,
		kinds:   dunbrack.Kinds(),
		phi:     -57,
		psi:     -47,
		step:    10,
		top:     8,
		presets: presets,
		preset:  -1,
		width:   80,
		height:  24,
	}
}

// RunExplorer runs the explorer until the user quits.
func RunExplorer(src Source) error {
	_, err := tea.NewProgram(NewExplorer(src), tea.WithAltScreen()).Run()
	return err
}

// Kind returns the residue being explored.
func (m Explorer) Kind() dunbrack.Kind { return m.kind }

// Backbone returns the current φ and ψ.
func (m Explorer) Backbone() (phi, psi float64) { return m.phi, m.psi }

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Explorer) handleKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateEdit:
		return m.editKey(msg)
	}
	return m.exploreKey(msg)
}

func (m Explorer) menuKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.kinds)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.kind = m.kinds[m.cursor]
		m.state = stateExplore
		m.refresh()
	case "t":
		NextTheme()
	}
	return m, nil
}

func (m Explorer) exploreKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	moved := true
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.state = stateMenu
		return m, nil
	case "left", "h":
		m.phi = wrapAngle(m.phi - m.step)
	case "right", "l":
		m.phi = wrapAngle(m.phi + m.step)
	case "down", "j":
		m.psi = wrapAngle(m.psi - m.step)
	case "up", "k":
		m.psi = wrapAngle(m.psi + m.step)
	case "+", "=":
		m.step = min(m.step*2, maxStep)
		moved = false
	case "-", "_":
		m.step = max(m.step/2, minStep)
		moved = false
	case "tab":
		m.cursor = (m.cursor + 1) % len(m.kinds)
		m.kind = m.kinds[m.cursor]
	case "shift+tab":
		m.cursor = (m.cursor + len(m.kinds) - 1) % len(m.kinds)
		m.kind = m.kinds[m.cursor]
	case "p":
		if len(m.presets) > 0 {
			m.preset = (m.preset + 1) % len(m.presets)
			bb, _ := config.FindPreset(m.presets[m.preset])
			m.phi, m.psi = bb.Phi, bb.Psi
		}
	case "e", ":":
		m.state = stateEdit
		m.err = ""
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd
	case "t":
		NextTheme()
		moved = false
	default:
		moved = false
	}
	if moved {
		m.refresh()
	}
	return m, nil
}

func (m Explorer) editKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		m.state = stateExplore
		return m, nil
	case tea.KeyEnter:
		phi, psi, err := parseBackbone(m.input.Value())
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.input.Blur()
		m.phi, m.psi = phi, psi
		m.state = stateExplore
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh re-queries the library and the φ profile of the most probable
// rotamer at the current ψ.
func (m *Explorer) refresh() {
	m.set = m.src.Rotamers(m.kind, m.phi, m.psi)
	best := 0
	for i, r := range m.set.All() {
		if r.Prob > m.set.At(best).Prob {
			best = i
		}
	}
	points := analysis.Sweep(m.src, m.kind, m.psi, -180, 180, 10)
	m.profile = analysis.Profile(points, best)
}

func (m Explorer) View() string {
	if m.state == stateMenu {
		return m.menuView()
	}
	return m.exploreView()
}

func (m Explorer) menuView() string {
	var b strings.Builder
	b.WriteString(titleStyle().Render("ROTAMER EXPLORER") + "\n\n")
	for i, k := range m.kinds {
		line := fmt.Sprintf("%-4s %-19s %d χ  %3d rotamers", k, k.Name(), k.NChi(), k.NRotamers())
		if i == m.cursor {
			b.WriteString(accentStyle().Render("▸ "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + hintStyle().Render("j/k move · enter select · t theme · q quit"))
	return b.String()
}

func (m Explorer) exploreView() string {
	var b strings.Builder
	status := fmt.Sprintf("step %.0f°  entropy %.3f nats  perplexity %.2f",
		m.step, analysis.Entropy(m.set), analysis.Perplexity(m.set))
	if m.preset >= 0 {
		status += "  preset " + m.presets[m.preset]
	}
	b.WriteString(mutedStyle().Render(status) + "\n")
	b.WriteString(RenderRotamers(m.kind, m.phi, m.psi, m.set.Slice(), m.top) + "\n")

	if best, ok := m.set.Best(); ok {
		spark := Sparkline(m.profile, max(m.width-24, 10))
		b.WriteString(fmt.Sprintf("r=%-8s φ→ %s\n", binString(best), spark))
	}
	b.WriteString(Separator(max(m.width-4, 8)) + "\n")

	if m.state == stateEdit {
		m.input.PromptStyle = accentStyle()
		b.WriteString(m.input.View() + "\n")
		if m.err != "" {
			b.WriteString(levelStyle(0).Render(m.err) + "\n")
		}
		b.WriteString(hintStyle().Render("enter apply · esc cancel"))
		return panelStyle().Render(b.String())
	}
	b.WriteString(hintStyle().Render("h/l φ · j/k ψ · +/- step · tab residue · p preset · e edit · esc menu · q quit"))
	return panelStyle().Render(b.String())
}

// parseBackbone reads "φ ψ" or "φ,ψ" in degrees.
func parseBackbone(s string) (phi, psi float64, err error) {
	f := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("want two angles, got %q", s)
	}
	if phi, err = strconv.ParseFloat(f[0], 64); err != nil {
		return 0, 0, fmt.Errorf("phi: %w", err)
	}
	if psi, err = strconv.ParseFloat(f[1], 64); err != nil {
		return 0, 0, fmt.Errorf("psi: %w", err)
	}
	return wrapAngle(phi), wrapAngle(psi), nil
}

// wrapAngle maps degrees into [-180, 180).
func wrapAngle(deg float64) float64 {
	deg = math.Mod(deg+180, 360)
	if deg < 0 {
		deg += 360
	}
	return deg - 180
}
