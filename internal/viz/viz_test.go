package viz

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/analysis"
	"github.com/san-kum/dunbrack/internal/sample"
	"github.com/san-kum/dunbrack/internal/testlib"
)

func TestRenderRotamers(t *testing.T) {
	lib := testlib.Library()
	set := lib.Rotamers(dunbrack.Leu, -65, -40)

	out := RenderRotamers(dunbrack.Leu, -65, -40, set.Slice(), 0)
	if !strings.Contains(out, "LEU") {
		t.Error("expected residue tag in header")
	}
	if !strings.Contains(out, "χ2") {
		t.Error("expected a column per chi angle")
	}
	if !strings.Contains(out, "9 of 9 rotamers") {
		t.Errorf("expected all rotamers in summary:\n%s", out)
	}

	out = RenderRotamers(dunbrack.Leu, -65, -40, set.Slice(), 3)
	if !strings.Contains(out, "3 of 9 rotamers") {
		t.Errorf("expected top 3 in summary:\n%s", out)
	}
	best, _ := set.Best()
	if !strings.Contains(out, binString(best)) {
		t.Error("expected the most probable rotamer in the top rows")
	}
}

func TestRenderRotamersOrder(t *testing.T) {
	lib := testlib.Library()
	set := lib.Rotamers(dunbrack.Leu, 60, 60)
	out := RenderRotamers(dunbrack.Leu, 60, 60, set.Slice(), 0)

	best, _ := set.Best()
	worst := set.At(0)
	for _, r := range set.All() {
		if r.Prob < worst.Prob {
			worst = r
		}
	}
	if best.Prob == worst.Prob {
		t.Skip("flat distribution")
	}
	bi := strings.Index(out, fmt.Sprintf("%.4f", best.Prob))
	wi := strings.Index(out, fmt.Sprintf("%.4f", worst.Prob))
	if bi < 0 || wi < 0 || bi > wi {
		t.Errorf("expected most probable row before least probable:\n%s", out)
	}
}

func TestProbBar(t *testing.T) {
	tests := []struct {
		p      float64
		filled int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.5, 10},
		{-1, 0},
	}
	for _, tt := range tests {
		bar := ProbBar(tt.p, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("ProbBar(%v): %d filled, want %d", tt.p, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("ProbBar(%v): width %d, want 10", tt.p, got)
		}
	}
	if ProbBar(0.5, 0) != "" {
		t.Error("expected empty bar for zero width")
	}
}

func TestSparkline(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	s := Sparkline(values, 8)
	if !strings.Contains(s, "▁") || !strings.Contains(s, "█") {
		t.Errorf("expected lowest and highest blocks in %q", s)
	}

	long := make([]float64, 100)
	s = Sparkline(long, 20)
	if got := strings.Count(s, "▁"); got != 20 {
		t.Errorf("expected 20 columns, got %d", got)
	}

	if got := strings.Count(Sparkline(nil, 5), "─"); got != 5 {
		t.Errorf("expected flat line for no values, got %d", got)
	}
}

func TestSeparatorWidth(t *testing.T) {
	for _, w := range []int{4, 8, 9, 40} {
		s := Separator(w)
		n := strings.Count(s, "─") + strings.Count(s, "◆") + strings.Count(s, " ")
		if n != w {
			t.Errorf("Separator(%d) has width %d", w, n)
		}
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme("lab")

	SetTheme("ocean")
	if CurrentTheme.Name != "ocean" {
		t.Errorf("expected ocean, got %s", CurrentTheme.Name)
	}
	SetTheme("nope")
	if CurrentTheme.Name != "lab" {
		t.Errorf("expected fallback to lab, got %s", CurrentTheme.Name)
	}

	seen := map[string]bool{}
	for range Themes {
		seen[NextTheme().Name] = true
	}
	if len(seen) != len(ThemeNames()) {
		t.Errorf("NextTheme visited %d of %d themes", len(seen), len(ThemeNames()))
	}
}

func TestPlotProfiles(t *testing.T) {
	lib := testlib.Library()
	points := analysis.Sweep(lib, dunbrack.Leu, -40, -180, 180, 10)

	out := PlotProfiles(dunbrack.Leu, points, []int{0, 1, 99}, PlotOptions{Width: 40, Height: 6})
	if out == "" {
		t.Fatal("expected a plot")
	}
	if !strings.Contains(out, "LEU") {
		t.Error("expected residue tag in caption")
	}
	r0 := points[0].Rotamers.At(0)
	if !strings.Contains(out, "r="+binString(r0)) {
		t.Error("expected a legend entry per rotamer")
	}

	if PlotProfiles(dunbrack.Leu, points, []int{-1, 99}, PlotOptions{}) != "" {
		t.Error("expected no plot when every index is out of range")
	}
	if PlotProfiles(dunbrack.Leu, nil, []int{0}, PlotOptions{}) != "" {
		t.Error("expected no plot for an empty sweep")
	}
}

func TestPlotSeries(t *testing.T) {
	out := PlotSeries([]float64{1, 2, 3, 2, 1}, "entropy", PlotOptions{Height: 4})
	if !strings.Contains(out, "entropy") {
		t.Error("expected caption")
	}
	if PlotSeries(nil, "x", PlotOptions{}) != "" {
		t.Error("expected no plot for no values")
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(-1, 3)
	c.Set(8, 0)

	if !c.IsSet(0, 0) || !c.IsSet(7, 7) {
		t.Error("expected corner dots set")
	}
	if c.IsSet(1, 0) || c.IsSet(8, 0) {
		t.Error("unexpected dot set")
	}
	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if []rune(lines[0])[0] != 0x2801 {
		t.Errorf("expected dot 1 in first cell, got %U", []rune(lines[0])[0])
	}
	if []rune(lines[1])[3] != 0x2880 {
		t.Errorf("expected dot 8 in last cell, got %U", []rune(lines[1])[3])
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("expected clear canvas")
	}
}

func TestPlotAngle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.PlotAngle(-180, 180)
	c.PlotAngle(180, -180)
	if !c.IsSet(0, 0) {
		t.Error("expected (-180, 180) at top left")
	}
	if !c.IsSet(19, 19) {
		t.Error("expected (180, -180) at bottom right")
	}
}

func TestChiScatter(t *testing.T) {
	confs := []sample.Conformation{
		{NChi: 2, Chi: [4]float64{-60, 180}},
		{NChi: 2, Chi: [4]float64{60, -60}},
		{NChi: 1, Chi: [4]float64{60}},
	}
	out := ChiScatter(confs, 0, 1, 20, 5)
	if !strings.Contains(out, "2 points") {
		t.Errorf("expected conformations without χ2 skipped:\n%s", out)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Explorer, keys ...string) Explorer {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Explorer)
	}
	return m
}

func TestExplorerMenu(t *testing.T) {
	m := NewExplorer(testlib.Library())
	if !strings.Contains(m.View(), "GLN") {
		t.Error("expected residue list in menu")
	}

	m = press(m, "j", "j", "enter")
	if m.Kind() != dunbrack.Kinds()[2] {
		t.Errorf("expected %s, got %s", dunbrack.Kinds()[2], m.Kind())
	}
	if m.state != stateExplore {
		t.Fatal("expected explore state after enter")
	}
	if !strings.Contains(m.View(), m.Kind().String()) {
		t.Error("expected selected residue in view")
	}

	m = press(m, "esc")
	if m.state != stateMenu {
		t.Error("expected esc to return to menu")
	}
}

func TestExplorerMoves(t *testing.T) {
	m := press(NewExplorer(testlib.Library()), "enter")

	m = press(m, "right", "l")
	if phi, _ := m.Backbone(); phi != -37 {
		t.Errorf("expected φ=-37, got %v", phi)
	}
	m = press(m, "up", "j", "j")
	if _, psi := m.Backbone(); psi != -57 {
		t.Errorf("expected ψ=-57, got %v", psi)
	}

	m = press(m, "+")
	if m.step != 20 {
		t.Errorf("expected step 20, got %v", m.step)
	}
	m = press(m, "-", "-", "-", "-", "-", "-")
	if m.step != minStep {
		t.Errorf("expected step clamped to %v, got %v", minStep, m.step)
	}

	m = press(m, "tab")
	if m.Kind() != dunbrack.Kinds()[1] {
		t.Errorf("expected tab to select the next residue, got %s", m.Kind())
	}

	lib := testlib.Library()
	phi, psi := m.Backbone()
	want := lib.Rotamers(m.Kind(), phi, psi)
	if m.set.Len() != want.Len() || m.set.At(0) != want.At(0) {
		t.Error("expected the view to hold the current query")
	}
	if len(m.profile) != 37 {
		t.Errorf("expected 37 profile points, got %d", len(m.profile))
	}
}

func TestExplorerWrap(t *testing.T) {
	m := press(NewExplorer(testlib.Library()), "enter", "e")
	for _, r := range "175 -170" {
		if r == ' ' {
			m = press(m, " ")
			continue
		}
		m = press(m, string(r))
	}
	m = press(m, "enter")
	if phi, psi := m.Backbone(); phi != 175 || psi != -170 {
		t.Fatalf("expected (175, -170), got (%v, %v)", phi, psi)
	}

	m = press(m, "l")
	if phi, _ := m.Backbone(); phi != -175 {
		t.Errorf("expected φ to wrap to -175, got %v", phi)
	}
}

func TestExplorerEditError(t *testing.T) {
	m := press(NewExplorer(testlib.Library()), "enter", "e", "x", "enter")
	if m.state != stateEdit {
		t.Fatal("expected to stay in edit state on bad input")
	}
	if m.err == "" {
		t.Error("expected an error message")
	}
	m = press(m, "esc")
	if m.state != stateExplore {
		t.Error("expected esc to cancel edit")
	}
}

func TestExplorerPresets(t *testing.T) {
	m := press(NewExplorer(testlib.Library()), "enter", "p")
	if m.preset != 0 {
		t.Fatalf("expected first preset, got %d", m.preset)
	}
	if !strings.Contains(m.View(), m.presets[0]) {
		t.Error("expected preset name in status")
	}
}

func TestParseBackbone(t *testing.T) {
	tests := []struct {
		in       string
		phi, psi float64
		ok       bool
	}{
		{"-60 -40", -60, -40, true},
		{"-60,-40", -60, -40, true},
		{"180, 190", -180, -170, true},
		{"-60", 0, 0, false},
		{"a b", 0, 0, false},
	}
	for _, tt := range tests {
		phi, psi, err := parseBackbone(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseBackbone(%q): err=%v", tt.in, err)
			continue
		}
		if tt.ok && (phi != tt.phi || psi != tt.psi) {
			t.Errorf("parseBackbone(%q) = (%v, %v), want (%v, %v)", tt.in, phi, psi, tt.phi, tt.psi)
		}
	}
}
