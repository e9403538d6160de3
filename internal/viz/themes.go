package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used by tables, plots and the explorer.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Accent lipgloss.Color
	Border lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	High   lipgloss.Color
	Mid    lipgloss.Color
	Low    lipgloss.Color
}

var (
	ThemeLab = Theme{
		Name:   "lab",
		Title:  lipgloss.Color("#00ffff"),
		Accent: lipgloss.Color("#ff00ff"),
		Border: lipgloss.Color("#444466"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
		High:   lipgloss.Color("#00ff88"),
		Mid:    lipgloss.Color("#ffcc00"),
		Low:    lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Title:  lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#0088ff"),
		Border: lipgloss.Color("#888888"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		High:   lipgloss.Color("#ffffff"),
		Mid:    lipgloss.Color("#cccccc"),
		Low:    lipgloss.Color("#888888"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Title:  lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Border: lipgloss.Color("#4488aa"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		High:   lipgloss.Color("#00ff88"),
		Mid:    lipgloss.Color("#00a8cc"),
		Low:    lipgloss.Color("#0077be"),
	}

	CurrentTheme = ThemeLab

	Themes = []Theme{ThemeLab, ThemeMinimal, ThemeOcean}
)

// GetTheme returns a theme by name, falling back to the lab theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLab
}

// SetTheme changes the current theme.
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one and returns it.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return CurrentTheme
		}
	}
	CurrentTheme = ThemeLab
	return CurrentTheme
}

// ThemeNames returns the available theme names.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
