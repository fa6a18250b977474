// Package theme defines color themes for the forecast dashboard.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hoafund/internal/forecast"
)

// Theme defines the color roles used throughout the TUI. Green, Yellow and
// Red double as the fully funded, adequate and underfunded colors; Orange
// marks assumptions changed from the loaded scenario.
type Theme struct {
	Name         string
	Background   lipgloss.Color // app background
	Surface      lipgloss.Color // cards and panels
	SurfaceHover lipgloss.Color // active tab, selected assumption
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // help overlay
	TextDim      lipgloss.Color // hints, separators
	TextMuted    lipgloss.Color // labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Green        lipgloss.Color
	Yellow       lipgloss.Color
	Orange       lipgloss.Color
	Red          lipgloss.Color
	Cyan         lipgloss.Color // key hints
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default: warm paper-ink colors on a near-black base.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   "#100F0F",
	Surface:      "#1C1B1A",
	SurfaceHover: "#282726",
	Border:       "#403E3C",
	BorderAccent: "#3AA99F",
	TextDim:      "#575653",
	TextMuted:    "#878580",
	TextPrimary:  "#FFFCF0",
	Accent:       "#3AA99F",
	AccentBright: "#5BC8BE",
	Green:        "#879A39",
	Yellow:       "#D0A215",
	Orange:       "#DA702C",
	Red:          "#D14D41",
	Cyan:         "#24837B",
}

// FlexokiLight is the same palette printed on paper, for light terminals.
var FlexokiLight = Theme{
	Name:         "flexoki-light",
	Background:   "#FFFCF0",
	Surface:      "#F2F0E5",
	SurfaceHover: "#E6E4D9",
	Border:       "#DAD8CE",
	BorderAccent: "#24837B",
	TextDim:      "#B7B5AC",
	TextMuted:    "#6F6E69",
	TextPrimary:  "#100F0F",
	Accent:       "#24837B",
	AccentBright: "#3AA99F",
	Green:        "#66800B",
	Yellow:       "#AD8301",
	Orange:       "#BC5215",
	Red:          "#AF3029",
	Cyan:         "#24837B",
}

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   "#1E1E2E",
	Surface:      "#313244",
	SurfaceHover: "#45475A",
	Border:       "#585B70",
	BorderAccent: "#89B4FA",
	TextDim:      "#6C7086",
	TextMuted:    "#A6ADC8",
	TextPrimary:  "#CDD6F4",
	Accent:       "#89B4FA",
	AccentBright: "#B4D0FB",
	Green:        "#A6E3A1",
	Yellow:       "#F9E2AF",
	Orange:       "#FAB387",
	Red:          "#F38BA8",
	Cyan:         "#94E2D5",
}

// TokyoNight is a cool blue/purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   "#1A1B26",
	Surface:      "#24283B",
	SurfaceHover: "#343A52",
	Border:       "#565F89",
	BorderAccent: "#7AA2F7",
	TextDim:      "#565F89",
	TextMuted:    "#A9B1D6",
	TextPrimary:  "#C0CAF5",
	Accent:       "#7AA2F7",
	AccentBright: "#A9C1FF",
	Green:        "#9ECE6A",
	Yellow:       "#E0AF68",
	Orange:       "#FF9E64",
	Red:          "#F7768E",
	Cyan:         "#7DCFFF",
}

// Terminal uses the 16 ANSI colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   "0",
	Surface:      "0",
	SurfaceHover: "8",
	Border:       "8",
	BorderAccent: "6",
	TextDim:      "8",
	TextMuted:    "7",
	TextPrimary:  "15",
	Accent:       "6",
	AccentBright: "14",
	Green:        "2",
	Yellow:       "3",
	Orange:       "11",
	Red:          "1",
	Cyan:         "6",
}

// All available themes, in the order the setup form offers them.
var All = []Theme{FlexokiDark, FlexokiLight, CatppuccinMocha, TokyoNight, Terminal}

// Names lists theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by name, ignoring case. Unknown names fall back to
// FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Funding maps a funding status onto the theme's palette.
func (t Theme) Funding(s forecast.Status) lipgloss.Color {
	switch s {
	case forecast.StatusFullyFunded:
		return t.Green
	case forecast.StatusAdequate:
		return t.Yellow
	default:
		return t.Red
	}
}

// Balance colors an amount: red below zero, primary text otherwise.
func (t Theme) Balance(negative bool) lipgloss.Color {
	if negative {
		return t.Red
	}
	return t.TextPrimary
}
