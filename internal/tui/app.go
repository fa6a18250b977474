// Package tui provides the interactive Bubble Tea what-if dashboard.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
	"github.com/theirongolddev/hoafund/internal/tui/components"
	"github.com/theirongolddev/hoafund/internal/tui/theme"
)

const (
	tabForecast = iota
	tabProjects
	tabAssumptions
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// App is the root Bubble Tea model.
type App struct {
	name string

	// The loaded scenario; r resets to it.
	base     scenario.Params
	baseOpts forecast.Options

	// Current what-if inputs and their projection.
	params      scenario.Params
	opts        forecast.Options
	results     []forecast.YearResult
	summary     forecast.Summary
	baseSummary forecast.Summary
	required    money.Amount
	requiredOK  bool
	err         error

	// UI state
	width      int
	height     int
	activeTab  int
	showHelp   bool
	message    string
	assume     assumptionsState
	projOffset int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues // shared with the form across App copies
	needSetup bool
}

// NewApp creates the dashboard for one scenario. When needSetup is set the
// first-run form is shown before the dashboard; seed fills its defaults.
func NewApp(name string, p scenario.Params, opts forecast.Options, needSetup bool, seed SetupValues) App {
	a := App{
		name:      name,
		base:      p,
		baseOpts:  opts,
		params:    p,
		opts:      opts,
		needSetup: needSetup,
		setupVals: &seed,
	}
	a.recompute()
	a.baseSummary = a.summary

	if needSetup {
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// recompute projects the current inputs. Invalid inputs keep the previous
// projection and record the error for display.
func (a *App) recompute() {
	engine, err := forecast.NewEngine(a.opts)
	if err != nil {
		a.err = err
		return
	}
	sc, err := scenario.New(a.params)
	if err != nil {
		a.err = err
		return
	}

	a.err = nil
	a.results = engine.Project(sc)
	a.summary = forecast.Summarize(a.results)
	a.required, a.requiredOK = forecast.RequiredContribution(engine, sc)
}

func (a *App) reset() {
	a.params = a.base
	a.opts = a.baseOpts
	a.recompute()
	a.message = "reset to " + a.name
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if a.assume.editing {
			return a.updateEditInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		return a.updateKey(key)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.assume.editing {
		var cmd tea.Cmd
		a.assume.input, cmd = a.assume.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "+", "=":
		if a.adjust(1) {
			a.message = fieldLabels[a.assume.cursor] + ": " + a.fieldValue(a.assume.cursor)
		}
		return a, nil
	case "-", "_":
		if a.adjust(-1) {
			a.message = fieldLabels[a.assume.cursor] + ": " + a.fieldValue(a.assume.cursor)
		}
		return a, nil
	case "r":
		a.reset()
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	switch a.activeTab {
	case tabAssumptions:
		switch key {
		case "j", "down":
			a.assume.cursor = min(a.assume.cursor+1, fieldCount-1)
			return a, nil
		case "k", "up":
			a.assume.cursor = max(a.assume.cursor-1, 0)
			return a, nil
		case " ":
			if a.assume.cursor == fieldPolicy {
				a.adjust(1)
			}
			return a, nil
		case "enter":
			return a.startEdit()
		}
	case tabProjects:
		switch key {
		case "j", "down":
			a.projOffset = min(a.projOffset+1, max(len(a.params.Projects)-1, 0))
			return a, nil
		case "k", "up":
			a.projOffset = max(a.projOffset-1, 0)
			return a, nil
		case "g":
			a.projOffset = 0
			return a, nil
		}
	}

	if len(key) == 1 {
		if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
			a.activeTab = tab
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		switch a.activeTab {
		case tabProjects:
			a.projOffset = max(a.projOffset-1, 0)
		case tabAssumptions:
			a.assume.cursor = max(a.assume.cursor-1, 0)
		}
	case tea.MouseButtonWheelDown:
		switch a.activeTab {
		case tabProjects:
			a.projOffset = min(a.projOffset+1, max(len(a.params.Projects)-1, 0))
		case tabAssumptions:
			a.assume.cursor = min(a.assume.cursor+1, fieldCount-1)
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.finishSetup()
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		a.message = "setup skipped"
		return a, nil
	}

	return a, cmd
}

// finishSetup saves the form answers and applies the display settings to
// the running dashboard. Scenario inputs already loaded are kept.
func (a *App) finishSetup() {
	a.needSetup = false
	a.setupForm = nil

	if !a.setupVals.ConfirmedSave {
		a.message = "setup not saved"
		return
	}
	cfg, err := SaveSetup(*a.setupVals)
	if err != nil {
		a.message = err.Error()
		return
	}

	theme.SetActive(cfg.Appearance.Theme)
	a.opts = cfg.ForecastOptions()
	a.baseOpts = a.opts
	a.recompute()
	a.baseSummary = a.summary
	a.message = "settings saved"
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  hoafund needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"f p a", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Select assumption / scroll projects"},
		}},
		{"What-if", []struct{ key, desc string }{
			{"+ -", "Adjust selected assumption"},
			{"space", "Toggle contribution policy"},
			{"Enter", "Type an exact value"},
			{"Esc", "Cancel editing"},
			{"r", "Reset to loaded scenario"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + scenario pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	pill := pillStyle.Render(" ") +
		accentStyle.Render(a.name) +
		pillStyle.Render(" │ ") + pillStyle.Render(fmt.Sprintf("%d years", a.params.HorizonYears)) +
		pillStyle.Render(" │ start ") + pillStyle.Render(cli.FormatMoney(a.params.StartingBalance)) +
		pillStyle.Render(" │ ") +
		lipgloss.NewStyle().Foreground(t.Funding(a.summary.FinalStatus)).Background(t.Surface).Bold(true).
			Render(a.summary.FinalStatus.Label()) +
		pillStyle.Render(" ")

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, a.name, a.message)

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Tab content
	var content string
	if a.err != nil {
		content = components.ContentCard("Scenario error", a.err.Error(), cw) + "\n"
	}
	switch a.activeTab {
	case tabForecast:
		content += a.renderForecastTab(cw, contentH)
	case tabProjects:
		content += a.renderProjectsTab(cw, contentH)
	case tabAssumptions:
		content += a.renderAssumptionsTab(cw)
	}

	// 5. Exactly contentH lines, filled with background
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderAmount renders money, red when negative.
func (a App) renderAmount(m money.Amount) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.Balance(m.IsNegative())).Background(t.Surface).Bold(true).
		Render(cli.FormatMoney(m))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
