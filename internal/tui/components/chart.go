package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hoafund/internal/tui/theme"
)

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values scaled between their minimum and maximum.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := len(blocks) - 1
		if span > 0 {
			idx = 1 + int((v-lo)/span*float64(len(blocks)-2))
		}
		buf.WriteRune(blocks[max(1, min(idx, len(blocks)-1))])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// StatusStrip renders one colored cell per year.
func StatusStrip(colors []lipgloss.Color, cellWidth int) string {
	t := theme.Active
	cellWidth = max(cellWidth, 1)

	var b strings.Builder
	for _, c := range colors {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Background(t.Surface).
			Render(strings.Repeat("■", cellWidth)))
	}
	return b.String()
}

// BalanceChart renders a vertical bar chart that may cross zero. Bars above
// zero grow up from the zero line, bars below it hang down. colors, when
// the same length as values, colors each bar.
func BalanceChart(values []float64, colors []lipgloss.Color, labels []string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		return Sparkline(values, t.Accent)
	}

	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = 1
	}

	// Y-axis: tick step, then grow it until the intervals fit.
	tickStep := chartTickStep(hi - lo)
	maxIntervals := max(height/2, 2)
	for {
		top := math.Ceil(hi / tickStep)
		bottom := math.Floor(lo / tickStep)
		if int(top-bottom) <= maxIntervals {
			break
		}
		tickStep *= 2
	}
	ceiling := math.Ceil(hi/tickStep) * tickStep
	floor := math.Floor(lo/tickStep) * tickStep
	numIntervals := max(int(math.Round((ceiling-floor)/tickStep)), 1)

	rowsPerTick := max(height/numIntervals, 2)
	chartH := rowsPerTick * numIntervals
	unit := (ceiling - floor) / float64(chartH)

	yLabelW := max(len(formatChartLabel(ceiling)), len(formatChartLabel(floor))) + 1
	yLabelW = max(yLabelW, 4)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(floor + tickStep*float64(i))
	}

	chartW := max(width-yLabelW-1, 5)
	n := len(values)
	if len(colors) != n {
		colors = nil
	}

	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 2 && n > 1 {
		maxN := max((chartW+1)/3, 2)
		values, colors, labels = sampleSeries(values, colors, labels, maxN)
		n = maxN
		barW = 2
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)
	zeroRow := int(math.Round(-floor / unit)) // rows at or below this index sit under zero

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := floor + unit*float64(row)
		rowBottom := floor + unit*float64(row-1)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blankStyle.Render(strings.Repeat(" ", gap)))
			}
			barColor := t.Accent
			if colors != nil {
				barColor = colors[i]
			}
			cell := barCell(v, rowTop, rowBottom, row == zeroRow)
			b.WriteString(lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).
				Render(strings.Repeat(string(cell), barW)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, formatChartLabel(floor))))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blankStyle.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(strings.TrimRight(axisLabels(labels, barW, gap, axisLen), " ")))
	}

	return b.String()
}

// barCell picks the glyph for one bar in one row spanning [rowBottom, rowTop].
func barCell(v, rowTop, rowBottom float64, belowZeroLine bool) rune {
	switch {
	case v >= 0:
		if rowBottom < 0 {
			return ' '
		}
		if v >= rowTop {
			return '█'
		}
		if v > rowBottom {
			frac := (v - rowBottom) / (rowTop - rowBottom)
			return blocks[max(1, min(int(frac*8), 8))]
		}
		return ' '
	default:
		if rowTop > 0 {
			return ' '
		}
		if v <= rowBottom {
			return '█'
		}
		// Partial cell under zero; the first one is always drawn so
		// small deficits stay visible.
		if v < rowTop && (belowZeroLine || (rowTop-v)/(rowTop-rowBottom) >= 0.5) {
			return '█'
		}
		return ' '
	}
}

func sampleSeries(values []float64, colors []lipgloss.Color, labels []string, n int) ([]float64, []lipgloss.Color, []string) {
	src := len(values)
	sv := make([]float64, n)
	var sc []lipgloss.Color
	if colors != nil {
		sc = make([]lipgloss.Color, n)
	}
	var sl []string
	if len(labels) == src {
		sl = make([]string, n)
	}
	for i := range sv {
		j := i * (src - 1) / (n - 1)
		sv[i] = values[j]
		if sc != nil {
			sc[i] = colors[j]
		}
		if sl != nil {
			sl[i] = labels[j]
		}
	}
	return sv, sc, sl
}

func axisLabels(labels []string, barW, gap, axisLen int) string {
	n := len(labels)
	buf := []byte(strings.Repeat(" ", axisLen))

	labelStep := max(1, (n*6)/(axisLen+1))
	lastEnd := -1
	for i := 0; i < n; i += labelStep {
		pos := i * (barW + gap)
		lbl := labels[i]
		end := pos + len(lbl)
		if pos <= lastEnd || end > axisLen {
			continue
		}
		copy(buf[pos:end], lbl)
		lastEnd = end
	}
	return string(buf)
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(span float64) float64 {
	if span <= 0 {
		return 1
	}
	rough := span / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	switch {
	case v >= 1e9:
		return trimUnit(v/1e9, "B")
	case v >= 1e6:
		return trimUnit(v/1e6, "M")
	case v >= 1e3:
		return trimUnit(v/1e3, "k")
	case v >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimUnit(v float64, unit string) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f%s", v, unit)
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}
