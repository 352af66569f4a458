package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/searchlab/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Solutions
// =============================================================================

// maxListedSolutions bounds the boards printed for --all.
const maxListedSolutions = 10

// printSolution prints a solve result: a headline, the path with the action
// taken at each step, and a stats line.
func printSolution(sol *pipeline.Solution) {
	if !sol.Found() {
		printWarning("No solution: %s/%s exhausted the state space", sol.Domain, sol.Strategy)
		printStats(sol)
		return
	}

	if len(sol.Solutions) > 0 {
		printSuccess("%s %s", StyleNumber.Render(humanize.Comma(int64(len(sol.Solutions)))),
			pluralize(len(sol.Solutions), "solution", "solutions"))
		for i, s := range sol.Solutions {
			if i == maxListedSolutions {
				printDetail("... and %s more", humanize.Comma(int64(len(sol.Solutions)-i)))
				break
			}
			fmt.Println("  " + StyleValue.Render(s))
		}
		printStats(sol)
		return
	}

	printSuccess("%s/%s: %s %s, cost %s", sol.Domain, sol.Strategy,
		StyleNumber.Render(humanize.Comma(int64(sol.Moves()))),
		pluralize(sol.Moves(), "move", "moves"),
		StyleNumber.Render(humanize.Ftoa(sol.Cost)))
	for i, step := range sol.Steps {
		if i == 0 {
			fmt.Println("  " + StyleValue.Render(step))
			continue
		}
		fmt.Println("  " + StyleDim.Render(iconArrow+" "+sol.Actions[i-1]) + "  " + StyleValue.Render(step))
	}
	printStats(sol)
}

// printStats prints search statistics on a single line.
func printStats(sol *pipeline.Solution) {
	parts := []string{
		humanize.Comma(int64(sol.Stats.Expanded)) + " expanded",
		humanize.Comma(int64(sol.Stats.Generated)) + " generated",
		"max frontier " + humanize.Comma(int64(sol.Stats.MaxFrontier)),
		formatDuration(sol.Duration),
	}

	status := styleComputed.Render(iconFresh)
	if sol.Cached {
		status = styleCached.Render(iconCached)
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line + StyleDim.Render(" · ") + status)
}

// printComparison prints one table row per strategy and marks the best.
func printComparison(cs []pipeline.Comparison) {
	best := pipeline.Best(cs)
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		mark := ""
		if best != nil && c.Strategy == best.Strategy {
			mark = iconSuccess
		}
		if c.Solution == nil {
			rows = append(rows, []string{mark, c.Strategy, strings.ToLower(c.Code), "-", "-", "-", "-", "-"})
			continue
		}
		s := c.Solution
		moves, cost := "-", "-"
		if s.Found() {
			moves = humanize.Comma(int64(s.Moves()))
			cost = humanize.Ftoa(s.Cost)
		}
		rows = append(rows, []string{
			mark, c.Strategy, s.Status, moves, cost,
			humanize.Comma(int64(s.Stats.Expanded)),
			humanize.Comma(int64(s.Stats.MaxFrontier)),
			formatDuration(s.Duration),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Strategy", "Status", "Moves", "Cost", "Expanded", "Frontier", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if best != nil && rows[row][1] == best.Strategy {
				return cellStyle.Foreground(colorGreen)
			}
			return cellStyle
		})
	fmt.Println(t.Render())
}

// =============================================================================
// Utilities
// =============================================================================

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatDuration rounds d for display.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}
