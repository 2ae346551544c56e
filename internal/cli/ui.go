package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/lmfdb/latticeview/pkg/layout"
	"github.com/lmfdb/latticeview/pkg/session"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
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

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

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

	styleByLevel = lipgloss.NewStyle().Foreground(colorGreen)
	styleByOrder = lipgloss.NewStyle().Foreground(colorBlue)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
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
	modeByLevel = "by level"
	modeByOrder = "by order"
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

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Diagram Summary
// =============================================================================

// diagramStats summarizes the diagram a command just produced.
type diagramStats struct {
	nodes     int
	edges     int
	crossings int
	variant   string
	byOrder   bool
	layout    layout.Mode
}

// statsOf reads the summary of the displayed graph of sess.
func statsOf(sess *session.Session) diagramStats {
	g := sess.Graph()
	return diagramStats{
		nodes:     g.NodeCount(),
		edges:     g.EdgeCount(),
		crossings: layout.Crossings(g),
		variant:   sess.Variants()[sess.Mode().Variant],
		byOrder:   sess.Mode().ByOrder,
		layout:    sess.LayoutMode(),
	}
}

// line renders the summary as "4 nodes · 4 edges · variant C · leveled · by level".
// Crossings are only mentioned when there are some.
func (d diagramStats) line() string {
	parts := []string{
		plural(d.nodes, "node"),
		plural(d.edges, "edge"),
		"variant " + d.variant,
	}
	if d.layout != "" {
		parts = append(parts, string(d.layout))
	}
	if d.crossings > 0 {
		parts = append(parts, StyleWarning.Render(plural(d.crossings, "crossing")))
	}

	mode, modeStyle := modeByLevel, styleByLevel
	if d.byOrder {
		mode, modeStyle = modeByOrder, styleByOrder
	}

	sep := StyleDim.Render(" · ")
	line := "  "
	for _, part := range parts {
		line += StyleDim.Render(part) + sep
	}
	return line + modeStyle.Render(mode)
}

// printStats prints the diagram summary on a single line.
func printStats(d diagramStats) {
	fmt.Println(d.line())
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
