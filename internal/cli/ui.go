package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/notegraph/pkg/notegraph"
	"github.com/matzehuels/notegraph/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
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

	styleKind    = lipgloss.NewStyle().Foreground(colorGray).Width(20)
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
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
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
// Stats Display
// =============================================================================

// statsLine formats build statistics on a single line.
func statsLine(s pipeline.Stats) string {
	parts := []string{
		fmt.Sprintf("%d notes", s.Nodes),
		fmt.Sprintf("%d links", s.Edges),
	}
	if s.Documents != s.Nodes {
		parts = append(parts, fmt.Sprintf("%d documents", s.Documents))
	}
	if s.Duration > 0 {
		parts = append(parts, s.Duration.Round(time.Millisecond).String())
	}
	return strings.Join(parts, " · ")
}

// printStats prints build statistics on a single line.
func printStats(s pipeline.Stats) {
	fmt.Println("  " + StyleDim.Render(statsLine(s)))
}

// =============================================================================
// Diagnostics
// =============================================================================

// formatDiagnostic renders one diagnostic as "kind  message (path:line)".
func formatDiagnostic(d notegraph.Diagnostic) string {
	loc := ""
	switch {
	case d.Path != "" && d.Line > 0:
		loc = fmt.Sprintf(" (%s:%d)", d.Path, d.Line)
	case d.Path != "" && d.Kind != notegraph.KindUnreadable && d.Kind != notegraph.KindDuplicate:
		loc = fmt.Sprintf(" (%s)", d.Path)
	}
	return styleKind.Render(string(d.Kind)) + d.Message() + StyleDim.Render(loc)
}

// printDiagnostic prints a problem diagnostic with a warning icon.
func printDiagnostic(d notegraph.Diagnostic) {
	icon := styleIconWarning.Render(iconWarning)
	if d.Kind == notegraph.KindUnreadable {
		icon = styleIconError.Render(iconError)
	}
	fmt.Println(icon + " " + formatDiagnostic(d))
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
