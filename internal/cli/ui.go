package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
	fgio "github.com/matzehuels/floorgraph/pkg/io"
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
// Styles
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

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

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

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// PrintError writes a failed command's error to w.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+err.Error())
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printFile prints an output file line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Graph Output
// =============================================================================

// printIssues warns about document entries that were not loaded.
func printIssues(rep *fgio.Report) {
	issues := rep.Issues()
	if len(issues) == 0 {
		return
	}
	printWarning("%d entries not loaded", len(issues))
	for _, issue := range issues {
		fmt.Println("  " + StyleDim.Render(issue.String()))
	}
}

// printStats prints counts, the per-kind breakdown and the next generated
// identifier for each kind.
func printStats(w io.Writer, name string, s floorplan.Stats) {
	fmt.Fprintln(w, StyleTitle.Render(name))
	fmt.Fprintln(w, styleKey.Render("nodes")+" "+StyleNumber.Render(fmt.Sprint(s.NodeCount)))
	fmt.Fprintln(w, styleKey.Render("edges")+" "+StyleNumber.Render(fmt.Sprint(s.EdgeCount)))
	fmt.Fprintln(w)

	for _, k := range append(floorplan.Kinds(), floorplan.KindUnknown) {
		count := s.ByKind[k]
		if count == 0 && k == floorplan.KindUnknown {
			continue
		}
		line := styleKey.Render(k.String()) + " " + StyleNumber.Render(fmt.Sprintf("%-5d", count))
		line += StyleDim.Render(" next " + s.NextIDs[k])
		fmt.Fprintln(w, line)
	}
}

// statsLine is the one-line summary used after loads.
func statsLine(g *floorplan.Graph) string {
	parts := []string{
		fmt.Sprintf("%d nodes", g.NodeCount()),
		fmt.Sprintf("%d edges", g.EdgeCount()),
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
