package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// uiOut receives status lines. Command results go to the command's stdout.
var uiOut io.Writer = os.Stderr

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorTeal)
	styleWarning = lipgloss.NewStyle().Foreground(colorAmber)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleMuted   = lipgloss.NewStyle().Foreground(colorGray)
	styleKey     = styleMuted.Width(12)
)

// statusLine writes icon and msg as one line of uiOut.
func statusLine(icon string, iconStyle lipgloss.Style, msg string) {
	fmt.Fprintln(uiOut, iconStyle.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	statusLine("✓", styleSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusLine("!", styleWarning, styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusLine("›", styleMuted, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+styleDim.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, "  "+styleKey.Render(key)+" "+styleValue.Render(value))
}

// stat is one labeled count for printStats.
type stat struct {
	n     int
	label string
}

// printStats prints the non-zero counts on one line, ending with whether the
// result came from the cache.
func printStats(counts []stat, cached bool) {
	var parts []string
	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, styleNumber.Render(fmt.Sprint(c.n))+styleDim.Render(" "+c.label))
		}
	}
	if cached {
		parts = append(parts, styleSuccess.Render("cached"))
	} else {
		parts = append(parts, styleMuted.Render("fresh"))
	}
	fmt.Fprintln(uiOut, "  "+strings.Join(parts, styleDim.Render(" · ")))
}
