package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ampcalc/ampcalc/internal/diag"
	"github.com/ampcalc/ampcalc/internal/engine"
)

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Styles for terminal rendering.
//
//nolint:gochecknoglobals // Lip Gloss styles are package-level by convention.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	formulaStyle = lipgloss.NewStyle().Faint(true)
)

// isWriterTerminal reports whether the writer is an interactive terminal.
func isWriterTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// formatAmps renders an ampere value with thousand separators and a
// sensible precision.
func formatAmps(v float64) string {
	if v == float64(int64(v)) {
		return printer.Sprintf("%d A", int64(v))
	}
	return printer.Sprintf("%.2f A", v)
}

// renderResult writes one calculation result, styled when the output is a
// terminal and plain otherwise.
func renderResult(w io.Writer, res *engine.Result, styled bool) {
	title := "Breaker sizing"
	if res.Name != "" {
		title += ": " + res.Name
	}
	title += fmt.Sprintf(" (%s)", strings.ToUpper(res.Standard))

	if styled {
		fmt.Fprintln(w, titleStyle.Render(title))
	} else {
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, strings.Repeat("-", len(title)))
	}

	writeField(w, styled, "Base current", formatAmps(res.BaseCurrentA))
	writeField(w, styled, "Safety factor",
		fmt.Sprintf("%g (%s)", res.SafetyFactor, res.SafetyCitation))

	if res.Derating != nil {
		for _, f := range res.Derating.Factors {
			writeField(w, styled, "Derating: "+f.Label,
				fmt.Sprintf("%.3f (%s)", f.Factor, f.Citation))
		}
		writeField(w, styled, "Combined factor",
			fmt.Sprintf("%.3f", res.Derating.Combined()))
	}

	writeField(w, styled, "Required", formatAmps(res.RequiredA))
	writeField(w, styled, "Selected breaker", formatAmps(res.BreakerA))

	if res.VoltageDropPercent != 0 {
		writeField(w, styled, "Voltage drop", fmt.Sprintf("%.2f%%", res.VoltageDropPercent))
	}
	if res.InterruptingKA != 0 {
		writeField(w, styled, "Interrupting rating", fmt.Sprintf("%g kA", res.InterruptingKA))
	}

	for _, warning := range res.Warnings {
		renderWarning(w, warning, styled)
	}

	if res.Actionable {
		status := "OK"
		if styled {
			status = okStyle.Render(status)
		}
		fmt.Fprintf(w, "Status: %s\n", status)
	} else {
		status := "NOT ACTIONABLE - error-level findings above"
		if styled {
			status = errStyle.Render(status)
		}
		fmt.Fprintf(w, "Status: %s\n", status)
	}

	for _, f := range res.Formulas {
		line := fmt.Sprintf("  %s: %s = %.4g", f.Name, f.Expression, f.Result)
		if f.Unit != "" {
			line += " " + f.Unit
		}
		if styled {
			line = formulaStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

// writeField writes one aligned label/value line.
func writeField(w io.Writer, styled bool, label, value string) {
	if styled {
		label = labelStyle.Render(label)
	}
	fmt.Fprintf(w, "%s: %s\n", label, value)
}

// renderWarning writes one warning line colored by severity.
func renderWarning(w io.Writer, warning diag.Warning, styled bool) {
	line := fmt.Sprintf("[%s] %s", warning.Severity, warning.Message)
	if warning.Citation != "" {
		line += fmt.Sprintf(" (%s)", warning.Citation)
	}

	if styled {
		switch warning.Severity {
		case diag.SeverityError:
			line = errStyle.Render(line)
		case diag.SeverityWarning:
			line = warnStyle.Render(line)
		default:
			line = infoStyle.Render(line)
		}
	}
	fmt.Fprintln(w, line)
}

// renderFieldErrors writes the validator's hard errors, one per line.
func renderFieldErrors(w io.Writer, errs []diag.FieldError) {
	for _, fe := range errs {
		fmt.Fprintf(w, "  %s\n", fe.Error())
	}
}
