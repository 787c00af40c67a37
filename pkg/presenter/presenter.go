// Package presenter provides consistent CLI output for user-facing
// messages: success, error, warning, and informational lines with
// color support and a quiet mode. Data output (listings, rendered
// documents) goes straight to stdout elsewhere; this package is the
// commentary channel.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/jingkaihe/devskills/pkg/lint"
)

// ColorMode controls whether output is colorized.
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal capabilities.
	ColorAuto ColorMode = iota
	// ColorAlways forces color on.
	ColorAlways
	// ColorNever forces color off.
	ColorNever
)

// Presenter writes user-facing messages.
type Presenter struct {
	output      io.Writer
	errorOutput io.Writer
	quiet       bool
}

// New creates a presenter on stdout/stderr with color detected from
// the environment.
func New() *Presenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a presenter with explicit streams and color
// mode.
func NewWithOptions(output, errorOutput io.Writer, mode ColorMode) *Presenter {
	switch mode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}

	return &Presenter{
		output:      output,
		errorOutput: errorOutput,
	}
}

// detectColorMode honors NO_COLOR and DEVSKILLS_COLOR before falling
// back to terminal detection.
func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}

	switch os.Getenv("DEVSKILLS_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// SetQuiet suppresses everything except errors and data output.
func (p *Presenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet reports the quiet state.
func (p *Presenter) IsQuiet() bool {
	return p.quiet
}

// Error writes an error with optional context to stderr. Errors are
// never suppressed by quiet mode.
func (p *Presenter) Error(err error, context string) {
	if err == nil {
		return
	}

	c := color.New(color.FgRed, color.Bold)
	if context != "" {
		c.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		c.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// Success writes a green check line.
func (p *Presenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(p.output, "✓ %s\n", message)
}

// Warning writes a yellow warning line.
func (p *Presenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

// Info writes a plain informational line.
func (p *Presenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, message)
}

// Section writes a bold section header.
func (p *Presenter) Section(title string) {
	if p.quiet {
		return
	}
	color.New(color.Bold).Fprintf(p.output, "\n%s\n", title)
	fmt.Fprintln(p.output, strings.Repeat("-", len(title)))
}

// Separator writes a horizontal rule.
func (p *Presenter) Separator() {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, strings.Repeat("-", 40))
}

// Finding writes one lint finding, colored by severity.
func (p *Presenter) Finding(f lint.Finding) {
	c := color.New(color.FgYellow)
	if f.Severity == lint.SeverityError {
		c = color.New(color.FgRed)
	}
	c.Fprintf(p.output, "%s\n", f.String())
}

// LintSummary writes the closing line of a lint run.
func (p *Presenter) LintSummary(result *lint.Result) {
	if p.quiet && !result.HasErrors() {
		return
	}

	line := fmt.Sprintf("%d skill(s) checked: %d error(s), %d warning(s)",
		result.Skills, result.Errors(), result.Warnings())

	switch {
	case result.HasErrors():
		color.New(color.FgRed, color.Bold).Fprintln(p.output, line)
	case result.Warnings() > 0:
		color.New(color.FgYellow).Fprintln(p.output, line)
	default:
		color.New(color.FgGreen).Fprintln(p.output, line)
	}
}

// Default presenter used by the CLI commands.
var defaultPresenter = New()

// Error writes an error via the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Success writes a success line via the default presenter.
func Success(message string) { defaultPresenter.Success(message) }

// Warning writes a warning line via the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Info writes an info line via the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Section writes a section header via the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// Separator writes a rule via the default presenter.
func Separator() { defaultPresenter.Separator() }

// Finding writes a lint finding via the default presenter.
func Finding(f lint.Finding) { defaultPresenter.Finding(f) }

// LintSummary writes a lint summary via the default presenter.
func LintSummary(result *lint.Result) { defaultPresenter.LintSummary(result) }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }
