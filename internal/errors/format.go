package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorWhite = "\033[37m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

// color wraps text in ANSI color codes if colors are enabled.
func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(text string) string   { return color(colorRed, text) }
func cyan(text string) string  { return color(colorCyan, text) }
func white(text string) string { return color(colorWhite, text) }
func gray(text string) string  { return color(colorGray, text) }
func bold(text string) string  { return color(colorBold, text) }

// Format returns the error formatted for terminal display.
func (e *Error) Format() string {
	var b strings.Builder

	// Header line
	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(red(bold("ERROR ")))
		b.WriteString(white(bold(e.Code + ": ")))
		b.WriteString(white(e.Message))
	} else {
		b.WriteString(red(bold("ERROR: ")))
		b.WriteString(white(e.Message))
	}
	b.WriteString("\n\n")

	// Location
	if e.Location != nil {
		b.WriteString("  ")
		b.WriteString(cyan(e.Location.String()))
		b.WriteString("\n\n")

		// Context with line numbers and arrow
		if len(e.Context) > 0 {
			startLine := e.Location.Line - len(e.Context)/2
			for i, line := range e.Context {
				lineNum := startLine + i
				if lineNum == e.Location.Line {
					// Highlighted line with arrow
					b.WriteString("  ")
					b.WriteString(red("→ "))
					b.WriteString(fmt.Sprintf("%4d", lineNum))
					b.WriteString(gray(" │ "))
					b.WriteString(line)
					b.WriteString("\n")

					// Column indicator
					if e.Location.Column > 0 {
						b.WriteString("       ")
						b.WriteString(gray("│ "))
						b.WriteString(strings.Repeat(" ", e.Location.Column-1))
						b.WriteString(red("^"))
						b.WriteString("\n")
					}
				} else {
					// Normal line
					b.WriteString("    ")
					b.WriteString(fmt.Sprintf("%4d", lineNum))
					b.WriteString(gray(" │ "))
					b.WriteString(line)
					b.WriteString("\n")
				}
			}
			b.WriteString("\n")
		}
	}

	// Detail
	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Suggestion
	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(cyan("Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}

	// Example
	if e.Example != "" {
		b.WriteString("  ")
		b.WriteString(cyan("Example:"))
		b.WriteString("\n")
		for _, line := range strings.Split(e.Example, "\n") {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Cause
	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(gray("Cause: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCompact returns a compact single-line error format.
func (e *Error) FormatCompact() string {
	var b strings.Builder

	if e.Location != nil {
		b.WriteString(e.Location.String())
		b.WriteString(": ")
	}

	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	return b.String()
}

// MarshalJSON encodes the error for machine consumption. Context lines and
// the example are left out.
func (e *Error) MarshalJSON() ([]byte, error) {
	out := struct {
		Code       string    `json:"code,omitempty"`
		Category   Category  `json:"category,omitempty"`
		Message    string    `json:"message"`
		Detail     string    `json:"detail,omitempty"`
		Location   *Location `json:"location,omitempty"`
		Suggestion string    `json:"suggestion,omitempty"`
		Cause      string    `json:"cause,omitempty"`
	}{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	return json.Marshal(out)
}

// FormatJSON returns the error as a single-line JSON object.
func (e *Error) FormatJSON() string {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(b)
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var current strings.Builder

	for _, word := range words {
		if current.Len()+len(word)+1 > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}

// Output selects how Fprint writes an error.
type Output string

const (
	// OutputAuto is OutputPretty on a color terminal, OutputCompact otherwise.
	OutputAuto    Output = "auto"
	OutputPretty  Output = "pretty"
	OutputCompact Output = "compact"
	OutputJSON    Output = "json"
)

// ParseOutput parses an output name.
func ParseOutput(name string) (Output, error) {
	switch out := Output(strings.ToLower(name)); out {
	case OutputAuto, OutputPretty, OutputCompact, OutputJSON:
		return out, nil
	case "":
		return OutputAuto, nil
	}
	return "", New("E140").
		WithDetail(fmt.Sprintf("Unknown error format %q", name)).
		WithSuggestion("Use one of auto, pretty, compact or json")
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// supportsColor reports whether pretty output with colors suits w.
func supportsColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTerminal(w)
}

// Fprint writes err to w. Errors that are not an *Error are written as an
// uncoded error with their message.
func Fprint(w io.Writer, err error, out Output) {
	fe, ok := err.(*Error)
	if !ok {
		fe = &Error{Message: err.Error()}
	}

	if out == OutputAuto {
		out = OutputCompact
		if supportsColor(w) {
			out = OutputPretty
		}
	}

	switch out {
	case OutputJSON:
		fmt.Fprintln(w, fe.FormatJSON())
	case OutputCompact:
		fmt.Fprintln(w, fe.FormatCompact())
	default:
		fmt.Fprint(w, fe.Format())
	}
}

// PrintError prints a formatted error to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err, OutputAuto)
}
