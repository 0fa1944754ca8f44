package ui

import (
	"fmt"
	"io"

	"github.com/c2h5oh/datasize"
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}

	StyleHeader  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Header prints a listing title.
func Header(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, StyleHeader.Render(fmt.Sprintf(format, args...)))
}

// Item prints one tab-indented listing entry.
func Item(w io.Writer, s string) {
	fmt.Fprintln(w, "\t", s)
}

// Progress returns a callback rewriting a single status line with the
// number of bytes received so far.
func Progress(w io.Writer) func(written int64) {
	return func(written int64) {
		fmt.Fprintf(w, "\r%12s", FormatSize(written))
	}
}

// FormatSize renders a byte count the way the listings do, e.g. "1.5 MB".
func FormatSize(n int64) string {
	if n < 0 {
		return "unknown size"
	}
	return datasize.ByteSize(n).HumanReadable()
}
