package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// newConsoleLogf returns a Logf that prints one styled progress line per call.
// Colors are dropped automatically when w is not a terminal.
func newConsoleLogf(w io.Writer) func(format string, args ...any) {
	r := lipgloss.NewRenderer(w)
	var (
		timeStyle  = r.NewStyle().Foreground(lipgloss.Color("245"))
		titleStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
		okStyle    = r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
		errStyle   = r.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
		plainStyle = r.NewStyle()
	)
	return func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		style := plainStyle
		switch {
		case strings.HasPrefix(msg, "error"):
			style = errStyle
		case strings.HasPrefix(msg, "making video"), strings.HasPrefix(msg, "run "):
			style = titleStyle
		case strings.HasPrefix(msg, "video ready"), strings.HasPrefix(msg, "done"):
			style = okStyle
		}
		fmt.Fprintf(w, "%s %s\n", timeStyle.Render(time.Now().Format("15:04:05")), style.Render(msg))
	}
}
