// Package logger configures the process-wide structured logger.
package logger

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Log is the shared logger. Usable before Init with sane defaults.
var Log = log.New(os.Stderr)

func prefix() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#E85D75")).
		Bold(true).
		Padding(0, 1).
		MarginRight(1)
	return style.Render("hianime")
}

// Init configures the logger. Debug mode adds caller/timestamp reporting and
// lowers the level to Debug.
func Init(debug bool) {
	Log = log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: debug,
		TimeFormat:      "15:04:05",
		Prefix:          prefix(),
	})
	Log.SetColorProfile(termenv.ColorProfile())

	if debug {
		Log.SetLevel(log.DebugLevel)
	} else {
		Log.SetLevel(log.InfoLevel)
	}
}
