package web

import (
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04:05")
}

// FormatTime renders timestamps the way the lobby list shows them.
func FormatTime(value time.Time) string {
	return formatTime(value)
}

func writeEscaped(w io.Writer, value string) {
	_, _ = io.WriteString(w, templ.EscapeString(value))
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
