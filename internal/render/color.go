package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/scope/internal/scope"
)

// ANSI names accepted in palettes and config files.
var namedColors = map[string]string{
	"black":        "0",
	"red":          "1",
	"green":        "2",
	"yellow":       "3",
	"blue":         "4",
	"magenta":      "5",
	"cyan":         "6",
	"gray":         "7",
	"grey":         "7",
	"darkgray":     "8",
	"darkgrey":     "8",
	"lightred":     "9",
	"lightgreen":   "10",
	"lightyellow":  "11",
	"lightblue":    "12",
	"lightmagenta": "13",
	"lightcyan":    "14",
	"white":        "15",
}

// Resolve turns a colour name, ANSI index or hex string into a lipgloss colour.
// An empty colour means the terminal default.
func Resolve(c scope.Color) lipgloss.TerminalColor {
	s := colorKey(c)
	if s == "" || s == "reset" || s == "default" {
		return lipgloss.NoColor{}
	}
	if code, ok := namedColors[s]; ok {
		return lipgloss.Color(code)
	}
	return lipgloss.Color(s)
}

// Valid reports whether c names a colour Resolve understands.
func Valid(c scope.Color) bool {
	s := colorKey(c)
	switch {
	case s == "" || s == "reset" || s == "default":
		return true
	case strings.HasPrefix(s, "#"):
		return len(s) == 4 || len(s) == 7
	}
	if _, ok := namedColors[s]; ok {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) <= 3
}

var separators = strings.NewReplacer("_", "", "-", "", " ", "")

// colorKey folds "Dark Gray", "dark_gray" and "darkgray" together.
func colorKey(c scope.Color) string {
	return separators.Replace(strings.ToLower(strings.TrimSpace(string(c))))
}

func styleFor(c scope.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Resolve(c))
}
