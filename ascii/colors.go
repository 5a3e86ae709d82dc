// Package ascii provides terminal ANSI color codes and semantic names
// for them, so the command line output can be grouped in themes.
package ascii

import "fmt"

const (
	Reset  = "\033[0m"
	Red    = "\033[1;31m"
	Yellow = "\033[1;33m"
	Green  = "\033[1;32m"
	Blue   = "\033[1;34m"
	Cyan   = "\033[1;36m"
	Gray   = "\033[90m" // Bright black, actually

	// 256-color palette
	Orange  = "\033[38;5;208m"
	Gray245 = "\033[1;38;5;245m"
	Purple  = "\033[1;38;5;99m"
	Pink    = "\033[1;38;5;127m"
)

// Theme maps what's being printed to a color
type Theme struct {
	// Messages
	Error   string
	Success string
	Muted   string

	// Values
	Key     string
	String  string
	Number  string
	Keyword string
	Kind    string

	// Input excerpts
	Span    string
	Pointer string
}

// DefaultTheme is used when the output is a terminal
var DefaultTheme = Theme{
	Error:   Red,
	Success: Green,
	Muted:   Gray,

	Key:     Cyan,
	String:  Green,
	Number:  Purple,
	Keyword: Pink,
	Kind:    Gray245,

	Span:    Orange,
	Pointer: Yellow,
}

// PlainTheme has no colors at all
var PlainTheme = Theme{}

// Paint wraps `text` in `color`.  Nothing is added when the color is
// empty, so PlainTheme output has no escape sequences.
func Paint(color, text string) string {
	if color == "" {
		return text
	}
	return color + text + Reset
}

// Color formats `format` with `args` and paints the result
func Color(color, format string, args ...any) string {
	return Paint(color, fmt.Sprintf(format, args...))
}
