package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const Ellipsis = "…"

// DisplayWidth reports the terminal column width of text.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateToWidth shortens text to at most width columns, ending with an
// ellipsis when something was cut.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, Ellipsis)
}

// TruncateLeftToWidth keeps the tail of text, which is the useful end of a path.
func TruncateLeftToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	ellipsisWidth := runewidth.StringWidth(Ellipsis)
	if width <= ellipsisWidth {
		return strings.Repeat(".", width)
	}

	runes := []rune(text)
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > width-ellipsisWidth {
			break
		}
		used += w
		start--
	}
	return Ellipsis + string(runes[start:])
}

// PadRight fills text with spaces up to width columns.
func PadRight(text string, width int) string {
	gap := width - runewidth.StringWidth(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}
