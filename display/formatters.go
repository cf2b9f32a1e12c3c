package display

import "strings"

var lineBreaks = strings.NewReplacer("\n", `\n`, "\r", `\r`)

// EscapeLineBreaks renders CR and LF as the two-character sequences \r and \n
// so a register always occupies one console line.
func EscapeLineBreaks(text string) string {
	return lineBreaks.Replace(text)
}

// Truncate cuts text to width runes, marking the cut with "...".
func Truncate(width int) Formatter {
	return func(text string) string {
		runes := []rune(text)
		if len(runes) <= width {
			return text
		}
		if width <= 3 {
			return string(runes[:width])
		}
		return string(runes[:width-3]) + "..."
	}
}
