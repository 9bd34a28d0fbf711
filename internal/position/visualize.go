package position

import (
	"fmt"
	"strings"
)

// Excerpt returns the source line containing pos followed by a caret line
// pointing at pos.Column. Tabs in the prefix are preserved so the caret
// lines up in a terminal. Without a column only the line is shown. An
// empty string is returned when the line is not available.
func (sf *SourceFile) Excerpt(pos Position) string {
	line := sf.GetLine(pos.Line)
	if line == "" {
		return ""
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("%4d | %s", pos.Line, line))
	if pos.Column <= 0 {
		return result.String()
	}
	result.WriteString("\n     | ")

	runes := []rune(line)
	for i := 1; i < pos.Column; i++ {
		if i <= len(runes) && runes[i-1] == '\t' {
			result.WriteString("\t")
		} else {
			result.WriteString(" ")
		}
	}
	result.WriteString("^")

	return result.String()
}
