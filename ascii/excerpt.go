package ascii

import (
	"fmt"
	"strings"
)

// Position converts a byte offset of `input` into a 1-based line and
// column.  Columns count bytes.
func Position(input string, index int) (line, col int) {
	index = max(0, min(index, len(input)))
	line = strings.Count(input[:index], "\n") + 1
	col = index - (strings.LastIndexByte(input[:index], '\n') + 1) + 1
	return line, col
}

// Excerpt shows the line of `input` containing `index` with a caret
// pointing at it:
//
//	1:7 | [1, 2,]
//	            ^
func Excerpt(input string, index int, theme Theme) string {
	index = max(0, min(index, len(input)))
	lineStart := strings.LastIndexByte(input[:index], '\n') + 1
	lineEnd := strings.IndexByte(input[index:], '\n')
	if lineEnd < 0 {
		lineEnd = len(input)
	} else {
		lineEnd += index
	}

	line, col := Position(input, index)
	gutter := fmt.Sprintf("%d:%d | ", line, col)
	text := strings.TrimRight(input[lineStart:lineEnd], "\r")

	var b strings.Builder
	b.WriteString(Paint(theme.Span, gutter))
	b.WriteString(text)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", len(gutter)+col-1))
	b.WriteString(Paint(theme.Pointer, "^"))
	return b.String()
}
