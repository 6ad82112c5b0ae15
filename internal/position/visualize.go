package position

import (
	"fmt"
	"strings"
)

// Highlight renders the lines covered by span with a caret underline:
//
//	2 |     math::cos(5.0);
//	  |     ^^^^^^^^^
func (sf *SourceFile) Highlight(span Span) string {
	if !span.IsValid() || span.Start.Line > len(sf.Lines) {
		return ""
	}

	var b strings.Builder
	width := len(fmt.Sprint(span.End.Line))
	gutter := strings.Repeat(" ", width)

	for lineNum := span.Start.Line; lineNum <= span.End.Line && lineNum <= len(sf.Lines); lineNum++ {
		line := sf.GetLine(lineNum)
		fmt.Fprintf(&b, "%*d | %s\n", width, lineNum, line)

		startCol, endCol := 1, len(line)+1
		if lineNum == span.Start.Line {
			startCol = span.Start.Column
		}
		if lineNum == span.End.Line {
			endCol = span.End.Column
		}
		if endCol <= startCol {
			endCol = startCol + 1
		}

		b.WriteString(gutter)
		b.WriteString(" | ")
		for i := 1; i < startCol; i++ {
			if i <= len(line) && line[i-1] == '\t' {
				b.WriteByte('\t')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(strings.Repeat("^", endCol-startCol))
		b.WriteByte('\n')
	}

	return b.String()
}
