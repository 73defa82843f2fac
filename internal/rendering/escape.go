// Package rendering provides the Markdown transforms applied to slide sources.
package rendering

import "strings"

// FenceMarker delimits a fenced code block.
const FenceMarker = "```"

// Span is the half-open byte range [Start, End) of a fenced body, markers excluded.
type Span struct {
	Start int
	End   int
}

// FenceSpans pairs fence markers left to right (1st with 2nd, 3rd with 4th, ...)
// and returns the body of every pair. A trailing marker with no partner is
// reported as the byte offset of that marker; dangling is -1 when every
// marker is paired.
func FenceSpans(doc string) (spans []Span, dangling int) {
	dangling = -1
	pos := 0
	for {
		open := strings.Index(doc[pos:], FenceMarker)
		if open < 0 {
			return spans, dangling
		}
		open += pos
		bodyStart := open + len(FenceMarker)

		end := strings.Index(doc[bodyStart:], FenceMarker)
		if end < 0 {
			return spans, open
		}
		end += bodyStart

		spans = append(spans, Span{Start: bodyStart, End: end})
		pos = end + len(FenceMarker)
	}
}

// EscapeCodeFences replaces < and > with &lt; and &gt; inside fenced code
// blocks so the slide renderer shows them as text. Everything outside the
// fences, the markers and the info string position included, is copied
// unchanged.
//
// Spans are rewritten by position, so identical code in several fences (or
// the same text outside any fence) never affects another occurrence. An
// unterminated trailing fence defines no block: the text after it is left
// as is.
func EscapeCodeFences(doc string) string {
	if doc == "" {
		return ""
	}

	spans, _ := FenceSpans(doc)
	if len(spans) == 0 {
		return doc
	}

	var result strings.Builder
	result.Grow(len(doc) + len(doc)/8)

	last := 0
	for _, span := range spans {
		result.WriteString(doc[last:span.Start])
		escapeAngles(&result, doc[span.Start:span.End])
		last = span.End
	}
	result.WriteString(doc[last:])

	return result.String()
}

// Unterminated reports whether doc has an odd number of fence markers.
func Unterminated(doc string) bool {
	_, dangling := FenceSpans(doc)
	return dangling >= 0
}

func escapeAngles(result *strings.Builder, code string) {
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		default:
			result.WriteByte(code[i])
		}
	}
}
