package tag

import "strings"

// Kind identifies a protocol span type.
type Kind int

const (
	// KindResponse marks a terminal answer span.
	KindResponse Kind = iota
	// KindThought marks an internal reasoning span.
	KindThought
	// KindToolCall marks a raw (unparsed) tool invocation span.
	KindToolCall
)

// String returns the wire name of the span kind.
func (k Kind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindThought:
		return "thought"
	case KindToolCall:
		return "tool_call"
	default:
		return "unknown"
	}
}

// Span is a single typed protocol span with its trimmed inner text.
type Span struct {
	Kind Kind
	Text string
}

// Extraction reports whether a tag occurred and carries the trimmed inner
// text of every well-formed span, in order of appearance.
type Extraction struct {
	Found   bool
	Content []string
}

// Extract scans text for well-formed <name>...</name> spans. An unclosed
// opening tag and anything after it is ignored; absence of a match yields
// Found=false with an empty Content slice.
func Extract(text, name string) Extraction {
	open := "<" + name + ">"
	closing := "</" + name + ">"

	var content []string
	for {
		start := strings.Index(text, open)
		if start < 0 {
			break
		}
		rest := text[start+len(open):]
		end := strings.Index(rest, closing)
		if end < 0 {
			break
		}
		content = append(content, strings.TrimSpace(rest[:end]))
		text = rest[end+len(closing):]
	}

	return Extraction{Found: len(content) > 0, Content: content}
}

// Scan walks text once and returns every well-formed protocol span
// (response, thought, tool_call) in order of appearance. Interleaved or
// unclosed tags are skipped; the scanner resumes after the '<' that failed
// to open a span.
func Scan(text string) []Span {
	var spans []Span

	for i := 0; i < len(text); {
		lt := strings.IndexByte(text[i:], '<')
		if lt < 0 {
			break
		}
		i += lt

		kind, ok := openingKind(text[i:])
		if !ok {
			i++
			continue
		}

		open := "<" + kind.String() + ">"
		closing := "</" + kind.String() + ">"
		body := text[i+len(open):]
		end := strings.Index(body, closing)
		if end < 0 {
			i++
			continue
		}

		spans = append(spans, Span{Kind: kind, Text: strings.TrimSpace(body[:end])})
		i += len(open) + end + len(closing)
	}

	return spans
}

// openingKind reports which protocol tag, if any, opens at the start of s.
func openingKind(s string) (Kind, bool) {
	for _, k := range []Kind{KindResponse, KindThought, KindToolCall} {
		if strings.HasPrefix(s, "<"+k.String()+">") {
			return k, true
		}
	}
	return 0, false
}
