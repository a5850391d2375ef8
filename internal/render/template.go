package render

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type spanKind int

const (
	literalSpan spanKind = iota
	exprSpan
	patchSpan
	condSpan
	endSpan
)

// span is one typed segment of a compiled template.
type span struct {
	kind spanKind

	// text is the content of a literal span.
	text string

	// name is the variable or patch point name.
	name       string
	def        string
	hasDefault bool

	// indent is the effective indent width for a patch span: the
	// explicit width from the reference if given, otherwise the
	// reference's starting column in the raw template.
	indent int

	// line and col locate the site in the template (1-based).
	line, col int
}

// markerPattern finds candidate expression sites. Complete forms come
// first in the alternation so a bare opener only matches when no
// terminated site starts at the same offset.
var markerPattern = regexp.MustCompile(`\$\{[^}\n]*\}|\{\{[^}\n]*\}\}|\$\{|\{\{`)

var (
	// varSite validates the inside of ${...}: an upper-case token with
	// an optional :-default fallback.
	varSite = regexp.MustCompile(`^([A-Z][A-Z0-9_]*)(:-([^}]*))?$`)

	// patchArgs validates the inside of {{...}}: patch("name") with an
	// optional indent width.
	patchArgs = regexp.MustCompile(`^\s*patch\(\s*(?:'([^']+)'|"([^"]+)")\s*(?:,\s*([0-9]+)\s*)?\)\s*$`)

	// condSite and endSite validate the conditional inclusion markers.
	condSite = regexp.MustCompile(`^\s*if\s+([A-Z][A-Z0-9_]*)\s*$`)
	endSite  = regexp.MustCompile(`^\s*end\s*$`)
)

// Template is an immutable compiled template: a linear sequence of
// typed spans built once and reused across renders with different
// contexts.
type Template struct {
	name  string
	spans []span
}

// Name returns the template's identity as given to Compile.
func (t *Template) Name() string {
	return t.name
}

// Points returns the distinct patch points referenced by the template,
// in order of first appearance.
func (t *Template) Points() []string {
	var points []string
	seen := make(map[string]bool)
	for _, s := range t.spans {
		if s.kind == patchSpan && !seen[s.name] {
			seen[s.name] = true
			points = append(points, s.name)
		}
	}
	return points
}

// Compile parses template text into a Template. Malformed expression
// sites fail with ErrExpression; the raw text is never mutated.
func Compile(name, text string) (*Template, error) {
	t := &Template{name: name}
	starts := lineStarts(text)
	pos := 0

	for _, loc := range markerPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > pos {
			t.spans = append(t.spans, span{kind: literalSpan, text: text[pos:start]})
		}
		raw := text[start:end]
		line, col := locate(starts, start)

		s, err := compileSite(raw, col)
		if err != nil {
			return nil, &Error{Kind: ErrExpression, Template: name, Line: line, Column: col + 1, Name: siteLabel(raw)}
		}
		s.line, s.col = line, col+1
		t.spans = append(t.spans, s)
		pos = end
	}

	if pos < len(text) {
		t.spans = append(t.spans, span{kind: literalSpan, text: text[pos:]})
	}
	if err := checkConditionals(name, t.spans); err != nil {
		return nil, err
	}
	return t, nil
}

// checkConditionals rejects unbalanced or nested {{if}}/{{end}} pairs.
func checkConditionals(name string, spans []span) error {
	var open *span
	for i := range spans {
		s := &spans[i]
		switch s.kind {
		case condSpan:
			if open != nil {
				return &Error{Kind: ErrExpression, Template: name, Line: s.line, Column: s.col, Name: "nested if " + s.name}
			}
			open = s
		case endSpan:
			if open == nil {
				return &Error{Kind: ErrExpression, Template: name, Line: s.line, Column: s.col, Name: "end without if"}
			}
			open = nil
		}
	}
	if open != nil {
		return &Error{Kind: ErrExpression, Template: name, Line: open.line, Column: open.col, Name: "unclosed if " + open.name}
	}
	return nil
}

// compileSite turns one matched marker into an expression or patch
// span. col is the marker's 0-based column, used as the captured
// indentation for patch references.
func compileSite(raw string, col int) (span, error) {
	switch {
	case strings.HasPrefix(raw, "${"):
		if !strings.HasSuffix(raw, "}") || len(raw) < 4 {
			return span{}, ErrExpression
		}
		m := varSite.FindStringSubmatch(raw[2 : len(raw)-1])
		if m == nil {
			return span{}, ErrExpression
		}
		return span{kind: exprSpan, name: m[1], def: m[3], hasDefault: m[2] != ""}, nil

	case strings.HasPrefix(raw, "{{"):
		if !strings.HasSuffix(raw, "}}") || len(raw) < 5 {
			return span{}, ErrExpression
		}
		inner := raw[2 : len(raw)-2]
		if m := condSite.FindStringSubmatch(inner); m != nil {
			return span{kind: condSpan, name: m[1]}, nil
		}
		if endSite.MatchString(inner) {
			return span{kind: endSpan}, nil
		}
		m := patchArgs.FindStringSubmatch(inner)
		if m == nil {
			return span{}, ErrExpression
		}
		point := m[1]
		if point == "" {
			point = m[2]
		}
		indent := col
		if m[3] != "" {
			// The regexp guarantees digits only.
			indent, _ = strconv.Atoi(m[3])
		}
		return span{kind: patchSpan, name: point, indent: indent}, nil
	}
	return span{}, ErrExpression
}

// siteLabel trims a raw marker for use as the offending identifier in
// an error message.
func siteLabel(raw string) string {
	const max = 40
	raw = strings.TrimSpace(raw)
	if len(raw) > max {
		return raw[:max] + "..."
	}
	return raw
}

// lineStarts returns the byte offset of each line start in text.
func lineStarts(text string) []int {
	starts := []int{0}
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// locate converts a byte offset to a 1-based line and 0-based column.
func locate(starts []int, offset int) (line, col int) {
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	return i + 1, offset - starts[i]
}
