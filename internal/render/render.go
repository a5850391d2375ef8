package render

import (
	"strings"

	"github.com/treigua/caulk/internal/vars"
)

// Render evaluates a compiled template against a variable context and
// a patch registry, both read-only here. Spans are processed left to
// right. Failure is atomic: any unbound variable or unresolvable
// fragment aborts the pass and no partial text is returned.
//
// A patch point referenced more than once resolves independently at
// each reference, re-emitting the full fragment list.
func Render(t *Template, ctx *vars.Context, reg *Registry) (string, error) {
	var b strings.Builder
	skip := false
	for _, s := range t.spans {
		switch s.kind {
		case condSpan:
			v, err := ctx.Resolve(s.name)
			if err != nil {
				return "", &Error{Kind: ErrUnboundVariable, Template: t.name, Line: s.line, Column: s.col, Name: s.name}
			}
			skip = !truthy(v)

		case endSpan:
			skip = false

		case literalSpan:
			if skip {
				continue
			}
			b.WriteString(s.text)

		case exprSpan:
			if skip {
				continue
			}
			if s.hasDefault {
				b.WriteString(ctx.ResolveDefault(s.name, s.def))
				continue
			}
			v, err := ctx.Resolve(s.name)
			if err != nil {
				return "", &Error{Kind: ErrUnboundVariable, Template: t.name, Line: s.line, Column: s.col, Name: s.name}
			}
			b.WriteString(v)

		case patchSpan:
			if skip {
				continue
			}
			text, err := resolvePoint(s, ctx, reg)
			if err != nil {
				if re, ok := err.(*Error); ok {
					re.Template = t.name
					re.Line = s.line
					re.Column = s.col
				}
				return "", err
			}
			b.WriteString(text)
		}
	}
	return b.String(), nil
}

// truthy reports whether a variable value enables a conditional block.
// Empty strings and the usual YAML-ish negatives disable it; anything
// else enables it.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "no", "off", "0":
		return false
	}
	return true
}

// resolvePoint expands variable expressions inside each registered
// fragment, then joins and re-indents them at the reference's column.
func resolvePoint(s span, ctx *vars.Context, reg *Registry) (string, error) {
	frags := reg.Fragments(s.name)
	for i, f := range frags {
		body, err := expandFragment(f, ctx)
		if err != nil {
			return "", err
		}
		frags[i].Body = body
	}
	return joinFragments(frags, s.name, s.indent)
}

// expandFragment evaluates a fragment's variable expressions and
// conditionals with the same evaluator templates use. Fragments may not
// reference patch points of their own; contributions stay flat.
func expandFragment(f Fragment, ctx *vars.Context) (string, error) {
	ft, err := Compile(f.Point, f.Body)
	if err != nil {
		if re, ok := err.(*Error); ok {
			re.Origin = f.Origin
		}
		return "", err
	}

	var b strings.Builder
	skip := false
	for _, s := range ft.spans {
		switch s.kind {
		case condSpan:
			v, err := ctx.Resolve(s.name)
			if err != nil {
				return "", &Error{Kind: ErrUnboundVariable, Name: s.name, Origin: f.Origin}
			}
			skip = !truthy(v)
		case endSpan:
			skip = false
		case literalSpan:
			if skip {
				continue
			}
			b.WriteString(s.text)
		case exprSpan:
			if skip {
				continue
			}
			if s.hasDefault {
				b.WriteString(ctx.ResolveDefault(s.name, s.def))
				continue
			}
			v, err := ctx.Resolve(s.name)
			if err != nil {
				return "", &Error{Kind: ErrUnboundVariable, Name: s.name, Origin: f.Origin}
			}
			b.WriteString(v)
		case patchSpan:
			return "", &Error{Kind: ErrExpression, Name: s.name, Origin: f.Origin}
		}
	}
	return b.String(), nil
}
