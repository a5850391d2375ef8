package render

import (
	"errors"
	"fmt"

	"github.com/treigua/caulk/internal/vars"
)

// Error kinds for a render pass. Every failure aborts the pass
// atomically; nothing is retried inside the engine.
var (
	// ErrUnboundVariable indicates a variable was referenced without a
	// default and is absent from the context. Same sentinel as the vars
	// package so callers can test either way.
	ErrUnboundVariable = vars.ErrUnbound

	// ErrExpression indicates a malformed expression site in a template.
	ErrExpression = errors.New("malformed expression")

	// ErrDuplicateDefinition indicates a reusable definition (anchor)
	// declared more than once in the composed document.
	ErrDuplicateDefinition = errors.New("duplicate definition")

	// ErrDanglingReference indicates an alias or merge key naming a
	// definition that was not declared earlier in the document.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrIndentationConflict indicates a fragment that cannot be
	// re-indented without corrupting structure.
	ErrIndentationConflict = errors.New("indentation conflict")
)

// Error is a structured render failure: the kind sentinel plus enough
// context for a CLI layer to present an actionable message.
type Error struct {
	// Kind is one of the package error sentinels.
	Kind error

	// Template names the template being rendered. Empty for failures
	// found in the composed document.
	Template string

	// Line and Column locate the failing site (1-based).
	Line   int
	Column int

	// Name is the offending identifier: variable, patch point, or
	// anchor name.
	Name string

	// Origin is the contributing plugin, when one is known.
	Origin string
}

func (e *Error) Error() string {
	var loc string
	switch {
	case e.Template != "" && e.Line > 0:
		loc = fmt.Sprintf("%s:%d:%d: ", e.Template, e.Line, e.Column)
	case e.Template != "":
		loc = e.Template + ": "
	case e.Line > 0:
		loc = fmt.Sprintf("document:%d:%d: ", e.Line, e.Column)
	}
	msg := fmt.Sprintf("%s%v: %s", loc, e.Kind, e.Name)
	if e.Origin != "" {
		msg += " (from " + e.Origin + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}
