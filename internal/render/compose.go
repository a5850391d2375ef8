package render

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/treigua/caulk/internal/vars"
)

// Document is the immutable result of a successful compose pass.
type Document struct {
	// Text is the fully substituted output.
	Text string

	// Services lists the distinct keys of the top-level services
	// mapping, in document order, for the consumer to decide what to
	// start.
	Services []string
}

// Compose renders each template in order, joins the parts into one
// document, and validates the structural reuse constructs of the
// output: every alias or merge key must name a single definition
// declared earlier in the same document.
func Compose(templates []*Template, ctx *vars.Context, reg *Registry) (*Document, error) {
	parts := make([]string, 0, len(templates))
	for _, t := range templates {
		out, err := Render(t, ctx, reg)
		if err != nil {
			return nil, err
		}
		parts = append(parts, strings.TrimRight(out, "\n"))
	}

	doc := &Document{Text: strings.Join(parts, "\n\n") + "\n"}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// unknownAnchor extracts the anchor name from the parser's message for
// an alias that resolves to nothing. The parser rejects forward and
// missing references alike, which is exactly the document ordering
// rule the output format demands.
var unknownAnchor = regexp.MustCompile(`unknown anchor '([^']+)'`)

// validate checks the composed text for syntactic well-formedness and
// walks the node tree for duplicate anchors, then collects service
// names. Orchestration semantics are never interpreted here.
func validate(doc *Document) error {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(doc.Text), &root); err != nil {
		if m := unknownAnchor.FindStringSubmatch(err.Error()); m != nil {
			return &Error{Kind: ErrDanglingReference, Name: m[1]}
		}
		return fmt.Errorf("parse composed document: %w", err)
	}

	seen := make(map[string]bool)
	if err := walkAnchors(&root, seen); err != nil {
		return err
	}

	doc.Services = serviceNames(&root)
	return nil
}

// walkAnchors visits nodes in document order, recording anchor
// declarations and checking alias references against them.
func walkAnchors(n *yaml.Node, seen map[string]bool) error {
	if n.Anchor != "" {
		if seen[n.Anchor] {
			return &Error{Kind: ErrDuplicateDefinition, Name: n.Anchor, Line: n.Line, Column: n.Column}
		}
		seen[n.Anchor] = true
	}
	if n.Kind == yaml.AliasNode && !seen[n.Value] {
		return &Error{Kind: ErrDanglingReference, Name: n.Value, Line: n.Line, Column: n.Column}
	}
	for _, c := range n.Content {
		if err := walkAnchors(c, seen); err != nil {
			return err
		}
	}
	return nil
}

// serviceNames returns the keys of the top-level services mapping.
func serviceNames(root *yaml.Node) []string {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "services" {
			continue
		}
		section := top.Content[i+1]
		if section.Kind != yaml.MappingNode {
			return nil
		}
		names := make([]string, 0, len(section.Content)/2)
		for j := 0; j < len(section.Content); j += 2 {
			names = append(names, section.Content[j].Value)
		}
		return names
	}
	return nil
}
