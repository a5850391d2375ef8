package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSealed indicates a registration attempt after the registry was
// sealed for rendering.
var ErrSealed = errors.New("patch registry is sealed")

// Fragment is one contribution to a patch point.
type Fragment struct {
	// Point is the patch point the fragment targets.
	Point string

	// Body is the contributed text, possibly multi-line.
	Body string

	// Origin identifies the contributor, e.g. a plugin name.
	Origin string
}

// Registry is an ordered, append-only collection of patch fragments.
// Registration order is the sole tie-break for output ordering: first
// registered, first emitted. All contributions must be registered,
// and the registry sealed, before the first render pass starts.
type Registry struct {
	fragments []Fragment
	byPoint   map[string][]int
	sealed    bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byPoint: make(map[string][]int)}
}

// Register appends a fragment for point. Fails with ErrSealed once the
// registry has been sealed.
func (r *Registry) Register(point, body, origin string) error {
	if r.sealed {
		return fmt.Errorf("%w: cannot register %q from %s", ErrSealed, point, origin)
	}
	r.byPoint[point] = append(r.byPoint[point], len(r.fragments))
	r.fragments = append(r.fragments, Fragment{Point: point, Body: body, Origin: origin})
	return nil
}

// Seal freezes the registry. Registration and rendering are
// phase-separated so output stays deterministic regardless of how
// plugins were loaded.
func (r *Registry) Seal() {
	r.sealed = true
}

// Fragments returns the fragments registered for point, in
// registration order.
func (r *Registry) Fragments(point string) []Fragment {
	idxs := r.byPoint[point]
	frags := make([]Fragment, len(idxs))
	for i, idx := range idxs {
		frags[i] = r.fragments[idx]
	}
	return frags
}

// Points returns the distinct points with registered fragments, in
// first-registration order.
func (r *Registry) Points() []string {
	var points []string
	seen := make(map[string]bool)
	for _, f := range r.fragments {
		if !seen[f.Point] {
			seen[f.Point] = true
			points = append(points, f.Point)
		}
	}
	return points
}

// Resolve concatenates all fragments registered for point, each line
// after the first re-indented by indent columns so every line lands at
// the column of the patch reference it replaces. Zero registered
// fragments resolve to empty text; that is a no-op, not an error.
//
// Bodies are substituted as-is. The renderer expands variable
// expressions inside fragments before joining; Resolve is the raw
// form for callers that want registered text verbatim.
func (r *Registry) Resolve(point string, indent int) (string, error) {
	return joinFragments(r.Fragments(point), point, indent)
}

// joinFragments concatenates fragment bodies in order and re-indents
// every line after the first by indent columns.
func joinFragments(frags []Fragment, point string, indent int) (string, error) {
	if len(frags) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		body := strings.TrimRight(f.Body, "\n")
		for _, line := range strings.Split(body, "\n") {
			// A tab inside a fragment's own indentation cannot be
			// re-aligned to a fixed column in whitespace-sensitive
			// output.
			if ws := line[:len(line)-len(strings.TrimLeft(line, " \t"))]; strings.Contains(ws, "\t") {
				return "", &Error{Kind: ErrIndentationConflict, Name: point, Origin: f.Origin}
			}
		}
		parts = append(parts, body)
	}

	lines := strings.Split(strings.Join(parts, "\n"), "\n")
	prefix := strings.Repeat(" ", indent)
	for i := 1; i < len(lines); i++ {
		// Blank lines stay blank rather than gaining trailing spaces.
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n"), nil
}
