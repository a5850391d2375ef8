// Package render implements the template and patch composition engine
// for deployment manifests.
//
// Base templates declare variable expressions and named patch points;
// plugins contribute fragments against those points before rendering
// begins. The engine substitutes both into a single deterministic
// YAML document. The pipeline is:
//
//   - Compile parses template text once into typed spans
//     (literal, expression, patch reference)
//   - Render evaluates spans left to right against a variable context
//     and a sealed patch registry
//   - Compose joins the rendered templates and validates the result
//     structurally (anchors, aliases, merge keys)
//
// # Template Syntax
//
// Variable expressions use upper-case names with an optional fallback:
//
//	image: ${DOCKER_REGISTRY:-docker.io/}platform:${VERSION}
//
// Patch references name an extension point. Fragments registered
// against the point are emitted in registration order, re-indented to
// the reference's column:
//
//	services:
//	  {{patch("extra-services")}}
//
// A point with no registered fragments renders as empty text; that is
// not an error, so base templates can declare extension points
// speculatively.
//
// Conditional blocks include their content only when the named
// variable is set to something other than an empty string, "false",
// "no", "off", or "0". Blocks cannot nest:
//
//	{{if ENABLE_WEB_WORKERS}}
//	worker:
//	  command: run-worker
//	{{end}}
//
// The engine performs no I/O. Templates, variables, and fragments are
// supplied in memory by the caller, and a failed pass returns no
// partial output.
package render
