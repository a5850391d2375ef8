package vars

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/uuid"
)

// defaultTemplates holds the built-in variable defaults for a
// deployment. Values may be small templates rendered with the sprig
// function map, so secrets get a fresh value per generation instead of
// a shared literal.
var defaultTemplates = map[string]string{
	"COMPOSE_PROJECT":     "platform",
	"DOCKER_REGISTRY":     "docker.io/",
	"PLATFORM_HOST":       "www.example.com",
	"ENABLE_HTTPS":        "false",
	"ENABLE_WEB_WORKERS":  "true",
	"WEB_REPLICAS":        "1",
	"WORKER_REPLICAS":     "1",
	"SECRET_KEY":          "{{ randAlphaNum 24 }}",
	"MYSQL_ROOT_PASSWORD": "{{ randAlphaNum 8 }}",
	"REDIS_PASSWORD":      "{{ randAlphaNum 16 }}",
}

// Defaults generates the built-in variable defaults. Generation
// happens here, before any render pass starts, so rendering itself
// stays deterministic for a given context.
func Defaults() (map[string]string, error) {
	values := make(map[string]string, len(defaultTemplates)+1)
	values["ID"] = uuid.NewString()

	// Stable iteration keeps error reporting deterministic.
	names := make([]string, 0, len(defaultTemplates))
	for name := range defaultTemplates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v, err := expand(defaultTemplates[name])
		if err != nil {
			return nil, fmt.Errorf("generate default %s: %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}

// expand renders a templated default value with the sprig functions.
// Plain literals pass through untouched.
func expand(raw string) (string, error) {
	if !strings.Contains(raw, "{{") {
		return raw, nil
	}
	tmpl, err := template.New("default").Funcs(sprig.TxtFuncMap()).Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse value template: %w", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, nil); err != nil {
		return "", fmt.Errorf("render value template: %w", err)
	}
	return b.String(), nil
}
