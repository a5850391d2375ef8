// Package config handles project discovery and configuration.
//
// A caulk project is a directory containing caulk.yml (variable
// overrides), templates/ (base templates), and optionally plugins/
// with per-plugin patch fragments. This package does all filesystem
// work so the render engine stays I/O free.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/treigua/caulk/internal/fileutil"
	"github.com/treigua/caulk/internal/render"
	"github.com/treigua/caulk/internal/vars"
)

const (
	// VariablesFile is the project variables file name.
	VariablesFile = "caulk.yml"

	// OutputFile is the composed manifest path relative to the root.
	OutputFile = "output/docker-compose.yml"
)

// Project is a discovered caulk project.
type Project struct {
	// Root is the project root directory (contains caulk.yml).
	Root string
}

// Find searches upward from dir for a directory containing caulk.yml.
func Find(dir string) (*Project, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve start directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, VariablesFile)); err == nil {
			return &Project{Root: dir}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil, fmt.Errorf("project root not found (no %s in any parent directory)", VariablesFile)
}

// TemplatesDir returns the path to the base templates directory.
func (p *Project) TemplatesDir() string {
	return filepath.Join(p.Root, "templates")
}

// PluginsDir returns the path to the plugins directory.
func (p *Project) PluginsDir() string {
	return filepath.Join(p.Root, "plugins")
}

// OutputPath returns the path the composed manifest is written to.
func (p *Project) OutputPath() string {
	return filepath.Join(p.Root, filepath.FromSlash(OutputFile))
}

// Variables loads the project's variable overrides from caulk.yml.
// Scalar values of any YAML type are stringified.
func (p *Project) Variables() (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(p.Root, VariablesFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", VariablesFile, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", VariablesFile, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[k] = toString(v)
	}
	return values, nil
}

// Context builds the variable context for a render pass: generated
// defaults overlaid by the project's explicit values. The result is a
// snapshot; later edits to caulk.yml do not affect an ongoing pass.
func (p *Project) Context() (*vars.Context, error) {
	values, err := vars.Defaults()
	if err != nil {
		return nil, err
	}
	overrides, err := p.Variables()
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		values[k] = v
	}
	return vars.New(values), nil
}

// SaveVariables writes values to caulk.yml atomically, persisting
// generated defaults so later renders are reproducible.
func (p *Project) SaveVariables(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal variables: %w", err)
	}
	return fileutil.WriteFileAtomic(filepath.Join(p.Root, VariablesFile), data, 0644)
}

// Templates compiles the base templates under templates/, in lexical
// file order so composition is deterministic.
func (p *Project) Templates() ([]*render.Template, error) {
	entries, err := os.ReadDir(p.TemplatesDir())
	if err != nil {
		return nil, fmt.Errorf("read templates directory: %w", err)
	}

	var templates []*render.Template
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(p.TemplatesDir(), entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", entry.Name(), err)
		}
		tmpl, err := render.Compile(entry.Name(), string(data))
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("no templates found in %s", p.TemplatesDir())
	}
	return templates, nil
}

// LoadPatches registers every plugin patch fragment into reg. Plugins
// load in lexical name order and, within a plugin, patch files in
// lexical order; the resulting registration order is the contribution
// order the engine preserves. A project without plugins is fine.
func (p *Project) LoadPatches(reg *render.Registry) error {
	plugins, err := os.ReadDir(p.PluginsDir())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read plugins directory: %w", err)
	}

	for _, plugin := range plugins {
		if !plugin.IsDir() {
			continue
		}
		patchesDir := filepath.Join(p.PluginsDir(), plugin.Name(), "patches")
		patches, err := os.ReadDir(patchesDir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read patches for plugin %s: %w", plugin.Name(), err)
		}

		// os.ReadDir returns entries in lexical order already.
		for _, patch := range patches {
			if patch.IsDir() {
				continue
			}
			body, err := os.ReadFile(filepath.Join(patchesDir, patch.Name()))
			if err != nil {
				return fmt.Errorf("read patch %s of plugin %s: %w", patch.Name(), plugin.Name(), err)
			}
			if err := reg.Register(patch.Name(), string(body), plugin.Name()); err != nil {
				return err
			}
		}
	}
	return nil
}

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yml" || ext == ".yaml"
}

// toString converts a scalar YAML value to its string representation.
func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return fmt.Sprintf("%t", val)
	case int, int64:
		return fmt.Sprintf("%d", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
