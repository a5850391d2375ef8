package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treigua/caulk/internal/fileutil"
	"github.com/treigua/caulk/internal/render"
)

var update = flag.Bool("update", false, "update golden files")

func TestComposeProject_Golden(t *testing.T) {
	doc, project, err := composeProject(filepath.Join("testdata", "project"))
	require.NoError(t, err)
	require.NotNil(t, project)

	assert.Equal(t, []string{"web", "worker", "watcher", "redis"}, doc.Services)

	goldenPath := filepath.Join("testdata", "golden", "docker-compose.yml")
	if *update {
		require.NoError(t, os.WriteFile(goldenPath, []byte(doc.Text), 0644))
		return
	}

	expected, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t, string(expected), doc.Text)
}

func TestComposeProject_Reproducible(t *testing.T) {
	first, _, err := composeProject(filepath.Join("testdata", "project"))
	require.NoError(t, err)
	second, _, err := composeProject(filepath.Join("testdata", "project"))
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
}

func TestComposeProject_NoProject(t *testing.T) {
	_, _, err := composeProject(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project root not found")
}

func TestComposeProject_UnboundVariable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "caulk.yml"), []byte("{}\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "templates"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "templates", "base.yml"), []byte("image: ${NOT_CONFIGURED}\n"), 0644))

	_, _, err := composeProject(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnboundVariable)
}

func TestCheckDrift(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "docker-compose.yml")
	doc := &render.Document{Text: "services: {}\n"}

	// Missing output counts as drift.
	drifted, err := checkDrift(doc, outPath)
	require.NoError(t, err)
	assert.True(t, drifted)

	// Matching output is clean.
	require.NoError(t, fileutil.WriteFileAtomic(outPath, []byte(doc.Text), 0644))
	drifted, err = checkDrift(doc, outPath)
	require.NoError(t, err)
	assert.False(t, drifted)

	// A changed file drifts.
	require.NoError(t, fileutil.WriteFileAtomic(outPath, []byte("services:\n  stale: {}\n"), 0644))
	drifted, err = checkDrift(doc, outPath)
	require.NoError(t, err)
	assert.True(t, drifted)
}
