package vars

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	ctx := New(map[string]string{"PLATFORM_HOST": "platform.local"})

	v, err := ctx.Resolve("PLATFORM_HOST")
	require.NoError(t, err)
	assert.Equal(t, "platform.local", v)
}

func TestResolve_Unbound(t *testing.T) {
	ctx := New(nil)

	_, err := ctx.Resolve("MISSING")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnbound)
	assert.Contains(t, err.Error(), "MISSING")
}

func TestResolveDefault(t *testing.T) {
	ctx := New(map[string]string{"SET": "value"})

	assert.Equal(t, "value", ctx.ResolveDefault("SET", "fallback"))
	assert.Equal(t, "fallback", ctx.ResolveDefault("UNSET", "fallback"))
}

func TestResolveDefault_EmptyDefault(t *testing.T) {
	ctx := New(nil)
	assert.Equal(t, "", ctx.ResolveDefault("UNSET", ""))
}

func TestNew_Snapshot(t *testing.T) {
	source := map[string]string{"KEY": "original"}
	ctx := New(source)

	// Mutating the source after construction must not affect the context.
	source["KEY"] = "changed"
	source["EXTRA"] = "added"

	v, err := ctx.Resolve("KEY")
	require.NoError(t, err)
	assert.Equal(t, "original", v)

	_, err = ctx.Resolve("EXTRA")
	assert.ErrorIs(t, err, ErrUnbound)
}

func TestNames_Sorted(t *testing.T) {
	ctx := New(map[string]string{"B": "2", "A": "1", "C": "3"})
	assert.Equal(t, []string{"A", "B", "C"}, ctx.Names())
}

func TestDefaults(t *testing.T) {
	values, err := Defaults()
	require.NoError(t, err)

	// Literal defaults pass through untouched.
	assert.Equal(t, "platform", values["COMPOSE_PROJECT"])
	assert.Equal(t, "false", values["ENABLE_HTTPS"])

	// Templated defaults are generated, not left as template text.
	assert.Len(t, values["SECRET_KEY"], 24)
	assert.NotContains(t, values["SECRET_KEY"], "{{")
	assert.Len(t, values["MYSQL_ROOT_PASSWORD"], 8)

	// The instance id is a valid UUID.
	_, err = uuid.Parse(values["ID"])
	assert.NoError(t, err)
}

func TestDefaults_FreshSecrets(t *testing.T) {
	first, err := Defaults()
	require.NoError(t, err)
	second, err := Defaults()
	require.NoError(t, err)

	assert.NotEqual(t, first["SECRET_KEY"], second["SECRET_KEY"])
	assert.NotEqual(t, first["ID"], second["ID"])
}
