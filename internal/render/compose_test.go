package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treigua/caulk/internal/vars"
)

const inheritanceTemplate = `x-service: &base
  restart: unless-stopped
  image: ${PLATFORM_IMAGE:-platform:latest}
services:
  web:
    <<: *base
    ports:
      - "8000:8000"
  worker:
    <<: *base
    command: run-worker
`

func TestCompose_InheritanceResolves(t *testing.T) {
	tmpl := mustCompile(t, "base.yml", inheritanceTemplate)

	doc, err := Compose([]*Template{tmpl}, vars.New(nil), NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "worker"}, doc.Services)
	assert.Contains(t, doc.Text, "&base")
}

func TestCompose_DanglingReference(t *testing.T) {
	tmpl := mustCompile(t, "base.yml", `x-service: &base
  restart: unless-stopped
services:
  web:
    <<: *undeclared
`)

	_, err := Compose([]*Template{tmpl}, vars.New(nil), NewRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingReference)

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "undeclared", re.Name)
}

func TestCompose_DuplicateDefinition(t *testing.T) {
	tmpl := mustCompile(t, "base.yml", `x-one: &base
  restart: always
x-two: &base
  restart: never
services:
  web:
    <<: *base
`)

	_, err := Compose([]*Template{tmpl}, vars.New(nil), NewRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateDefinition)

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "base", re.Name)
}

func TestCompose_MultipleTemplates(t *testing.T) {
	services := mustCompile(t, "services.yml", "services:\n  web:\n    image: nginx\n  {{patch('extra-services')}}\n")
	volumes := mustCompile(t, "volumes.yml", "volumes:\n  data: {}\n")
	reg := NewRegistry()
	require.NoError(t, reg.Register("extra-services", "cache:\n  image: redis:${REDIS_TAG:-7}", "cache-plugin"))
	reg.Seal()

	doc, err := Compose([]*Template{services, volumes}, vars.New(nil), reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"web", "cache"}, doc.Services)
	assert.Contains(t, doc.Text, "image: redis:7")
	assert.Contains(t, doc.Text, "volumes:\n  data: {}")
}

func TestCompose_FragmentBreakingStructureFails(t *testing.T) {
	tmpl := mustCompile(t, "base.yml", "services:\n  {{patch('svc')}}\n")
	reg := NewRegistry()
	require.NoError(t, reg.Register("svc", "not yaml: [unclosed", "broken-plugin"))

	_, err := Compose([]*Template{tmpl}, vars.New(nil), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse composed document")
}

func TestCompose_RenderFailurePropagates(t *testing.T) {
	tmpl := mustCompile(t, "base.yml", "image: ${MISSING}\n")

	doc, err := Compose([]*Template{tmpl}, vars.New(nil), NewRegistry())
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrUnboundVariable)
}

func TestCompose_NoServicesSection(t *testing.T) {
	tmpl := mustCompile(t, "volumes.yml", "volumes:\n  data: {}\n")

	doc, err := Compose([]*Template{tmpl}, vars.New(nil), NewRegistry())
	require.NoError(t, err)
	assert.Empty(t, doc.Services)
}

func TestCompose_Deterministic(t *testing.T) {
	tmpl := mustCompile(t, "base.yml", inheritanceTemplate)
	ctx := vars.New(map[string]string{"PLATFORM_IMAGE": "platform:1.2"})
	reg := NewRegistry()
	reg.Seal()

	first, err := Compose([]*Template{tmpl}, ctx, reg)
	require.NoError(t, err)
	second, err := Compose([]*Template{tmpl}, ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Services, second.Services)
}

func TestCompose_AnchorContributedByPatch(t *testing.T) {
	tmpl := mustCompile(t, "base.yml", `x-defaults:
  {{patch('shared-defaults')}}
services:
  web:
    <<: *worker-base
`)
	reg := NewRegistry()
	require.NoError(t, reg.Register("shared-defaults", "base: &worker-base\n  restart: unless-stopped", "worker-plugin"))

	doc, err := Compose([]*Template{tmpl}, vars.New(nil), reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, doc.Services)
}
