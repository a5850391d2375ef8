package cmd

import (
	"github.com/treigua/caulk/internal/config"
	"github.com/treigua/caulk/internal/render"
)

// composeProject runs a full render pass for the project found at or
// above dir: snapshot the variable context, compile the templates,
// collect plugin patches, seal the registry, compose.
func composeProject(dir string) (*render.Document, *config.Project, error) {
	project, err := config.Find(dir)
	if err != nil {
		return nil, nil, err
	}
	doc, err := composeIn(project)
	return doc, project, err
}

func composeIn(project *config.Project) (*render.Document, error) {
	ctx, err := project.Context()
	if err != nil {
		return nil, err
	}
	templates, err := project.Templates()
	if err != nil {
		return nil, err
	}

	reg := render.NewRegistry()
	if err := project.LoadPatches(reg); err != nil {
		return nil, err
	}
	reg.Seal()

	return render.Compose(templates, ctx, reg)
}
