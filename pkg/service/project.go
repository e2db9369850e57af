package service

import (
	"encoding/json"

	"github.com/matzehuels/sceneforge/pkg/scene"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// DefaultSceneName names the scene every new project starts with.
const DefaultSceneName = "Main Scene"

// ProjectService creates, decodes and encodes projects.
type ProjectService struct{}

// CreateNewProject returns a project holding one empty, active scene.
func (ProjectService) CreateNewProject(name string) (*scene.Project, error) {
	if err := sferrors.ValidateName(name); err != nil {
		return nil, err
	}
	p := scene.NewProject(name)
	p.AddScene(scene.NewScene(DefaultSceneName))
	return p, nil
}

// LoadProject decodes and validates a project file.
func (ProjectService) LoadProject(data []byte) (*scene.Project, error) {
	p, err := scene.ParseProject(data)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeInvalidProject, err, "decode project")
	}
	return p, nil
}

// SaveProject encodes p in the compact file form.
func (ProjectService) SaveProject(p *scene.Project) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeInternal, err, "encode project")
	}
	return data, nil
}

// ExportProject encodes p with two-space indentation, the form written to
// project directories.
func (ProjectService) ExportProject(p *scene.Project) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrCodeInternal, err, "encode project")
	}
	return data, nil
}

// AddScene creates an empty scene in p. It becomes active if p had none.
func (ProjectService) AddScene(p *scene.Project, name string) (*scene.Scene, error) {
	if err := sferrors.ValidateName(name); err != nil {
		return nil, err
	}
	s := scene.NewScene(name)
	p.AddScene(s)
	return s, nil
}
