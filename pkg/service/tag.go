package service

import (
	"slices"

	"github.com/matzehuels/sceneforge/pkg/scene"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// TagService aggregates and edits tags across a project.
type TagService struct{}

// GetAllProjectTags returns the sorted union of the project-level tags and
// every tag on every object in every scene, without duplicates.
func (TagService) GetAllProjectTags(p *scene.Project) []string {
	set := make(map[string]struct{})
	for _, t := range p.Tags() {
		set[t] = struct{}{}
	}
	for _, s := range p.Scenes() {
		s.Walk(func(g *scene.GameObject) bool {
			for _, t := range g.Tags() {
				set[t] = struct{}{}
			}
			return true
		})
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// AddTagToProject adds a project-level tag. Adding an existing tag is a no-op.
func (TagService) AddTagToProject(p *scene.Project, tag string) error {
	if err := sferrors.ValidateTag(tag); err != nil {
		return err
	}
	p.AddTag(tag)
	return nil
}

// RemoveTagFromProject removes a project-level tag and reports whether it
// was present. Object tags are not touched.
func (TagService) RemoveTagFromProject(p *scene.Project, tag string) bool {
	return p.RemoveTag(tag)
}

// AddTagToObject attaches a tag to obj. Adding an existing tag is a no-op.
func (TagService) AddTagToObject(obj *scene.GameObject, tag string) error {
	if err := sferrors.ValidateTag(tag); err != nil {
		return err
	}
	obj.AddTag(tag)
	return nil
}

// RemoveTagFromObject detaches a tag and reports whether it was present.
func (TagService) RemoveTagFromObject(obj *scene.GameObject, tag string) bool {
	return obj.RemoveTag(tag)
}

// FindObjectsWithTag returns every object carrying tag, scenes in order and
// objects in pre-order within each scene.
func (TagService) FindObjectsWithTag(p *scene.Project, tag string) []*scene.GameObject {
	var out []*scene.GameObject
	for _, s := range p.Scenes() {
		s.Walk(func(g *scene.GameObject) bool {
			if g.HasTag(tag) {
				out = append(out, g)
			}
			return true
		})
	}
	return out
}
