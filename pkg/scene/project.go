package scene

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultVersion is the project file version written by this package.
const DefaultVersion = "1.0.0"

// ErrInvalidProject is wrapped by [Project.Validate] and the decoding
// functions when the structure breaks a tree or identity invariant.
var ErrInvalidProject = errors.New("invalid project")

// Project is a named collection of scenes plus metadata; the unit of save
// and load.
//
// The active scene id is empty or names a scene in the project. Removing the
// active scene moves it to the first remaining scene.
type Project struct {
	Name    string
	Version string

	id            string
	scenes        []*Scene
	activeSceneID string
	tags          []string
}

// NewProject creates an empty project with a fresh id.
func NewProject(name string) *Project {
	return &Project{Name: name, Version: DefaultVersion, id: NewID()}
}

// ID returns the project identifier.
func (p *Project) ID() string { return p.id }

// Scenes returns a copy of the scene list.
func (p *Project) Scenes() []*Scene { return slices.Clone(p.scenes) }

// ActiveSceneID returns the active scene id, or "" when there is none.
func (p *Project) ActiveSceneID() string { return p.activeSceneID }

// ActiveScene returns the active scene or nil.
func (p *Project) ActiveScene() *Scene { return p.FindScene(p.activeSceneID) }

// FindScene returns the scene with the given id or nil.
func (p *Project) FindScene(id string) *Scene {
	if id == "" {
		return nil
	}
	for _, s := range p.scenes {
		if s.id == id {
			return s
		}
	}
	return nil
}

// AddScene appends s. The first scene added becomes active.
func (p *Project) AddScene(s *Scene) {
	if s == nil || slices.Contains(p.scenes, s) {
		return
	}
	p.scenes = append(p.scenes, s)
	if p.activeSceneID == "" {
		p.activeSceneID = s.id
	}
}

// RemoveScene removes the scene with the given id and reports whether it
// existed. If it was active, the first remaining scene becomes active.
func (p *Project) RemoveScene(id string) bool {
	i := slices.IndexFunc(p.scenes, func(s *Scene) bool { return s.id == id })
	if i < 0 {
		return false
	}
	p.scenes = slices.Delete(p.scenes, i, i+1)
	if p.activeSceneID == id {
		p.activeSceneID = ""
		if len(p.scenes) > 0 {
			p.activeSceneID = p.scenes[0].id
		}
	}
	return true
}

// SetActiveScene activates the scene with the given id.
// Unknown ids are ignored and reported as false.
func (p *Project) SetActiveScene(id string) bool {
	if p.FindScene(id) == nil {
		return false
	}
	p.activeSceneID = id
	return true
}

// Tags returns a copy of the project-level tags.
func (p *Project) Tags() []string { return slices.Clone(p.tags) }

// HasTag reports whether the project-level tag exists.
func (p *Project) HasTag(tag string) bool { return slices.Contains(p.tags, tag) }

// AddTag adds a project-level tag and reports whether it was new.
func (p *Project) AddTag(tag string) bool {
	if p.HasTag(tag) {
		return false
	}
	p.tags = append(p.tags, tag)
	return true
}

// RemoveTag removes a project-level tag and reports whether it was present.
func (p *Project) RemoveTag(tag string) bool {
	i := slices.Index(p.tags, tag)
	if i < 0 {
		return false
	}
	p.tags = slices.Delete(p.tags, i, i+1)
	return true
}

// FindObjectByID searches every scene in order.
func (p *Project) FindObjectByID(id string) (*GameObject, *Scene) {
	for _, s := range p.scenes {
		if g := s.FindObjectByID(id); g != nil {
			return g, s
		}
	}
	return nil, nil
}

// Validate checks the structural invariants of the whole project:
//   - scene and object ids are non-empty and unique across the project
//   - roots have no parent and every child points back at its parent
//   - no object is reachable twice (no sharing, no cycles)
//   - no tag list holds a duplicate
//   - the active scene id is empty or names a scene in the project
//
// The returned error wraps [ErrInvalidProject].
func (p *Project) Validate() error {
	ids := make(map[string]bool)
	seen := make(map[*GameObject]bool)

	if dup := firstDuplicate(p.tags); dup != "" {
		return invalidf("project tag %q is duplicated", dup)
	}
	for _, s := range p.scenes {
		if s.id == "" {
			return invalidf("scene %q has no id", s.Name)
		}
		if ids[s.id] {
			return invalidf("duplicate id %s", s.id)
		}
		ids[s.id] = true
		for _, r := range s.roots {
			if r.parent != nil {
				return invalidf("root %s has a parent", r.id)
			}
			if err := validateSubtree(r, ids, seen, 0); err != nil {
				return err
			}
		}
	}
	if p.activeSceneID != "" && p.FindScene(p.activeSceneID) == nil {
		return invalidf("active scene %s is not in the project", p.activeSceneID)
	}
	return nil
}

func validateSubtree(g *GameObject, ids map[string]bool, seen map[*GameObject]bool, depth int) error {
	if depth > maxDepth {
		return invalidf("object %s is nested too deeply", g.id)
	}
	if seen[g] {
		return invalidf("object %s is reachable more than once", g.id)
	}
	seen[g] = true
	if g.id == "" {
		return invalidf("object %q has no id", g.Name)
	}
	if ids[g.id] {
		return invalidf("duplicate id %s", g.id)
	}
	ids[g.id] = true
	if dup := firstDuplicate(g.tags); dup != "" {
		return invalidf("object %s has duplicate tag %q", g.id, dup)
	}
	for _, c := range g.children {
		if c.parent != g {
			return invalidf("object %s does not point back at parent %s", c.id, g.id)
		}
		if err := validateSubtree(c, ids, seen, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func firstDuplicate(list []string) string {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		if seen[v] {
			return v
		}
		seen[v] = true
	}
	return ""
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProject, fmt.Sprintf(format, args...))
}
