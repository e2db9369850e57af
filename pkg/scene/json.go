package scene

import (
	"encoding/json"
	"fmt"
)

// GameObjectData is the file form of a game object and its subtree.
type GameObjectData struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Tags      []string         `json:"tags"`
	Transform *Transform       `json:"transform,omitempty"`
	Children  []GameObjectData `json:"children"`
}

// SceneData is the file form of a scene.
type SceneData struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	RootObjects []GameObjectData `json:"rootObjects"`
}

// ProjectData is the file form of a project.
type ProjectData struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Version       string      `json:"version"`
	Tags          []string    `json:"tags"`
	Scenes        []SceneData `json:"scenes"`
	ActiveSceneID *string     `json:"activeSceneId"`
}

// StripIDs clears the id of d and every descendant so that decoding assigns
// fresh ones.
func (d *GameObjectData) StripIDs() {
	d.ID = ""
	for i := range d.Children {
		d.Children[i].StripIDs()
	}
}

// Data returns the file form of g's subtree.
func (g *GameObject) Data() GameObjectData {
	t := g.Transform
	d := GameObjectData{
		ID:        g.id,
		Name:      g.Name,
		Tags:      append([]string{}, g.tags...),
		Transform: &t,
		Children:  make([]GameObjectData, 0, len(g.children)),
	}
	for _, c := range g.children {
		d.Children = append(d.Children, c.Data())
	}
	return d
}

// GameObjectFromData builds a detached subtree from its file form.
// Missing ids are generated, a missing transform is the identity and
// repeated tags are collapsed. Parent references are rebuilt.
func GameObjectFromData(d GameObjectData) *GameObject {
	id := d.ID
	if id == "" {
		id = NewID()
	}
	g := newGameObject(id, d.Name)
	if d.Transform != nil {
		g.Transform = *d.Transform
	}
	for _, t := range d.Tags {
		g.AddTag(t)
	}
	for _, cd := range d.Children {
		c := GameObjectFromData(cd)
		c.parent = g
		g.children = append(g.children, c)
	}
	return g
}

// Data returns the file form of the scene.
func (s *Scene) Data() SceneData {
	d := SceneData{
		ID:          s.id,
		Name:        s.Name,
		RootObjects: make([]GameObjectData, 0, len(s.roots)),
	}
	for _, r := range s.roots {
		d.RootObjects = append(d.RootObjects, r.Data())
	}
	return d
}

// SceneFromData builds a scene from its file form.
func SceneFromData(d SceneData) *Scene {
	id := d.ID
	if id == "" {
		id = NewID()
	}
	s := &Scene{Name: d.Name, id: id}
	for _, rd := range d.RootObjects {
		s.roots = append(s.roots, GameObjectFromData(rd))
	}
	return s
}

// Data returns the file form of the project.
func (p *Project) Data() ProjectData {
	d := ProjectData{
		ID:      p.id,
		Name:    p.Name,
		Version: p.Version,
		Tags:    append([]string{}, p.tags...),
		Scenes:  make([]SceneData, 0, len(p.scenes)),
	}
	if d.Version == "" {
		d.Version = DefaultVersion
	}
	for _, s := range p.scenes {
		d.Scenes = append(d.Scenes, s.Data())
	}
	if p.activeSceneID != "" {
		active := p.activeSceneID
		d.ActiveSceneID = &active
	}
	return d
}

// ProjectFromData builds a project from its file form. An active scene id
// that is absent or does not name a scene falls back to the first scene.
// The result is not validated; see [ParseProject].
func ProjectFromData(d ProjectData) *Project {
	id := d.ID
	if id == "" {
		id = NewID()
	}
	p := &Project{Name: d.Name, Version: d.Version, id: id}
	if p.Version == "" {
		p.Version = DefaultVersion
	}
	for _, t := range d.Tags {
		p.AddTag(t)
	}
	for _, sd := range d.Scenes {
		p.scenes = append(p.scenes, SceneFromData(sd))
	}
	if d.ActiveSceneID != nil && p.FindScene(*d.ActiveSceneID) != nil {
		p.activeSceneID = *d.ActiveSceneID
	} else if len(p.scenes) > 0 {
		p.activeSceneID = p.scenes[0].id
	}
	return p
}

// ParseProject decodes and validates a project file.
func ParseProject(data []byte) (*Project, error) {
	var d ProjectData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	p := ProjectFromData(d)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// MarshalJSON implements json.Marshaler.
func (g *GameObject) MarshalJSON() ([]byte, error) { return json.Marshal(g.Data()) }

// UnmarshalJSON implements json.Unmarshaler. The receiver's previous
// children are dropped; decoded children point back at the receiver.
func (g *GameObject) UnmarshalJSON(data []byte) error {
	var d GameObjectData
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	built := GameObjectFromData(d)
	*g = *built
	g.parent = nil
	for _, c := range g.children {
		c.parent = g
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s *Scene) MarshalJSON() ([]byte, error) { return json.Marshal(s.Data()) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var d SceneData
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*s = *SceneFromData(d)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *Project) MarshalJSON() ([]byte, error) { return json.Marshal(p.Data()) }

// UnmarshalJSON implements json.Unmarshaler. Unlike [ParseProject] it does
// not validate.
func (p *Project) UnmarshalJSON(data []byte) error {
	var d ProjectData
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*p = *ProjectFromData(d)
	return nil
}
