package store

// ProjectEventKind classifies project changes.
type ProjectEventKind string

const (
	ProjectOpened   ProjectEventKind = "opened"
	ProjectClosed   ProjectEventKind = "closed"
	ProjectSaved    ProjectEventKind = "saved"
	ProjectModified ProjectEventKind = "modified"
	SceneSwitched   ProjectEventKind = "scene_switched"
	ScenesChanged   ProjectEventKind = "scenes_changed"
	ProjectTags     ProjectEventKind = "tags_changed"
)

// ProjectEvent is published by the ProjectStore.
type ProjectEvent struct {
	Kind ProjectEventKind
	Path string
}

// SceneEventKind classifies scene changes.
type SceneEventKind string

const (
	SceneLoaded      SceneEventKind = "loaded"
	ObjectCreated    SceneEventKind = "created"
	ObjectDeleted    SceneEventKind = "deleted"
	ObjectDuplicated SceneEventKind = "duplicated"
	ObjectReparented SceneEventKind = "reparented"
	ObjectRenamed    SceneEventKind = "renamed"
	ObjectTagged     SceneEventKind = "tagged"
	ObjectMoved      SceneEventKind = "transform"
)

// SceneEvent is published by the SceneStore. ObjectID is empty for
// SceneLoaded.
type SceneEvent struct {
	Kind     SceneEventKind
	ObjectID string
}

// Structural reports whether the event changed the shape of the tree.
func (e SceneEvent) Structural() bool {
	switch e.Kind {
	case ObjectCreated, ObjectDeleted, ObjectDuplicated, ObjectReparented:
		return true
	}
	return false
}

// SelectionEvent carries the new selection.
type SelectionEvent struct {
	Selected []string
}

// ViewportEventKind classifies viewport changes.
type ViewportEventKind string

const (
	ModeChanged    ViewportEventKind = "mode"
	SpaceChanged   ViewportEventKind = "space"
	SnapChanged    ViewportEventKind = "snap"
	AdapterChanged ViewportEventKind = "adapter"
	SceneSynced    ViewportEventKind = "synced"
)

// ViewportEvent is published by the ViewportStore.
type ViewportEvent struct {
	Kind     ViewportEventKind
	Settings ViewportSettings
}
