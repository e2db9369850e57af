package store

import (
	"github.com/matzehuels/sceneforge/pkg/scene"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

// GizmoMode selects what a gizmo drag changes.
type GizmoMode string

const (
	ModeTranslate GizmoMode = "translate"
	ModeRotate    GizmoMode = "rotate"
	ModeScale     GizmoMode = "scale"
)

// Space selects the gizmo's axes: the object's own or the world's.
type Space string

const (
	SpaceLocal  Space = "local"
	SpaceGlobal Space = "global"
)

// DefaultSnapValue is the translate snapping step in world units.
const DefaultSnapValue = 1.0

// ParseMode validates a gizmo mode name.
func ParseMode(s string) (GizmoMode, error) {
	switch m := GizmoMode(s); m {
	case ModeTranslate, ModeRotate, ModeScale:
		return m, nil
	}
	return "", sferrors.New(sferrors.ErrCodeInvalidInput, "unknown gizmo mode %q (want translate, rotate or scale)", s)
}

// ParseSpace validates a gizmo space name.
func ParseSpace(s string) (Space, error) {
	switch sp := Space(s); sp {
	case SpaceLocal, SpaceGlobal:
		return sp, nil
	}
	return "", sferrors.New(sferrors.ErrCodeInvalidInput, "unknown space %q (want local or global)", s)
}

// ViewportSettings is the gizmo configuration.
type ViewportSettings struct {
	Mode        GizmoMode `json:"mode" toml:"mode"`
	Space       Space     `json:"space" toml:"space"`
	SnapEnabled bool      `json:"snap" toml:"snap"`
	SnapValue   float64   `json:"snapValue" toml:"snap_value"`
}

// DefaultViewportSettings returns translate mode in global space with
// snapping off.
func DefaultViewportSettings() ViewportSettings {
	return ViewportSettings{Mode: ModeTranslate, Space: SpaceGlobal, SnapValue: DefaultSnapValue}
}

// SceneAdapter mirrors a domain scene into a render scene.
type SceneAdapter interface {
	// SyncFromDomain rebuilds the render scene from s. A nil scene empties it.
	SyncFromDomain(s *scene.Scene)

	// UpdateObjectTransform sets the non-nil transform components of the
	// node mapped to id and reports whether such a node exists.
	UpdateObjectTransform(id string, position, rotation, scale *scene.Vector3) bool
}

// ViewportStore owns the gizmo settings and the render adapter.
type ViewportStore struct {
	app      *App
	settings ViewportSettings
	adapter  SceneAdapter
	notifier Notifier[ViewportEvent]
}

func newViewportStore(app *App) *ViewportStore {
	return &ViewportStore{app: app, settings: DefaultViewportSettings()}
}

// Subscribe registers fn for viewport events.
func (s *ViewportStore) Subscribe(fn func(ViewportEvent)) (cancel func()) {
	return s.notifier.Subscribe(fn)
}

// Settings returns the current gizmo settings.
func (s *ViewportStore) Settings() ViewportSettings { return s.settings }

// Mode returns the gizmo mode.
func (s *ViewportStore) Mode() GizmoMode { return s.settings.Mode }

// Space returns the gizmo space.
func (s *ViewportStore) Space() Space { return s.settings.Space }

// Adapter returns the render adapter, or nil before InitializeAdapter.
func (s *ViewportStore) Adapter() SceneAdapter { return s.adapter }

// SetMode changes the gizmo mode.
func (s *ViewportStore) SetMode(m GizmoMode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	if s.settings.Mode == m {
		return nil
	}
	s.settings.Mode = m
	s.notify(ModeChanged)
	return nil
}

// SetSpace changes the gizmo space.
func (s *ViewportStore) SetSpace(sp Space) error {
	if _, err := ParseSpace(string(sp)); err != nil {
		return err
	}
	if s.settings.Space == sp {
		return nil
	}
	s.settings.Space = sp
	s.notify(SpaceChanged)
	return nil
}

// SetSnapEnabled turns snapping on or off.
func (s *ViewportStore) SetSnapEnabled(on bool) {
	if s.settings.SnapEnabled == on {
		return
	}
	s.settings.SnapEnabled = on
	s.notify(SnapChanged)
}

// ToggleSnap flips snapping.
func (s *ViewportStore) ToggleSnap() { s.SetSnapEnabled(!s.settings.SnapEnabled) }

// SetSnapValue sets the snapping step. Values <= 0 are ignored.
func (s *ViewportStore) SetSnapValue(v float64) {
	if v <= 0 || v == s.settings.SnapValue {
		return
	}
	s.settings.SnapValue = v
	s.notify(SnapChanged)
}

// Apply sets every field of settings, validating mode and space first.
func (s *ViewportStore) Apply(settings ViewportSettings) error {
	if settings.Mode != "" {
		if _, err := ParseMode(string(settings.Mode)); err != nil {
			return err
		}
	}
	if settings.Space != "" {
		if _, err := ParseSpace(string(settings.Space)); err != nil {
			return err
		}
	}
	if settings.Mode != "" {
		_ = s.SetMode(settings.Mode)
	}
	if settings.Space != "" {
		_ = s.SetSpace(settings.Space)
	}
	s.SetSnapEnabled(settings.SnapEnabled)
	s.SetSnapValue(settings.SnapValue)
	return nil
}

// InitializeAdapter installs the render adapter and pushes the current
// scene into it. A nil adapter detaches the viewport.
func (s *ViewportStore) InitializeAdapter(a SceneAdapter) {
	if s.adapter == nil && a == nil {
		return
	}
	s.adapter = a
	s.notify(AdapterChanged)
	s.SyncScene()
}

// SyncScene rebuilds the render scene from the current domain scene. It
// reports false when no adapter is installed.
func (s *ViewportStore) SyncScene() bool {
	if s.adapter == nil {
		return false
	}
	s.adapter.SyncFromDomain(s.app.Scene.Scene())
	s.notify(SceneSynced)
	return true
}

// UpdateObjectTransform copies one object's domain transform to its render
// node without rebuilding the render scene.
func (s *ViewportStore) UpdateObjectTransform(id string) bool {
	if s.adapter == nil {
		return false
	}
	obj := s.app.Scene.FindObjectByID(id)
	if obj == nil {
		return false
	}
	t := obj.Transform
	return s.adapter.UpdateObjectTransform(id, &t.Position, &t.Rotation, &t.Scale)
}

func (s *ViewportStore) notify(kind ViewportEventKind) {
	s.app.logger.Debug("viewport changed", "kind", kind)
	s.notifier.Notify(ViewportEvent{Kind: kind, Settings: s.settings})
}
