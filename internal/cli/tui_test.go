package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/store"
)

func newTestEditor(t *testing.T) (editorModel, *store.App, *int) {
	t.Helper()
	app := store.NewApp(store.Options{})
	if _, err := app.Project.CreateNewProject("Editor"); err != nil {
		t.Fatal(err)
	}
	saves := 0
	return newEditorModel(app, func() error { saves++; return nil }), app, &saves
}

func press(m editorModel, keys ...string) editorModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(editorModel)
	}
	return m
}

func TestEditorAddAndSelect(t *testing.T) {
	m, app, _ := newTestEditor(t)

	m = press(m, "a", "n", "a")
	if got := len(app.Scene.GetAllObjects()); got != 3 {
		t.Fatalf("objects = %d, want 3", got)
	}
	if got := len(m.rows); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}
	if m.rows[1].depth != 1 {
		t.Errorf("child row depth = %d, want 1", m.rows[1].depth)
	}

	// The cursor follows the newest object and drives the selection.
	id, ok := app.Selection.First()
	if !ok || id != m.current().ID() || m.cursor != 2 {
		t.Errorf("selection = %q (cursor %d), want the new root object", id, m.cursor)
	}

	m = press(m, "up")
	if id, _ := app.Selection.First(); id != m.rows[1].obj.ID() {
		t.Errorf("selection after up = %q, want the child", id)
	}
}

func TestEditorDeleteAndDuplicate(t *testing.T) {
	m, app, _ := newTestEditor(t)
	m = press(m, "a", "n", "up")

	m = press(m, "c")
	if got := len(app.Scene.Scene().RootObjects()); got != 2 {
		t.Fatalf("roots after duplicate = %d, want 2", got)
	}
	if got := len(app.Scene.GetAllObjects()); got != 4 {
		t.Fatalf("objects after duplicate = %d, want 4", got)
	}

	m = press(m, "d")
	if got := len(app.Scene.GetAllObjects()); got != 2 {
		t.Errorf("objects after delete = %d, want 2", got)
	}
	if len(m.rows) != 2 || m.current() == nil {
		t.Errorf("rows = %d, cursor on %v; want 2 rows and a valid cursor", len(m.rows), m.current())
	}
}

func TestEditorUnparent(t *testing.T) {
	m, app, _ := newTestEditor(t)
	m = press(m, "a", "n", "<")

	if got := len(app.Scene.Scene().RootObjects()); got != 2 {
		t.Errorf("roots = %d, want 2 after moving the child up", got)
	}
	if m.current().Parent() != nil {
		t.Error("cursor should stay on the moved object")
	}
}

func TestEditorNudge(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		get  func(scene.Transform) float64
		want float64
	}{
		{"translate x", []string{"+", "+"}, func(t scene.Transform) float64 { return t.Position.X }, 2},
		{"translate y back", []string{"y", "-"}, func(t scene.Transform) float64 { return t.Position.Y }, -1},
		{"translate snapped", []string{"s", "+"}, func(t scene.Transform) float64 { return t.Position.X }, store.DefaultSnapValue},
		{"rotate z", []string{"e", "z", "+"}, func(t scene.Transform) float64 { return t.Rotation.Z }, 15},
		{"scale x", []string{"r", "+"}, func(t scene.Transform) float64 { return t.Scale.X }, 1.1},
		{"scale floor", []string{"r", "-", "-", "-", "-", "-", "-", "-", "-", "-", "-", "-"}, func(t scene.Transform) float64 { return t.Scale.X }, minNudgeScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestEditor(t)
			m = press(m, "a")
			m = press(m, tt.keys...)
			if got := tt.get(m.current().Transform); !near64(got, tt.want) {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEditorGizmoKeys(t *testing.T) {
	m, app, _ := newTestEditor(t)
	m = press(m, "e", "g", "s")

	vs := app.Viewport.Settings()
	if vs.Mode != store.ModeRotate || vs.Space != store.SpaceLocal || !vs.SnapEnabled {
		t.Errorf("settings = %+v, want rotate, local, snapping", vs)
	}
	m = press(m, "g")
	if app.Viewport.Space() != store.SpaceGlobal {
		t.Errorf("space = %v, want global after second toggle", app.Viewport.Space())
	}
	if !strings.Contains(m.View(), "rotate") {
		t.Error("view should show the gizmo mode")
	}
}

func TestEditorSaveAndQuit(t *testing.T) {
	m, _, saves := newTestEditor(t)
	m = press(m, "ctrl+s")
	if *saves != 1 || m.status != "saved" {
		t.Errorf("saves = %d, status = %q; want 1, saved", *saves, m.status)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestEditorViewEmptyScene(t *testing.T) {
	m, _, _ := newTestEditor(t)
	view := m.View()
	for _, want := range []string{"Editor / Main Scene", "press a to add"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func near64(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
