package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
	"github.com/matzehuels/sceneforge/pkg/persist"
	"github.com/matzehuels/sceneforge/pkg/store"
	"github.com/matzehuels/sceneforge/pkg/viewport"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := persist.New(persist.NewDirBackend(t.TempDir()), persist.StaticPicker{})
	app := store.NewApp(store.Options{Repository: repo})
	ctrl := viewport.NewController(app, viewport.Options{Width: 120, Height: 90})

	loop := store.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()

	ts := httptest.NewServer(New(app, loop, ctrl, Options{}))
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
		ctrl.Close()
		_ = app.Close()
	})
	return ts
}

// call sends a JSON request and returns the status and body.
func call(t *testing.T, ts *httptest.Server, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func decodeBody[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func expectError(t *testing.T, status int, data []byte, wantStatus int, wantCode sferrors.Code) {
	t.Helper()
	if status != wantStatus {
		t.Errorf("status = %d, want %d (%s)", status, wantStatus, data)
		return
	}
	if got := decodeBody[errorBody](t, data).Error.Code; got != wantCode {
		t.Errorf("code = %s, want %s", got, wantCode)
	}
}

func TestRequiresProject(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/project", "/scene", "/tags", "/graph.svg"} {
		status, body := call(t, ts, http.MethodGet, path, nil)
		expectError(t, status, body, http.StatusConflict, sferrors.ErrCodeNoProject)
	}
	status, body := call(t, ts, http.MethodPost, "/scene/objects", createObjectRequest{Name: "Cube"})
	expectError(t, status, body, http.StatusConflict, sferrors.ErrCodeNoProject)
}

func TestObjectLifecycle(t *testing.T) {
	ts := newTestServer(t)

	status, body := call(t, ts, http.MethodPost, "/project", createProjectRequest{Name: "Demo"})
	if status != http.StatusCreated {
		t.Fatalf("create project = %d %s", status, body)
	}
	p := decodeBody[projectView](t, body)
	if p.Name != "Demo" || len(p.Scenes) != 1 || p.ActiveSceneID != p.Scenes[0].ID {
		t.Errorf("project = %+v", p)
	}

	status, body = call(t, ts, http.MethodPost, "/scene/objects", createObjectRequest{Name: "Cube"})
	if status != http.StatusCreated {
		t.Fatalf("create object = %d %s", status, body)
	}
	cube := decodeBody[objectView](t, body)

	status, body = call(t, ts, http.MethodPost, "/scene/objects", createObjectRequest{Name: "Child", ParentID: cube.ID})
	if status != http.StatusCreated {
		t.Fatalf("create child = %d %s", status, body)
	}
	child := decodeBody[objectView](t, body)
	if child.ParentID != cube.ID {
		t.Errorf("child parent = %q, want %q", child.ParentID, cube.ID)
	}

	status, body = call(t, ts, http.MethodPatch, "/scene/objects/"+cube.ID+"/transform",
		`{"position": {"x": 1, "y": 2, "z": 3}}`)
	if status != http.StatusOK {
		t.Fatalf("transform = %d %s", status, body)
	}
	moved := decodeBody[objectView](t, body)
	if pos := moved.Transform.Position; pos.X != 1 || pos.Y != 2 || pos.Z != 3 {
		t.Errorf("position = %v", pos)
	}
	if moved.Transform.Scale.X != 1 {
		t.Errorf("scale changed by a position-only patch: %v", moved.Transform.Scale)
	}

	status, body = call(t, ts, http.MethodPut, "/scene/objects/"+cube.ID+"/tags/hero", nil)
	if status != http.StatusOK || len(decodeBody[objectView](t, body).Tags) != 1 {
		t.Errorf("tag = %d %s", status, body)
	}

	status, body = call(t, ts, http.MethodPost, "/scene/objects/"+cube.ID+"/duplicate", nil)
	if status != http.StatusCreated {
		t.Fatalf("duplicate = %d %s", status, body)
	}
	dup := decodeBody[objectView](t, body)
	if dup.Name != "Cube (Copy)" || dup.ID == cube.ID || len(dup.Children) != 1 {
		t.Errorf("duplicate = %+v", dup)
	}

	status, body = call(t, ts, http.MethodGet, "/scene", nil)
	if status != http.StatusOK {
		t.Fatalf("scene = %d", status)
	}
	if roots := decodeBody[struct {
		RootObjects []objectView `json:"rootObjects"`
	}](t, body).RootObjects; len(roots) != 2 {
		t.Errorf("root objects = %d, want 2", len(roots))
	}

	status, body = call(t, ts, http.MethodPut, "/scene/objects/"+cube.ID+"/parent", parentRequest{ParentID: child.ID})
	expectError(t, status, body, http.StatusBadRequest, sferrors.ErrCodeCycle)

	status, body = call(t, ts, http.MethodPut, "/scene/objects/"+child.ID+"/parent", parentRequest{})
	if status != http.StatusOK || decodeBody[objectView](t, body).ParentID != "" {
		t.Errorf("reparent to root = %d %s", status, body)
	}

	status, body = call(t, ts, http.MethodPut, "/scene/objects/"+cube.ID+"/name", nameRequest{})
	expectError(t, status, body, http.StatusBadRequest, sferrors.ErrCodeInvalidName)

	status, body = call(t, ts, http.MethodPost, "/scene/objects", `{"name": `)
	expectError(t, status, body, http.StatusBadRequest, sferrors.ErrCodeInvalidInput)

	status, _ = call(t, ts, http.MethodDelete, "/scene/objects/"+cube.ID, nil)
	if status != http.StatusNoContent {
		t.Errorf("delete = %d", status)
	}
	status, body = call(t, ts, http.MethodGet, "/scene/objects/"+cube.ID, nil)
	expectError(t, status, body, http.StatusNotFound, sferrors.ErrCodeObjectNotFound)

	status, body = call(t, ts, http.MethodGet, "/project", nil)
	if status != http.StatusOK || !decodeBody[projectView](t, body).Modified {
		t.Errorf("project after edits = %d %s, want modified", status, body)
	}
}

func TestSave(t *testing.T) {
	ts := newTestServer(t)

	call(t, ts, http.MethodPost, "/project", createProjectRequest{Name: "Scratch"})
	// Without a path the save-as dialog is dismissed.
	status, body := call(t, ts, http.MethodPost, "/project/save", nil)
	if status != http.StatusNoContent {
		t.Errorf("canceled save = %d %s, want 204", status, body)
	}

	status, body = call(t, ts, http.MethodPost, "/project", createProjectRequest{Name: "Demo", Path: "demo"})
	if status != http.StatusCreated {
		t.Fatalf("create at path = %d %s", status, body)
	}
	call(t, ts, http.MethodPost, "/scene/objects", createObjectRequest{Name: "Cube"})
	status, body = call(t, ts, http.MethodPost, "/project/save", nil)
	if status != http.StatusOK {
		t.Fatalf("save = %d %s", status, body)
	}
	if p := decodeBody[projectView](t, body); p.Path != "demo" || p.Modified {
		t.Errorf("saved project = %+v", p)
	}

	status, body = call(t, ts, http.MethodPost, "/project", createProjectRequest{Name: "Again", Path: "demo"})
	expectError(t, status, body, http.StatusBadRequest, sferrors.ErrCodeInvalidPath)

	status, body = call(t, ts, http.MethodPost, "/project/open", pathRequest{Path: "missing"})
	expectError(t, status, body, http.StatusNotFound, sferrors.ErrCodeProjectNotFound)

	status, body = call(t, ts, http.MethodPost, "/project/open", pathRequest{Path: "demo"})
	if status != http.StatusOK || decodeBody[projectView](t, body).Scenes[0].Objects != 1 {
		t.Errorf("open = %d %s", status, body)
	}
}

func TestViewportAndSelection(t *testing.T) {
	ts := newTestServer(t)
	call(t, ts, http.MethodPost, "/project", createProjectRequest{Name: "Demo"})
	_, body := call(t, ts, http.MethodPost, "/scene/objects", createObjectRequest{Name: "Cube"})
	cube := decodeBody[objectView](t, body)

	status, body := call(t, ts, http.MethodPatch, "/viewport", `{"mode": "rotate", "snap": true}`)
	if status != http.StatusOK {
		t.Fatalf("patch viewport = %d %s", status, body)
	}
	if v := decodeBody[store.ViewportSettings](t, body); v.Mode != store.ModeRotate || !v.SnapEnabled || v.Space != store.SpaceGlobal {
		t.Errorf("settings = %+v", v)
	}
	status, body = call(t, ts, http.MethodPatch, "/viewport", `{"mode": "shear"}`)
	expectError(t, status, body, http.StatusBadRequest, sferrors.ErrCodeInvalidInput)

	status, body = call(t, ts, http.MethodPut, "/selection", selectionView{Selected: []string{"nope"}})
	expectError(t, status, body, http.StatusNotFound, sferrors.ErrCodeObjectNotFound)

	status, body = call(t, ts, http.MethodPost, "/viewport/click", clickRequest{X: 60, Y: 45})
	if status != http.StatusOK {
		t.Fatalf("click = %d %s", status, body)
	}
	if c := decodeBody[clickView](t, body); !c.Hit || c.ID != cube.ID {
		t.Errorf("click = %+v, want hit on %s", c, cube.ID)
	}
	_, body = call(t, ts, http.MethodGet, "/selection", nil)
	if sel := decodeBody[selectionView](t, body).Selected; len(sel) != 1 || sel[0] != cube.ID {
		t.Errorf("selection = %v", sel)
	}

	resp, err := ts.Client().Get(ts.URL + "/viewport/frame.png?w=64&h=48")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("frame = %v, want 64x48", b)
	}

	status, body = call(t, ts, http.MethodGet, "/viewport/frame.png?w=big", nil)
	expectError(t, status, body, http.StatusBadRequest, sferrors.ErrCodeInvalidInput)
}

func TestProjectTags(t *testing.T) {
	ts := newTestServer(t)
	call(t, ts, http.MethodPost, "/project", createProjectRequest{Name: "Demo"})

	status, body := call(t, ts, http.MethodPost, "/tags", tagRequest{Tag: "enemy"})
	if status != http.StatusCreated {
		t.Fatalf("add tag = %d %s", status, body)
	}
	if tags := decodeBody[tagsView](t, body).Tags; len(tags) != 1 || tags[0] != "enemy" {
		t.Errorf("tags = %v", tags)
	}
	status, body = call(t, ts, http.MethodPost, "/tags", tagRequest{Tag: "two words"})
	expectError(t, status, body, http.StatusBadRequest, sferrors.ErrCodeInvalidTag)

	if status, _ := call(t, ts, http.MethodDelete, "/tags/enemy", nil); status != http.StatusNoContent {
		t.Errorf("remove tag = %d", status)
	}
	status, body = call(t, ts, http.MethodDelete, "/tags/enemy", nil)
	expectError(t, status, body, http.StatusNotFound, sferrors.ErrCodeNotFound)
}

func TestGraph(t *testing.T) {
	ts := newTestServer(t)
	call(t, ts, http.MethodPost, "/project", createProjectRequest{Name: "Demo"})
	call(t, ts, http.MethodPost, "/scene/objects", createObjectRequest{Name: "Cube"})

	resp, err := ts.Client().Get(ts.URL + "/graph.svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("graph = %d %s", resp.StatusCode, data)
	}
	if !bytes.Contains(data, []byte("<svg")) || !bytes.Contains(data, []byte("Cube")) {
		t.Error("graph is not an SVG of the scene")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{persist.Canceled("save"), http.StatusNoContent},
		{sferrors.New(sferrors.ErrCodeSceneNotFound, "x"), http.StatusNotFound},
		{sferrors.New(sferrors.ErrCodeCycle, "x"), http.StatusBadRequest},
		{sferrors.New(sferrors.ErrCodeInvalidProject, "x"), http.StatusBadRequest},
		{sferrors.New(sferrors.ErrCodeNoProject, "x"), http.StatusConflict},
		{sferrors.New(sferrors.ErrCodeIO, "x"), http.StatusInternalServerError},
		{store.ErrLoopStopped, http.StatusServiceUnavailable},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
