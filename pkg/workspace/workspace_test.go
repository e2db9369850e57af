package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	ws, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if ws.Path() != filepath.Join(dir, FileName) {
		t.Errorf("Path = %q", ws.Path())
	}

	st, err := ws.Get(ctx)
	if err != nil || st != nil {
		t.Fatalf("Get on empty workspace = %v, %v; want nil, nil", st, err)
	}

	if err := ws.Set(ctx, &State{Project: "demo", Backend: "dir", Scene: "s1"}); err != nil {
		t.Fatal(err)
	}
	st, err = ws.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Project != "demo" || st.Backend != "dir" || st.Scene != "s1" {
		t.Errorf("Get = %+v", st)
	}
	if st.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}

	if err := ws.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if err := ws.Clear(ctx); err != nil {
		t.Errorf("second Clear: %v", err)
	}
	if st, _ := ws.Get(ctx); st != nil {
		t.Errorf("Get after Clear = %+v", st)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	ws, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ws.Path(), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.Get(context.Background()); err == nil {
		t.Error("Get on a corrupt file succeeded")
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "sceneforge") {
		t.Errorf("ConfigDir = %q", dir)
	}
}
