package service

import (
	"slices"
	"testing"

	"github.com/matzehuels/sceneforge/pkg/scene"
)

func TestGetAllProjectTags(t *testing.T) {
	var tags TagService
	p := scene.NewProject("P")
	p.AddTag("zone")
	p.AddTag("enemy")

	s1 := scene.NewScene("one")
	a := scene.NewGameObject("a")
	a.AddTag("enemy")
	a.AddTag("boss")
	s1.AddObject(a)
	p.AddScene(s1)

	s2 := scene.NewScene("two")
	b := scene.NewGameObject("b")
	c := scene.NewGameObject("c")
	c.AddTag("light")
	_ = b.AddChild(c)
	s2.AddObject(b)
	p.AddScene(s2)

	want := []string{"boss", "enemy", "light", "zone"}
	if got := tags.GetAllProjectTags(p); !slices.Equal(got, want) {
		t.Errorf("GetAllProjectTags() = %v, want %v", got, want)
	}

	found := tags.FindObjectsWithTag(p, "enemy")
	if len(found) != 1 || found[0] != a {
		t.Errorf("FindObjectsWithTag(enemy) = %v", found)
	}
	if found := tags.FindObjectsWithTag(p, "light"); len(found) != 1 || found[0] != c {
		t.Error("nested tagged object not found")
	}
}

func TestProjectTagCRUD(t *testing.T) {
	var tags TagService
	p := scene.NewProject("P")
	obj := scene.NewGameObject("g")
	obj.AddTag("shared")

	if err := tags.AddTagToProject(p, "shared"); err != nil {
		t.Fatal(err)
	}
	if err := tags.AddTagToProject(p, "bad tag"); err == nil {
		t.Error("tag with whitespace accepted")
	}
	if !tags.RemoveTagFromProject(p, "shared") {
		t.Error("RemoveTagFromProject = false")
	}
	if !obj.HasTag("shared") {
		t.Error("project tag removal touched object tags")
	}
	if tags.RemoveTagFromProject(p, "shared") {
		t.Error("second removal = true")
	}
}

func TestObjectTags(t *testing.T) {
	var tags TagService
	obj := scene.NewGameObject("g")
	_ = tags.AddTagToObject(obj, "a")
	_ = tags.AddTagToObject(obj, "a")
	if len(obj.Tags()) != 1 {
		t.Errorf("tag count = %d, want 1", len(obj.Tags()))
	}
	if tags.RemoveTagFromObject(obj, "b") {
		t.Error("removing absent tag = true")
	}
}
