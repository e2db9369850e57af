package scene

import (
	"errors"
	"slices"
	"testing"
)

func names(objs []*GameObject) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Name
	}
	return out
}

func TestNewGameObject(t *testing.T) {
	a := NewGameObject("A")
	b := NewGameObject("A")

	if a.ID() == "" {
		t.Fatal("ID() is empty")
	}
	if a.ID() == b.ID() {
		t.Errorf("two objects share id %s", a.ID())
	}
	if a.Transform != NewTransform() {
		t.Errorf("Transform = %+v, want identity", a.Transform)
	}
	if a.Parent() != nil || a.ChildCount() != 0 || len(a.Tags()) != 0 {
		t.Error("new object should be detached, childless and untagged")
	}
}

func TestAddChild(t *testing.T) {
	parent := NewGameObject("parent")
	child := NewGameObject("child")

	if err := parent.AddChild(child); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if child.Parent() != parent {
		t.Errorf("child.Parent() = %v, want parent", child.Parent())
	}
	if got := names(parent.Children()); !slices.Equal(got, []string{"child"}) {
		t.Errorf("Children() = %v", got)
	}
}

func TestAddChildMovesFromOldParent(t *testing.T) {
	a := NewGameObject("a")
	b := NewGameObject("b")
	c := NewGameObject("c")
	_ = a.AddChild(c)

	if err := b.AddChild(c); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if a.ChildCount() != 0 {
		t.Errorf("old parent still has %d children", a.ChildCount())
	}
	if c.Parent() != b || b.ChildCount() != 1 {
		t.Error("child not attached to new parent exactly once")
	}
}

func TestAddChildRejectsCycles(t *testing.T) {
	root := NewGameObject("root")
	mid := NewGameObject("mid")
	leaf := NewGameObject("leaf")
	_ = root.AddChild(mid)
	_ = mid.AddChild(leaf)

	tests := []struct {
		name   string
		parent *GameObject
		child  *GameObject
		want   error
	}{
		{"self", mid, mid, ErrSelfParent},
		{"direct parent under child", leaf, mid, ErrCycle},
		{"root under grandchild", leaf, root, ErrCycle},
		{"nil child", root, nil, ErrNilObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parent.AddChild(tt.child)
			if !errors.Is(err, tt.want) {
				t.Fatalf("AddChild() error = %v, want %v", err, tt.want)
			}
			// Nothing moved.
			if mid.Parent() != root || leaf.Parent() != mid || root.Parent() != nil {
				t.Error("tree changed after rejected AddChild")
			}
		})
	}
}

func TestRemoveChild(t *testing.T) {
	p := NewGameObject("p")
	c := NewGameObject("c")
	other := NewGameObject("other")
	_ = p.AddChild(c)

	if p.RemoveChild(other) {
		t.Error("RemoveChild(non-child) = true, want false")
	}
	if !p.RemoveChild(c) {
		t.Fatal("RemoveChild(child) = false, want true")
	}
	if c.Parent() != nil || p.ChildCount() != 0 {
		t.Error("child not detached")
	}
	if p.RemoveChild(c) {
		t.Error("second RemoveChild = true, want false")
	}
}

func TestFindByIDDepthFirst(t *testing.T) {
	a := NewGameObject("a")
	b := NewGameObject("b")
	c := NewGameObject("c")
	d := NewGameObject("d")
	_ = a.AddChild(b)
	_ = b.AddChild(c)
	_ = a.AddChild(d)

	tests := []struct {
		id   string
		want *GameObject
	}{
		{a.ID(), a},
		{c.ID(), c},
		{d.ID(), d},
		{"missing", nil},
	}
	for _, tt := range tests {
		if got := a.FindByID(tt.id); got != tt.want {
			t.Errorf("FindByID(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestTagsIdempotent(t *testing.T) {
	g := NewGameObject("g")

	if !g.AddTag("enemy") {
		t.Error("first AddTag = false")
	}
	if g.AddTag("enemy") {
		t.Error("duplicate AddTag = true")
	}
	g.AddTag("boss")
	if got := g.Tags(); !slices.Equal(got, []string{"enemy", "boss"}) {
		t.Errorf("Tags() = %v", got)
	}
	if g.RemoveTag("missing") {
		t.Error("RemoveTag(absent) = true")
	}
	if len(g.Tags()) != 2 {
		t.Errorf("tag count = %d, want 2", len(g.Tags()))
	}
	if !g.RemoveTag("enemy") || g.HasTag("enemy") {
		t.Error("RemoveTag(present) failed")
	}
}

func TestTagsReturnsCopy(t *testing.T) {
	g := NewGameObject("g")
	g.AddTag("a")
	tags := g.Tags()
	tags[0] = "mutated"
	if !g.HasTag("a") {
		t.Error("mutating Tags() result changed the object")
	}
}

func TestCloneAssignsFreshIDs(t *testing.T) {
	orig := NewGameObject("orig")
	orig.Transform.Position = Vec3(1, 2, 3)
	orig.AddTag("t")
	child := NewGameObject("child")
	_ = orig.AddChild(child)

	cp := orig.Clone()

	if cp.ID() == orig.ID() {
		t.Error("clone kept the original id")
	}
	if cp.Parent() != nil {
		t.Error("clone should be detached")
	}
	if cp.Transform != orig.Transform || !slices.Equal(cp.Tags(), orig.Tags()) {
		t.Error("clone lost transform or tags")
	}
	cc := cp.Children()
	if len(cc) != 1 || cc[0] == child || cc[0].ID() == child.ID() {
		t.Fatal("child subtree not deep-cloned with fresh ids")
	}
	if cc[0].Parent() != cp {
		t.Error("cloned child does not point at cloned parent")
	}

	cc[0].Name = "changed"
	cc[0].Transform.Scale = Vec3(5, 5, 5)
	if child.Name != "child" || child.Transform.Scale != Vec3(1, 1, 1) {
		t.Error("mutating the clone affected the original")
	}
}

func TestDepthAndRoot(t *testing.T) {
	a := NewGameObject("a")
	b := NewGameObject("b")
	c := NewGameObject("c")
	_ = a.AddChild(b)
	_ = b.AddChild(c)

	if c.Depth() != 2 || a.Depth() != 0 {
		t.Errorf("Depth() = %d/%d, want 2/0", c.Depth(), a.Depth())
	}
	if c.Root() != a {
		t.Error("Root() did not return the top ancestor")
	}
	if !a.IsAncestorOf(c) || c.IsAncestorOf(a) {
		t.Error("IsAncestorOf wrong")
	}
}
