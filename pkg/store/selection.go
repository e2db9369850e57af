package store

import (
	"slices"

	"github.com/matzehuels/sceneforge/pkg/scene"
)

// SelectionStore keeps the selected object ids in selection order.
type SelectionStore struct {
	app      *App
	ids      []string
	notifier Notifier[SelectionEvent]
}

// Subscribe registers fn for selection changes.
func (s *SelectionStore) Subscribe(fn func(SelectionEvent)) (cancel func()) {
	return s.notifier.Subscribe(fn)
}

// Selected returns a copy of the selected ids.
func (s *SelectionStore) Selected() []string { return slices.Clone(s.ids) }

// Len returns the number of selected ids.
func (s *SelectionStore) Len() int { return len(s.ids) }

// First returns the first selected id.
func (s *SelectionStore) First() (string, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.ids[0], true
}

// IsSelected reports whether id is selected.
func (s *SelectionStore) IsSelected(id string) bool { return slices.Contains(s.ids, id) }

// Select replaces the selection with id.
func (s *SelectionStore) Select(id string) {
	s.set([]string{id})
}

// SetSelection replaces the selection with ids, dropping duplicates.
func (s *SelectionStore) SetSelection(ids []string) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	s.set(out)
}

// AddToSelection appends id unless it is already selected.
func (s *SelectionStore) AddToSelection(id string) {
	if s.IsSelected(id) {
		return
	}
	s.set(append(slices.Clone(s.ids), id))
}

// RemoveFromSelection drops id from the selection.
func (s *SelectionStore) RemoveFromSelection(id string) {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return
	}
	s.set(slices.Delete(slices.Clone(s.ids), i, i+1))
}

// Clear empties the selection.
func (s *SelectionStore) Clear() { s.set(nil) }

func (s *SelectionStore) set(ids []string) {
	if slices.Equal(s.ids, ids) {
		return
	}
	s.ids = ids
	s.app.logger.Debug("selection changed", "ids", ids)
	s.notifier.Notify(SelectionEvent{Selected: slices.Clone(ids)})
}

// anyIn reports whether a selected id belongs to root's subtree.
func (s *SelectionStore) anyIn(root *scene.GameObject) bool {
	if len(s.ids) == 0 {
		return false
	}
	found := false
	root.Walk(func(g *scene.GameObject) bool {
		found = slices.Contains(s.ids, g.ID())
		return !found
	})
	return found
}
