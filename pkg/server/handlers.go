package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
	"github.com/matzehuels/sceneforge/pkg/render/nodelink"
	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/store"
)

// =============================================================================
// Views and requests
// =============================================================================

type projectView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Version       string         `json:"version"`
	Path          string         `json:"path,omitempty"`
	Modified      bool           `json:"modified"`
	ActiveSceneID string         `json:"activeSceneId,omitempty"`
	Scenes        []sceneSummary `json:"scenes"`
	Tags          []string       `json:"tags"`
}

type sceneSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Objects int    `json:"objects"`
}

type objectView struct {
	scene.GameObjectData
	ParentID string `json:"parentId,omitempty"`
}

type createProjectRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type pathRequest struct {
	Path string `json:"path"`
}

type createObjectRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}

type parentRequest struct {
	ParentID string `json:"parentId"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type transformRequest struct {
	Position *scene.Vector3 `json:"position"`
	Rotation *scene.Vector3 `json:"rotation"`
	Scale    *scene.Vector3 `json:"scale"`
}

type selectionView struct {
	Selected []string `json:"selected"`
}

type viewportPatch struct {
	Mode      *string  `json:"mode"`
	Space     *string  `json:"space"`
	Snap      *bool    `json:"snap"`
	SnapValue *float64 `json:"snapValue"`
}

type clickRequest struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type clickView struct {
	Hit bool   `json:"hit"`
	ID  string `json:"id,omitempty"`
}

type tagRequest struct {
	Tag string `json:"tag"`
}

type tagsView struct {
	Tags []string `json:"tags"`
}

func newProjectView(p *scene.Project, path string, modified bool) projectView {
	v := projectView{
		ID:            p.ID(),
		Name:          p.Name,
		Version:       p.Version,
		Path:          path,
		Modified:      modified,
		ActiveSceneID: p.ActiveSceneID(),
		Tags:          p.Tags(),
	}
	for _, sc := range p.Scenes() {
		v.Scenes = append(v.Scenes, sceneSummary{ID: sc.ID(), Name: sc.Name, Objects: sc.ObjectCount()})
	}
	return v
}

func newObjectView(g *scene.GameObject) objectView {
	v := objectView{GameObjectData: g.Data()}
	if p := g.Parent(); p != nil {
		v.ParentID = p.ID()
	}
	return v
}

func errNoProject() error {
	return sferrors.New(sferrors.ErrCodeNoProject, "no project is open")
}

func errObjectNotFound(id string) error {
	return sferrors.New(sferrors.ErrCodeObjectNotFound, "object %q not found", id)
}

// =============================================================================
// Project
// =============================================================================

func (s *Server) projectView() (projectView, error) {
	p := s.app.Project.Project()
	if p == nil {
		return projectView{}, errNoProject()
	}
	return newProjectView(p, s.app.Project.Path(), s.app.Project.Modified()), nil
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	var v projectView
	err := s.do(r, func() (err error) {
		v, err = s.projectView()
		return err
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v projectView
	err := s.do(r, func() error {
		var err error
		if req.Path != "" {
			_, err = s.app.Project.CreateProjectAt(r.Context(), req.Path, req.Name)
		} else {
			_, err = s.app.Project.CreateNewProject(req.Name)
		}
		if err != nil {
			return err
		}
		v, err = s.projectView()
		return err
	})
	s.respond(w, r, http.StatusCreated, v, err)
}

func (s *Server) handleOpenProject(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v projectView
	err := s.do(r, func() error {
		if err := s.app.Project.OpenProject(r.Context(), req.Path); err != nil {
			return err
		}
		var err error
		v, err = s.projectView()
		return err
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	var v projectView
	err := s.do(r, func() error {
		if err := s.app.Project.SaveProject(r.Context()); err != nil {
			return err
		}
		var err error
		v, err = s.projectView()
		return err
	})
	s.respond(w, r, http.StatusOK, v, err)
}

// =============================================================================
// Scene and objects
// =============================================================================

func (s *Server) currentScene() (*scene.Scene, error) {
	sc := s.app.Scene.Scene()
	if sc == nil {
		return nil, errNoProject()
	}
	return sc, nil
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	var data scene.SceneData
	err := s.do(r, func() error {
		sc, err := s.currentScene()
		if err != nil {
			return err
		}
		data = sc.Data()
		return nil
	})
	s.respond(w, r, http.StatusOK, data, err)
}

// objectDo runs fn on the loop with the object named by the {id} URL
// parameter.
func (s *Server) objectDo(r *http.Request, fn func(g *scene.GameObject) error) error {
	id := chi.URLParam(r, "id")
	return s.do(r, func() error {
		if _, err := s.currentScene(); err != nil {
			return err
		}
		g := s.app.Scene.FindObjectByID(id)
		if g == nil {
			return errObjectNotFound(id)
		}
		return fn(g)
	})
}

func (s *Server) handleCreateObject(w http.ResponseWriter, r *http.Request) {
	var req createObjectRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v objectView
	err := s.do(r, func() error {
		g, err := s.app.Scene.CreateGameObject(req.Name, req.ParentID)
		if err != nil {
			return err
		}
		v = newObjectView(g)
		return nil
	})
	s.respond(w, r, http.StatusCreated, v, err)
}

func (s *Server) handleGetObject(w http.ResponseWriter, r *http.Request) {
	var v objectView
	err := s.objectDo(r, func(g *scene.GameObject) error {
		v = newObjectView(g)
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	err := s.objectDo(r, func(g *scene.GameObject) error {
		if !s.app.Scene.DeleteGameObject(g.ID()) {
			return errObjectNotFound(g.ID())
		}
		return nil
	})
	s.respond(w, r, http.StatusNoContent, nil, err)
}

func (s *Server) handleDuplicateObject(w http.ResponseWriter, r *http.Request) {
	var v objectView
	err := s.objectDo(r, func(g *scene.GameObject) error {
		dup := s.app.Scene.DuplicateGameObject(g.ID())
		if dup == nil {
			return errObjectNotFound(g.ID())
		}
		v = newObjectView(dup)
		return nil
	})
	s.respond(w, r, http.StatusCreated, v, err)
}

func (s *Server) handleReparentObject(w http.ResponseWriter, r *http.Request) {
	var req parentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v objectView
	err := s.objectDo(r, func(g *scene.GameObject) error {
		if err := s.app.Scene.ReparentObject(g.ID(), req.ParentID); err != nil {
			return err
		}
		v = newObjectView(g)
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleRenameObject(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v objectView
	err := s.objectDo(r, func(g *scene.GameObject) error {
		if err := s.app.Scene.RenameObject(g.ID(), req.Name); err != nil {
			return err
		}
		v = newObjectView(g)
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleTransformObject(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v objectView
	err := s.objectDo(r, func(g *scene.GameObject) error {
		s.app.Scene.UpdateObjectTransform(g.ID(), req.Position, req.Rotation, req.Scale)
		v = newObjectView(g)
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleTagObject(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	var v objectView
	err := s.objectDo(r, func(g *scene.GameObject) error {
		if err := s.app.Scene.AddTag(g.ID(), tag); err != nil {
			return err
		}
		v = newObjectView(g)
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleUntagObject(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	var v objectView
	err := s.objectDo(r, func(g *scene.GameObject) error {
		s.app.Scene.RemoveTag(g.ID(), tag)
		v = newObjectView(g)
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

// =============================================================================
// Selection and viewport
// =============================================================================

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	var v selectionView
	err := s.do(r, func() error {
		v.Selected = s.app.Selection.Selected()
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionView
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v selectionView
	err := s.do(r, func() error {
		for _, id := range req.Selected {
			if s.app.Scene.FindObjectByID(id) == nil {
				return errObjectNotFound(id)
			}
		}
		s.app.Selection.SetSelection(req.Selected)
		v.Selected = s.app.Selection.Selected()
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleGetViewport(w http.ResponseWriter, r *http.Request) {
	var v store.ViewportSettings
	err := s.do(r, func() error {
		v = s.app.Viewport.Settings()
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handlePatchViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportPatch
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v store.ViewportSettings
	err := s.do(r, func() error {
		next := s.app.Viewport.Settings()
		if req.Mode != nil {
			next.Mode = store.GizmoMode(*req.Mode)
		}
		if req.Space != nil {
			next.Space = store.Space(*req.Space)
		}
		if req.Snap != nil {
			next.SnapEnabled = *req.Snap
		}
		if req.SnapValue != nil {
			next.SnapValue = *req.SnapValue
		}
		if err := s.app.Viewport.Apply(next); err != nil {
			return err
		}
		v = s.app.Viewport.Settings()
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v clickView
	err := s.do(r, func() error {
		v.ID, v.Hit = s.ctrl.Click(req.X, req.Y)
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

// handleFrame renders the viewport. Optional w and h query parameters
// resize it first.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	width, err := queryInt(r, "w")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	height, err := queryInt(r, "h")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = s.do(r, func() error {
		if width > 0 || height > 0 {
			cw, ch := s.ctrl.Size()
			s.ctrl.Resize(orDefault(width, cw), orDefault(height, ch))
		}
		return s.ctrl.FramePNG(&buf)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// =============================================================================
// Project tags and graph
// =============================================================================

func (s *Server) handleGetTags(w http.ResponseWriter, r *http.Request) {
	var v tagsView
	err := s.do(r, func() error {
		if s.app.Project.Project() == nil {
			return errNoProject()
		}
		v.Tags = s.app.Project.Tags()
		return nil
	})
	s.respond(w, r, http.StatusOK, v, err)
}

func (s *Server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var v tagsView
	err := s.do(r, func() error {
		if err := s.app.Project.AddTag(req.Tag); err != nil {
			return err
		}
		v.Tags = s.app.Project.Tags()
		return nil
	})
	s.respond(w, r, http.StatusCreated, v, err)
}

func (s *Server) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	err := s.do(r, func() error {
		if s.app.Project.Project() == nil {
			return errNoProject()
		}
		if !s.app.Project.RemoveTag(tag) {
			return sferrors.New(sferrors.ErrCodeNotFound, "tag %q not found", tag)
		}
		return nil
	})
	s.respond(w, r, http.StatusNoContent, nil, err)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var dot string
	err := s.do(r, func() error {
		sc, err := s.currentScene()
		if err != nil {
			return err
		}
		dot = nodelink.ToDOT(sc, nodelink.Options{
			Detailed: r.URL.Query().Has("detailed"),
			Selected: s.app.Selection.Selected(),
		})
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		s.writeError(w, r, sferrors.Wrap(sferrors.ErrCodeInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 4096 {
		return 0, sferrors.New(sferrors.ErrCodeInvalidInput, "%s must be a size between 1 and 4096", key)
	}
	return n, nil
}

// orDefault returns v, or fallback when v is unset.
func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
