package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sceneforge/pkg/scene"
	"github.com/matzehuels/sceneforge/pkg/store"
	"github.com/matzehuels/sceneforge/pkg/viewport"
)

// Nudge steps used by the editor when snapping is off.
const (
	nudgeTranslate = 1.0
	nudgeScale     = 0.1
	minNudgeScale  = 0.01
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	axisStyles = [3]lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorRed),
		lipgloss.NewStyle().Foreground(colorGreen),
		lipgloss.NewStyle().Foreground(colorBlue),
	}
)

var axisNames = [3]string{"X", "Y", "Z"}

// =============================================================================
// editCommand - interactive hierarchy editor
// =============================================================================

func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the active scene interactively",
		Long: `Open a terminal editor with the scene hierarchy on the left and the selected
object's inspector on the right. Changes are saved with ctrl+s and on quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, sessionOptions{project: true})
			if err != nil {
				return err
			}
			defer s.Close()

			m := newEditorModel(s.app, func() error { return s.commit(ctx) })
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return err
			}
			if err := s.commit(ctx); err != nil {
				return err
			}
			printer{w: cmd.OutOrStdout()}.success("Saved %s", StyleHighlight.Render(s.project().Name))
			return nil
		},
	}
}

// =============================================================================
// editorModel
// =============================================================================

type editorRow struct {
	obj   *scene.GameObject
	depth int
}

// editorModel is the bubbletea model of `sceneforge edit`. The cursor
// drives the selection; every edit goes through the app's stores.
type editorModel struct {
	app    *store.App
	save   func() error
	rows   []editorRow
	cursor int
	offset int
	height int
	axis   int
	status string
}

func newEditorModel(app *store.App, save func() error) editorModel {
	m := editorModel{app: app, save: save, height: 15}
	m.refresh()
	return m
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.scroll()
	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "a":
			m.create("")
		case "n":
			if obj := m.current(); obj != nil {
				m.create(obj.ID())
			}
		case "d", "delete":
			if obj := m.current(); obj != nil {
				m.app.Scene.DeleteGameObject(obj.ID())
				m.status = "deleted " + obj.Name
				m.refresh()
			}
		case "c":
			if obj := m.current(); obj != nil {
				if dup := m.app.Scene.DuplicateGameObject(obj.ID()); dup != nil {
					m.refresh()
					m.focus(dup.ID())
				}
			}
		case "<":
			m.reparentUp()
		case "w":
			m.setMode(store.ModeTranslate)
		case "e":
			m.setMode(store.ModeRotate)
		case "r":
			m.setMode(store.ModeScale)
		case "g":
			space := store.SpaceLocal
			if m.app.Viewport.Space() == store.SpaceLocal {
				space = store.SpaceGlobal
			}
			_ = m.app.Viewport.SetSpace(space)
		case "s":
			m.app.Viewport.ToggleSnap()
		case "x":
			m.axis = 0
		case "y":
			m.axis = 1
		case "z":
			m.axis = 2
		case "+", "=":
			m.nudge(1)
		case "-", "_":
			m.nudge(-1)
		case "ctrl+s":
			if err := m.save(); err != nil {
				m.status = "save failed: " + err.Error()
			} else {
				m.status = "saved"
			}
		}
	}
	return m, nil
}

// refresh rebuilds the flattened hierarchy and keeps the cursor on the
// selected object when it still exists.
func (m *editorModel) refresh() {
	m.rows = m.rows[:0]
	if sc := m.app.Scene.Scene(); sc != nil {
		for _, root := range sc.RootObjects() {
			root.Walk(func(g *scene.GameObject) bool {
				m.rows = append(m.rows, editorRow{obj: g, depth: g.Depth()})
				return true
			})
		}
	}
	if id, ok := m.app.Selection.First(); ok {
		m.focus(id)
		return
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	m.selectCursor()
}

func (m *editorModel) focus(id string) {
	for i, r := range m.rows {
		if r.obj.ID() == id {
			m.cursor = i
			break
		}
	}
	m.selectCursor()
}

func (m *editorModel) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.selectCursor()
}

func (m *editorModel) selectCursor() {
	if obj := m.current(); obj != nil {
		m.app.Selection.Select(obj.ID())
	} else {
		m.app.Selection.Clear()
	}
	m.scroll()
}

func (m *editorModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *editorModel) current() *scene.GameObject {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].obj
}

func (m *editorModel) create(parentID string) {
	obj, err := m.app.Scene.CreateGameObject(defaultObjectName, parentID)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.refresh()
	m.focus(obj.ID())
}

// reparentUp moves the current object one level up the hierarchy.
func (m *editorModel) reparentUp() {
	obj := m.current()
	if obj == nil || obj.Parent() == nil {
		return
	}
	newParent := ""
	if gp := obj.Parent().Parent(); gp != nil {
		newParent = gp.ID()
	}
	if err := m.app.Scene.ReparentObject(obj.ID(), newParent); err != nil {
		m.status = err.Error()
		return
	}
	m.refresh()
	m.focus(obj.ID())
}

func (m *editorModel) setMode(mode store.GizmoMode) {
	_ = m.app.Viewport.SetMode(mode)
}

// nudge steps the current object along the active axis in the gizmo's mode,
// using the snap increments when snapping is on.
func (m *editorModel) nudge(sign float64) {
	obj := m.current()
	if obj == nil {
		return
	}
	vs := m.app.Viewport.Settings()
	t := obj.Transform
	switch vs.Mode {
	case store.ModeTranslate:
		step := nudgeTranslate
		if vs.SnapEnabled {
			step = vs.SnapValue
		}
		p := t.Position.WithComponent(m.axis, t.Position.Component(m.axis)+sign*step)
		m.app.Scene.UpdateObjectTransform(obj.ID(), &p, nil, nil)
	case store.ModeRotate:
		step := float64(viewport.RotationSnap)
		r := t.Rotation.WithComponent(m.axis, t.Rotation.Component(m.axis)+sign*step)
		m.app.Scene.UpdateObjectTransform(obj.ID(), nil, &r, nil)
	case store.ModeScale:
		step := nudgeScale
		if vs.SnapEnabled {
			step = vs.SnapValue
		}
		v := max(t.Scale.Component(m.axis)+sign*step, minNudgeScale)
		sc := t.Scale.WithComponent(m.axis, v)
		m.app.Scene.UpdateObjectTransform(obj.ID(), nil, nil, &sc)
	}
}

// =============================================================================
// View
// =============================================================================

func (m editorModel) View() string {
	var b strings.Builder

	title := "no scene"
	if sc := m.app.Scene.Scene(); sc != nil {
		title = sc.Name
	}
	if p := m.app.Project.Project(); p != nil {
		title = p.Name + " / " + title
	}
	if m.app.Project.Modified() {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(36).Render(m.hierarchyView()),
		panelStyle.Width(40).Render(m.inspectorView()),
	)
	b.WriteString(panes)
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  a add  n child  c dup  d del  < unparent  w/e/r mode  g space  s snap  x/y/z axis  +/- nudge  ^s save  q quit"))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.status))
	}
	return b.String()
}

func (m editorModel) hierarchyView() string {
	if len(m.rows) == 0 {
		return listDimStyle.Render("no objects, press a to add")
	}
	var lines []string
	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		line := strings.Repeat("  ", r.depth) + r.obj.Name
		if i == m.cursor {
			lines = append(lines, listSelectedStyle.Render("▸ "+line))
		} else {
			lines = append(lines, listNormalStyle.Render("  "+line))
		}
	}
	lines = append(lines, listDimStyle.Render(fmt.Sprintf("[%d/%d]", m.cursor+1, len(m.rows))))
	return strings.Join(lines, "\n")
}

func (m editorModel) inspectorView() string {
	vs := m.app.Viewport.Settings()
	snap := "off"
	if vs.SnapEnabled {
		snap = formatFloat(vs.SnapValue)
	}
	gizmo := fmt.Sprintf("%s · %s · snap %s · axis %s",
		vs.Mode, vs.Space, snap, axisStyles[m.axis].Render(axisNames[m.axis]))

	obj := m.current()
	if obj == nil {
		return listDimStyle.Render(gizmo)
	}
	t := obj.Transform
	lines := []string{
		StyleValue.Bold(true).Render(obj.Name),
		listDimStyle.Render(obj.ID()),
		"",
		"position " + m.vecView(t.Position),
		"rotation " + m.vecView(t.Rotation),
		"scale    " + m.vecView(t.Scale),
	}
	if tags := obj.Tags(); len(tags) > 0 {
		lines = append(lines, "", styleTag.Render("#"+strings.Join(tags, " #")))
	}
	lines = append(lines, "", listDimStyle.Render(gizmo))
	return strings.Join(lines, "\n")
}

func (m editorModel) vecView(v scene.Vector3) string {
	parts := make([]string, 3)
	for i := range 3 {
		parts[i] = axisStyles[i].Render(formatFloat(v.Component(i)))
	}
	return strings.Join(parts, "  ")
}
