package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/sceneforge/pkg/scene"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, selection
	colorRed    = lipgloss.Color("167") // Soft red - errors, x axis
	colorBlue   = lipgloss.Color("75")  // Light blue - commands, z axis
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSelected for selected objects.
	StyleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleTag     = lipgloss.NewStyle().Foreground(colorGreen)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconActive  = "●"
)

// =============================================================================
// Status Output
// =============================================================================

// printer writes styled status lines to a command's output.
type printer struct {
	w io.Writer
}

func (p printer) success(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (p printer) error(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// detail prints an indented dim line.
func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a file output line.
func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// keyValue prints a labeled value.
func (p printer) keyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(p.w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// nextStep prints a suggested next command.
func (p printer) nextStep(description, cmd string) {
	fmt.Fprintln(p.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Hierarchy Output
// =============================================================================

// hierarchyTree renders a scene's objects as a tree rooted at the scene name.
// Selected ids are highlighted.
func hierarchyTree(sc *scene.Scene, selected []string) *tree.Tree {
	t := tree.Root(StyleTitle.Render(sc.Name)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, obj := range sc.RootObjects() {
		t.Child(objectBranch(obj, selected))
	}
	return t
}

func objectBranch(g *scene.GameObject, selected []string) any {
	label := objectLabel(g, selected)
	if g.ChildCount() == 0 {
		return label
	}
	branch := tree.Root(label)
	for _, c := range g.Children() {
		branch.Child(objectBranch(c, selected))
	}
	return branch
}

func objectLabel(g *scene.GameObject, selected []string) string {
	name := StyleValue.Render(g.Name)
	for _, id := range selected {
		if id == g.ID() {
			name = StyleSelected.Render(g.Name)
			break
		}
	}
	parts := []string{name, StyleDim.Render(shortID(g.ID()))}
	for _, tag := range g.Tags() {
		parts = append(parts, styleTag.Render("#"+tag))
	}
	return strings.Join(parts, " ")
}

// shortID abbreviates a uuid for display. Commands accept the full id,
// a unique prefix or a unique name.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// sceneTable lists the project's scenes, marking the active one.
func sceneTable(p *scene.Project) *table.Table {
	rows := make([][]string, 0, len(p.Scenes()))
	for _, sc := range p.Scenes() {
		active := ""
		if sc.ID() == p.ActiveSceneID() {
			active = iconActive
		}
		rows = append(rows, []string{active, sc.Name, sc.ID(), fmt.Sprint(sc.ObjectCount())})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("", "Scene", "ID", "Objects").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return StyleHighlight
			}
			if col == 2 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}

// formatVec prints a vector with trimmed decimals.
func formatVec(v scene.Vector3) string {
	return fmt.Sprintf("(%s, %s, %s)", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
}

func formatFloat(f float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", f), "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
