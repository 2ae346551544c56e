package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/graph"
	"github.com/lmfdb/latticeview/pkg/infopanel"
	"github.com/lmfdb/latticeview/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	infoBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// browseCommand opens the interactive terminal browser.
func (c *CLI) browseCommand() *cobra.Command {
	var view viewOpts

	cmd := &cobra.Command{
		Use:   "browse <file|ambient>",
		Short: "Explore a diagram and its subgroup info in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd, args[0], &view)
		},
	}
	view.register(cmd)
	return cmd
}

// infoMsg carries an info panel update into the bubbletea loop.
type infoMsg infopanel.Content

func (c *CLI) runBrowse(cmd *cobra.Command, input string, view *viewOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	// Panel updates arrive on fetch goroutines, possibly before the program
	// exists (--select fetches while the session opens). Init re-reads the
	// panel, so updates seen before Store can be dropped.
	var prog atomic.Pointer[tea.Program]
	panel, err := infopanel.New(ctx, cfg.Info,
		infopanel.WithCache(c.openCache(ctx, cfg)),
		infopanel.WithUpdateFunc(func(content infopanel.Content) {
			if p := prog.Load(); p != nil {
				go p.Send(infoMsg(content))
			}
		}),
	)
	if err != nil {
		return err
	}
	defer panel.Close()

	sess, _, err := c.openSession(ctx, input, view, session.WithInfoPanel(panel))
	if err != nil {
		return err
	}

	m := newBrowseModel(sess, panel)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
	)
	prog.Store(p)
	final, err := p.Run()
	if err != nil && ctx.Err() == nil {
		return err
	}
	if bm, ok := final.(browseModel); ok && bm.status != "" {
		printInfo("%s", bm.status)
	}
	return nil
}

// =============================================================================
// browseModel - Interactive diagram browser
// =============================================================================

// browseModel lists the nodes of the displayed graph, top level first, and
// shows the info panel for the selected one.
type browseModel struct {
	sess   *session.Session
	panel  *infopanel.Panel
	nodes  []*graph.Node
	cursor int
	offset int
	height int
	width  int
	info   infopanel.Content
	status string
}

func newBrowseModel(sess *session.Session, panel *infopanel.Panel) browseModel {
	m := browseModel{sess: sess, panel: panel, height: 12, width: 80}
	if panel != nil {
		m.info = panel.Content()
	}
	m.reload()
	return m
}

// reload rebuilds the node list after a mode change, keeping the cursor on
// the same key where possible.
func (m *browseModel) reload() {
	var key string
	if m.cursor < len(m.nodes) {
		key = m.nodes[m.cursor].Key
	}
	m.nodes = sortedNodes(m.sess.Graph())
	m.cursor, m.offset = 0, 0
	for i, n := range m.nodes {
		if n.Key == key {
			m.cursor = i
		}
	}
	m.scroll()
}

func sortedNodes(g *graph.Graph) []*graph.Node {
	nodes := append([]*graph.Node(nil), g.Nodes()...)
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Level != b.Level {
			return b.Level.Less(a.Level)
		}
		return a.Pos.X < b.Pos.X
	})
	return nodes
}

func (m *browseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *browseModel) hoverCursor() {
	if m.cursor < len(m.nodes) {
		m.sess.Hover(m.nodes[m.cursor].Key)
	}
}

// Init re-reads the panel so an update that finished before the program
// was registered is not lost.
func (m browseModel) Init() tea.Cmd {
	if m.panel == nil {
		return nil
	}
	panel := m.panel
	return func() tea.Msg { return infoMsg(panel.Content()) }
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
				m.hoverCursor()
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				m.scroll()
				m.hoverCursor()
			}
		case "enter", " ":
			if m.cursor < len(m.nodes) {
				m.sess.Select(m.nodes[m.cursor].Key)
			}
		case "esc":
			m.sess.Select("")
		case "t":
			if err := m.sess.ToggleHeights(); err != nil {
				m.status = errors.UserMessage(err)
			}
			m.reload()
		case "v":
			variants := m.sess.Variants()
			next := variants[(m.sess.Mode().Variant+1)%len(variants)]
			if err := m.sess.SwitchVariant(next); err != nil {
				m.status = errors.UserMessage(err)
			}
			m.reload()
		case "s":
			out := outputName(m.sess.Ambient(), "diagram") + ".png"
			if err := m.sess.Renderer().SavePNG(out); err != nil {
				m.status = "save failed: " + err.Error()
			} else {
				m.status = "saved " + out
			}
		}
	case infoMsg:
		m.info = infopanel.Content(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(msg.Height-16, 5)
		m.scroll()
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	mode := modeByLevel
	if m.sess.Mode().ByOrder {
		mode = modeByOrder
	}
	b.WriteString(StyleTitle.Render(m.sess.Ambient()))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  variant %s · %s", m.sess.Variants()[m.sess.Mode().Variant], mode)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ select  esc clear  t heights  v variant  s save  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.nodes))
	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := ""
		if n.Selected {
			mark = "●"
		}
		rows = append(rows, []string{cursor, mark, n.Label, n.Key, n.RawOrder, strconv.Itoa(n.Size), fmt.Sprintf("%.1f", n.Pos.X)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Label", "Key", "Order", "Size", "x").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.offset + row
			if idx >= len(m.nodes) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.cursor:
				return listSelectedStyle
			case m.nodes[idx].Selected:
				return StyleSuccess
			case col >= 4:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(m.nodes)), len(m.nodes))))
	b.WriteString("\n")

	if m.panel != nil {
		b.WriteString(m.infoView())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(StyleWarning.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m browseModel) infoView() string {
	var body string
	switch m.info.State {
	case infopanel.StateLoading:
		body = listDimStyle.Render("Loading " + m.info.Key + "...")
	case infopanel.StateReady:
		body = m.info.Text
		if m.info.Key != "" {
			body = StyleLink.Render(m.panel.URL(m.info.Ambient, m.info.Key)) + "\n\n" + body
		}
	default:
		body = listDimStyle.Render(m.info.Text)
	}
	return infoBoxStyle.Width(max(m.width-4, 20)).Render(body)
}
