package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/allansene/orchest/pkg/filesvc"
	"github.com/allansene/orchest/pkg/filetree"
	"github.com/allansene/orchest/pkg/manager"
)

// AppState represents the current state of the application.
type AppState int

const (
	StateLoading AppState = iota
	StateBrowsing
	StatePromptCreate
	StatePromptMove
	StateConfirmDelete
	StateError
)

// Options configures the TUI application.
type Options struct {
	Manager *manager.Manager
	Scope   filesvc.Scope
	Depth   int
}

// Model is the main Bubble Tea model for the orchest-fs browser.
type Model struct {
	state   AppState
	options Options
	ctx     context.Context

	roots     []string
	activeTab int
	views     map[string]*TreeView
	sub       *manager.Subscription

	loadSpinner spinner.Model
	input       textinput.Model
	pendingPath string // Path a prompt or confirmation refers to
	pendingDir  bool   // Create prompt makes a directory
	status      string
	err         error

	width  int
	height int
}

// Messages produced by manager operations.
type (
	initDoneMsg   struct{ err error }
	expandDoneMsg struct {
		root string
		dir  string
		err  error
	}
	mutateDoneMsg struct{ err error }
	treeEventMsg  struct {
		event manager.Event
		open  bool
	}
)

// NewModel creates a new TUI model with the given options.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	in := textinput.New()
	in.CharLimit = 256
	in.Width = 48

	return Model{
		state:       StateLoading,
		options:     opts,
		ctx:         context.Background(),
		roots:       opts.Manager.Roots(),
		views:       make(map[string]*TreeView),
		sub:         opts.Manager.Subscribe(),
		loadSpinner: s,
		input:       in,
		width:       80,
		height:      24,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadSpinner.Tick, m.initTrees()}
	if m.sub != nil {
		cmds = append(cmds, m.waitForEvent())
	}
	return tea.Batch(cmds...)
}

// waitForEvent blocks on the manager subscription until the next installed
// state update and forwards it into the update loop. Re-issued after every
// delivered event, so installs triggered outside this model's own commands
// render too.
func (m Model) waitForEvent() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		ev, ok := <-sub.Events
		return treeEventMsg{event: ev, open: ok}
	}
}

// initTrees materializes every root under the configured scope.
func (m Model) initTrees() tea.Cmd {
	mgr, depth, scope := m.options.Manager, m.options.Depth, m.options.Scope
	ctx := m.ctx
	return func() tea.Msg {
		_, err := mgr.Init(ctx, depth, scope)
		return initDoneMsg{err: err}
	}
}

// refreshTrees re-fetches every root at its materialized depth.
func (m Model) refreshTrees() tea.Cmd {
	mgr := m.options.Manager
	ctx := m.ctx
	return func() tea.Msg {
		_, err := mgr.Refresh(ctx)
		return initDoneMsg{err: err}
	}
}

// expandDir lazily fetches one directory level.
func (m Model) expandDir(root, dir string) tea.Cmd {
	mgr := m.options.Manager
	ctx := m.ctx
	return func() tea.Msg {
		err := mgr.Expand(ctx, root, dir)
		return expandDoneMsg{root: root, dir: dir, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.loadSpinner, cmd = m.loadSpinner.Update(msg)
		return m, cmd

	case initDoneMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.state = StateBrowsing
		m.syncViews()
		m.status = ""
		return m, nil

	case expandDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("expand failed: " + msg.err.Error())
			return m, nil
		}
		m.syncViews()
		return m, nil

	case mutateDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(msg.err.Error())
		} else {
			m.status = ""
		}
		m.state = StateBrowsing
		m.syncViews()
		return m, nil

	case treeEventMsg:
		if !msg.open {
			// Subscription closed; stop re-arming.
			return m, nil
		}
		m.syncViews()
		return m, m.waitForEvent()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == StatePromptCreate || m.state == StatePromptMove {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey dispatches key presses by state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StatePromptCreate, StatePromptMove:
		return m.handlePromptKey(msg)
	case StateConfirmDelete:
		return m.handleConfirmKey(msg)
	case StateError:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.view().MoveUp()
	case "down", "j":
		m.view().MoveDown()
	case "tab":
		m.activeTab = (m.activeTab + 1) % len(m.roots)
	case "enter":
		if dir, opened := m.view().Toggle(); opened {
			return m, m.expandDir(m.activeRoot(), dir)
		}
	case "R":
		m.status = mutedStyle.Render("refreshing...")
		return m, m.refreshTrees()
	case "n", "N":
		m.state = StatePromptCreate
		m.pendingPath = m.selectedDir()
		m.pendingDir = msg.String() == "N"
		placeholder := "file name"
		if m.pendingDir {
			placeholder = "directory name"
		}
		m.input.Placeholder = placeholder
		m.input.SetValue("")
		return m, m.input.Focus()
	case "m":
		if sel := m.view().Selected(); sel != "" {
			m.state = StatePromptMove
			m.pendingPath = sel
			m.input.Placeholder = "destination path"
			m.input.SetValue(sel)
			return m, m.input.Focus()
		}
	case "x", "delete":
		if sel := m.view().Selected(); sel != "" {
			m.state = StateConfirmDelete
			m.pendingPath = sel
		}
	}
	return m, nil
}

// handlePromptKey runs the create and move prompts.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateBrowsing
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		if value == "" {
			m.state = StateBrowsing
			return m, nil
		}
		mgr, ctx, root := m.options.Manager, m.ctx, m.activeRoot()
		if m.state == StatePromptCreate {
			path := m.pendingPath + value
			if m.pendingDir && !strings.HasSuffix(path, "/") {
				path += "/"
			}
			return m, func() tea.Msg {
				return mutateDoneMsg{err: mgr.Create(ctx, root, path)}
			}
		}
		src := m.pendingPath
		return m, func() tea.Msg {
			return mutateDoneMsg{err: mgr.Move(ctx, filesvc.MoveRequest{
				SourceRoot:      root,
				SourcePath:      src,
				DestinationRoot: root,
				DestinationPath: value,
			})}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleConfirmKey runs the delete confirmation.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		mgr, ctx, root, path := m.options.Manager, m.ctx, m.activeRoot(), m.pendingPath
		return m, func() tea.Msg {
			return mutateDoneMsg{err: mgr.Delete(ctx, root, path)}
		}
	case "n", "N", "esc":
		m.state = StateBrowsing
	}
	return m, nil
}

// activeRoot returns the root namespace of the active tab.
func (m Model) activeRoot() string {
	return m.roots[m.activeTab]
}

// view returns the tree view of the active tab, creating it on demand.
func (m Model) view() *TreeView {
	root := m.activeRoot()
	tv, ok := m.views[root]
	if !ok {
		fm, _ := m.options.Manager.Map(root)
		tv = NewTreeView(fm)
		m.views[root] = tv
	}
	return tv
}

// syncViews swaps freshly installed maps into every tree view.
func (m Model) syncViews() {
	maps := m.options.Manager.Maps()
	for _, root := range m.roots {
		fm, ok := maps[root]
		if !ok {
			fm = filetree.NewFileMap()
		}
		if tv, exists := m.views[root]; exists {
			tv.SetMap(fm)
		} else {
			m.views[root] = NewTreeView(fm)
		}
	}
}

// View renders the application.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("orchest-fs"))
	b.WriteString(mutedStyle.Render("  project " + m.options.Scope.ProjectUUID))
	b.WriteString("\n")

	for i, root := range m.roots {
		if i == m.activeTab {
			b.WriteString(activeTabStyle.Render(root))
		} else {
			b.WriteString(tabStyle.Render(root))
		}
	}
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(fmt.Sprintf("%s fetching file trees...\n", m.loadSpinner.View()))

	case StateError:
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
		b.WriteString(helpStyle.Render("q quit") + "\n")

	case StatePromptCreate, StatePromptMove:
		b.WriteString(m.view().Render(m.treeHeight()))
		label := "create in " + m.selectedDir()
		if m.state == StatePromptMove {
			label = "move " + m.pendingPath + " to"
		}
		b.WriteString("\n" + promptStyle.Render(label+": ") + m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter confirm • esc cancel") + "\n")

	case StateConfirmDelete:
		b.WriteString(m.view().Render(m.treeHeight()))
		b.WriteString("\n" + errorStyle.Render("delete "+m.pendingPath+"? (y/n)") + "\n")

	default:
		b.WriteString(m.view().Render(m.treeHeight()))
		b.WriteString("\n")
		if m.status != "" {
			b.WriteString(m.status + "\n")
		} else if fresh := m.view().Freshness(); fresh != "" {
			b.WriteString(mutedStyle.Render(fresh) + "\n")
		}
		b.WriteString(helpStyle.Render(
			"j/k move • enter expand • tab root • n/N new file/dir • m move • x delete • R refresh • q quit") + "\n")
	}

	return b.String()
}

// treeHeight is how many tree rows fit under the header and above the
// status area.
func (m Model) treeHeight() int {
	h := m.height - 7
	if h < 5 {
		h = 5
	}
	return h
}

// selectedDir returns the directory the cursor is in (or on).
func (m Model) selectedDir() string {
	sel := m.view().Selected()
	if sel == "" {
		return "/"
	}
	return filetree.ContainingDirectory(sel)
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
