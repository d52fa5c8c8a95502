// Package app is the folioview terminal UI. Model.Update is the only writer
// of the workspace; picker results, exports and sample fetches run as
// commands and report back through messages.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leafo/folioview/internal/config"
	"github.com/leafo/folioview/internal/folio"
	"github.com/leafo/folioview/internal/picker"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Deps are the collaborators the model drives.
type Deps struct {
	Folio  *folio.Folio
	Picker picker.Picker
	Sample *folio.SampleFetcher
	Keys   config.KeysConfig
	// Watch reloads a loaded local folder when it changes on disk.
	Watch  bool
	Logger *slog.Logger
}

// Model is the Bubble Tea model for folioview.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	ws     *folio.Workspace
	folio  *folio.Folio
	picker picker.Picker
	sample *folio.SampleFetcher
	logger *slog.Logger

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	prompt   textinput.Model
	spinner  spinner.Model

	prompting  bool
	lastSource string

	sampleName   string
	sampleText   string
	sampleLoaded bool

	watch   bool
	watcher *folio.Watcher

	width  int
	height int
}

var _ tea.Model = (*Model)(nil)

// New builds a model around deps. The workspace starts empty.
func New(ctx context.Context, deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	prompt := textinput.New()
	prompt.Placeholder = "path/to/folder"
	prompt.Prompt = "Folder: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		ws:       folio.NewWorkspace(deps.Folio.Options().Preview),
		folio:    deps.Folio,
		picker:   deps.Picker,
		sample:   deps.Sample,
		logger:   logger,
		keys:     newKeyMap(deps.Keys),
		help:     help.New(),
		viewport: viewport.New(defaultWidth, defaultHeight),
		prompt:   prompt,
		spinner:  sp,
		watch:    deps.Watch,
	}
	m.lastSource = deps.Folio.LastSource(ctx)
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Workspace exposes the model's state.
func (m *Model) Workspace() *folio.Workspace { return m.ws }

// Prompting reports whether the folder prompt has focus.
func (m *Model) Prompting() bool { return m.prompting }

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Close stops background work owned by the model.
func (m *Model) Close() {
	m.stopWatch()
	if c, ok := m.picker.(io.Closer); ok {
		if err := c.Close(); err != nil {
			m.logger.Warn("Failed to close picker", "picker", m.picker.Name(), "error", err)
		}
	}
	m.cancel()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case pickResolvedMsg:
		return m, m.handlePickResolved(msg)
	case publishedMsg:
		m.handlePublished(msg)
		return m, nil
	case exportDoneMsg:
		m.handleExportDone(msg)
		return m, nil
	case sampleFetchedMsg:
		m.handleSampleFetched(msg)
		return m, nil
	case folderChangedMsg:
		return m, m.handleFolderChanged(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.prompt.Width = max(width-len(m.prompt.Prompt)-4, 10)
	m.viewport.Width = max(width-2, 10)
	m.viewport.Height = max(height-m.chromeHeight(), 3)
	m.refreshPreview()
}

// refreshPreview re-renders the preview lines into the viewport.
func (m *Model) refreshPreview() {
	m.viewport.SetContent(renderPreviews(m.ws.Previews(), m.viewport.Width))
}
