package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leafo/folioview/internal/folio"
	"github.com/leafo/folioview/internal/picker"
)

// handleKey runs synchronously inside Update. The picker must be launched
// from here, never from a command.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.prompting {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Load):
		return m.startLoad()
	case key.Matches(msg, m.keys.Export):
		return m.startExport()
	case key.Matches(msg, m.keys.Sample):
		return m.startSample()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) startLoad() tea.Cmd {
	seq, ok := m.ws.BeginLoad()
	if !ok {
		m.logger.Debug("Ignoring load key while a load is pending", "seq", seq)
		return nil
	}

	g := picker.BeginGesture()
	d := m.picker.Launch(g)
	g.End()
	m.logger.Debug("Launched picker", "picker", m.picker.Name(), "seq", seq)

	await := awaitPickCmd(m.ctx, seq, m.picker.Name(), d)
	if p, ok := m.picker.(picker.Prompter); ok && p.Prompting() {
		m.prompting = true
		m.prompt.SetValue(m.lastSource)
		m.prompt.CursorEnd()
		return tea.Batch(m.prompt.Focus(), await)
	}
	return await
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	p, _ := m.picker.(picker.Prompter)
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.closePrompt()
		if p != nil {
			p.Submit(m.prompt.Value())
		}
		return nil
	case key.Matches(msg, m.keys.Cancel), msg.Type == tea.KeyCtrlC:
		m.closePrompt()
		if p != nil {
			p.Cancel()
		}
		return nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
}

// handlePickResolved is the load completion step. It is the only place a
// picked folder replaces the snapshot.
func (m *Model) handlePickResolved(msg pickResolvedMsg) tea.Cmd {
	if msg.seq != m.ws.Seq() {
		m.logger.Debug("Dropping stale load result", "seq", msg.seq, "current", m.ws.Seq())
		return nil
	}

	switch {
	case errors.Is(msg.err, picker.ErrCancelled):
		m.ws.Cancel()
		m.logger.Info("Folder selection cancelled", "picker", msg.picker)
		return nil
	case msg.err != nil:
		m.ws.Fail(msg.err)
		m.logger.Error("Failed to load folder", "picker", msg.picker, "error", msg.err)
		return nil
	}

	if err := m.ws.Mount(msg.entries, msg.source); err != nil {
		m.logger.Error("Failed to mount folder", "source", msg.source, "error", err)
		return nil
	}
	m.refreshPreview()
	m.lastSource = msg.source
	m.logger.Info("Mounted folder", "source", msg.source, "files", m.ws.Snapshot().Len(), "picker", msg.picker)

	cmds := []tea.Cmd{
		publishCmd(m.ctx, m.folio, folio.MountEvent{Source: msg.source, VFS: m.ws.Snapshot()}, msg.picker, m.logger),
	}
	if msg.picker != pickerWatch {
		cmds = append(cmds, m.startWatch(msg.source))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handlePublished(msg publishedMsg) {
	if msg.err == nil {
		return
	}
	m.logger.Error("Failed to publish snapshot", "source", msg.source, "error", msg.err)
	m.ws.SetStatus(fmt.Sprintf("Loaded %d files, but publishing failed: %v", m.ws.Snapshot().Len(), msg.err))
}

func (m *Model) startExport() tea.Cmd {
	v := m.ws.Snapshot()
	if v.Len() == 0 {
		m.ws.SetStatus(folio.StatusNoExport)
		return nil
	}
	m.ws.SetStatus(fmt.Sprintf("Exporting %d files...", v.Len()))
	return exportCmd(m.ctx, m.folio, v)
}

func (m *Model) handleExportDone(msg exportDoneMsg) {
	switch {
	case errors.Is(msg.err, folio.ErrNothingToExport):
		m.ws.SetStatus(folio.StatusNoExport)
	case msg.err != nil:
		m.logger.Error("Export failed", "error", msg.err)
		m.ws.SetStatus(fmt.Sprintf("Export failed: %v", msg.err))
	default:
		m.ws.SetStatus(fmt.Sprintf("Exported %d files to %s", msg.files, msg.path))
	}
}

// startSample loads the sample file once.
func (m *Model) startSample() tea.Cmd {
	if m.sampleLoaded {
		return nil
	}
	return fetchSampleCmd(m.ctx, m.sample)
}

func (m *Model) handleSampleFetched(msg sampleFetchedMsg) {
	if msg.err != nil {
		m.logger.Error("Failed to load sample", "error", msg.err)
		m.ws.SetStatus(fmt.Sprintf("Failed to load sample: %v", msg.err))
		return
	}
	if err := m.ws.Put(msg.name, msg.data); err != nil {
		m.ws.SetStatus(fmt.Sprintf("Failed to load sample: %v", err))
		return
	}
	m.sampleLoaded = true
	m.sampleName = msg.name
	m.sampleText = string(msg.data)
	m.refreshPreview()
	m.logger.Info("Loaded sample", "name", msg.name, "bytes", len(msg.data))
}

// startWatch replaces the folder watcher, if watching is enabled and source
// is a local directory.
func (m *Model) startWatch(source string) tea.Cmd {
	if !m.watch {
		return nil
	}
	m.stopWatch()
	if info, err := os.Stat(source); err != nil || !info.IsDir() {
		return nil
	}
	w, err := folio.NewWatcher(source, m.folio.Options().Scan, m.logger)
	if err != nil {
		m.logger.Warn("Failed to watch folder", "source", source, "error", err)
		return nil
	}
	m.watcher = w
	return waitForChangeCmd(w)
}

func (m *Model) stopWatch() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Close(); err != nil {
		m.logger.Warn("Failed to close watcher", "root", m.watcher.Root(), "error", err)
	}
	m.watcher = nil
}

func (m *Model) handleFolderChanged(msg folderChangedMsg) tea.Cmd {
	if msg.watcher == nil || msg.watcher != m.watcher {
		return nil
	}
	// A pending pick will replace the snapshot anyway, and reloading now
	// would supersede it.
	if m.ws.Pending() {
		return waitForChangeCmd(msg.watcher)
	}
	seq := m.ws.NextReload()
	m.logger.Info("Folder changed, reloading", "root", msg.watcher.Root(), "seq", seq)
	return tea.Batch(reloadCmd(m.folio, seq, msg.watcher.Root()), waitForChangeCmd(msg.watcher))
}
