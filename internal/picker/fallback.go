package picker

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FallbackPicker collects a folder path through a prompt the UI renders.
// Launching it only opens the prompt; Submit or Cancel settle the request.
type FallbackPicker struct {
	reader reader
	logger *slog.Logger

	mu      sync.Mutex
	pending *Deferred
}

// NewFallbackPicker returns a prompt based picker.
func NewFallbackPicker(r reader, logger *slog.Logger) *FallbackPicker {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackPicker{reader: r, logger: logger}
}

func (p *FallbackPicker) Name() string { return "fallback" }

// Launch opens the prompt. Outside an active gesture it does nothing and the
// returned deferred never settles.
func (p *FallbackPicker) Launch(g *Gesture) *Deferred {
	if !g.Active() {
		p.logger.Debug("Fallback picker launched outside a gesture; ignoring")
		return NewDeferred()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		p.pending = NewDeferred()
	}
	return p.pending
}

// Prompting reports whether a request is waiting for input.
func (p *FallbackPicker) Prompting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

// Submit settles the pending request with the contents of dir. The folder is
// read in the background as typed, apart from a trailing newline. A blank
// submission counts as a cancellation.
func (p *FallbackPicker) Submit(dir string) {
	d := p.take()
	if d == nil {
		return
	}
	dir = strings.TrimRight(dir, "\r\n")
	if strings.TrimSpace(dir) == "" {
		d.Reject(ErrCancelled)
		return
	}
	dir = expandHome(dir)
	go func() {
		res, err := readResult(p.reader, dir)
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(res)
	}()
}

// Cancel rejects the pending request with ErrCancelled.
func (p *FallbackPicker) Cancel() {
	if d := p.take(); d != nil {
		d.Reject(ErrCancelled)
	}
}

func (p *FallbackPicker) take() *Deferred {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.pending
	p.pending = nil
	return d
}

func expandHome(dir string) string {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~"))
}
