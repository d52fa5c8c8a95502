package picker

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const dialogWaitDelay = time.Second

// dialogCommands are tried in order when no dialog command is configured.
var dialogCommands = [][]string{
	{"zenity", "--file-selection", "--directory", "--title=Select a folder"},
	{"kdialog", "--getexistingdirectory", "."},
	{"osascript", "-e", "POSIX path of (choose folder)"},
}

// DetectDialogCommand returns the first directory dialog found on PATH.
func DetectDialogCommand() []string {
	for _, candidate := range dialogCommands {
		if _, err := exec.LookPath(candidate[0]); err == nil {
			return append([]string(nil), candidate...)
		}
	}
	return nil
}

// NativePicker asks the operating system's directory dialog for a folder.
// The dialog process prints the chosen path on stdout and exits non-zero
// when dismissed.
type NativePicker struct {
	command []string
	reader  reader
	logger  *slog.Logger

	mu      sync.Mutex
	running map[*exec.Cmd]struct{}
}

// NewNativePicker builds a picker around command. An empty command is
// auto-detected.
func NewNativePicker(command []string, r reader, logger *slog.Logger) *NativePicker {
	if len(command) == 0 {
		command = DetectDialogCommand()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NativePicker{command: command, reader: r, logger: logger, running: make(map[*exec.Cmd]struct{})}
}

func (p *NativePicker) Name() string { return "native" }

// Command returns the dialog command line.
func (p *NativePicker) Command() string { return strings.Join(p.command, " ") }

// Available reports whether the dialog command can be run.
func (p *NativePicker) Available() bool {
	if len(p.command) == 0 {
		return false
	}
	_, err := exec.LookPath(p.command[0])
	return err == nil
}

// Launch starts the dialog process synchronously and returns a deferred that
// settles once the user picks a folder or dismisses the dialog.
func (p *NativePicker) Launch(g *Gesture) *Deferred {
	if !g.Active() {
		return RejectedDeferred(ErrGestureRequired)
	}
	if !p.Available() {
		return RejectedDeferred(ErrUnsupported)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(p.command[0], p.command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children of a killed dialog may hold its output open.
	cmd.WaitDelay = dialogWaitDelay
	if err := cmd.Start(); err != nil {
		return RejectedDeferred(fmt.Errorf("open directory dialog: %w", err))
	}
	p.track(cmd)
	p.logger.Debug("Directory dialog opened", "command", p.Command(), "pid", cmd.Process.Pid)

	d := NewDeferred()
	go func() {
		err := cmd.Wait()
		p.untrack(cmd)
		dir := strings.TrimRight(stdout.String(), "\r\n")
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				p.logger.Debug("Directory dialog dismissed", "exit_code", exitErr.ExitCode(), "stderr", strings.TrimSpace(stderr.String()))
				d.Reject(ErrCancelled)
				return
			}
			d.Reject(fmt.Errorf("directory dialog: %w", err))
			return
		}
		if strings.TrimSpace(dir) == "" {
			d.Reject(ErrCancelled)
			return
		}
		res, err := readResult(p.reader, dir)
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(res)
	}()
	return d
}

// Close kills any dialog that is still open. Its pending request rejects
// with ErrCancelled.
func (p *NativePicker) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for cmd := range p.running {
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *NativePicker) track(cmd *exec.Cmd) {
	p.mu.Lock()
	p.running[cmd] = struct{}{}
	p.mu.Unlock()
}

func (p *NativePicker) untrack(cmd *exec.Cmd) {
	p.mu.Lock()
	delete(p.running, cmd)
	p.mu.Unlock()
}
