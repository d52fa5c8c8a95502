// Package picker opens folder selection dialogs and hands back the selected
// folder's files as raw records.
//
// Launching a picker is split in two phases. Launch must be called directly
// from the input handler, while its Gesture is active, and returns a Deferred
// immediately. The caller awaits the Deferred later, outside the handler.
package picker

import (
	"errors"
	"log/slog"

	"github.com/leafo/folioview/internal/folio"
)

var (
	// ErrCancelled is returned when the user dismisses the dialog.
	ErrCancelled = errors.New("folder selection cancelled")
	// ErrGestureRequired is returned when a dialog is requested outside an
	// active input gesture.
	ErrGestureRequired = errors.New("picker must be launched from a user gesture")
	// ErrUnsupported is returned when the platform has no directory dialog.
	ErrUnsupported = errors.New("directory picker not supported on this platform")
)

// Picker launches a folder selection.
type Picker interface {
	Name() string
	Launch(g *Gesture) *Deferred
}

// Prompter is implemented by pickers that need the UI to collect input.
type Prompter interface {
	Prompting() bool
	Submit(dir string)
	Cancel()
}

// Select returns native when the platform supports it and fallback otherwise.
func Select(native *NativePicker, fallback Picker, logger *slog.Logger) Picker {
	if logger == nil {
		logger = slog.Default()
	}
	if native != nil && native.Available() {
		logger.Info("Using native directory picker", "command", native.Command())
		return native
	}
	logger.Info("Native directory picker unavailable, using fallback", "picker", fallback.Name())
	return fallback
}

// reader turns a chosen directory into a picker result.
type reader interface {
	ReadRecords(root string) ([]map[string]any, error)
}

func readResult(r reader, dir string) (Result, error) {
	records, err := r.ReadRecords(dir)
	if err != nil {
		return Result{}, err
	}
	return Result{Source: dir, Records: records}, nil
}

var _ reader = (*folio.Folio)(nil)
