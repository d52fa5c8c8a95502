package picker

import "sync/atomic"

// Gesture marks the synchronous handling of one user input event. Pickers
// may only open a dialog while the gesture that triggered them is active;
// once the handler returns the gesture ends and cannot be reopened.
type Gesture struct {
	active atomic.Bool
}

// BeginGesture opens a gesture for the duration of an input handler.
func BeginGesture() *Gesture {
	g := &Gesture{}
	g.active.Store(true)
	return g
}

// End closes the gesture.
func (g *Gesture) End() {
	if g != nil {
		g.active.Store(false)
	}
}

// Active reports whether the handler that opened g is still running.
func (g *Gesture) Active() bool {
	return g != nil && g.active.Load()
}
