package picker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeReader struct {
	dirs map[string][]map[string]any
}

func (f fakeReader) ReadRecords(root string) ([]map[string]any, error) {
	records, ok := f.dirs[root]
	if !ok {
		return nil, errors.New("no such directory: " + root)
	}
	return records, nil
}

var crateReader = fakeReader{dirs: map[string][]map[string]any{
	"/crate":  {{"path": "notes.txt", "bytes": []byte("abc")}},
	"/crate ": {{"path": "spaced.txt", "bytes": []byte("def")}},
}}

func awaitWithin(t *testing.T, d *Deferred) (Result, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.Await(ctx)
}

func TestDeferredSettlesOnce(t *testing.T) {
	d := NewDeferred()
	assert.True(t, d.Resolve(Result{Source: "first"}))
	assert.False(t, d.Resolve(Result{Source: "second"}))
	assert.False(t, d.Reject(errors.New("late")))

	res, err := awaitWithin(t, d)
	require.NoError(t, err)
	assert.Equal(t, "first", res.Source)

	rejected := RejectedDeferred(ErrCancelled)
	_, err = awaitWithin(t, rejected)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestDeferredAwaitHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDeferred().Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGestureLifetime(t *testing.T) {
	g := BeginGesture()
	assert.True(t, g.Active())
	g.End()
	assert.False(t, g.Active())

	var none *Gesture
	assert.False(t, none.Active())
}

func TestNativePickerResolvesWithChosenFolder(t *testing.T) {
	p := NewNativePicker([]string{"sh", "-c", "printf '%s\\n' /crate"}, crateReader, nil)
	require.True(t, p.Available())

	g := BeginGesture()
	d := p.Launch(g)
	g.End()

	res, err := awaitWithin(t, d)
	require.NoError(t, err)
	assert.Equal(t, "/crate", res.Source)
	assert.Equal(t, crateReader.dirs["/crate"], res.Records)
}

func TestNativePickerKeepsTrailingSpace(t *testing.T) {
	p := NewNativePicker([]string{"sh", "-c", "printf '%s\\n' '/crate '"}, crateReader, nil)

	g := BeginGesture()
	d := p.Launch(g)
	g.End()

	res, err := awaitWithin(t, d)
	require.NoError(t, err)
	assert.Equal(t, "/crate ", res.Source)
}

func TestNativePickerCloseKillsOpenDialog(t *testing.T) {
	p := NewNativePicker([]string{"sh", "-c", "exec sleep 30"}, crateReader, nil)

	g := BeginGesture()
	d := p.Launch(g)
	g.End()

	select {
	case <-d.Done():
		t.Fatal("dialog settled before it was closed")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, p.Close())
	_, err := awaitWithin(t, d)
	assert.ErrorIs(t, err, ErrCancelled)
	require.NoError(t, p.Close(), "closing with nothing open is a no-op")
}

func TestNativePickerRejectsOnDismiss(t *testing.T) {
	for _, script := range []string{"exit 1", "true"} {
		p := NewNativePicker([]string{"sh", "-c", script}, crateReader, nil)
		g := BeginGesture()
		d := p.Launch(g)
		g.End()

		_, err := awaitWithin(t, d)
		assert.ErrorIs(t, err, ErrCancelled, script)
	}
}

func TestNativePickerRejectsUnreadableFolder(t *testing.T) {
	p := NewNativePicker([]string{"sh", "-c", "echo /missing"}, crateReader, nil)
	g := BeginGesture()
	d := p.Launch(g)
	g.End()

	_, err := awaitWithin(t, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/missing")
}

func TestNativePickerRequiresGesture(t *testing.T) {
	p := NewNativePicker([]string{"sh", "-c", "echo /crate"}, crateReader, nil)

	g := BeginGesture()
	g.End()
	_, err := awaitWithin(t, p.Launch(g))
	assert.ErrorIs(t, err, ErrGestureRequired)

	_, err = awaitWithin(t, p.Launch(nil))
	assert.ErrorIs(t, err, ErrGestureRequired)
}

func TestNativePickerUnsupported(t *testing.T) {
	p := NewNativePicker([]string{"definitely-not-a-dialog-binary"}, crateReader, nil)
	assert.False(t, p.Available())

	g := BeginGesture()
	defer g.End()
	_, err := awaitWithin(t, p.Launch(g))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFallbackPickerSubmit(t *testing.T) {
	p := NewFallbackPicker(crateReader, nil)
	assert.False(t, p.Prompting())

	g := BeginGesture()
	d := p.Launch(g)
	again := p.Launch(g)
	g.End()
	assert.Same(t, d, again, "a second launch while prompting reuses the request")
	assert.True(t, p.Prompting())

	p.Submit("/crate\n")
	assert.False(t, p.Prompting())

	res, err := awaitWithin(t, d)
	require.NoError(t, err)
	assert.Equal(t, "/crate", res.Source)
}

func TestFallbackPickerKeepsTrailingSpace(t *testing.T) {
	p := NewFallbackPicker(crateReader, nil)

	g := BeginGesture()
	d := p.Launch(g)
	g.End()
	p.Submit("/crate ")

	res, err := awaitWithin(t, d)
	require.NoError(t, err)
	assert.Equal(t, "/crate ", res.Source)
	assert.Equal(t, crateReader.dirs["/crate "], res.Records)
}

func TestFallbackPickerCancel(t *testing.T) {
	p := NewFallbackPicker(crateReader, nil)

	g := BeginGesture()
	d := p.Launch(g)
	g.End()
	p.Cancel()

	_, err := awaitWithin(t, d)
	assert.ErrorIs(t, err, ErrCancelled)

	g = BeginGesture()
	d = p.Launch(g)
	g.End()
	p.Submit("   ")
	_, err = awaitWithin(t, d)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestFallbackPickerOutsideGestureNeverSettles(t *testing.T) {
	p := NewFallbackPicker(crateReader, nil)

	g := BeginGesture()
	g.End()
	d := p.Launch(g)
	assert.False(t, p.Prompting())

	select {
	case <-d.Done():
		t.Fatal("deferred settled outside a gesture")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSelectPrefersNative(t *testing.T) {
	fallback := NewFallbackPicker(crateReader, nil)

	native := NewNativePicker([]string{"sh"}, crateReader, nil)
	assert.Equal(t, "native", Select(native, fallback, nil).Name())

	missing := NewNativePicker([]string{"definitely-not-a-dialog-binary"}, crateReader, nil)
	assert.Equal(t, "fallback", Select(missing, fallback, nil).Name())
	assert.Equal(t, "fallback", Select(nil, fallback, nil).Name())
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/abs", expandHome("/abs"))
	assert.Equal(t, "/home/tester/x", expandHome("~/x"))
	assert.Equal(t, "/home/tester", expandHome("~"))
}
