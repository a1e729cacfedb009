package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/equigrid/internal/config"
	"github.com/specialistvlad/equigrid/internal/node"
	"github.com/specialistvlad/equigrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

// collector is a Sink recording every snapshot.
type collector struct {
	mu    sync.Mutex
	snaps []Snapshot
	ch    chan Snapshot
}

func newCollector() *collector {
	return &collector{ch: make(chan Snapshot, 64)}
}

func (c *collector) Deliver(_ context.Context, snap Snapshot) error {
	c.mu.Lock()
	c.snaps = append(c.snaps, snap)
	c.mu.Unlock()
	c.ch <- snap
	return nil
}

func (c *collector) next(t *testing.T) Snapshot {
	t.Helper()
	select {
	case snap := <-c.ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func (c *collector) assertQuiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case snap := <-c.ch:
		t.Fatalf("unexpected snapshot seq=%d", snap.Seq)
	case <-time.After(d):
	}
}

func valueOf(snap Snapshot, symbol string) (float64, bool) {
	for _, n := range snap.Result.Nodes {
		if n.Symbol == symbol && n.Kind == node.Bound {
			return n.Value, true
		}
	}
	return 0, false
}

func startSession(t *testing.T, sys *config.System, debounce time.Duration) (*Session, *collector) {
	t.Helper()
	ctx, _ := testutil.NewTestContext(t)
	sink := newCollector()
	s := New(sys, Options{Debounce: debounce}, sink)

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer close(done)
		assert.NoError(t, s.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s, sink
}

func TestSession_InitialSolve(t *testing.T) {
	// --- Arrange & Act ---
	s, sink := startSession(t, &config.System{
		Name:      "orbit",
		Equations: "x = y * 2\ny = z + z - p / 5\nz = 12",
		Bindings:  map[string]*float64{"p": ptr(10)},
	}, 20*time.Millisecond)

	// --- Assert ---
	snap := sink.next(t)
	assert.Equal(t, s.ID(), snap.Session)
	assert.Equal(t, "orbit", s.Name())
	assert.Equal(t, uint64(1), snap.Seq)
	require.NoError(t, snap.ParseErr)
	require.True(t, snap.Result.Completed)
	x, ok := valueOf(snap, "x")
	require.True(t, ok)
	assert.Equal(t, 44.0, x)
	require.NotNil(t, snap.Outcome())
	assert.Equal(t, "orbit", snap.Outcome().System.Name)
}

func TestSession_DebouncesText(t *testing.T) {
	// --- Arrange ---
	s, sink := startSession(t, &config.System{Name: "s", Equations: "x = 1"}, 50*time.Millisecond)
	sink.next(t)

	// --- Act ---
	s.SetText("x = 2")
	s.SetText("x = 3")
	s.SetText("x = 4")

	// --- Assert ---
	snap := sink.next(t)
	x, ok := valueOf(snap, "x")
	require.True(t, ok)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, uint64(2), snap.Seq)
	sink.assertQuiet(t, 120*time.Millisecond)
}

func TestSession_BindingsApplyImmediately(t *testing.T) {
	// --- Arrange ---
	s, sink := startSession(t, &config.System{Name: "s", Equations: "y = m * x + c"}, time.Hour)
	first := sink.next(t)
	require.False(t, first.Result.Completed)
	assert.Equal(t, []string{"c", "m", "x"}, first.Program.Free)

	// --- Act ---
	s.SetBindings(map[string]*float64{"m": ptr(2), "x": ptr(3), "c": ptr(1)})

	// --- Assert ---
	snap := sink.next(t)
	require.True(t, snap.Result.Completed)
	y, _ := valueOf(snap, "y")
	assert.Equal(t, 7.0, y)

	// Unsetting an input makes the system incomplete again.
	s.SetBindings(map[string]*float64{"m": ptr(2), "x": nil, "c": ptr(1)})
	snap = sink.next(t)
	assert.False(t, snap.Result.Completed)
	assert.Equal(t, map[string]float64{"m": 2, "c": 1}, snap.Inputs)
}

func TestSession_ParseErrorKeepsPreviousProgram(t *testing.T) {
	// --- Arrange ---
	s, sink := startSession(t, &config.System{
		Name:      "s",
		Equations: "x = p * 2",
		Bindings:  map[string]*float64{"p": ptr(5)},
	}, 0)
	sink.next(t)

	// --- Act ---
	s.SetText("x = p *")

	// --- Assert ---
	snap := sink.next(t)
	require.Error(t, snap.ParseErr)
	require.NotNil(t, snap.Program)
	x, ok := valueOf(snap, "x")
	require.True(t, ok)
	assert.Equal(t, 10.0, x)

	// A later valid text clears the error.
	s.SetText("x = p * 3")
	snap = sink.next(t)
	assert.NoError(t, snap.ParseErr)
	x, _ = valueOf(snap, "x")
	assert.Equal(t, 15.0, x)
}

func TestSession_InvalidInitialText(t *testing.T) {
	_, sink := startSession(t, &config.System{Name: "s", Equations: "x ="}, 0)

	snap := sink.next(t)

	assert.Error(t, snap.ParseErr)
	assert.Nil(t, snap.Program)
	assert.Nil(t, snap.Outcome())
}

func TestSinkFunc(t *testing.T) {
	called := false
	var sink Sink = SinkFunc(func(context.Context, Snapshot) error {
		called = true
		return nil
	})

	require.NoError(t, sink.Deliver(context.Background(), Snapshot{}))
	assert.True(t, called)
}
