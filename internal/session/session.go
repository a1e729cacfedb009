package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/equigrid/internal/config"
	"github.com/specialistvlad/equigrid/internal/ctxlog"
	"github.com/specialistvlad/equigrid/internal/engine"
	"github.com/specialistvlad/equigrid/internal/solver"
)

// DefaultDebounce is the quiet period applied to text updates.
const DefaultDebounce = 150 * time.Millisecond

// Snapshot is the state of a session after one solve.
type Snapshot struct {
	Session string
	Seq     uint64
	System  *config.System
	// ParseErr is set when the latest text failed to parse. Program then
	// still holds the last good program.
	ParseErr error
	// Program is nil until the first text compiled successfully.
	Program *engine.Program
	Result  solver.Result
	Inputs  map[string]float64
}

// Outcome returns the snapshot as an engine outcome, or nil when nothing has
// compiled yet.
func (s Snapshot) Outcome() *engine.Outcome {
	if s.Program == nil {
		return nil
	}
	return &engine.Outcome{Program: s.Program, System: s.System, Result: s.Result, Inputs: s.Inputs}
}

// Sink receives snapshots. Deliver is called from the session goroutine.
type Sink interface {
	Deliver(ctx context.Context, snap Snapshot) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, snap Snapshot) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, snap Snapshot) error { return f(ctx, snap) }

// Options configure a Session.
type Options struct {
	// Debounce is the quiet period for text updates. Zero or less compiles
	// every update immediately.
	Debounce time.Duration
}

// Session is a live equation system.
type Session struct {
	id   string
	opts Options
	sink Sink

	mu              sync.Mutex
	pendingText     *string
	pendingBindings map[string]*float64
	hasBindings     bool
	wake            chan struct{}

	// owned by the Run goroutine
	system  config.System
	prog    *engine.Program
	lastErr error
	seq     uint64
}

// New creates a session for sys. Run must be called to start it.
func New(sys *config.System, opts Options, sink Sink) *Session {
	return &Session{
		id:     uuid.NewString(),
		opts:   opts,
		sink:   sink,
		wake:   make(chan struct{}, 1),
		system: *sys,
	}
}

// ID returns the unique identifier of the session.
func (s *Session) ID() string { return s.id }

// Name returns the system name.
func (s *Session) Name() string { return s.system.Name }

// SetText queues new equation text. It never blocks.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	s.pendingText = &text
	s.mu.Unlock()
	s.signal()
}

// SetBindings replaces the session's inputs. A nil value marks a variable as
// unset. It never blocks.
func (s *Session) SetBindings(bindings map[string]*float64) {
	cp := make(map[string]*float64, len(bindings))
	for k, v := range bindings {
		cp[k] = v
	}
	s.mu.Lock()
	s.pendingBindings = cp
	s.hasBindings = true
	s.mu.Unlock()
	s.signal()
}

func (s *Session) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run compiles and solves the initial system, then processes updates until
// ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	ctx = ctxlog.With(ctx, "system", s.system.Name, "session", s.id)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Session started.", "debounce", s.opts.Debounce)

	s.compile(ctx, s.system.Equations)
	s.solve(ctx)

	var (
		timer       *time.Timer
		timerC      <-chan time.Time
		textPending bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Session stopped.")
			return nil

		case <-s.wake:
			text, bindings, hasBindings := s.takePending()
			if text != nil {
				s.system.Equations = *text
				if s.opts.Debounce <= 0 {
					s.compile(ctx, *text)
				} else {
					textPending = true
					if timer == nil {
						timer = time.NewTimer(s.opts.Debounce)
					} else {
						if !timer.Stop() {
							select {
							case <-timer.C:
							default:
							}
						}
						timer.Reset(s.opts.Debounce)
					}
					timerC = timer.C
				}
			}
			if hasBindings {
				s.system.Bindings = bindings
			}
			if (text != nil && s.opts.Debounce <= 0) || (hasBindings && !textPending) {
				s.solve(ctx)
			}

		case <-timerC:
			timerC = nil
			textPending = false
			s.compile(ctx, s.system.Equations)
			s.solve(ctx)
		}
	}
}

func (s *Session) takePending() (*string, map[string]*float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, bindings, has := s.pendingText, s.pendingBindings, s.hasBindings
	s.pendingText, s.pendingBindings, s.hasBindings = nil, nil, false
	return text, bindings, has
}

func (s *Session) compile(ctx context.Context, text string) {
	logger := ctxlog.FromContext(ctx)
	prog, err := engine.Compile(ctx, s.system.Name, text)
	if err != nil {
		logger.Warn("Equations failed to parse, keeping the previous program.", "error", err)
		s.lastErr = err
		return
	}
	s.prog = prog
	s.lastErr = nil
}

func (s *Session) solve(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	s.seq++

	sys := s.system
	snap := Snapshot{
		Session:  s.id,
		Seq:      s.seq,
		System:   &sys,
		ParseErr: s.lastErr,
		Program:  s.prog,
	}
	if s.prog != nil {
		snap.Inputs = s.prog.Inputs(ctx, s.system.Bindings)
		snap.Result = s.prog.Solve(ctx, snap.Inputs)
	}

	if err := s.sink.Deliver(ctx, snap); err != nil {
		logger.Error("Failed to deliver snapshot.", "seq", snap.Seq, "error", err)
	}
}
