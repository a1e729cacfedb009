package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/equigrid/internal/config"
	"github.com/specialistvlad/equigrid/internal/ctxlog"
	"github.com/specialistvlad/equigrid/internal/engine"
	"github.com/specialistvlad/equigrid/internal/publish"
	"github.com/specialistvlad/equigrid/internal/report"
	"github.com/specialistvlad/equigrid/internal/session"
	"github.com/specialistvlad/equigrid/internal/watch"
)

// liveSession is a running session and the means to stop it.
type liveSession struct {
	sess   *session.Session
	cancel context.CancelFunc
	done   chan struct{}
}

// supervisor keeps one session per workspace system.
type supervisor struct {
	app      *App
	sink     session.Sink
	mu       sync.Mutex
	sessions map[string]*liveSession
}

// Watch solves every selected system and re-solves it whenever the workspace
// changes, until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Watch method started.")

	if len(a.config.Paths) == 0 {
		return errors.New("watch requires at least one workspace path")
	}

	model, err := a.workspace(ctx)
	if err != nil {
		return err
	}

	a.startHealthCheckServer(ctx)
	defer a.closeHealthCheckServer(ctx)

	client, err := a.dialPublisher(ctx)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}

	sup := &supervisor{
		app:      a,
		sink:     a.liveSink(client),
		sessions: make(map[string]*liveSession),
	}
	defer sup.stopAll()
	sup.sync(ctx, model)

	fw, err := watch.New(a.config.Paths, func(ctx context.Context, paths []string) {
		logger.Info("🔄 Workspace changed, reloading.", "files", paths)
		model, err := a.workspace(ctx)
		if err != nil {
			logger.Warn("Workspace reload failed, keeping the running systems.", "error", err)
			return
		}
		sup.sync(ctx, model)
	}, watch.Options{Extensions: a.loader.Extensions()})
	if err != nil {
		return fmt.Errorf("failed to watch workspace: %w", err)
	}

	logger.Info("👀 Watching workspace.", "paths", a.config.Paths, "systems", model.Names())
	if err := fw.Run(ctx); err != nil {
		return err
	}
	logger.Info("🏁 Watch finished.")
	return nil
}

// sync starts sessions for new systems, updates existing ones and stops the
// ones that disappeared from the workspace.
func (s *supervisor) sync(ctx context.Context, model *config.Model) {
	logger := ctxlog.FromContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(model.Systems))
	for _, sys := range model.Systems {
		seen[sys.Name] = true
		bindings := engine.MergeBindings(sys.Bindings, s.app.config.Bindings)

		if live, ok := s.sessions[sys.Name]; ok {
			live.sess.SetText(sys.Equations)
			live.sess.SetBindings(bindings)
			continue
		}

		started := *sys
		started.Bindings = bindings
		sess := session.New(&started, session.Options{Debounce: s.app.config.Debounce}, s.sink)
		sessCtx, cancel := context.WithCancel(ctx)
		live := &liveSession{sess: sess, cancel: cancel, done: make(chan struct{})}
		s.sessions[sys.Name] = live
		go func() {
			defer close(live.done)
			if err := sess.Run(sessCtx); err != nil {
				logger.Error("Session failed.", "system", sess.Name(), "error", err)
			}
		}()
		logger.Debug("Session started.", "system", sys.Name, "session", sess.ID())
	}

	for name, live := range s.sessions {
		if seen[name] {
			continue
		}
		live.cancel()
		<-live.done
		delete(s.sessions, name)
		logger.Info("System removed from workspace.", "system", name)
	}
}

func (s *supervisor) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, live := range s.sessions {
		live.cancel()
		<-live.done
		delete(s.sessions, name)
	}
}

// liveSink reports every snapshot, records metrics and publishes when a
// client is connected.
func (a *App) liveSink(client *publish.Client) session.Sink {
	return session.SinkFunc(func(ctx context.Context, snap session.Snapshot) error {
		if snap.ParseErr != nil {
			a.metrics.ObserveParseError(snap.System.Name)
		}

		var sr report.SystemReport
		if out := snap.Outcome(); out != nil {
			a.metrics.ObserveSolve(snap.System.Name, out.Result)
			sr = report.Solved(out)
			if snap.ParseErr != nil {
				sr.Warnings = append(sr.Warnings, "showing the previous equations: "+snap.ParseErr.Error())
			}
		} else {
			sr = report.Failed(snap.System.Name, snap.ParseErr)
		}
		doc := &report.Document{Systems: []report.SystemReport{sr}}

		if err := a.writeSnapshot(doc); err != nil {
			return err
		}
		if client == nil {
			return nil
		}
		err := client.Publish(ctx, doc)
		a.metrics.ObservePublish(err)
		if err != nil {
			return fmt.Errorf("failed to publish report: %w", err)
		}
		return nil
	})
}

// writeSnapshot writes one snapshot report followed by a separator in text
// mode.
func (a *App) writeSnapshot(doc *report.Document) error {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	if err := report.Write(a.outW, doc, a.config.Format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if a.config.Format == report.FormatText {
		fmt.Fprintln(a.outW)
	}
	return nil
}
