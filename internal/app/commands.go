package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/equigrid/internal/ctxlog"
	"github.com/specialistvlad/equigrid/internal/engine"
	"github.com/specialistvlad/equigrid/internal/parser"
	"github.com/specialistvlad/equigrid/internal/report"
)

// Parse prints the parse trees of every selected system.
func (a *App) Parse(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Parse method started.")

	model, err := a.workspace(ctx)
	if err != nil {
		return err
	}

	doc := &report.ParseDocument{}
	failed := 0
	for _, sys := range model.Systems {
		eqs, err := parser.Parse(sys.Equations)
		if err != nil {
			failed++
			a.metrics.ObserveParseError(sys.Name)
			logger.Error("Failed to parse system.", "system", sys.Name, "source", sys.Source, "error", err)
			doc.Systems = append(doc.Systems, report.ParsedSystem{Name: sys.Name, FreeVariables: []string{}, Error: err.Error()})
			continue
		}
		doc.Systems = append(doc.Systems, report.Parsed(sys.Name, eqs))
	}

	if err := a.writeParsed(doc); err != nil {
		return err
	}
	return systemsFailed(failed, len(model.Systems))
}

// Compile prints the compiled node list of every selected system.
func (a *App) Compile(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Compile method started.")

	model, err := a.workspace(ctx)
	if err != nil {
		return err
	}

	doc := &report.Document{}
	failed := 0
	for _, sys := range model.Systems {
		prog, err := engine.Compile(ctxlog.With(ctx, "source", sys.Source), sys.Name, sys.Equations)
		if err != nil {
			failed++
			a.metrics.ObserveParseError(sys.Name)
			logger.Error("Failed to compile system.", "system", sys.Name, "error", err)
			doc.Systems = append(doc.Systems, report.Failed(sys.Name, err))
			continue
		}
		sr := report.Compiled(prog)
		sr.Description = sys.Description
		sr.Source = sys.Source
		doc.Systems = append(doc.Systems, sr)
	}

	if err := a.write(doc); err != nil {
		return err
	}
	return systemsFailed(failed, len(model.Systems))
}

// Solve compiles and solves every selected system, prints the report and,
// when configured, publishes it.
func (a *App) Solve(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Solve method started.")

	model, err := a.workspace(ctx)
	if err != nil {
		return err
	}

	doc := &report.Document{}
	failed := 0
	var incomplete []string
	for _, sys := range model.Systems {
		out, err := engine.Run(ctx, sys, a.config.Bindings)
		if err != nil {
			failed++
			a.metrics.ObserveParseError(sys.Name)
			logger.Error("Failed to compile system.", "system", sys.Name, "error", err)
			doc.Systems = append(doc.Systems, report.Failed(sys.Name, err))
			continue
		}
		a.metrics.ObserveSolve(sys.Name, out.Result)
		sr := report.Solved(out)
		if !out.Result.Completed {
			incomplete = append(incomplete, sys.Name)
			logger.Info("System did not fully resolve.", "system", sys.Name, "unresolved", sr.Unresolved())
		}
		doc.Systems = append(doc.Systems, sr)
	}
	logger.Info("🏁 Solve finished.", "systems", len(model.Systems), "incomplete", len(incomplete), "failed", failed)

	if err := a.write(doc); err != nil {
		return err
	}

	if err := a.publishOnce(ctx, doc); err != nil {
		return err
	}

	if err := systemsFailed(failed, len(model.Systems)); err != nil {
		return err
	}
	if a.config.RequireComplete && len(incomplete) > 0 {
		return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(incomplete, ", "))
	}
	return nil
}

func (a *App) publishOnce(ctx context.Context, doc *report.Document) error {
	client, err := a.dialPublisher(ctx)
	if err != nil || client == nil {
		return err
	}
	defer client.Close()

	err = client.Publish(ctx, doc)
	a.metrics.ObservePublish(err)
	if err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Report published.", "systems", len(doc.Systems))
	return nil
}

func (a *App) write(doc *report.Document) error {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	if err := report.Write(a.outW, doc, a.config.Format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (a *App) writeParsed(doc *report.ParseDocument) error {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	if err := report.WriteParsed(a.outW, doc, a.config.Format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func systemsFailed(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d systems failed to compile", failed, total)
}
