package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/specialistvlad/equigrid/internal/app"
	"github.com/specialistvlad/equigrid/internal/config"
	"github.com/specialistvlad/equigrid/internal/parser"
	"github.com/specialistvlad/equigrid/internal/publish"
	"github.com/specialistvlad/equigrid/internal/report"
	"github.com/specialistvlad/equigrid/internal/session"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitFailure    = 1
	ExitUsage      = 2
	ExitIncomplete = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// options collects every flag value.
type options struct {
	logLevel  string
	logFormat string

	equations       []string
	binds           []string
	systems         []string
	format          string
	requireComplete bool

	publishURL       string
	publishEvent     string
	publishNamespace string
	publishTimeout   time.Duration
	publishInsecure  bool

	healthcheckPort int
	debounce        time.Duration
}

// Execute runs the command line args against a fresh command tree. Reports
// go to outW, logs and usage errors to errW.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, loader config.Loader) error {
	var ran bool
	root := newRootCommand(outW, errW, loader, &ran)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr
	case !ran:
		// cobra rejected the command line before any command ran.
		return usageError(err)
	case errors.Is(err, app.ErrIncomplete):
		return &ExitError{Code: ExitIncomplete, Message: err.Error()}
	default:
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
}

func newRootCommand(outW, errW io.Writer, loader config.Loader, ran *bool) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "equigrid",
		Short: "Solve systems of arithmetic equations",
		Long: `equigrid parses systems of equations such as

  x = y * 2
  y = z + z - p / 5
  z = 12

compiles them into a graph of single-assignment nodes and resolves every
value that the bound inputs allow.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	// run builds the app from the flags and hands it to fn.
	run := func(fn func(*app.App, context.Context) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(args)
			if err != nil {
				return usageError(err)
			}
			*ran = true
			a := app.NewApp(outW, errW, cfg, loader)
			return fn(a, cmd.Context())
		}
	}

	parseCmd := &cobra.Command{
		Use:   "parse [PATH...]",
		Short: "Print the parse trees of the equations",
		RunE:  run((*app.App).Parse),
	}
	addInputFlags(parseCmd, opts)
	addFormatFlag(parseCmd, opts)

	compileCmd := &cobra.Command{
		Use:   "compile [PATH...]",
		Short: "Print the compiled node list",
		RunE:  run((*app.App).Compile),
	}
	addInputFlags(compileCmd, opts)
	addFormatFlag(compileCmd, opts)

	solveCmd := &cobra.Command{
		Use:   "solve [PATH...]",
		Short: "Solve every system and print the report",
		RunE:  run((*app.App).Solve),
	}
	addInputFlags(solveCmd, opts)
	addFormatFlag(solveCmd, opts)
	addBindFlag(solveCmd, opts)
	addPublishFlags(solveCmd, opts)
	solveCmd.Flags().BoolVar(&opts.requireComplete, "require-complete", false, "Exit with code 3 when a system does not fully resolve.")

	watchCmd := &cobra.Command{
		Use:   "watch PATH...",
		Short: "Re-solve the workspace whenever its files change",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run((*app.App).Watch),
	}
	addFormatFlag(watchCmd, opts)
	addBindFlag(watchCmd, opts)
	addPublishFlags(watchCmd, opts)
	watchCmd.Flags().StringSliceVar(&opts.systems, "system", nil, "Only watch the named systems (repeatable).")
	watchCmd.Flags().DurationVar(&opts.debounce, "debounce", session.DefaultDebounce, "Quiet period before edited equations are recompiled.")
	watchCmd.Flags().IntVar(&opts.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")

	root.AddCommand(parseCmd, compileCmd, solveCmd, watchCmd)
	return root
}

func addInputFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringArrayVarP(&opts.equations, "equation", "e", nil, "Inline equation line, added to a system named 'inline' (repeatable).")
	cmd.Flags().StringSliceVar(&opts.systems, "system", nil, "Only process the named systems (repeatable).")
}

func addFormatFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(report.FormatText), "Report format. Options: 'text', 'json', 'yaml', 'cbor'.")
}

func addBindFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringArrayVarP(&opts.binds, "bind", "b", nil, "Bind a free variable as name=value. 'name=' unsets it (repeatable).")
}

func addPublishFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVar(&opts.publishURL, "publish-url", "", "Socket.IO server to publish reports to. Empty disables publishing.")
	f.StringVar(&opts.publishEvent, "publish-event", publish.DefaultEvent, "Event name reports are emitted on.")
	f.StringVar(&opts.publishNamespace, "publish-namespace", "/", "Socket.IO namespace.")
	f.DurationVar(&opts.publishTimeout, "publish-timeout", 10*time.Second, "Connection timeout for the publisher.")
	f.BoolVar(&opts.publishInsecure, "publish-insecure", false, "Skip TLS certificate verification for the publisher.")
}

// config translates the flag values into a validated app configuration.
func (o *options) config(args []string) (*app.Config, error) {
	bindings, err := ParseBindings(o.binds)
	if err != nil {
		return nil, err
	}

	return app.NewConfig(app.Config{
		Paths:           args,
		Inline:          o.equations,
		Systems:         o.systems,
		Bindings:        bindings,
		Format:          report.Format(o.format),
		RequireComplete: o.requireComplete,
		LogFormat:       strings.ToLower(o.logFormat),
		LogLevel:        strings.ToLower(o.logLevel),
		HealthcheckPort: o.healthcheckPort,
		Debounce:        o.debounce,
		Publish: publish.Options{
			URL:                o.publishURL,
			Namespace:          o.publishNamespace,
			Event:              o.publishEvent,
			Timeout:            o.publishTimeout,
			InsecureSkipVerify: o.publishInsecure,
		},
	})
}

// ParseBindings parses name=value pairs. An empty value yields a nil entry,
// which unsets the variable.
func ParseBindings(pairs []string) (map[string]*float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]*float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok {
			return nil, fmt.Errorf("invalid binding %q: expected name=value", pair)
		}
		if !parser.IsSymbol(name) {
			return nil, fmt.Errorf("invalid binding %q: %q is not a valid symbol name", pair, name)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			out[name] = nil
			continue
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid binding %q: %w", pair, err)
		}
		out[name] = &f
	}
	return out, nil
}
