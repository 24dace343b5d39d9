package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/stackcalc"
	"github.com/aretw0/stackcalc/internal/config"
	"github.com/aretw0/stackcalc/internal/presentation/tui"
	"github.com/aretw0/stackcalc/pkg/observability"
	"github.com/aretw0/stackcalc/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config    config.Config
	SessionID string
	Fresh     bool
	JSON      bool

	In  io.Reader
	Out io.Writer
}

// RunSession runs the interactive (or piped) calculator until its input ends.
func RunSession(ctx context.Context, opts RunOptions, logger *slog.Logger) error {
	interactive := !opts.JSON && IsTerminal(opts.In)

	calc, err := NewCalculator(opts.Config, logger, observability.AuditHooks(logger))
	if err != nil {
		return err
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(newHandler(opts, interactive)),
	}

	if opts.SessionID != "" {
		p, err := OpenStore(opts.Config.Store)
		if err != nil {
			return err
		}
		defer p.Close()

		if opts.Fresh {
			if err := p.Store.Delete(ctx, opts.SessionID); err != nil {
				return fmt.Errorf("failed to reset session %s: %w", opts.SessionID, err)
			}
		}
		runnerOpts = append(runnerOpts, runner.WithStore(p.Store), runner.WithSessionID(opts.SessionID))
		logger.Info("Session active", "session_id", opts.SessionID, "store", opts.Config.Store.Kind)
	}

	if interactive {
		tui.PrintBanner(opts.Out, stackcalc.Version)
	}

	if err := runner.NewRunner(runnerOpts...).Run(ctx, calc); err != nil {
		return err
	}

	if interactive {
		printSystemMessage(opts.Out, "Bye.")
	}
	return nil
}

func newHandler(opts RunOptions, interactive bool) runner.IOHandler {
	if opts.JSON {
		return runner.NewJSONHandler(opts.In, opts.Out)
	}

	handlerOpts := []runner.TextHandlerOption{
		runner.WithPrecision(opts.Config.Precision),
	}
	if interactive {
		handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(tui.NewRenderer(opts.Out)))
	} else {
		handlerOpts = append(handlerOpts, runner.WithPrompt(""))
	}
	return runner.NewTextHandler(opts.In, opts.Out, handlerOpts...)
}
