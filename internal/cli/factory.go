package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/stackcalc"
	"github.com/aretw0/stackcalc/internal/config"
	"github.com/aretw0/stackcalc/pkg/adapters/macros"
	"github.com/aretw0/stackcalc/pkg/domain"
)

// CalculatorOptions translates the configuration into calculator options.
// Macros are loaded eagerly so that a broken macros file fails at startup.
func CalculatorOptions(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) ([]stackcalc.Option, error) {
	opts := []stackcalc.Option{
		stackcalc.WithLogger(logger),
		stackcalc.WithScriptDir(cfg.ScriptDir),
		stackcalc.WithMaxHistory(cfg.MaxHistory),
	}
	for _, h := range hooks {
		opts = append(opts, stackcalc.WithLifecycleHooks(h))
	}

	if cfg.Macros != "" {
		defs, err := macros.Load(cfg.Macros)
		if err != nil {
			return nil, err
		}
		logger.Debug("macros loaded", "path", cfg.Macros, "count", len(defs))
		opts = append(opts, stackcalc.WithMacros(defs))
	}
	return opts, nil
}

// NewCalculator builds a calculator from the configuration.
func NewCalculator(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*stackcalc.Calculator, error) {
	opts, err := CalculatorOptions(cfg, logger, hooks...)
	if err != nil {
		return nil, err
	}
	calc, err := stackcalc.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing calculator: %w", err)
	}
	return calc, nil
}
