package cli

import (
	"log/slog"

	"github.com/aretw0/stackcalc/internal/config"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/observability"
	"github.com/aretw0/stackcalc/pkg/registry"
	"github.com/aretw0/stackcalc/pkg/session"
)

// Services is what the long-running servers share: a session manager over
// the configured store, the command catalogue and the metrics registry.
type Services struct {
	Sessions    *session.Manager
	Commands    *registry.Registry
	Metrics     *observability.Metrics
	Persistence *Persistence
}

// Close releases the store.
func (s *Services) Close() error {
	return s.Persistence.Close()
}

// NewServices wires the session manager from the configuration.
// Every session calculator reports to the audit log and to the metrics.
func NewServices(cfg config.Config, logger *slog.Logger) (*Services, error) {
	p, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	hooks := []domain.LifecycleHooks{observability.AuditHooks(logger), metrics.Hooks()}

	calcOpts, err := CalculatorOptions(cfg, logger, hooks...)
	if err != nil {
		p.Close()
		return nil, err
	}

	// The catalogue is taken from a throwaway calculator so that it lists
	// exactly what sessions can run, macros included.
	probe, err := NewCalculator(cfg, logger)
	if err != nil {
		p.Close()
		return nil, err
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithCalculatorOptions(calcOpts...),
	}
	if p.Locker != nil {
		opts = append(opts, session.WithLocker(p.Locker))
	}

	return &Services{
		Sessions:    session.NewManager(p.Store, opts...),
		Commands:    probe.Registry(),
		Metrics:     metrics,
		Persistence: p,
	}, nil
}
