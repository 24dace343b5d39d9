package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/stackcalc"
	"github.com/aretw0/stackcalc/internal/logging"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Result is the outcome of one line entered into a session.
type Result struct {
	Stack    []float64 `json:"stack"`
	Messages []string  `json:"messages"`
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Locks are reference counted and dropped once unused.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex
	locks map[string]*lockEntry
	live  map[string]*stackcalc.Calculator

	calcOpts []stackcalc.Option
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	logger   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithCalculatorOptions sets the options every session calculator is built with
// (registry, macros, script directory, hooks).
func WithCalculatorOptions(opts ...stackcalc.Option) Option {
	return func(m *Manager) {
		m.calcOpts = append(m.calcOpts, opts...)
	}
}

// NewManager creates a new Session Manager with the given snapshot store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		live:    make(map[string]*stackcalc.Calculator),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// LoadOrStart returns the stack of a session, creating an empty session if needed.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) ([]float64, error) {
	var values []float64
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, sessionID)
		if err == nil {
			values = snap.Values
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		if err := m.store.Save(ctx, sessionID, domain.NewSnapshot(sessionID, nil)); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		values = []float64{}
		m.logger.Debug("session created", "session_id", sessionID)
		return nil
	})
	return values, err
}

// Stack returns the stored stack of an existing session.
func (m *Manager) Stack(ctx context.Context, sessionID string) ([]float64, error) {
	var values []float64
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		values = snap.Values
		if values == nil {
			values = []float64{}
		}
		return nil
	})
	return values, err
}

// Enter feeds one line to an existing session and persists the resulting stack.
// Calculator messages are returned in the result, not as an error.
func (m *Manager) Enter(ctx context.Context, sessionID, line string) (*Result, error) {
	var res *Result
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		calc, err := m.calculator(ctx, sessionID)
		if err != nil {
			return err
		}

		msgs := calc.Eval(ctx, line)
		stack := calc.Stack()
		if err := m.store.Save(ctx, sessionID, domain.NewSnapshot(sessionID, stack)); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		res = &Result{Stack: stack, Messages: msgs}
		return nil
	})
	return res, err
}

// calculator returns the live calculator for a session, resynchronised with the store.
// If another process changed the stored stack, the local history no longer applies and is dropped.
// Must be called with the session lock held.
func (m *Manager) calculator(ctx context.Context, sessionID string) (*stackcalc.Calculator, error) {
	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	calc, ok := m.live[sessionID]
	m.mu.Unlock()

	if ok {
		if !slices.Equal(calc.Stack(), snap.Values) {
			m.logger.Debug("session changed elsewhere, resetting history", "session_id", sessionID)
			calc.Reset(snap.Values)
		}
		return calc, nil
	}

	opts := append(slices.Clone(m.calcOpts), stackcalc.WithInitialStack(snap.Values))
	calc, err = stackcalc.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator: %w", err)
	}

	m.mu.Lock()
	m.live[sessionID] = calc
	m.mu.Unlock()
	return calc, nil
}

// Delete removes the session from the store and forgets its history.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.live, sessionID)
		m.mu.Unlock()
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
