package cli

import (
	"fmt"

	"github.com/aretw0/stackcalc/internal/config"
	"github.com/aretw0/stackcalc/pkg/adapters/file"
	"github.com/aretw0/stackcalc/pkg/adapters/memory"
	"github.com/aretw0/stackcalc/pkg/adapters/redis"
	"github.com/aretw0/stackcalc/pkg/persistence/middleware"
	"github.com/aretw0/stackcalc/pkg/ports"
)

// Persistence bundles the snapshot store with its optional distributed locker.
type Persistence struct {
	Store  ports.SnapshotStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the store's connections, if any.
func (p *Persistence) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// OpenStore creates the snapshot store selected by the configuration, sealed
// with the configured encryption key if there is one.
// The redis store also provides a distributed locker over the same client.
func OpenStore(cfg config.StoreConfig) (*Persistence, error) {
	p, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.EncryptionKey == "" {
		return p, nil
	}

	key, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("store encryption key: %w", err)
	}
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		p.Close()
		return nil, err
	}
	p.Store = middleware.Chain(p.Store, mw)
	return p, nil
}

func openBackend(cfg config.StoreConfig) (*Persistence, error) {
	switch cfg.Kind {
	case config.StoreMemory:
		return &Persistence{Store: memory.NewStore()}, nil
	case config.StoreFile, "":
		return &Persistence{Store: file.New(cfg.Path)}, nil
	case config.StoreRedis:
		store := redis.New(cfg.RedisAddr, "", 0,
			redis.WithPrefix(cfg.RedisPrefix),
			redis.WithTTL(cfg.TTL),
		)
		return &Persistence{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), cfg.RedisPrefix),
			close:  store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}
