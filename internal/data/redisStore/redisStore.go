package redisStore

import (
	"context"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	DB     int
	logger *logger_i.Logger
}

// NewStore connects to the configured redis logical DB and closes the client
// when ctx is cancelled. An unreachable server is reported as ErrStoreUnavailable so
// callers can fall back to memory.
func NewStore(ctx context.Context, settings config.RedisSettings) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  settings.Addr,
		Password:              settings.Password,
		DB:                    settings.DB,
		ContextTimeoutEnabled: true,
		DialTimeout:           config.RedisDialTimeout,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	log := logger_i.NewLogger("Redis Store").With("addr", settings.Addr, "db", settings.DB)

	pingCtx, cancel := context.WithTimeout(ctx, config.RedisDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(contractModel.Classify(contractModel.ErrStoreUnavailable, err),
			"redis is offline", goerr.V("addr", settings.Addr))
	}
	log.Info("Redis store connected")

	s := &Store{client: client, DB: settings.DB, logger: log}
	go s.closeOnDone(ctx)
	return s, nil
}

func (s *Store) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	s.logger.Info("Closing Redis store")
	if err := s.client.Close(); err != nil {
		s.logger.Err("Error closing redis client", err)
		return
	}
	s.logger.Info("Redis store closed successfully")
}

// NewTestStore wraps an existing client, for miniredis-backed tests.
func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		logger: logger_i.NewLogger("Redis Store"),
	}
}
