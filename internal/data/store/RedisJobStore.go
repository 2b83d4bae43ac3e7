package store

import (
	"context"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/data/redisStore"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
)

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisJobStore(store *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  store,
		logger: logger_i.NewLogger("JobStore"),
	}
}

// GetJobStore returns a redis-backed store, or the in-memory one when redis
// cannot be reached.
func GetJobStore(ctx context.Context, settings config.RedisSettings) jobModel.JobStore {
	rs, err := redisStore.NewStore(ctx, settings)
	if err != nil {
		logger_i.NewLogger("JobStore").Err("Redis job store offline, using memory", err)
		return InitInMemoryJobStore()
	}
	return NewRedisJobStore(rs)
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	if err := s.store.SetJSON(ctx, job.Id, job.ForStorage(), config.RedisJobStoreTTL); err != nil {
		return goerr.Wrap(err, "failed to save job", goerr.V("jobId", job.Id))
	}
	s.logger.WithTrace(ctx).Debug("Saved job to Redis", "jobId", job.Id, "status", job.Status)
	return nil
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job
	found, err := s.store.GetJSON(ctx, jobId, &job)
	if err != nil {
		s.logger.WithTrace(ctx).Err("Error reading job from Redis", err, "jobId", jobId)
		return jobModel.Job{}, false
	}
	return job, found
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	if err := s.store.Del(ctx, jobID); err != nil {
		s.logger.WithTrace(ctx).Err("Error deleting job from Redis", err, "jobId", jobID)
		return
	}
	s.logger.Debug("Job deleted from Redis", "jobId", jobID)
}
