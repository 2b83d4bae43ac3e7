package job

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

var logger = logger_i.NewLogger("JobService")

// Service is the queue between the HTTP handlers and the worker pool.
type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
	}
}

// Enqueue records j as queued so /status can see it, then hands it to the
// pool. The send blocks while the buffer is full.
func (s *Service) Enqueue(ctx context.Context, j jobModel.Job) {
	j.Status = jobModel.JobStatusQueued
	if err := s.JobStore.SaveJob(ctx, j); err != nil {
		logger.WithTrace(ctx).Err("Failed to save queued job", err, "jobId", j.Id)
	}

	metrics.IncrementJobsInQueue()
	s.JobChannel <- j

	if s.needsWorker(j) {
		metrics.StartDispatcherSignalCount()
		s.DispatcherChannel <- true
	}
}

// needsWorker asks for a worker every RequestsPerNewWorkerCount requests and
// for every upload, since uploads fan out into many provider calls.
func (s *Service) needsWorker(j jobModel.Job) bool {
	n := atomic.AddInt64(&s.RequestCount, 1)
	return n%config.RequestsPerNewWorkerCount == 0 || j.JobType == jobModel.JobTypeUpload
}
