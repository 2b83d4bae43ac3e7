package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	jobmodel "github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobTimeout)
	defer cancel()
	log := logger.WithTrace(ctx).With("jobId", job.Id, "jobType", job.JobType)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, job)

	switch job.JobType {
	case jobmodel.JobTypeUpload:
		job = _ragService.IngestDocument(ctx, job)
	default:
		job = _ragService.ProcessRequest(ctx, job)
	}

	job.EndTime = time.Now()
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
	}
	saveJobState(ctx, job)
	log.Debug("Job finished", "status", job.Status)
}

func removeWorker(reason string) {
	count := atomic.AddInt64(&currentWorkerCount, -1)
	metrics.DecrementActiveWorkerCount()
	logger.Info("Removed worker", "reason", reason, "workerCount", count)
	workerWaitGroup.Done()
}

// saveJobState writes with a fresh deadline so a job that ran out of time
// still records its outcome.
func saveJobState(ctx context.Context, job jobmodel.Job) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.RedisDialTimeout)
	defer cancel()
	if err := _jobService.JobStore.SaveJob(saveCtx, job); err != nil {
		logger.WithTrace(ctx).Err("Failed to update job state", err, "jobId", job.Id)
	}
}
