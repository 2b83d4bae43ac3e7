package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/job"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           = logger_i.NewLogger("JobHandler")
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
}

func InitJobHandler(jobService *job.Service, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, ragService: ragService}
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(ctx context.Context, newJob newJobData) {
	logJH.WithTrace(ctx).Info("Creating new job", "jobId", newJob.id)
	handlerInstance.pushToJobChannel(ctx, newJob)
}

func GetJobStatus(ctx context.Context, id string) (result jobModel.Job, isFound bool) {
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctx, id)
	}
	return result, false
}

func GetIndexStats(ctx context.Context) contractModel.IndexStats {
	if handlerInstance == nil || handlerInstance.ragService == nil {
		return contractModel.IndexStats{Status: contractModel.IndexDisconnected}
	}
	return handlerInstance.ragService.IndexStats(ctx)
}

// private methods
func (h *JobHandler) pushToJobChannel(ctx context.Context, newJob newJobData) {
	_job := jobModel.Job{
		Id:          newJob.id,
		CreatedTime: time.Now(),
		TraceId:     newJob.traceId,
	}

	if newJob.upload != nil {
		_job.CurrentStep = jobModel.UploadInit
		_job.JobType = jobModel.JobTypeUpload
		_job.JobPayload.Upload = newJob.upload
	} else {
		_job.CurrentStep = jobModel.AskInit
		_job.JobType = jobModel.JobTypeAsk
		_job.JobPayload.Ask = newJob.ask
	}

	h.service.Enqueue(ctx, _job)
}
