package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	AskInit      InternalStatus = "AskInit"
	RetrievalRun InternalStatus = "Retrieval"

	UploadInit       InternalStatus = "UploadInit"
	UploadProcessing InternalStatus = "UploadProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeAsk    JobType = "Ask"
	JobTypeUpload JobType = "Upload"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Ask    *contractModel.AskRequest    `json:"ask,omitempty"`
	Upload *contractModel.UploadRequest `json:"upload,omitempty"`

	Analysis     *contractModel.AnalysisResult `json:"analysis,omitempty"`
	UploadResult *contractModel.UploadResult   `json:"upload_result,omitempty"`
}

// ForStorage returns a copy without the uploaded text; only the worker
// needs it, and it can be megabytes long.
func (j Job) ForStorage() Job {
	if j.JobPayload.Upload != nil {
		req := *j.JobPayload.Upload
		req.Text = ""
		j.JobPayload.Upload = &req
	}
	return j
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
