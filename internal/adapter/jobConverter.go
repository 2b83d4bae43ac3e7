package adapter

import (
	"fmt"
	"strings"

	"github.com/akolanti/ContractRAG/internal/api"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		JobType:   string(job.JobType),
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:   string(job.Status),
			Upload:   job.JobPayload.UploadResult,
			Analysis: job.JobPayload.Analysis,
		},
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id: id,
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

func ToUploadRequest(r api.UploadRequest) contractModel.UploadRequest {
	return contractModel.UploadRequest{
		Text:         r.Text,
		Filename:     strings.TrimSpace(r.Filename),
		UploadedBy:   strings.TrimSpace(r.UploadedBy),
		Jurisdiction: strings.TrimSpace(r.Jurisdiction),
		ContractType: strings.TrimSpace(r.ContractType),
	}
}

func ToAskRequest(r api.AskRequest) contractModel.AskRequest {
	return contractModel.AskRequest{
		Query:        strings.TrimSpace(r.Query),
		Jurisdiction: strings.TrimSpace(r.Jurisdiction),
		ContractType: strings.TrimSpace(r.ContractType),
	}
}

func ToHealthResponse(stats contractModel.IndexStats) api.HealthResponse {
	status := "healthy"
	if stats.Status != contractModel.IndexConnected {
		status = "degraded"
	}
	return api.HealthResponse{
		Status:      status,
		Service:     "contract-rag",
		VectorStore: stats.Status,
	}
}
