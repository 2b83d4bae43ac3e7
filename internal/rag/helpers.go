package rag

import (
	"errors"
	"net/http"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
)

var errMissingPayload = goerr.Wrap(contractModel.ErrInvalidUpload, "job has no request payload")

func returnOutput(job jobModel.Job) jobModel.Job {
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("Job step", "currentStep", job.CurrentStep)
	return job
}

// jobError marks the job failed. A message already set from the result is
// kept so the API shows the same text the CLI would.
func (s *service) jobError(job jobModel.Job, err error, code string) jobModel.Job {
	s.logger.Err(code, err, "jobId", job.Id)

	message := job.Error.Message
	if message == "" {
		message = http.StatusText(httpCode(err))
	}
	job.Error = jobModel.JobError{
		Code:    httpCode(err),
		Message: message,
		Retry:   contractModel.IsRetryable(err),
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

func httpCode(err error) int {
	switch {
	case errors.Is(err, contractModel.ErrInvalidUpload):
		return http.StatusBadRequest
	case errors.Is(err, contractModel.ErrStoreUnavailable), errors.Is(err, contractModel.ErrTransientProvider):
		return http.StatusServiceUnavailable
	case errors.Is(err, contractModel.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
