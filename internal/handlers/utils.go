package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akolanti/ContractRAG/internal/adapter"
	"github.com/akolanti/ContractRAG/internal/adapter/utils"
	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out
		logRH.Err("Error encoding response", err)
	}
}

func validateId(ctx context.Context, id string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.WithTrace(ctx).Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(ctx, id)
}

func validateContext(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		logRH.WithTrace(ctx).Warn("context error", "error", err)
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func processNewJobData(w http.ResponseWriter, request *http.Request, newJob newJobData) {
	newJob.id = utils.GetNewUUID()
	if trace, ok := request.Context().Value(config.TRACE_ID_KEY).(string); ok {
		newJob.traceId = trace
	}
	CreateNewJob(request.Context(), newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}
