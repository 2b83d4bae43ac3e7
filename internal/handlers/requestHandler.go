package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/akolanti/ContractRAG/internal/adapter"
	"github.com/akolanti/ContractRAG/internal/adapter/utils"
	"github.com/akolanti/ContractRAG/internal/api"
	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

type newJobData struct {
	id      string
	traceId string
	upload  *contractModel.UploadRequest
	ask     *contractModel.AskRequest
}

// HealthHandler godoc
// @Summary      Service health
// @Description  Reports whether the service is up and whether the vector store answers.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, adapter.ToHealthResponse(GetIndexStats(r.Context())))
}

// StatsHandler godoc
// @Summary      Vector index statistics
// @Description  Returns the live vector count, index name, dimension and backend.
// @Tags         Index
// @Produce      json
// @Success      200  {object}  contractModel.IndexStats
// @Router       /stats [get]
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		writeJsonResponse(w, http.StatusOK, GetIndexStats(r.Context()))
	}
}

// UploadHandler godoc
// @Summary      Upload contract text
// @Description  Queues a plain-text contract for chunking, deduplication, embedding and indexing. Poll the status URL for the upload result.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.UploadRequest    true  "Contract text and metadata"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Missing text or body too large"
// @Router       /upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var requestData api.UploadRequest
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+64<<10)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.WithTrace(r.Context()).Warn("Bad upload request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}
	if strings.TrimSpace(requestData.Text) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, requestData.Filename, "text is required")
		return
	}
	req := adapter.ToUploadRequest(requestData)
	processNewJobData(w, r, newJobData{upload: &req})
}

// AskHandler godoc
// @Summary      Ask about uploaded contracts
// @Description  Queues a question. The job result is a structured analysis with citations, or general guidance when nothing relevant is stored.
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest       true  "Question and optional context"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Missing query"
// @Router       /ask [post]
func AskHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var requestData api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		logRH.WithTrace(r.Context()).Warn("Bad ask request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}
	req := adapter.ToAskRequest(requestData)
	if req.Query == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "query is required")
		return
	}
	processNewJobData(w, r, newJobData{ask: &req})
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a job, with its upload result or analysis once finished.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(r.Context(), idString)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}
