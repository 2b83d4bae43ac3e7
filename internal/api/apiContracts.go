package api

import (
	"time"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"3f8e2c1a-8d4b-4a8e-9c55-0c7b0e6a1f20"`
	JobType   string            `json:"job_type,omitempty" example:"Upload"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status   string                        `json:"status" example:"COMPLETE"`
	Upload   *contractModel.UploadResult   `json:"upload,omitempty"`
	Analysis *contractModel.AnalysisResult `json:"analysis,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	Service     string `json:"service" example:"contract-rag"`
	VectorStore string `json:"vector_store" example:"connected"`
}

// requests---------------------

type UploadRequest struct {
	Text         string `json:"text" validate:"required" example:"This Master Services Agreement is entered into..."`
	Filename     string `json:"filename" example:"msa.txt"`
	UploadedBy   string `json:"uploaded_by,omitempty" example:"legal-team"`
	Jurisdiction string `json:"jurisdiction,omitempty" example:"Delaware"`
	ContractType string `json:"contract_type,omitempty" example:"MSA"`
}

type AskRequest struct {
	Query        string `json:"query" validate:"required" example:"What are the termination rights?"`
	Jurisdiction string `json:"jurisdiction,omitempty" example:"Delaware"`
	ContractType string `json:"contract_type,omitempty" example:"MSA"`
}
