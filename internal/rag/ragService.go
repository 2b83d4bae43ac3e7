package rag

import (
	"context"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/internal/rag/ingest"
	"github.com/akolanti/ContractRAG/internal/rag/retrieval"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

// Service is everything the outer surfaces (worker, CLI, MCP) may call.
// The synchronous methods return the caller-facing results; the job methods
// wrap them for the asynchronous API.
type Service interface {
	Upload(ctx context.Context, req contractModel.UploadRequest) (contractModel.UploadResult, error)
	Ask(ctx context.Context, req contractModel.AskRequest) (contractModel.AnalysisResult, error)
	Retrieve(ctx context.Context, query string, k int) ([]contractModel.SearchHit, error)
	IndexStats(ctx context.Context) contractModel.IndexStats

	ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	pipeline     *ingest.Pipeline
	orchestrator *retrieval.Orchestrator
	store        vectorDB.Store
	indexName    string
	logger       *logger_i.Logger
}

func NewService(pipeline *ingest.Pipeline, orchestrator *retrieval.Orchestrator, store vectorDB.Store, indexName string) Service {
	return &service{
		pipeline:     pipeline,
		orchestrator: orchestrator,
		store:        store,
		indexName:    indexName,
		logger:       logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) Upload(ctx context.Context, req contractModel.UploadRequest) (contractModel.UploadResult, error) {
	defer metrics.Track("document_upload")()
	return s.pipeline.Upload(ctx, req)
}

func (s *service) Ask(ctx context.Context, req contractModel.AskRequest) (contractModel.AnalysisResult, error) {
	defer metrics.Track("contract_ask")()
	return s.orchestrator.Answer(ctx, req)
}

func (s *service) Retrieve(ctx context.Context, query string, k int) ([]contractModel.SearchHit, error) {
	return s.orchestrator.Retrieve(ctx, query, k)
}

// IndexStats never fails; problems are reported in the Status field.
func (s *service) IndexStats(ctx context.Context) contractModel.IndexStats {
	if s.store == nil {
		return contractModel.IndexStats{Status: contractModel.IndexDisconnected, IndexName: s.indexName}
	}
	ctx, cancel := context.WithTimeout(ctx, config.VectorStoreTimeout)
	defer cancel()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.WithTrace(ctx).Err("Index stats failed", err)
		stats.Status = contractModel.IndexError
		if stats.Error == "" {
			stats.Error = err.Error()
		}
		if stats.IndexName == "" {
			stats.IndexName = s.indexName
		}
	}
	return stats
}

func (s *service) ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("jobId", job.Id)
	if job.JobPayload.Ask == nil {
		return s.jobError(job, errMissingPayload, "ASK_PAYLOAD_MISSING")
	}

	job = logOutput(job, jobModel.RetrievalRun, log)
	res, err := s.Ask(ctx, *job.JobPayload.Ask)
	job.JobPayload.Analysis = &res
	if err != nil {
		job.Error.Message = res.Error
		return s.jobError(job, err, "ASK_FAILURE")
	}
	return returnOutput(job)
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("jobId", job.Id)
	if job.JobPayload.Upload == nil {
		return s.jobError(job, errMissingPayload, "UPLOAD_PAYLOAD_MISSING")
	}

	job = logOutput(job, jobModel.UploadProcessing, log)
	res, err := s.Upload(ctx, *job.JobPayload.Upload)
	job.JobPayload.UploadResult = &res
	if err != nil {
		job.Error.Message = res.Error
		return s.jobError(job, err, "UPLOAD_FAILURE")
	}
	return returnOutput(job)
}
