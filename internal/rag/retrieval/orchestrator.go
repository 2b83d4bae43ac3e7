package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
)

const (
	maxSummaryCitations = 3

	fallbackSummary      = contractModel.NoDocumentsPrefix + " I'd be happy to help with general contract guidance, and once you upload documents I can provide specific analysis."
	fallbackErrorSummary = contractModel.NoDocumentsPrefix + " I'd be happy to help with general contract guidance! For specific analysis of your contracts, please upload your documents first."
	fallbackNote         = "This response is based on general best practices since no relevant documents were found"
)

type Config struct {
	TopK int
}

func DefaultConfig() Config {
	return Config{TopK: config.RetrievalTopK}
}

// Orchestrator runs the read path: filter, embed, search, then answer from
// the retrieved sections or fall back to general guidance.
type Orchestrator struct {
	cfg      Config
	embedder embedding.Embedder
	store    vectorDB.Store
	provider llm.Provider
	filter   DomainFilter
	logger   *logger_i.Logger
}

func New(cfg Config, embedder embedding.Embedder, store vectorDB.Store, provider llm.Provider) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		embedder: embedder,
		store:    store,
		provider: provider,
		logger:   logger_i.NewLogger("Retrieval"),
	}
}

// WithDomainFilter installs the out-of-domain check run before retrieval.
// A nil filter lets every query through.
func (o *Orchestrator) WithDomainFilter(f DomainFilter) *Orchestrator {
	o.filter = f
	return o
}

// Retrieve returns up to k stored chunks ranked by similarity to query. An
// empty result means nothing relevant is stored; a store outage is an error.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, k int) ([]contractModel.SearchHit, error) {
	if k <= 0 {
		return []contractModel.SearchHit{}, nil
	}
	vec, err := o.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}

	done := metrics.Track("vector_query")
	hits, err := o.store.Query(ctx, vec, k)
	done()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search index", goerr.V("k", k))
	}
	vectorDB.SortHits(hits)
	return hits, nil
}

// Answer always returns a result callers can render. err is non-nil when the
// result describes a failure, so callers can tell "try again" from "no match".
func (o *Orchestrator) Answer(ctx context.Context, req contractModel.AskRequest) (contractModel.AnalysisResult, error) {
	log := o.logger.WithTrace(ctx)

	if o.filter != nil && !o.filter(req.Query) {
		log.Info("Query filtered as out of domain")
		return contractModel.FilteredResult(), nil
	}

	hits, err := o.Retrieve(ctx, req.Query, o.cfg.TopK)
	if err != nil {
		log.Err("Retrieval failed", err)
		if errors.Is(err, contractModel.ErrStoreUnavailable) {
			return contractModel.UnavailableResult(), err
		}
		return contractModel.FailedResult("Analysis failed", err, "Contract analysis could not be completed"), err
	}

	if len(hits) == 0 {
		log.Info("No stored content matched, using general guidance")
		return o.fallback(ctx, req), nil
	}

	raw, err := o.generate(ctx, llm.AnalysisRequest(req.Query, BuildContext(hits), req.Jurisdiction, req.ContractType))
	if err != nil {
		log.Err("Generation failed", err)
		if errors.Is(err, contractModel.ErrMalformedResponse) {
			return parseFailure(err), err
		}
		return contractModel.FailedResult("Analysis failed", err, "Contract analysis could not be completed"), err
	}

	analysis, err := llm.ParseAnalysis(raw)
	if err != nil {
		log.Err("Model response could not be parsed", err)
		return parseFailure(err), err
	}
	return withCitations(analysis, hits), nil
}

func (o *Orchestrator) generate(ctx context.Context, req llm.GenerationRequest) (string, error) {
	defer metrics.Track("llm_generation")()
	ctx, cancel := context.WithTimeout(ctx, config.LLMTimeout)
	defer cancel()
	return o.provider.Generate(ctx, req)
}

// fallback answers from general knowledge. It never fails: a generation
// problem yields the static fallback instead.
func (o *Orchestrator) fallback(ctx context.Context, req contractModel.AskRequest) contractModel.AnalysisResult {
	res := contractModel.EmptyAnalysis()
	res.RetrievedChunkCount = 0

	raw, err := o.generate(ctx, llm.FallbackRequest(req.Query, req.Jurisdiction, req.ContractType))
	var analysis llm.Analysis
	if err == nil {
		analysis, err = llm.ParseAnalysis(raw)
	}
	if err != nil {
		o.logger.WithTrace(ctx).Err("Fallback generation failed, using static guidance", err)
		res.Summary = fallbackErrorSummary
		res.Notes = append([]string{}, llm.UploadInstructions...)
		res.StorageType = contractModel.StorageFallbackError
		metrics.IncrementFallbackAnswers(res.StorageType)
		return res
	}

	res.RiskyClauses = nonNil(analysis.RiskyClauses)
	res.MissingProtections = nonNil(analysis.MissingProtections)
	res.OverallRiskScore = analysis.RiskScore()
	res.Summary = ensurePrefix(analysis.Summary)
	res.Notes = analysis.Notes
	if len(res.Notes) == 0 {
		res.Notes = []string{fallbackNote}
	}
	res.StorageType = contractModel.StorageGlobalFallback
	res.FallbackUsed = true
	metrics.IncrementFallbackAnswers(res.StorageType)
	return res
}

func ensurePrefix(summary string) string {
	summary = strings.TrimSpace(summary)
	switch {
	case summary == "":
		return fallbackSummary
	case strings.HasPrefix(summary, contractModel.NoDocumentsPrefix):
		return summary
	default:
		return contractModel.NoDocumentsPrefix + " " + summary
	}
}

func parseFailure(err error) contractModel.AnalysisResult {
	return contractModel.FailedResult("Failed to parse AI response", err, "Analysis parsing failed")
}

// BuildContext renders retrieved chunks as numbered document sections.
func BuildContext(hits []contractModel.SearchHit) string {
	sections := make([]string, len(hits))
	for i, h := range hits {
		sections[i] = fmt.Sprintf("[Document Section %d from %s]:\n%s", i+1, h.Metadata.Filename, h.Metadata.Text)
	}
	return strings.Join(sections, "\n\n")
}

func withCitations(a llm.Analysis, hits []contractModel.SearchHit) contractModel.AnalysisResult {
	res := contractModel.EmptyAnalysis()
	res.RiskyClauses = nonNil(a.RiskyClauses)
	res.MissingProtections = nonNil(a.MissingProtections)
	res.OverallRiskScore = a.RiskScore()
	res.Notes = nonNil(a.Notes)
	res.RetrievedChunkCount = len(hits)
	res.StorageType = contractModel.StorageLocal

	seenDocs := map[string]struct{}{}
	seenFiles := map[string]struct{}{}
	for _, h := range hits {
		m := h.Metadata
		if m.DocumentID != "" && m.ChunkID != "" {
			res.Citations = append(res.Citations, fmt.Sprintf("[Source: %s, %s]", m.DocumentID, m.ChunkID))
		}
		if _, ok := seenDocs[m.DocumentID]; !ok && m.DocumentID != "" {
			seenDocs[m.DocumentID] = struct{}{}
			res.DocIDsReferenced = append(res.DocIDsReferenced, m.DocumentID)
		}
		if _, ok := seenFiles[m.Filename]; !ok && m.Filename != "" {
			seenFiles[m.Filename] = struct{}{}
			res.SourceDocuments = append(res.SourceDocuments, m.Filename)
		}
	}

	res.Summary = a.Summary
	if res.Summary != "" && len(res.Citations) > 0 {
		res.Summary += "\n\nSources: " + strings.Join(res.Citations[:min(maxSummaryCitations, len(res.Citations))], ", ")
	}
	return res
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
