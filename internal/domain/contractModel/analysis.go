package contractModel

import "errors"

// AskRequest is the caller-facing query input.
type AskRequest struct {
	Query        string `json:"query"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	ContractType string `json:"contract_type,omitempty"`
}

type RiskyClause struct {
	Clause   string `json:"clause"`
	Why      string `json:"why"`
	Severity string `json:"severity"`
}

type MissingProtection struct {
	Protection        string `json:"protection"`
	Why               string `json:"why"`
	SuggestedLanguage string `json:"suggested_language"`
}

const (
	StorageLocal          = "vector_store_with_citations"
	StorageGlobalFallback = "global_fallback"
	StorageFallbackError  = "fallback_error"
	StorageFiltered       = "filtered"
	StorageUnavailable    = "unavailable"

	FilteredQueryError   = "FILTERED_NON_CONTRACT_QUERY"
	QueryTypeNonContract = "non_contract"

	PurposeStatement = "Hi there! I'm your AI Contract Review Assistant, and I specialize in helping with legal documents and contract-related questions. Is there anything contract or legal-related I can help you with today?"

	NoDocumentsPrefix = "No documents uploaded yet."
)

// AnalysisResult is the caller-facing answer. Every slice is non-nil so
// renderers never see a missing field.
type AnalysisResult struct {
	Summary             string              `json:"summary"`
	RiskyClauses        []RiskyClause       `json:"risky_clauses"`
	MissingProtections  []MissingProtection `json:"missing_protections"`
	OverallRiskScore    int                 `json:"overall_risk_score"`
	Notes               []string            `json:"notes"`
	RetrievedChunkCount int                 `json:"retrieved_chunk_count"`
	SourceDocuments     []string            `json:"source_documents"`
	Citations           []string            `json:"citations"`
	DocIDsReferenced    []string            `json:"doc_ids_referenced"`
	StorageType         string              `json:"storage_type"`
	FallbackUsed        bool                `json:"fallback_used"`
	QueryType           string              `json:"query_type,omitempty"`
	PurposeStatement    string              `json:"purpose_statement,omitempty"`
	Error               string              `json:"error,omitempty"`
	Details             string              `json:"details,omitempty"`
}

// EmptyAnalysis returns a result with every list initialised.
func EmptyAnalysis() AnalysisResult {
	return AnalysisResult{
		RiskyClauses:       []RiskyClause{},
		MissingProtections: []MissingProtection{},
		Notes:              []string{},
		SourceDocuments:    []string{},
		Citations:          []string{},
		DocIDsReferenced:   []string{},
	}
}

// ClampRiskScore keeps a model-provided score inside 0..10.
func ClampRiskScore(score int) int {
	return min(10, max(0, score))
}

// FilteredResult answers an out-of-domain query without touching any store.
func FilteredResult() AnalysisResult {
	res := EmptyAnalysis()
	res.Error = FilteredQueryError
	res.QueryType = QueryTypeNonContract
	res.PurposeStatement = PurposeStatement
	res.Summary = "Query filtered as non-contract related"
	res.Notes = []string{"This query appears to be outside my contract analysis expertise"}
	res.StorageType = StorageFiltered
	return res
}

// UnavailableResult is returned when the vector store cannot be reached.
func UnavailableResult() AnalysisResult {
	res := EmptyAnalysis()
	res.Error = StoreUnavailableMessage
	res.Summary = "Vector database connection unavailable"
	res.Notes = []string{"Please try again in a few moments"}
	res.StorageType = StorageUnavailable
	return res
}

// FailedResult is the safe default for any other failure while answering.
func FailedResult(errorText string, cause error, summary string) AnalysisResult {
	res := EmptyAnalysis()
	res.Error = errorText
	if cause != nil {
		res.Details = cause.Error()
	}
	res.Summary = summary
	return res
}

func isStoreOutage(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
