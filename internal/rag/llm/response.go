package llm

import (
	"encoding/json"
	"strings"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/m-mizutani/goerr/v2"
)

// Analysis is the JSON object the model is asked to return.
type Analysis struct {
	RiskyClauses       []contractModel.RiskyClause       `json:"risky_clauses"`
	MissingProtections []contractModel.MissingProtection `json:"missing_protections"`
	OverallRiskScore   json.Number                       `json:"overall_risk_score"`
	Summary            string                            `json:"summary"`
	Notes              []string                          `json:"notes"`
}

// RiskScore reads the score leniently: models sometimes answer 7.5 or "7".
func (a Analysis) RiskScore() int {
	if f, err := a.OverallRiskScore.Float64(); err == nil {
		return contractModel.ClampRiskScore(int(f))
	}
	return 0
}

// ParseAnalysis decodes raw model output, tolerating a markdown code fence.
func ParseAnalysis(raw string) (Analysis, error) {
	var a Analysis
	body := stripFence(raw)
	if body == "" {
		return a, goerr.Wrap(contractModel.ErrMalformedResponse, "empty model response")
	}
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&a); err != nil {
		return Analysis{}, goerr.Wrap(contractModel.Classify(contractModel.ErrMalformedResponse, err),
			"failed to decode model response", goerr.V("length", len(raw)))
	}
	return a, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
