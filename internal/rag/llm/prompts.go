package llm

import (
	"fmt"
	"strings"

	"github.com/akolanti/ContractRAG/internal/config"
)

const analysisSystemPrompt = "You are an experienced contract attorney who explains contracts in plain English. " +
	"Be thorough and professional while staying approachable. Always answer with a single JSON object."

const fallbackSystemPrompt = "You are a contract attorney. No documents have been uploaded, so say so, " +
	"give general guidance grounded in standard contract practice, then explain how to get document-specific help. " +
	"Always answer with a single JSON object."

const analysisSchema = `{
  "risky_clauses": [{"clause": "<clause text or reference>", "why": "<why it is risky>", "severity": "<low|medium|high>"}],
  "missing_protections": [{"protection": "<missing protection>", "why": "<why it matters>", "suggested_language": "<proposed clause>"}],
  "overall_risk_score": <integer 1-10>,
  "summary": "<answer to the question>",
  "notes": ["<further observations or recommendations>"]
}`

// UploadInstructions are shown whenever an answer could not use stored documents.
var UploadInstructions = []string{
	"To get specific analysis of your contracts:",
	"Upload your contract documents",
	"Ask questions about specific clauses in your uploaded documents",
	"Get personalized risk assessments and recommendations",
}

func contextHints(jurisdiction, contractType string) string {
	var b strings.Builder
	if jurisdiction != "" {
		fmt.Fprintf(&b, "\nJURISDICTION: %s", jurisdiction)
	}
	if contractType != "" {
		fmt.Fprintf(&b, "\nCONTRACT TYPE: %s", contractType)
	}
	return b.String()
}

// AnalysisRequest asks for an analysis of the retrieved sections.
func AnalysisRequest(query, contextBlock, jurisdiction, contractType string) GenerationRequest {
	var b strings.Builder
	fmt.Fprintf(&b, "Using the contract sections below, answer the user's question with a legal analysis.%s\n\n",
		contextHints(jurisdiction, contractType))
	fmt.Fprintf(&b, "USER QUESTION: %s\n\nRELEVANT CONTRACT SECTIONS:\n%s\n\n", query, contextBlock)
	fmt.Fprintf(&b, "Respond with JSON in this shape:\n%s\n\n", analysisSchema)
	b.WriteString("Answer the question directly, identify risks in the sections, suggest missing protections and give actionable recommendations.\n")
	if jurisdiction != "" {
		fmt.Fprintf(&b, "Consider %s jurisdiction requirements.\n", jurisdiction)
	}
	if contractType != "" {
		fmt.Fprintf(&b, "Apply %s specific analysis.\n", contractType)
	}
	b.WriteString("Cite every fact taken from the sections as [Source: doc_id, chunk_id].\n")

	return GenerationRequest{
		SystemPrompt: analysisSystemPrompt,
		UserPrompt:   b.String(),
		Temperature:  config.AnalysisTemperature,
		MaxTokens:    config.AnalysisMaxTokens,
	}
}

// FallbackRequest asks for general guidance when nothing relevant is stored.
func FallbackRequest(query, jurisdiction, contractType string) GenerationRequest {
	var b strings.Builder
	b.WriteString("No contract documents have been uploaded to the system yet.\n\n")
	fmt.Fprintf(&b, "USER QUESTION: %s%s\n\n", query, contextHints(jurisdiction, contractType))
	fmt.Fprintf(&b, "Respond with JSON in this shape, with empty clause lists and a risk score of 0:\n%s\n\n", analysisSchema)
	b.WriteString("The summary must start with \"No documents uploaded yet.\" and then answer the question with general contract guidance. ")
	b.WriteString("Use the notes for instructions on uploading documents for personalised analysis.\n")

	return GenerationRequest{
		SystemPrompt: fallbackSystemPrompt,
		UserPrompt:   b.String(),
		Temperature:  config.FallbackTemperature,
		MaxTokens:    config.FallbackMaxTokens,
	}
}
