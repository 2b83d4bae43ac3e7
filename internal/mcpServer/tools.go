package mcpServer

import (
	"context"
	"errors"
	"strings"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type AskInput struct {
	Query        string `json:"query" jsonschema:"question about the uploaded contracts"`
	Jurisdiction string `json:"jurisdiction,omitempty" jsonschema:"governing jurisdiction, if known"`
	ContractType string `json:"contract_type,omitempty" jsonschema:"kind of contract, e.g. NDA or MSA"`
}

type RetrieveInput struct {
	Query string `json:"query" jsonschema:"text to search for"`
	K     int    `json:"k,omitempty" jsonschema:"number of chunks to return (default 7)"`
}

type RetrieveOutput struct {
	Hits  []contractModel.SearchHit `json:"hits"`
	Count int                       `json:"count"`
}

type UploadInput struct {
	Text         string `json:"text" jsonschema:"plain text of the contract"`
	Filename     string `json:"filename" jsonschema:"name used for citations"`
	UploadedBy   string `json:"uploaded_by,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	ContractType string `json:"contract_type,omitempty"`
}

type StatsInput struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_contract",
		Description: "Analyze uploaded contracts for risky clauses and missing protections",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve_chunks",
		Description: "Return the stored contract sections most similar to a query",
	}, s.handleRetrieve)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_contract",
		Description: "Chunk, deduplicate and index a plain-text contract",
	}, s.handleUpload)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_stats",
		Description: "Report the state of the vector index",
	}, s.handleStats)
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, contractModel.AnalysisResult, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return toolError("query is required"), contractModel.AnalysisResult{}, nil
	}

	res, err := s.rag.Ask(ctx, contractModel.AskRequest{
		Query:        query,
		Jurisdiction: in.Jurisdiction,
		ContractType: in.ContractType,
	})
	if err != nil {
		s.logger.WithTrace(ctx).Err("ask_contract failed", err)
		return toolError(errorText(res.Error, err)), res, nil
	}
	return nil, res, nil
}

func (s *Server) handleRetrieve(ctx context.Context, _ *mcp.CallToolRequest, in RetrieveInput) (*mcp.CallToolResult, RetrieveOutput, error) {
	out := RetrieveOutput{Hits: []contractModel.SearchHit{}}
	if strings.TrimSpace(in.Query) == "" {
		return toolError("query is required"), out, nil
	}
	k := in.K
	if k <= 0 {
		k = config.RetrievalTopK
	}

	hits, err := s.rag.Retrieve(ctx, in.Query, k)
	if err != nil {
		s.logger.WithTrace(ctx).Err("retrieve_chunks failed", err)
		return toolError(errorText("", err)), out, nil
	}
	if hits != nil {
		out.Hits = hits
	}
	out.Count = len(out.Hits)
	return nil, out, nil
}

func (s *Server) handleUpload(ctx context.Context, _ *mcp.CallToolRequest, in UploadInput) (*mcp.CallToolResult, contractModel.UploadResult, error) {
	if strings.TrimSpace(in.Text) == "" {
		return toolError("text is required"), contractModel.UploadResult{Status: contractModel.UploadStatusError}, nil
	}

	res, err := s.rag.Upload(ctx, contractModel.UploadRequest{
		Text:         in.Text,
		Filename:     in.Filename,
		UploadedBy:   in.UploadedBy,
		Jurisdiction: in.Jurisdiction,
		ContractType: in.ContractType,
	})
	if err != nil {
		s.logger.WithTrace(ctx).Err("upload_contract failed", err)
		return toolError(errorText(res.Error, err)), res, nil
	}
	return nil, res, nil
}

func (s *Server) handleStats(ctx context.Context, _ *mcp.CallToolRequest, _ StatsInput) (*mcp.CallToolResult, contractModel.IndexStats, error) {
	stats := s.rag.IndexStats(ctx)
	if stats.Status != contractModel.IndexConnected {
		return toolError("vector index is " + stats.Status + errorSuffix(stats.Error)), stats, nil
	}
	return nil, stats, nil
}

// toolError reports a failure inside the tool result so the client model can
// read it; protocol errors are reserved for malformed calls.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func errorText(userFacing string, err error) string {
	switch {
	case userFacing != "":
		return userFacing
	case errors.Is(err, contractModel.ErrStoreUnavailable):
		return contractModel.StoreUnavailableMessage
	default:
		return err.Error()
	}
}

func errorSuffix(detail string) string {
	if detail == "" {
		return ""
	}
	return ": " + detail
}
