package mcpServer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubRag struct {
	askErr    error
	uploadErr error
	hits      []contractModel.SearchHit
	stats     contractModel.IndexStats
	lastK     int
	lastAsk   contractModel.AskRequest
}

func (s *stubRag) Upload(_ context.Context, req contractModel.UploadRequest) (contractModel.UploadResult, error) {
	if s.uploadErr != nil {
		return contractModel.UploadErrorResult(req.Filename, s.uploadErr), s.uploadErr
	}
	return contractModel.UploadResult{Status: contractModel.UploadStatusSuccess, Filename: req.Filename, ChunksCreated: 2}, nil
}

func (s *stubRag) Ask(_ context.Context, req contractModel.AskRequest) (contractModel.AnalysisResult, error) {
	s.lastAsk = req
	if s.askErr != nil {
		return contractModel.UnavailableResult(), s.askErr
	}
	res := contractModel.EmptyAnalysis()
	res.Summary = "looks fine"
	return res, nil
}

func (s *stubRag) Retrieve(_ context.Context, _ string, k int) ([]contractModel.SearchHit, error) {
	s.lastK = k
	return s.hits, nil
}

func (s *stubRag) IndexStats(context.Context) contractModel.IndexStats { return s.stats }

func (s *stubRag) ProcessRequest(_ context.Context, j jobModel.Job) jobModel.Job { return j }
func (s *stubRag) IngestDocument(_ context.Context, j jobModel.Job) jobModel.Job { return j }

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	gt.Array(t, res.Content).Length(1).Required()
	tc, ok := res.Content[0].(*mcp.TextContent)
	gt.Bool(t, ok).True()
	return tc.Text
}

func TestNewServer(t *testing.T) {
	_, err := NewServer(nil)
	gt.Error(t, err).Is(contractModel.ErrConfiguration)
}

func TestHandlers(t *testing.T) {
	ctx := context.Background()

	t.Run("ask trims the query and passes filters", func(t *testing.T) {
		svc := &stubRag{}
		s, err := NewServer(svc)
		gt.NoError(t, err).Required()

		res, out, err := s.handleAsk(ctx, nil, AskInput{Query: "  termination rights ", Jurisdiction: "NY"})
		gt.NoError(t, err).Required()
		gt.Bool(t, res == nil).True()
		gt.Value(t, out.Summary).Equal("looks fine")
		gt.Value(t, svc.lastAsk.Query).Equal("termination rights")
		gt.Value(t, svc.lastAsk.Jurisdiction).Equal("NY")
	})

	t.Run("empty query is a tool error", func(t *testing.T) {
		s, _ := NewServer(&stubRag{})
		res, _, err := s.handleAsk(ctx, nil, AskInput{Query: "   "})
		gt.NoError(t, err)
		gt.Bool(t, res.IsError).True()
		gt.String(t, textOf(t, res)).Contains("query is required")
	})

	t.Run("store outage is reported in the result", func(t *testing.T) {
		s, _ := NewServer(&stubRag{askErr: goerr.Wrap(contractModel.ErrStoreUnavailable, "query failed")})
		res, out, err := s.handleAsk(ctx, nil, AskInput{Query: "liability cap"})
		gt.NoError(t, err)
		gt.Bool(t, res.IsError).True()
		gt.Value(t, textOf(t, res)).Equal(out.Error)
	})

	t.Run("retrieve defaults k and never returns null hits", func(t *testing.T) {
		svc := &stubRag{}
		s, _ := NewServer(svc)
		res, out, err := s.handleRetrieve(ctx, nil, RetrieveInput{Query: "indemnity"})
		gt.NoError(t, err)
		gt.Bool(t, res == nil).True()
		gt.Value(t, svc.lastK).Equal(7)
		gt.Bool(t, out.Hits != nil).True()
		gt.Value(t, out.Count).Equal(0)
		raw, err := json.Marshal(out)
		gt.NoError(t, err).Required()
		gt.String(t, string(raw)).Contains(`"hits":[]`)
	})

	t.Run("retrieve passes explicit k", func(t *testing.T) {
		svc := &stubRag{hits: []contractModel.SearchHit{{ID: "a", Score: 0.9}}}
		s, _ := NewServer(svc)
		_, out, err := s.handleRetrieve(ctx, nil, RetrieveInput{Query: "indemnity", K: 2})
		gt.NoError(t, err)
		gt.Value(t, svc.lastK).Equal(2)
		gt.Value(t, out.Count).Equal(1)
	})

	t.Run("upload requires text", func(t *testing.T) {
		s, _ := NewServer(&stubRag{})
		res, out, err := s.handleUpload(ctx, nil, UploadInput{Filename: "a.txt"})
		gt.NoError(t, err)
		gt.Bool(t, res.IsError).True()
		gt.Value(t, out.Status).Equal(contractModel.UploadStatusError)
	})

	t.Run("upload outage uses the store message", func(t *testing.T) {
		s, _ := NewServer(&stubRag{uploadErr: goerr.Wrap(contractModel.ErrStoreUnavailable, "fetch failed")})
		res, out, err := s.handleUpload(ctx, nil, UploadInput{Text: "The parties agree.", Filename: "a.txt"})
		gt.NoError(t, err)
		gt.Bool(t, res.IsError).True()
		gt.Value(t, out.Error).Equal(contractModel.StoreUnavailableMessage)
	})

	t.Run("disconnected index is a tool error", func(t *testing.T) {
		s, _ := NewServer(&stubRag{stats: contractModel.IndexStats{Status: contractModel.IndexError, Error: "timeout"}})
		res, _, err := s.handleStats(ctx, nil, StatsInput{})
		gt.NoError(t, err)
		gt.Bool(t, res.IsError).True()
		gt.String(t, textOf(t, res)).Contains("timeout")
	})
}

func TestInMemorySession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s, err := NewServer(&stubRag{stats: contractModel.IndexStats{Status: contractModel.IndexConnected, IndexName: "contracts"}})
	gt.NoError(t, err).Required()

	clientT, serverT := mcp.NewInMemoryTransports()
	_, err = s.Connect(ctx, serverT)
	gt.NoError(t, err).Required()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = cs.Close() })

	tools, err := cs.ListTools(ctx, nil)
	gt.NoError(t, err).Required()
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"ask_contract", "retrieve_chunks", "upload_contract", "index_stats"} {
		gt.Bool(t, names[want]).True()
	}

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "index_stats", Arguments: map[string]any{}})
	gt.NoError(t, err).Required()
	gt.Bool(t, res.IsError).False()
	gt.String(t, textOf(t, res)).Contains(`"index_name":"contracts"`)
}
