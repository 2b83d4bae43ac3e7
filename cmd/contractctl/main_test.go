package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/rag"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type stubRag struct {
	uploaded  contractModel.UploadRequest
	uploadErr error
	asked     contractModel.AskRequest
	k         int
}

func (s *stubRag) Upload(_ context.Context, req contractModel.UploadRequest) (contractModel.UploadResult, error) {
	s.uploaded = req
	if s.uploadErr != nil {
		return contractModel.UploadErrorResult(req.Filename, s.uploadErr), s.uploadErr
	}
	return contractModel.UploadResult{Status: contractModel.UploadStatusSuccess, Filename: req.Filename, ChunksCreated: 1}, nil
}

func (s *stubRag) Ask(_ context.Context, req contractModel.AskRequest) (contractModel.AnalysisResult, error) {
	s.asked = req
	res := contractModel.EmptyAnalysis()
	res.Summary = "two risky clauses"
	return res, nil
}

func (s *stubRag) Retrieve(_ context.Context, _ string, k int) ([]contractModel.SearchHit, error) {
	s.k = k
	return nil, nil
}

func (s *stubRag) IndexStats(context.Context) contractModel.IndexStats {
	return contractModel.IndexStats{Status: contractModel.IndexConnected, IndexName: "contracts", TotalVectors: 12}
}

func (s *stubRag) ProcessRequest(_ context.Context, j jobModel.Job) jobModel.Job { return j }
func (s *stubRag) IngestDocument(_ context.Context, j jobModel.Job) jobModel.Job { return j }

// run executes contractctl with a stubbed pipeline and returns stdout.
func run(t *testing.T, stub *stubRag, args ...string) (string, config.Settings, error) {
	t.Helper()
	var seen config.Settings
	orig := buildService
	buildService = func(_ context.Context, s config.Settings) (rag.Service, error) {
		seen = s
		return stub, nil
	}
	t.Cleanup(func() {
		buildService = orig
		backend = ""
		rootCmd.SetArgs(nil)
	})

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), seen, err
}

func TestUploadCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msa.txt")
	gt.NoError(t, os.WriteFile(path, []byte("The supplier shall indemnify the customer."), 0o600)).Required()

	t.Run("prints the upload result", func(t *testing.T) {
		stub := &stubRag{}
		out, _, err := run(t, stub, "upload", path, "--jurisdiction", "Delaware")
		gt.NoError(t, err).Required()

		gt.Value(t, stub.uploaded.Filename).Equal("msa.txt")
		gt.Value(t, stub.uploaded.Jurisdiction).Equal("Delaware")
		gt.String(t, stub.uploaded.Text).Contains("indemnify")

		var res contractModel.UploadResult
		gt.NoError(t, json.Unmarshal([]byte(out), &res)).Required()
		gt.Value(t, res.ChunksCreated).Equal(1)
	})

	t.Run("store outage prints the result and fails", func(t *testing.T) {
		stub := &stubRag{uploadErr: goerr.Wrap(contractModel.ErrStoreUnavailable, "fetch failed")}
		out, _, err := run(t, stub, "upload", path, "--filename", "renamed.txt")
		gt.Error(t, err).Is(contractModel.ErrStoreUnavailable)
		gt.String(t, out).Contains(contractModel.StoreUnavailableMessage)
		gt.Value(t, stub.uploaded.Filename).Equal("renamed.txt")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, &stubRag{}, "upload", filepath.Join(t.TempDir(), "nope.txt"))
		gt.Error(t, err)
	})
}

func TestAskCommand(t *testing.T) {
	stub := &stubRag{}
	out, _, err := run(t, stub, "ask", "  Is the liability cap reasonable? ", "--contract-type", "MSA")
	gt.NoError(t, err).Required()
	gt.Value(t, stub.asked.Query).Equal("Is the liability cap reasonable?")
	gt.Value(t, stub.asked.ContractType).Equal("MSA")
	gt.String(t, out).Contains("two risky clauses")

	_, _, err = run(t, stub, "ask")
	gt.Error(t, err)
}

func TestRetrieveCommand(t *testing.T) {
	stub := &stubRag{}
	out, _, err := run(t, stub, "retrieve", "termination", "-k", "3")
	gt.NoError(t, err).Required()
	gt.Value(t, stub.k).Equal(3)
	gt.Value(t, out).Equal("[]\n")
}

func TestStatsCommand(t *testing.T) {
	out, _, err := run(t, &stubRag{}, "stats")
	gt.NoError(t, err).Required()

	var stats contractModel.IndexStats
	gt.NoError(t, json.Unmarshal([]byte(out), &stats)).Required()
	gt.Value(t, stats.TotalVectors).Equal(uint64(12))
}

func TestBackendFlag(t *testing.T) {
	_, settings, err := run(t, &stubRag{}, "--backend", config.VectorBackendMemory, "stats")
	gt.NoError(t, err).Required()
	gt.Value(t, settings.VectorStore.Backend).Equal(config.VectorBackendMemory)
}
