package googleEmbedding

import (
	"errors"
	"net/http"
	"testing"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsRateLimited(t *testing.T) {
	gt.Bool(t, isRateLimited(genai.APIError{Code: http.StatusTooManyRequests})).True()
	gt.Bool(t, isRateLimited(status.Error(codes.ResourceExhausted, "quota"))).True()
	gt.Bool(t, isRateLimited(genai.APIError{Code: http.StatusBadRequest})).False()
	gt.Bool(t, isRateLimited(errors.New("boom"))).False()
}

func TestClassify(t *testing.T) {
	gt.Error(t, classify(genai.APIError{Code: http.StatusServiceUnavailable})).Is(contractModel.ErrTransientProvider)
	gt.Error(t, classify(genai.APIError{Code: http.StatusForbidden})).Is(contractModel.ErrConfiguration)
	gt.Error(t, classify(status.Error(codes.Unavailable, "down"))).Is(contractModel.ErrTransientProvider)

	err := classify(genai.APIError{Code: http.StatusBadRequest})
	gt.Bool(t, errors.Is(err, contractModel.ErrTransientProvider)).False()
}

func TestGetContent(t *testing.T) {
	content := getContent([]string{"a", "b"})
	gt.Array(t, content).Length(2).Required()
	gt.Value(t, content[1].Parts[0].Text).Equal("b")
}
