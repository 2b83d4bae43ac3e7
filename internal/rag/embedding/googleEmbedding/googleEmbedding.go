package googleEmbedding

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

type client struct {
	genAi      *genai.Client
	model      string
	dimension  int32
	retryDelay time.Duration
	logger     *logger_i.Logger
}

var _ embedding.Embedder = (*client)(nil)

// NewGoogleEmbedder builds a Gemini embedding client on top of httpClient.
func NewGoogleEmbedder(ctx context.Context, httpClient *http.Client, modelName, apikey string, dimension int32) (embedding.Embedder, error) {
	logger := logger_i.NewLogger("google_embedding")
	if apikey == "" {
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "missing Google API key")
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, goerr.Wrap(contractModel.Classify(contractModel.ErrConfiguration, err), "error creating Google embedding client")
	}
	logger.Info("Google Embedding client created", "model", modelName, "dimension", dimension)

	return &client{
		genAi:      c,
		model:      modelName,
		dimension:  dimension,
		retryDelay: config.EmbeddingRetryDelay,
		logger:     logger,
	}, nil
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	res, err := c.doCallWithRetry(ctx, genai.Text(query), taskQuery)
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) == 0 {
		return nil, goerr.Wrap(contractModel.ErrEmbeddingMismatch, "empty embedding response")
	}
	return res.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	res, err := c.doCallWithRetry(ctx, getContent(chunks), taskDocument)
	if err != nil {
		return nil, err
	}
	embeddingResults := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		embeddingResults = append(embeddingResults, r.Values)
	}
	return embeddingResults, nil
}

// doCallWithRetry retries once after a rate limit.
func (c *client) doCallWithRetry(ctx context.Context, content []*genai.Content, task string) (*genai.EmbedContentResponse, error) {
	log := c.logger.WithTrace(ctx)

	res, err := c.doCall(ctx, content, task)
	if err != nil && isRateLimited(err) {
		log.Warn("Rate limit hit, retrying", "delay", c.retryDelay)
		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(contractModel.Classify(contractModel.ErrTransientProvider, ctx.Err()), "embedding retry cancelled")
		case <-time.After(c.retryDelay):
		}
		res, err = c.doCall(ctx, content, task)
	}
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err)
		return nil, classify(err)
	}
	return res, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, task string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &c.dimension,
		TaskType:             task,
	})
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}

// classify separates provider outages, which callers may retry, from
// request problems, which they should not.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return goerr.Wrap(contractModel.Classify(contractModel.ErrTransientProvider, err), "google embedding unavailable",
				goerr.V("code", apiErr.Code))
		}
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return goerr.Wrap(contractModel.Classify(contractModel.ErrConfiguration, err), "google embedding rejected credentials")
		}
		return goerr.Wrap(err, "google embedding request rejected", goerr.V("code", apiErr.Code))
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return goerr.Wrap(contractModel.Classify(contractModel.ErrTransientProvider, err), "google embedding unavailable")
	}
	// network errors and timeouts
	return goerr.Wrap(contractModel.Classify(contractModel.ErrTransientProvider, err), "google embedding call failed")
}
