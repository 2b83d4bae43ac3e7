package openaiEmbedding

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/embedding"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	api       openai.Client
	model     string
	dimension int64
	logger    *logger_i.Logger
}

var _ embedding.Embedder = (*client)(nil)

// NewOpenAIEmbedder builds an embeddings client. Extra options (base URL,
// retries) are appended after the defaults.
func NewOpenAIEmbedder(httpClient *http.Client, modelName, apikey string, dimension int, opts ...option.RequestOption) (embedding.Embedder, error) {
	if apikey == "" {
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "missing OpenAI API key")
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apikey),
		option.WithHTTPClient(httpClient),
		option.WithRequestTimeout(config.EmbeddingTimeout),
		option.WithMaxRetries(2),
	}, opts...)

	logger := logger_i.NewLogger("openai_embedding")
	logger.Info("OpenAI Embedding client created", "model", modelName, "dimension", dimension)
	return &client{
		api:       openai.NewClient(reqOpts...),
		model:     modelName,
		dimension: int64(dimension),
		logger:    logger,
	}, nil
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, goerr.Wrap(contractModel.ErrEmbeddingMismatch, "empty embedding response")
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(c.dimension),
	})
	if err != nil {
		c.logger.WithTrace(ctx).Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, classify(err)
	}

	// the API reports each vector's input index; place them accordingly
	out := make([][]float32, len(chunks))
	for _, d := range res.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, goerr.Wrap(contractModel.ErrEmbeddingMismatch, "embedding index out of range", goerr.V("index", d.Index))
		}
		out[d.Index] = toFloat32(d.Embedding)
	}
	for i, v := range out {
		if v == nil {
			return nil, goerr.Wrap(contractModel.ErrEmbeddingMismatch, "missing embedding for input", goerr.V("index", i))
		}
	}
	return out, nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError:
			return goerr.Wrap(contractModel.Classify(contractModel.ErrTransientProvider, err), "openai embedding unavailable",
				goerr.V("status", apiErr.StatusCode))
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return goerr.Wrap(contractModel.Classify(contractModel.ErrConfiguration, err), "openai embedding rejected credentials")
		default:
			return goerr.Wrap(err, "openai embedding request rejected", goerr.V("status", apiErr.StatusCode))
		}
	}
	return goerr.Wrap(contractModel.Classify(contractModel.ErrTransientProvider, err), "openai embedding call failed")
}
