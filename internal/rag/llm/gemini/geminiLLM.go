package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

var _ llm.Provider = (*llmClient)(nil)

func NewGeminiClient(ctx context.Context, httpClient *http.Client, modelName, apikey string) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")
	if apikey == "" {
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "missing Google API key")
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, goerr.Wrap(contractModel.Classify(contractModel.ErrConfiguration, err), "error creating Gemini client")
	}
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: logger}, nil
}

func (c *llmClient) Generate(ctx context.Context, req llm.GenerationRequest) (string, error) {
	log := c.logger.WithTrace(ctx)

	temperature := req.Temperature
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   int32(req.MaxTokens),
		ResponseMIMEType:  "application/json",
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(req.UserPrompt), contentConfig)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return "", classify(err)
	}
	text := result.Text()
	if text == "" {
		return "", goerr.Wrap(contractModel.ErrMalformedResponse, "empty Gemini response")
	}
	return text, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code < http.StatusInternalServerError && apiErr.Code != http.StatusTooManyRequests {
		return goerr.Wrap(err, "gemini request rejected", goerr.V("code", apiErr.Code))
	}
	return goerr.Wrap(contractModel.Classify(contractModel.ErrTransientProvider, err), "gemini generation failed")
}
