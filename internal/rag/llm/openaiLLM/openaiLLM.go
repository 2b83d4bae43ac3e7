package openaiLLM

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/llm"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/m-mizutani/goerr/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

type chatClient struct {
	api    openai.Client
	model  string
	logger *logger_i.Logger
}

var _ llm.Provider = (*chatClient)(nil)

func NewOpenAIClient(httpClient *http.Client, modelName, apikey string, opts ...option.RequestOption) (llm.Provider, error) {
	if apikey == "" {
		return nil, goerr.Wrap(contractModel.ErrConfiguration, "missing OpenAI API key")
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apikey),
		option.WithHTTPClient(httpClient),
		option.WithRequestTimeout(config.LLMTimeout),
		option.WithMaxRetries(2),
	}, opts...)

	logger := logger_i.NewLogger("llm_openai")
	logger.Info("OpenAI chat client created", "model", modelName)
	return &chatClient{api: openai.NewClient(reqOpts...), model: modelName, logger: logger}, nil
}

func (c *chatClient) Generate(ctx context.Context, req llm.GenerationRequest) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		Temperature: openai.Float(float64(req.Temperature)),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		c.logger.WithTrace(ctx).Error("OpenAI generation failed", "error", err)
		return "", classify(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", goerr.Wrap(contractModel.ErrMalformedResponse, "empty OpenAI response")
	}
	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError && apiErr.StatusCode != http.StatusTooManyRequests {
		return goerr.Wrap(err, "openai request rejected", goerr.V("status", apiErr.StatusCode))
	}
	return goerr.Wrap(contractModel.Classify(contractModel.ErrTransientProvider, err), "openai generation failed")
}
