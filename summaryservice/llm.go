// Package summaryservice is the LLM-backed summarization microservice.
package summaryservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"skimr/config"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	cohereoption "github.com/cohere-ai/cohere-go/v2/option"
	openai "github.com/sashabaranov/go-openai"
)

// Sampling parameters shared by every backend
const (
	maxTokens   = 444
	temperature = 0.7
	topP        = 0.9
	stopToken   = "</s>"

	llmRequestTimeout = 120 * time.Second
)

// Backend completes a prompt.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewBackend builds the backend selected by cfg.Backend.
func NewBackend(cfg config.ServiceConfig) (Backend, error) {
	httpClient := &http.Client{Timeout: llmRequestTimeout}
	switch cfg.Backend {
	case "openai":
		return NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, httpClient), nil
	case "cohere":
		return NewCohereBackend(cfg.CohereAPIKey, "", cfg.CohereModel, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported LLM backend %q", cfg.Backend)
	}
}

// OpenAIBackend talks to OpenAI or any server exposing the same chat API,
// such as llama.cpp's server.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

func NewOpenAIBackend(apiKey, baseURL, model string, httpClient *http.Client) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg), model: model}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
		Stop:        []string{stopToken},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// CohereBackend uses the Cohere Chat API.
type CohereBackend struct {
	client *cohereclient.Client
	model  string
}

// NewCohereBackend creates a backend. An empty baseURL uses Cohere's API.
func NewCohereBackend(apiKey, baseURL, model string, httpClient *http.Client) *CohereBackend {
	opts := []cohereoption.RequestOption{cohereoption.WithToken(apiKey)}
	if httpClient != nil {
		opts = append(opts, cohereoption.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, cohereoption.WithBaseURL(baseURL))
	}
	return &CohereBackend{client: cohereclient.NewClient(opts...), model: model}
}

func (b *CohereBackend) Name() string { return "cohere" }

func (b *CohereBackend) Complete(ctx context.Context, prompt string) (string, error) {
	model := b.model
	tokens := maxTokens
	temp := temperature
	p := topP
	resp, err := b.client.Chat(ctx, &cohere.ChatRequest{
		Message:       prompt,
		Model:         &model,
		MaxTokens:     &tokens,
		Temperature:   &temp,
		P:             &p,
		StopSequences: []string{stopToken},
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat failed: %w", err)
	}
	if resp == nil {
		return "", errors.New("cohere returned an empty response")
	}
	return resp.Text, nil
}
