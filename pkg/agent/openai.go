package agent

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agentchat/pkg/config"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

func init() {
	Register(BackendInfo{
		Name:        config.BackendOpenAI,
		Description: "OpenAI-compatible chat completions API (OpenAI, OpenRouter, local servers)",
		RequiresKey: true,
	}, func(cfg config.AgentConfig) (Agent, error) {
		return NewOpenAIAgent(cfg)
	})
}

// OpenAIAgent answers messages through an OpenAI-compatible chat completions endpoint.
type OpenAIAgent struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIAgent creates an OpenAIAgent from config.
func NewOpenAIAgent(cfg config.AgentConfig) (*OpenAIAgent, error) {
	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	return newOpenAIAgentWithHTTPClient(cfg.OpenAI, httpClient)
}

func newOpenAIAgentWithHTTPClient(cfg config.OpenAIConfig, httpClient *http.Client) (*OpenAIAgent, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		slog.Debug("openai_agent_missing_key")
		return nil, fmt.Errorf("openai api_key is required")
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, fmt.Errorf("openai api_url is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("openai model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.APIURL),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &OpenAIAgent{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Ask sends message as a single user turn and returns the first choice.
func (a *OpenAIAgent) Ask(ctx context.Context, message string) (Reply, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(message),
		},
		Temperature: openai.Float(a.temperature),
	}
	if a.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(a.maxTokens))
	}

	slog.Info("openai_agent_request", "model", a.model, "message_len", len(message))

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("openai_agent_request_failed", "error", err)
		return Reply{}, fmt.Errorf("calling chat completions: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	if strings.TrimSpace(content) == "" {
		return Reply{Kind: ReplyFallback, Text: UnableToProcessText}, nil
	}

	slog.Info("openai_agent_reply", "model", resp.Model, "reply_len", len(content))
	return Reply{Kind: ReplyText, Text: content}, nil
}
