package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agentchat/pkg/config"
	"agentchat/pkg/logging"
)

const maxReplyBytes = 4 << 20

func init() {
	Register(BackendInfo{
		Name:        config.BackendEnvelope,
		Description: "POST {message, agent_id} to an agent endpoint",
	}, func(cfg config.AgentConfig) (Agent, error) {
		return NewClient(cfg)
	})
}

// StatusError is returned when the agent endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("agent returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("agent returned status %d: %s", e.StatusCode, e.Body)
}

type askRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

// Client sends messages to an agent endpoint that answers with a reply envelope.
type Client struct {
	url        string
	agentID    string
	httpClient *http.Client
}

// NewClient creates a Client from config. A zero timeout waits indefinitely.
func NewClient(cfg config.AgentConfig) (*Client, error) {
	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	return newClientWithHTTPClient(cfg, httpClient)
}

func newClientWithHTTPClient(cfg config.AgentConfig, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("agent url is required")
	}
	if strings.TrimSpace(cfg.AgentID) == "" {
		return nil, fmt.Errorf("agent_id is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:        cfg.URL,
		agentID:    cfg.AgentID,
		httpClient: httpClient,
	}, nil
}

// Ask posts message to the agent and resolves the reply envelope.
// Transport failures, non-2xx statuses and malformed bodies are returned as errors.
func (c *Client) Ask(ctx context.Context, message string) (Reply, error) {
	body, err := json.Marshal(askRequest{Message: message, AgentID: c.agentID})
	if err != nil {
		return Reply{}, fmt.Errorf("encoding agent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Reply{}, fmt.Errorf("building agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger := slog.Default()
	logger.Info("agent_request", "url", c.url, "agent_id", c.agentID, "message_len", len(message))
	if logger.Enabled(ctx, logging.LevelTrace) {
		logger.Log(ctx, logging.LevelTrace, "agent_request_body", "body", string(body))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("agent_request_failed", "error", err)
		return Reply{}, fmt.Errorf("calling agent: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		logger.Error("agent_reply_read_failed", "error", err)
		return Reply{}, fmt.Errorf("reading agent reply: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: snippet(data)}
		logger.Error("agent_reply_status", "status", resp.StatusCode)
		return Reply{}, statusErr
	}

	if logger.Enabled(ctx, logging.LevelTrace) {
		logger.Log(ctx, logging.LevelTrace, "agent_reply_body", "body", string(data))
	}

	reply, err := DecodeEnvelope(data)
	if err != nil {
		logger.Error("agent_reply_malformed", "error", err)
		return Reply{}, err
	}

	logger.Info("agent_reply",
		"kind", reply.Kind.String(),
		"reply_len", len(reply.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return reply, nil
}

func snippet(data []byte) string {
	const max = 200
	s := strings.TrimSpace(string(data))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
