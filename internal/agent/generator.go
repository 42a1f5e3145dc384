package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrNoChoices = errors.New("no choices returned from generation API")

// ChatMessage - one turn of a chat-completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request - prompt material for one generation call.
type Request struct {
	System   string
	Messages []ChatMessage
}

// Reply - generated text plus token usage for cost accounting.
type Reply struct {
	Text         string
	InputTokens  int
	OutputTokens int
	CachedTokens int
}

// Generator - the external text-generation call. Every call is fallible and
// must be treated as such by the orchestrator.
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Reply, error)
}

// Client - chat-completions HTTP client for an OpenAI-compatible endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens       int `json:"prompt_tokens"`
		CompletionTokens   int `json:"completion_tokens"`
		PromptTokensCached int `json:"prompt_tokens_cached"`
	} `json:"usage"`
}

// Generate - performs one chat-completion call with the client timeout bound.
func (that *Client) Generate(ctx context.Context, req *Request) (*Reply, error) {
	messages := make([]ChatMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	body, err := json.Marshal(chatRequest{
		Model:       that.model,
		Messages:    messages,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, that.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not build chat request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+that.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := that.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("generation API error status: %s", resp.Status)
	}

	var parsed chatResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("could not decode chat response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return nil, ErrNoChoices
	}

	return &Reply{
		Text:         parsed.Choices[0].Message.Content,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
		CachedTokens: parsed.Usage.PromptTokensCached,
	}, nil
}
