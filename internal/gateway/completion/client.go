// Package completion adapts the hosted text-completion endpoint. The
// endpoint is OpenAI-compatible; requests may fail over across a rotating
// pool of credentials, bounded by the pool size.
package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"obrolan/chat-client/internal/domain/chat"
	"obrolan/chat-client/internal/infrastructure/logger"
	"obrolan/chat-client/internal/utils/httpclients"
	"obrolan/chat-client/internal/utils/platformerrors"
)

// Request parameters match the upstream the original product targets.
const (
	defaultTemperature = 1
	defaultMaxTokens   = 4096
	defaultTopP        = 1
)

// titleInstruction is the fixed summarization prompt for deriving a
// conversation title from the first user message.
const titleInstruction = "Summarize the user's message as a short conversation title of at most five words. Reply with the title only, no quotes or punctuation."

// Client calls the completion gateway.
type Client struct {
	http  *resty.Client
	model string
	pool  *CredentialPool
	log   zerolog.Logger
}

// NewClient constructs a completion client over a credential pool. The
// timeout bounds each attempt so a hung upstream fails over instead of
// pinning the request.
func NewClient(baseURL, model string, pool *CredentialPool, timeout time.Duration) *Client {
	client := httpclients.NewClient("CompletionClient")
	client.SetBaseURL(baseURL)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Client{
		http:  client,
		model: model,
		pool:  pool,
		log:   logger.GetLogger(),
	}
}

var _ chat.CompletionGateway = (*Client)(nil)

// RequestCompletion sends the full role-tagged history and returns the
// completion text. On failure it advances round-robin through the
// credential pool, surfacing a terminal error only after every credential
// has been tried.
func (c *Client) RequestCompletion(ctx context.Context, history []chat.Turn) (string, error) {
	if len(history) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeValidation, "completion requires a non-empty history", nil)
	}
	return c.complete(ctx, toOpenAIMessages(history))
}

// GenerateTitle asks the gateway for a short title summarizing the first
// user message. Failures are returned so the caller can fall back; they
// must never block conversation creation.
func (c *Client) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: titleInstruction},
		{Role: openai.ChatMessageRoleUser, Content: firstMessage},
	}
	return c.complete(ctx, messages)
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
		TopP:        defaultTopP,
	}

	start := c.pool.Next()
	var lastErr error
	for attempt := 0; attempt < c.pool.Size(); attempt++ {
		content, err := c.createChatCompletion(ctx, c.pool.Key(start, attempt), request)
		if err == nil {
			return content, nil
		}
		lastErr = err
		c.log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("pool_size", c.pool.Size()).
			Msg("completion attempt failed, rotating credential")
	}

	return "", platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeCompletion, "all credentials exhausted", lastErr)
}

func (c *Client) createChatCompletion(ctx context.Context, apiKey string, request openai.ChatCompletionRequest) (string, error) {
	var respBody openai.ChatCompletionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&respBody).
		Post("/chat/completions")
	if err != nil {
		return "", platformerrors.AsError(ctx, platformerrors.LayerGateway, err, "completion request")
	}
	if resp.IsError() {
		return "", platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeCompletion,
			fmt.Sprintf("completion gateway returned %d", resp.StatusCode()), nil)
	}
	if len(respBody.Choices) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeCompletion, "completion payload has no choices", nil)
	}
	content := strings.TrimSpace(respBody.Choices[0].Message.Content)
	if content == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerGateway, platformerrors.ErrorTypeCompletion, "completion payload is empty", nil)
	}
	return content, nil
}

func toOpenAIMessages(history []chat.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	return messages
}
