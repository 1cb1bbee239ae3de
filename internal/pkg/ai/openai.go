package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/shenxiangzhuang/aic/internal/pkg/config"
	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
)

var versionSuffix = regexp.MustCompile(`/v[0-9]+$`)

// Client implements Generator with go-openai.
type Client struct {
	client   *openai.Client
	model    string
	endpoint string
	prompt   *PromptTemplate
}

var _ Generator = (*Client)(nil)

// NewClient creates a Client. The token is required; everything else falls
// back to the built-in defaults.
func NewClient(s Settings) (*Client, error) {
	if strings.TrimSpace(s.APIToken) == "" {
		return nil, apperrors.NewMissingAPITokenError()
	}
	if s.Model == "" {
		s.Model = config.DefaultModel
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}

	endpoint := EndpointURL(s.BaseURL)
	clientConfig := openai.DefaultConfig(s.APIToken)
	clientConfig.BaseURL = endpoint
	if s.HTTPClient != nil {
		clientConfig.HTTPClient = s.HTTPClient
	} else {
		clientConfig.HTTPClient = &http.Client{Timeout: s.Timeout}
	}

	return &Client{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    s.Model,
		endpoint: endpoint,
		prompt:   NewPromptTemplate(s.SystemPrompt, s.UserPrompt),
	}, nil
}

// EndpointURL turns api_base_url into the API root requests are sent under.
// "/v1" is appended unless the path already ends in a version segment.
func EndpointURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = config.DefaultAPIBaseURL
	}
	if versionSuffix.MatchString(base) {
		return base
	}
	return base + "/v1"
}

// Model returns the model requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Endpoint returns the resolved API root.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate implements Generator.
func (c *Client) Generate(ctx context.Context, diff string) (string, error) {
	userPrompt := c.prompt.RenderUserPrompt(diff)
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.prompt.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}

	apperrors.LogAPIRequest(c.endpoint, c.model, len(userPrompt))
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewBadResponseError("no response from API: the choice list is empty", nil)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	apperrors.LogAPIResponse(len(resp.Choices), len(content), time.Since(start))
	if content == "" {
		return "", apperrors.NewBadResponseError("the API returned an empty commit message", nil)
	}
	return content, nil
}

// Ping implements Generator.
func (c *Client) Ping(ctx context.Context) error {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "ping"},
		},
	}
	apperrors.LogAPIRequest(c.endpoint, c.model, len("ping"))
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return wrapAPIError(err)
	}
	apperrors.LogAPIResponse(len(resp.Choices), 0, time.Since(start))
	if len(resp.Choices) == 0 {
		return apperrors.NewBadResponseError("no response from API: the choice list is empty", nil)
	}
	return nil
}

// wrapAPIError maps go-openai and transport errors to the API error kinds.
func wrapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(reqErr.HTTPStatusCode, strings.TrimSpace(string(reqErr.Body)), err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.NewNetworkError(err)
	}
	return apperrors.NewBadResponseError("unexpected response from the completion API", err)
}

func statusError(status int, message string, err error) error {
	if status == http.StatusUnauthorized {
		return apperrors.NewUnauthorizedError(err)
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return apperrors.NewBadResponseError(fmt.Sprintf("API request failed (%d): %s", status, message), err).
		WithContext("status", status)
}
