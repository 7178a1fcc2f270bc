// Package imagegen calls an OpenAI-compatible generation API (DeepSeek by default)
// for product images and short Arabic product descriptions.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/rfqdesk/pkg/config"
)

const (
	defaultBaseURL         = "https://api.deepseek.com/v1"
	defaultImageSize       = "512x512"
	defaultChatModel       = "deepseek-chat"
	defaultTimeout         = 10 * time.Second
	responseBodyReadLimit  = 1024
	descriptionMaxTokens   = 200
	descriptionTemperature = 0.4
)

// ErrNotConfigured is returned by every call when no API key was provided.
var ErrNotConfigured = errors.New("image generation api key is not configured")

// Client talks to the generation API. A nil *Client behaves as unconfigured.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	imageSize  string
	chatModel  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a client from config. An empty API key yields a client whose calls
// return ErrNotConfigured.
func NewClient(cfg config.ImageGenConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		imageSize:  defaultImageSize,
		chatModel:  defaultChatModel,
	}
	if v := strings.TrimSpace(cfg.BaseURL); v != "" {
		client.baseURL = v
	}
	if v := strings.TrimSpace(cfg.ImageSize); v != "" {
		client.imageSize = v
	}
	if v := strings.TrimSpace(cfg.ChatModel); v != "" {
		client.chatModel = v
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Configured reports whether calls will reach the API.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// ImagePrompt is the prompt sent for a product image.
func ImagePrompt(description string) string {
	return "صورة واقعية عالية الجودة لـ: " + description
}

// GenerateImage returns the URL of one generated image for the description.
func (c *Client) GenerateImage(ctx context.Context, description string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	payload := map[string]any{
		"prompt": ImagePrompt(description),
		"n":      1,
		"size":   c.imageSize,
	}
	var resp struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := c.post(ctx, "images/generations", payload, &resp); err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(resp.Data) == 0 || strings.TrimSpace(resp.Data[0].URL) == "" {
		return "", errors.New("image generation: empty response")
	}
	return resp.Data[0].URL, nil
}

// DescribeInArabic asks the chat model for a short Arabic description of the product.
func (c *Client) DescribeInArabic(ctx context.Context, product string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	payload := map[string]any{
		"model": c.chatModel,
		"messages": []map[string]string{
			{"role": "system", "content": "أنت مساعد مشتريات. صف المنتج المطلوب باللغة العربية في جملتين أو ثلاث، بدون مقدمات."},
			{"role": "user", "content": product},
		},
		"max_tokens":  descriptionMaxTokens,
		"temperature": descriptionTemperature,
	}
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "chat/completions", payload, &resp); err != nil {
		return "", fmt.Errorf("description generation: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("description generation: empty response")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("description generation: empty response")
	}
	return text, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
