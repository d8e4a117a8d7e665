// Package compat 实现 OpenAI 兼容的 chat/completions 翻译客户端。
//
// 各个后端（DeepSeek、智谱、OpenAI、通义千问）只在默认地址和默认模型上不同，
// 因此由同一个 Client 加上一份 Backend 描述来实现。
package compat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	"github.com/tidwall/gjson"
)

// Temperature 固定温度，偏向字面翻译
const Temperature = 0.3

// Backend 后端描述
type Backend struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	DefaultBaseURL string `json:"default_base_url"`
	DefaultModel   string `json:"default_model"`
}

// Client OpenAI 兼容的翻译客户端
type Client struct {
	backend    Backend
	config     providers.Config
	httpClient *http.Client
}

// 确保 Client 实现 providers.Client 接口
var _ providers.Client = (*Client)(nil)

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 使用自定义 HTTP 客户端
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New 创建新的客户端，不做任何 I/O，也不校验密钥
func New(backend Backend, config providers.Config, opts ...Option) *Client {
	c := &Client{
		backend:    backend,
		config:     config,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name 获取后端显示名称
func (c *Client) Name() string {
	return c.backend.DisplayName
}

// Backend 获取后端描述
func (c *Client) Backend() Backend {
	return c.backend
}

// IsConfigured 是否已配置 API 密钥
func (c *Client) IsConfigured() bool {
	return c.config.IsConfigured()
}

// BaseURL 实际使用的端点
func (c *Client) BaseURL() string {
	if c.config.BaseURL != "" {
		return c.config.BaseURL
	}
	return c.backend.DefaultBaseURL
}

// Model 实际使用的模型
func (c *Client) Model() string {
	if c.config.Model != "" {
		return c.config.Model
	}
	return c.backend.DefaultModel
}

// SystemPrompt 构建系统提示词
func SystemPrompt(targetLanguage string) string {
	return fmt.Sprintf("You are a professional translator. Translate the given content to %s. "+
		"Only return the translated text without any explanations or additional content.", targetLanguage)
}

// NewChatRequest 构建聊天请求，content 原样作为用户消息
func NewChatRequest(model, content, targetLanguage string) ChatRequest {
	return ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt(targetLanguage)},
			{Role: "user", Content: content},
		},
		Temperature: Temperature,
	}
}

// Translate 执行翻译
//
// 未配置时直接返回错误；非 2xx 返回 RemoteError；响应中没有
// choices[0].message.content 时返回空字符串。不做重试。
func (c *Client) Translate(ctx context.Context, content, targetLanguage string) (string, error) {
	if !c.IsConfigured() {
		return "", providers.NotConfigured(c.backend.DisplayName)
	}
	if targetLanguage == "" {
		targetLanguage = providers.DefaultTargetLanguage
	}

	body, err := json.Marshal(NewChatRequest(c.Model(), content, targetLanguage))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(c.BaseURL(), "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &providers.RemoteError{
			Backend:    c.backend.DisplayName,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return ExtractContent(respBody)
}

// ExtractContent 从 chat completion 响应中取出 choices[0].message.content
//
// 任一层级缺失都返回空字符串；只有响应不是合法 JSON 时才返回错误。
func ExtractContent(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("failed to decode response: invalid JSON")
	}
	content := gjson.GetBytes(body, "choices.0.message.content")
	if content.Type != gjson.String {
		return "", nil
	}
	return content.String(), nil
}

// Message 聊天消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest 聊天请求
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}
