package compat

import (
	"context"
	"fmt"
	"strings"

	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// HealthCheck 健康检查
//
// 使用官方 SDK 发送一个极短的聊天请求，验证端点、密钥和模型是否可用。
// SDK 自带的重试被关闭，与翻译调用保持一致。
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConfigured() {
		return providers.NotConfigured(c.backend.DisplayName)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(c.config.APIKey),
		option.WithBaseURL(strings.TrimSuffix(c.BaseURL(), "/") + "/"),
		option.WithMaxRetries(0),
		option.WithHTTPClient(c.httpClient),
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("Hello"),
		},
		Model:     openai.ChatModel(c.Model()),
		MaxTokens: openai.Int(10),
	}

	if _, err := client.Chat.Completions.New(ctx, params); err != nil {
		return fmt.Errorf("%s health check failed: %w", c.backend.DisplayName, err)
	}
	return nil
}
