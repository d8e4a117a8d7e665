package providers

import (
	"context"
)

// DefaultTargetLanguage 未指定目标语言时使用的默认值
const DefaultTargetLanguage = "zh-CN"

// Config 翻译配置
//
// 每次翻译调用都应根据当前设置重新构建，不要跨调用缓存。
type Config struct {
	// APIKey 为空时客户端视为未配置
	APIKey string `json:"api_key,omitempty"`

	// BaseURL 可选，为空时使用后端默认地址
	BaseURL string `json:"base_url,omitempty"`

	// Model 可选，为空时使用后端默认模型
	Model string `json:"model,omitempty"`
}

// IsConfigured 是否持有非空的 API 密钥（不做 trim）
func (c Config) IsConfigured() bool {
	return c.APIKey != ""
}

// Client 翻译客户端接口
type Client interface {
	// Translate 将 content 翻译为 targetLanguage，targetLanguage 为空时使用 DefaultTargetLanguage
	Translate(ctx context.Context, content, targetLanguage string) (string, error)

	// IsConfigured 是否已配置 API 密钥
	IsConfigured() bool

	// Name 获取后端显示名称
	Name() string
}
