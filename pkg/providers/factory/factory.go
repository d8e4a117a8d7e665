package factory

import (
	"net/http"
	"strings"

	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers/compat"
)

// DefaultBackend 默认后端
const DefaultBackend = "deepseek"

// backends 支持的后端，顺序即展示顺序
var backends = []compat.Backend{
	{
		ID:             "deepseek",
		DisplayName:    "DeepSeek",
		DefaultBaseURL: "https://api.deepseek.com/v1",
		DefaultModel:   "deepseek-chat",
	},
	{
		ID:             "zhipu",
		DisplayName:    "Zhipu",
		DefaultBaseURL: "https://open.bigmodel.cn/api/paas/v4",
		DefaultModel:   "glm-4-flash",
	},
	{
		ID:             "openai",
		DisplayName:    "OpenAI",
		DefaultBaseURL: "https://api.openai.com/v1",
		DefaultModel:   "gpt-4o-mini",
	},
	{
		ID:             "qwen",
		DisplayName:    "Qwen",
		DefaultBaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
		DefaultModel:   "qwen-turbo",
	},
}

// ProviderFactory 提供商工厂
type ProviderFactory struct {
	httpClient *http.Client
}

// New 创建新的提供商工厂，httpClient 为 nil 时使用 http.DefaultClient
func New(httpClient *http.Client) *ProviderFactory {
	return &ProviderFactory{httpClient: httpClient}
}

// Create 根据后端标识创建客户端（不区分大小写）
func (f *ProviderFactory) Create(backendID string, config providers.Config) (providers.Client, error) {
	client, err := f.CreateCompat(backendID, config)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// CreateCompat 与 Create 相同，但返回具体类型，便于调用 HealthCheck/ListModels
func (f *ProviderFactory) CreateCompat(backendID string, config providers.Config) (*compat.Client, error) {
	backend, ok := Lookup(backendID)
	if !ok {
		return nil, &providers.UnknownBackendError{Backend: backendID}
	}
	return compat.New(backend, config, compat.WithHTTPClient(f.httpClient)), nil
}

// Lookup 查找后端描述（不区分大小写）
func Lookup(backendID string) (compat.Backend, bool) {
	id := strings.ToLower(backendID)
	for _, b := range backends {
		if b.ID == id {
			return b, true
		}
	}
	return compat.Backend{}, false
}

// Supported 获取支持的后端列表
func Supported() []compat.Backend {
	out := make([]compat.Backend, len(backends))
	copy(out, backends)
	return out
}

// SupportedIDs 获取支持的后端标识
func SupportedIDs() []string {
	ids := make([]string, 0, len(backends))
	for _, b := range backends {
		ids = append(ids, b.ID)
	}
	return ids
}

// DefaultFactory 全局工厂实例
var DefaultFactory = New(nil)

// Create 使用默认工厂创建客户端
func Create(backendID string, config providers.Config) (providers.Client, error) {
	return DefaultFactory.Create(backendID, config)
}
