package providers

import (
	"errors"
	"fmt"
)

// ErrNotConfigured 未配置 API 密钥，不会发起任何网络请求
var ErrNotConfigured = errors.New("API key is not configured")

// UnknownBackendError 未知的后端标识
type UnknownBackendError struct {
	Backend string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown translation provider: %s", e.Backend)
}

// RemoteError 远端返回非 2xx 状态码
//
// Body 为原始响应文本，不做 JSON 解析。
type RemoteError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Backend, e.StatusCode, e.Body)
}

// NotConfigured 返回带后端名称的未配置错误
func NotConfigured(backend string) error {
	return fmt.Errorf("%s %w", backend, ErrNotConfigured)
}

// IsNotConfigured 判断是否为未配置错误
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// AsRemoteError 提取 RemoteError
func AsRemoteError(err error) (*RemoteError, bool) {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr, true
	}
	return nil, false
}
