package test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ChatMessage 请求中的消息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MockRequest 记录的请求
type MockRequest struct {
	Path        string
	Header      http.Header
	Raw         []byte
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// UserContent 用户消息内容
func (r MockRequest) UserContent() string {
	for _, m := range r.Messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

// MockOpenAIServer 模拟的 OpenAI 兼容服务器
type MockOpenAIServer struct {
	Server *httptest.Server
	URL    string

	mu              sync.Mutex
	responses       map[string]string
	defaultResponse string
	reply           func(MockRequest) string
	statusCode      int
	errorBody       string
	models          []string
	requests        []MockRequest
}

// NewMockOpenAIServer 创建模拟服务器，测试结束时自动关闭
func NewMockOpenAIServer(t *testing.T) *MockOpenAIServer {
	t.Helper()
	mock := &MockOpenAIServer{
		responses:       make(map[string]string),
		defaultResponse: "这是翻译后的文本",
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(mock.handle))
	mock.URL = mock.Server.URL
	t.Cleanup(mock.Server.Close)
	return mock
}

func (m *MockOpenAIServer) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	req := MockRequest{Path: r.URL.Path, Header: r.Header.Clone(), Raw: raw}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"message": "无法解析请求体", "type": "invalid_request_error"}}`))
			return
		}
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	status, errBody := m.statusCode, m.errorBody
	m.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(errBody))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/chat/completions":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-mock",
			"object":  "chat.completion",
			"created": 0,
			"model":   req.Model,
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": m.replyFor(req)},
			}},
		})
	case "/models":
		m.mu.Lock()
		data := make([]any, 0, len(m.models))
		for _, id := range m.models {
			data = append(data, map[string]any{"id": id, "object": "model", "created": 0, "owned_by": "mock"})
		}
		m.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (m *MockOpenAIServer) replyFor(req MockRequest) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reply != nil {
		return m.reply(req)
	}
	if resp, ok := m.responses[req.UserContent()]; ok {
		return resp
	}
	return m.defaultResponse
}

// SetResponse 为指定用户消息设置回复
func (m *MockOpenAIServer) SetResponse(userContent, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[userContent] = response
}

// SetReply 用函数生成回复，优先于 SetResponse
func (m *MockOpenAIServer) SetReply(fn func(MockRequest) string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = fn
}

// SetError 之后的请求都返回指定状态码和原始响应体
func (m *MockOpenAIServer) SetError(statusCode int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCode = statusCode
	m.errorBody = body
}

// SetModels 设置 /models 返回的模型
func (m *MockOpenAIServer) SetModels(models ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models = models
}

// Requests 已收到的请求
func (m *MockOpenAIServer) Requests() []MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount 已收到的请求数
func (m *MockOpenAIServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// EchoTarget 回复 "[模型] 系统提示词|原文"，便于断言目标语言和模型
func EchoTarget(req MockRequest) string {
	system := ""
	if len(req.Messages) > 0 {
		system = req.Messages[0].Content
	}
	return "[" + req.Model + "] " + system + "|" + req.UserContent()
}
