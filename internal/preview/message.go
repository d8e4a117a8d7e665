package preview

import "strings"

// 面板与渲染端之间的消息命令
const (
	CommandUpdateContent     = "updateContent"
	CommandTranslateComplete = "translateComplete"
)

// EmptyContentText 文档为空时显示的提示
const EmptyContentText = "This file has no content"

// isEmptyContent 只有换行也视为空文档
func isEmptyContent(content string) bool {
	return strings.TrimRight(content, "\n") == ""
}

// Message 发往渲染端的消息
type Message struct {
	Command      string `json:"command"`
	Content      string `json:"content,omitempty"`
	FileName     string `json:"fileName,omitempty"`
	Language     string `json:"language,omitempty"`
	IsTranslated bool   `json:"isTranslated"`
}

// Sink 渲染端
type Sink interface {
	Post(msg Message) error
}

// SinkFunc 函数适配器
type SinkFunc func(msg Message) error

// Post 实现 Sink
func (f SinkFunc) Post(msg Message) error {
	return f(msg)
}

// MultiSink 依次投递到多个渲染端，遇到第一个错误即返回
type MultiSink []Sink

// Post 实现 Sink
func (m MultiSink) Post(msg Message) error {
	for _, s := range m {
		if err := s.Post(msg); err != nil {
			return err
		}
	}
	return nil
}
