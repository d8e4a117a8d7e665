package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/nerdneilsfield/go-transpreview/internal/document"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,      // GitHub Flavored Markdown
		extension.Footnote, // 脚注
		mathjax.MathJax,    // 数学公式
		meta.Meta,          // front matter 不渲染为正文
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

var pageTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.FileName}} - Preview</title>
  <style>
    body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #cccccc; background: #1e1e1e; }
    .header { display: flex; align-items: center; gap: 12px; padding: 12px 16px; border-bottom: 1px solid #333; }
    .file-name { font-weight: 600; }
    .language-badge { font-size: 11px; padding: 2px 8px; border-radius: 3px; background: #4d4d4d; }
    .translated-indicator { font-size: 11px; padding: 2px 8px; border-radius: 3px; background: #28a745; color: white; }
    .content { padding: 16px; }
    .empty-state { color: #8c8c8c; font-style: italic; text-align: center; padding: 32px 0; }
    .content pre { white-space: pre-wrap; word-wrap: break-word; font-family: Consolas, Monaco, "Courier New", monospace; margin: 0; }
  </style>
</head>
<body>
  <div class="header">
    <span class="file-name">{{.FileName}}</span>
    {{- if .Language}}
    <span class="language-badge">{{.Language}}</span>
    {{- end}}
    {{- if .IsTranslated}}
    <span class="translated-indicator">Translated</span>
    {{- end}}
  </div>
  <div class="content">
    {{- if .Empty}}
    <p class="empty-state">{{.EmptyText}}</p>
    {{- else if .Markdown}}
{{.Body}}
    {{- else}}
    <pre>{{.Content}}</pre>
    {{- end}}
  </div>
</body>
</html>
`))

type pageData struct {
	Message
	Markdown  bool
	Empty     bool
	EmptyText string
	Body      template.HTML
}

// RenderHTML 把一条 updateContent 消息渲染为完整 HTML 页面
//
// Markdown 文档经 goldmark 渲染（不输出原始 HTML），其他文档放在 <pre> 中，
// 空文档显示 EmptyContentText。
func RenderHTML(w io.Writer, msg Message) error {
	data := pageData{Message: msg, EmptyText: EmptyContentText}
	if data.FileName == "" {
		data.FileName = "Untitled"
	}

	switch {
	case isEmptyContent(msg.Content):
		data.Empty = true
	case document.IsMarkdownLanguage(msg.Language):
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(msg.Content), &buf); err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		data.Markdown = true
		data.Body = template.HTML(buf.String()) //nolint:gosec // goldmark 默认会过滤原始 HTML
	}

	return pageTemplate.Execute(w, data)
}

// HTMLSink 把预览写入 HTML 文件，每次更新整体覆盖
type HTMLSink struct {
	Path string
}

// NewHTMLSink 创建 HTML 渲染端
func NewHTMLSink(path string) *HTMLSink {
	return &HTMLSink{Path: path}
}

// Post 实现 Sink，translateComplete 不改变页面
func (s *HTMLSink) Post(msg Message) error {
	if msg.Command != CommandUpdateContent {
		return nil
	}

	var buf bytes.Buffer
	if err := RenderHTML(&buf, msg); err != nil {
		return err
	}

	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace preview: %w", err)
	}
	return nil
}
