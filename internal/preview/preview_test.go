package preview

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerdneilsfield/go-transpreview/internal/config"
	"github.com/nerdneilsfield/go-transpreview/internal/document"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink 记录收到的消息
type recordingSink struct {
	mu       sync.Mutex
	messages []Message
}

func (r *recordingSink) Post(msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingSink) last() Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messages[len(r.messages)-1]
}

// fakeTranslator 记录调用参数并返回固定结果
type fakeTranslator struct {
	calls    int
	backend  string
	cfg      providers.Config
	language string
	result   string
	err      error
}

func (f *fakeTranslator) Translate(_ context.Context, backendID string, cfg providers.Config, _ string, lang string) (string, error) {
	f.calls++
	f.backend = backendID
	f.cfg = cfg
	f.language = lang
	return f.result, f.err
}

func staticSettings(s config.Settings) SettingsLoader {
	return func() (*config.Settings, error) {
		copied := s
		return &copied, nil
	}
}

var testDoc = &document.Source{Path: "/tmp/a.py", FileName: "a.py", LanguageID: "python", Text: "print('hi')"}

func TestPanel_UpdateContent(t *testing.T) {
	sink := &recordingSink{}
	p := NewPanel(sink, &fakeTranslator{}, staticSettings(config.Settings{}), nil)
	assert.NotEmpty(t, p.ID())

	require.NoError(t, p.UpdateContent(testDoc))
	assert.Equal(t, Message{
		Command:  CommandUpdateContent,
		Content:  "print('hi')",
		FileName: "a.py",
		Language: "python",
	}, sink.last())
	assert.Same(t, testDoc, p.Current())

	require.NoError(t, p.Refresh())
	assert.Len(t, sink.messages, 2)
}

func TestPanel_Translate(t *testing.T) {
	sink := &recordingSink{}
	tr := &fakeTranslator{result: "打印('你好')"}
	p := NewPanel(sink, tr, staticSettings(config.Settings{Translator: "qwen", APIKey: "sk", Model: "qwen-max"}), nil)
	require.NoError(t, p.UpdateContent(testDoc))

	require.NoError(t, p.Translate(context.Background()))
	assert.Equal(t, "qwen", tr.backend)
	assert.Equal(t, providers.Config{APIKey: "sk", Model: "qwen-max"}, tr.cfg)
	assert.Equal(t, "python", tr.language)
	assert.Equal(t, Message{
		Command:      CommandUpdateContent,
		Content:      "打印('你好')",
		FileName:     "a.py",
		Language:     "python",
		IsTranslated: true,
	}, sink.last())
}

func TestPanel_Translate_ReadsSettingsEveryCall(t *testing.T) {
	keys := []string{"", "sk-1"}
	i := 0
	loader := func() (*config.Settings, error) {
		s := &config.Settings{Translator: "deepseek", APIKey: keys[i]}
		i++
		return s, nil
	}
	tr := &fakeTranslator{result: "ok"}
	p := NewPanel(&recordingSink{}, tr, loader, nil)
	require.NoError(t, p.UpdateContent(testDoc))

	assert.ErrorIs(t, p.Translate(context.Background()), ErrAPIKeyMissing)
	assert.Equal(t, 0, tr.calls)

	require.NoError(t, p.Translate(context.Background()))
	assert.Equal(t, "sk-1", tr.cfg.APIKey)
}

func TestPanel_Translate_Failure(t *testing.T) {
	sink := &recordingSink{}
	remote := &providers.RemoteError{Backend: "DeepSeek", StatusCode: 500, Body: "server exploded"}
	p := NewPanel(sink, &fakeTranslator{err: remote}, staticSettings(config.Settings{APIKey: "sk"}), nil)
	require.NoError(t, p.UpdateContent(testDoc))

	err := p.Translate(context.Background())
	require.Error(t, err)
	got, ok := providers.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, 500, got.StatusCode)
	assert.Equal(t, CommandTranslateComplete, sink.last().Command)
}

func TestPanel_Translate_NoDocument(t *testing.T) {
	p := NewPanel(&recordingSink{}, &fakeTranslator{}, staticSettings(config.Settings{APIKey: "sk"}), nil)
	assert.ErrorIs(t, p.Translate(context.Background()), ErrNoDocument)
}

func TestPanel_Translate_SettingsError(t *testing.T) {
	p := NewPanel(&recordingSink{}, &fakeTranslator{}, func() (*config.Settings, error) {
		return nil, errors.New("broken")
	}, nil)
	assert.Error(t, p.Translate(context.Background()))
}

func TestPanel_Dispose(t *testing.T) {
	p := NewPanel(&recordingSink{}, &fakeTranslator{}, staticSettings(config.Settings{APIKey: "sk"}), nil)
	disposed := 0
	p.OnDispose(func() { disposed++ })

	p.Dispose()
	p.Dispose()
	assert.Equal(t, 1, disposed)
	assert.ErrorIs(t, p.UpdateContent(testDoc), ErrDisposed)
	assert.ErrorIs(t, p.Translate(context.Background()), ErrDisposed)
	assert.ErrorIs(t, p.Refresh(), ErrDisposed)
}

func TestTerminalSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTerminalSink(&buf)

	require.NoError(t, sink.Post(Message{Command: CommandUpdateContent, Content: "你好\n", FileName: "说明.md", Language: "markdown", IsTranslated: true}))
	out := buf.String()
	assert.Contains(t, out, "说明.md")
	assert.Contains(t, out, "markdown")
	assert.Contains(t, out, "Translated")
	assert.Contains(t, out, "─")
	assert.True(t, strings.HasSuffix(out, "你好\n"))

	buf.Reset()
	require.NoError(t, sink.Post(Message{Command: CommandUpdateContent}))
	assert.Contains(t, buf.String(), "Untitled")
	assert.Contains(t, buf.String(), EmptyContentText)

	buf.Reset()
	require.NoError(t, sink.Post(Message{Command: CommandTranslateComplete}))
	assert.Contains(t, buf.String(), "translation failed")

	assert.Error(t, sink.Post(Message{Command: "bogus"}))
}

// failingWriter 每次写入都失败
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestTerminalSink_WriteError(t *testing.T) {
	sink := NewTerminalSink(failingWriter{})

	err := sink.Post(Message{Command: CommandUpdateContent, Content: "x", FileName: "a.go", Language: "go", IsTranslated: true})
	assert.EqualError(t, err, "disk full")
	assert.Error(t, sink.Post(Message{Command: CommandTranslateComplete}))
}

func TestRenderHTML_Empty(t *testing.T) {
	for _, lang := range []string{"markdown", "plaintext"} {
		t.Run(lang, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderHTML(&buf, Message{Command: CommandUpdateContent, Content: "\n", FileName: "empty", Language: lang}))
			out := buf.String()
			assert.Contains(t, out, `<p class="empty-state">This file has no content</p>`)
			assert.NotContains(t, out, "<pre>")
		})
	}
}

func TestRenderHTML_Markdown(t *testing.T) {
	var buf bytes.Buffer
	msg := Message{
		Command:  CommandUpdateContent,
		Content:  "---\ntitle: x\n---\n# Hello\n\n<script>alert(1)</script>\n\n| a | b |\n|---|---|\n| 1 | 2 |\n",
		FileName: "README.md",
		Language: "markdown",
	}
	require.NoError(t, RenderHTML(&buf, msg))

	out := buf.String()
	assert.Contains(t, out, `<h1 id="hello">Hello</h1>`)
	assert.Contains(t, out, "<table>")
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.NotContains(t, out, "title: x")
	assert.NotContains(t, out, "translated-indicator\">")
}

func TestRenderHTML_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Message{
		Command:      CommandUpdateContent,
		Content:      "if a < b && c {}",
		FileName:     "main.go",
		Language:     "go",
		IsTranslated: true,
	}))

	out := buf.String()
	assert.Contains(t, out, "<pre>if a &lt; b &amp;&amp; c {}</pre>")
	assert.Contains(t, out, `<span class="translated-indicator">Translated</span>`)
}

func TestHTMLSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "preview.html")
	sink := NewHTMLSink(path)

	require.NoError(t, sink.Post(Message{Command: CommandUpdateContent, Content: "hello", FileName: "a.txt", Language: "plaintext"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<pre>hello</pre>")

	// translateComplete 不覆盖页面
	require.NoError(t, sink.Post(Message{Command: CommandTranslateComplete}))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<pre>hello</pre>")
}

func TestHTMLSink_RenameFailure(t *testing.T) {
	// 目标路径是非空目录，Rename 必然失败
	path := filepath.Join(t.TempDir(), "preview.html")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0o755))

	err := NewHTMLSink(path).Post(Message{Command: CommandUpdateContent, Content: "hello", Language: "plaintext"})
	require.Error(t, err)

	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr), "temp file should be removed")
}

func TestMultiSink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	require.NoError(t, MultiSink{a, b}.Post(Message{Command: CommandTranslateComplete}))
	assert.Len(t, a.messages, 1)
	assert.Len(t, b.messages, 1)

	failing := SinkFunc(func(Message) error { return errors.New("boom") })
	assert.Error(t, MultiSink{failing, a}.Post(Message{}))
	assert.Len(t, a.messages, 1)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// 其他文件的变化不触发
	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0o600))
		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
		select {
		case <-changed:
			cancel()
			require.NoError(t, <-done)
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no change event received")
		}
	}
}
