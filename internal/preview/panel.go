package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nerdneilsfield/go-transpreview/internal/config"
	"github.com/nerdneilsfield/go-transpreview/internal/document"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	"go.uber.org/zap"
)

var (
	// ErrDisposed 面板已关闭
	ErrDisposed = errors.New("preview panel is disposed")

	// ErrNoDocument 没有可翻译的文档
	ErrNoDocument = errors.New("no document to translate")

	// ErrAPIKeyMissing 设置中没有 API 密钥
	ErrAPIKeyMissing = errors.New("please set your API key in settings (api_key)")
)

// SettingsLoader 读取最新设置，每次翻译前调用
type SettingsLoader func() (*config.Settings, error)

// Translator 翻译入口，translation.Service 实现了该接口
type Translator interface {
	Translate(ctx context.Context, backendID string, cfg providers.Config, sourceText, sourceLanguageTag string) (string, error)
}

// Panel 预览面板
//
// 持有当前文档，把内容或译文投递到 Sink。翻译期间不持有锁，
// 文档可以在翻译进行时被更新。
type Panel struct {
	id           string
	sink         Sink
	translator   Translator
	loadSettings SettingsLoader
	logger       *zap.Logger

	mu        sync.Mutex
	current   *document.Source
	disposed  bool
	onDispose func()
}

// NewPanel 创建预览面板
func NewPanel(sink Sink, translator Translator, loadSettings SettingsLoader, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Panel{
		id:           id,
		sink:         sink,
		translator:   translator,
		loadSettings: loadSettings,
		logger:       logger.With(zap.String("panel", id)),
	}
}

// ID 面板标识
func (p *Panel) ID() string {
	return p.id
}

// OnDispose 设置关闭回调
func (p *Panel) OnDispose(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDispose = fn
}

// Current 当前文档
func (p *Panel) Current() *document.Source {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// UpdateContent 切换/刷新文档并发送原文
func (p *Panel) UpdateContent(doc *document.Source) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	p.current = doc
	p.mu.Unlock()

	p.logger.Debug("更新预览内容", zap.String("file", doc.FileName), zap.String("language", doc.LanguageID))
	return p.sink.Post(contentMessage(doc))
}

// Refresh 重新发送当前文档
func (p *Panel) Refresh() error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	doc := p.current
	p.mu.Unlock()

	if doc == nil {
		return nil
	}
	return p.sink.Post(contentMessage(doc))
}

// Translate 翻译当前文档
//
// 设置在调用时重新读取；未配置密钥时直接返回 ErrAPIKeyMissing，不发起请求。
// 翻译失败时发送 translateComplete 让渲染端恢复。
func (p *Panel) Translate(ctx context.Context) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	doc := p.current
	p.mu.Unlock()

	settings, err := p.loadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.APIKey == "" {
		return ErrAPIKeyMissing
	}
	if doc == nil {
		return ErrNoDocument
	}

	translated, err := p.translator.Translate(ctx, settings.Translator, settings.TranslationConfig(), doc.Text, doc.LanguageID)
	if err != nil {
		p.logger.Error("翻译失败", zap.String("file", doc.FileName), zap.Error(err))
		if postErr := p.sink.Post(Message{Command: CommandTranslateComplete}); postErr != nil {
			p.logger.Warn("发送完成消息失败", zap.Error(postErr))
		}
		return fmt.Errorf("translation failed: %w", err)
	}

	return p.sink.Post(Message{
		Command:      CommandUpdateContent,
		Content:      translated,
		FileName:     doc.FileName,
		Language:     doc.LanguageID,
		IsTranslated: true,
	})
}

// Dispose 关闭面板，重复调用无副作用
func (p *Panel) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	p.current = nil
	fn := p.onDispose
	p.mu.Unlock()

	p.logger.Debug("预览面板已关闭")
	if fn != nil {
		fn()
	}
}

func contentMessage(doc *document.Source) Message {
	return Message{
		Command:  CommandUpdateContent,
		Content:  doc.Text,
		FileName: doc.FileName,
		Language: doc.LanguageID,
	}
}
