package translation

import (
	"context"
	"time"

	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	"go.uber.org/zap"
)

// ClientFactory 根据后端标识和配置构建客户端
type ClientFactory interface {
	Create(backendID string, config providers.Config) (providers.Client, error)
}

// FactoryFunc 函数适配器
type FactoryFunc func(backendID string, config providers.Config) (providers.Client, error)

// Create 实现 ClientFactory
func (f FactoryFunc) Create(backendID string, config providers.Config) (providers.Client, error) {
	return f(backendID, config)
}

// Service 翻译服务，宿主调用的唯一入口
//
// Service 本身无状态，可以并发使用。
type Service struct {
	factory ClientFactory
	logger  *zap.Logger
}

// NewService 创建翻译服务，logger 为 nil 时不输出日志
func NewService(factory ClientFactory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		factory: factory,
		logger:  logger,
	}
}

// Translate 根据文档语言标识自动选择目标语言并翻译
func (s *Service) Translate(ctx context.Context, backendID string, config providers.Config, sourceText, sourceLanguageTag string) (string, error) {
	return s.TranslateTo(ctx, backendID, config, sourceText, ResolveTarget(sourceLanguageTag))
}

// TranslateTo 翻译到指定目标语言
func (s *Service) TranslateTo(ctx context.Context, backendID string, config providers.Config, sourceText, targetLanguage string) (string, error) {
	client, err := s.factory.Create(backendID, config)
	if err != nil {
		return "", err
	}

	log := s.logger.With(
		zap.String("backend", client.Name()),
		zap.String("target", targetLanguage),
	)

	if !client.IsConfigured() {
		log.Warn("未配置 API 密钥，跳过翻译")
		return "", providers.NotConfigured(client.Name())
	}

	log.Debug("开始翻译", zap.Int("source_length", len(sourceText)))
	start := time.Now()

	translated, err := client.Translate(ctx, sourceText, targetLanguage)
	if err != nil {
		log.Error("翻译失败", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return "", err
	}

	if translated == "" {
		log.Warn("翻译结果为空", zap.Duration("duration", time.Since(start)))
	} else {
		log.Info("翻译完成",
			zap.Int("source_length", len(sourceText)),
			zap.Int("result_length", len(translated)),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return translated, nil
}
