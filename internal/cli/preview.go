package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/nerdneilsfield/go-transpreview/internal/config"
	"github.com/nerdneilsfield/go-transpreview/internal/document"
	"github.com/nerdneilsfield/go-transpreview/internal/preview"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers/factory"
	"github.com/nerdneilsfield/go-transpreview/pkg/translation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPreviewCommand(a *app) *cobra.Command {
	var (
		flags     backendFlags
		translate bool
		htmlPath  string
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "预览文档，可选翻译、输出 HTML 或监听变更",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			sinks := preview.MultiSink{preview.NewTerminalSink(cmd.OutOrStdout())}
			if htmlPath != "" {
				sinks = append(sinks, preview.NewHTMLSink(htmlPath))
			}

			loader := func() (*config.Settings, error) {
				s, err := a.loadSettings()
				if err != nil {
					return nil, err
				}
				flags.apply(cmd, s)
				return s, nil
			}

			svc := translation.NewService(factory.DefaultFactory, a.log)
			panel := preview.NewPanel(sinks, svc, loader, a.log)
			defer panel.Dispose()

			doc, err := document.Load(path)
			if err != nil {
				return err
			}
			if err := panel.UpdateContent(doc); err != nil {
				return err
			}

			if translate {
				if err := panel.Translate(cmd.Context()); err != nil {
					return explain(err)
				}
			}

			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			a.log.Info("监听文档变更，按 Ctrl+C 退出", zap.String("file", path))

			return preview.Watch(ctx, path, a.log, func() {
				reloadAndShow(ctx, a, panel, path)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&translate, "translate", false, "预览前先翻译")
	cmd.Flags().StringVar(&htmlPath, "html", "", "同时把预览写入 HTML 文件")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "文档变更时刷新预览")
	return cmd
}

// reloadAndShow 重新读取文档并发送原文
func reloadAndShow(ctx context.Context, a *app, panel *preview.Panel, path string) {
	if ctx.Err() != nil {
		return
	}
	doc, err := document.Load(path)
	if err != nil {
		a.log.Warn("重新读取文档失败", zap.String("file", path), zap.Error(err))
		return
	}
	if err := panel.UpdateContent(doc); err != nil {
		a.log.Warn("刷新预览失败", zap.Error(fmt.Errorf("%s: %w", path, err)))
	}
}
