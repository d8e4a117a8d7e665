package cli

import (
	"fmt"
	"os"

	"github.com/nerdneilsfield/go-transpreview/internal/document"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers/factory"
	"github.com/nerdneilsfield/go-transpreview/pkg/translation"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTranslateCommand(a *app) *cobra.Command {
	var (
		flags      backendFlags
		target     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "翻译整篇文档并输出译文",
		Long: `翻译整篇文档并输出译文。

未指定 --target 时根据文档类型选择目标语言：语言标识包含 zh、chinese 或 csharp 时译为 en，否则译为 zh-CN。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0])
			if err != nil {
				return err
			}

			settings, err := a.loadSettings()
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}
			flags.apply(cmd, settings)

			svc := translation.NewService(factory.DefaultFactory, a.log)

			var spinner *pterm.SpinnerPrinter
			if isTerminal(cmd.ErrOrStderr()) {
				spinner, _ = pterm.DefaultSpinner.WithWriter(cmd.ErrOrStderr()).Start("Translating...")
			}

			var translated string
			if target != "" {
				translated, err = svc.TranslateTo(cmd.Context(), settings.Translator, settings.TranslationConfig(), doc.Text, target)
			} else {
				translated, err = svc.Translate(cmd.Context(), settings.Translator, settings.TranslationConfig(), doc.Text, doc.LanguageID)
			}

			if spinner != nil {
				if err != nil {
					spinner.Fail("Translation failed")
				} else {
					spinner.Success("Translated")
				}
			}
			if err != nil {
				return explain(err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, []byte(translated), 0o644); err != nil {
					return fmt.Errorf("写入译文失败: %w", err)
				}
				a.log.Info("译文已写入", zap.String("file", outputPath))
				return nil
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), translated)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&target, "target", "t", "", "目标语言（默认根据文档类型自动选择）")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "译文输出文件（默认输出到标准输出）")
	return cmd
}
