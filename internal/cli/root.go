package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nerdneilsfield/go-transpreview/internal/config"
	"github.com/nerdneilsfield/go-transpreview/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app 命令共享的状态
type app struct {
	cfgFile   string
	debugMode bool
	log       *zap.Logger
}

// loadSettings 每次调用都重新读取配置文件和环境变量
func (a *app) loadSettings() (*config.Settings, error) {
	return config.Load(a.cfgFile)
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	a := &app{log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "transpreview",
		Short: "文档预览与机器翻译工具",
		Long: `transpreview 预览文档内容，并可调用 OpenAI 兼容的大模型接口把整篇文档翻译后显示。

目标语言根据文档类型自动选择：中文语境的文档译为英文，其余译为简体中文。

支持的翻译后端:
  - deepseek: DeepSeek (默认)
  - zhipu:    智谱 GLM
  - openai:   OpenAI
  - qwen:     通义千问`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug := a.debugMode
			if !debug {
				// 配置文件中的 debug 也生效，读取失败留给具体命令处理
				if s, err := a.loadSettings(); err == nil {
					debug = s.Debug
				}
			}
			a.log = logger.NewLogger(debug)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "配置文件路径 (默认 $HOME/.transpreview.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.debugMode, "debug", false, "启用调试日志")

	rootCmd.AddCommand(
		newTranslateCommand(a),
		newPreviewCommand(a),
		newProvidersCommand(a),
		newCheckCommand(a),
		newModelsCommand(a),
		newConfigCommand(a),
	)

	return rootCmd
}

// isTerminal 判断输出是否为终端
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
