package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-transpreview/internal/config"
	"github.com/nerdneilsfield/go-transpreview/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "查看或修改配置",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "显示当前生效的配置（密钥已隐藏）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSettings()
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Key", "Value"})
			t.AppendRows([]table.Row{
				{"translator", s.Translator},
				{"api_key", logger.MaskSecret(s.APIKey)},
				{"base_url", s.BaseURL},
				{"model", s.Model},
				{"debug", s.Debug},
			})
			t.Render()
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "修改配置文件中的一项",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Set(a.cfgFile, args[0], args[1]); err != nil {
				return explain(err)
			}
			a.log.Info("配置已更新", zap.String("key", args[0]))
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "显示配置文件路径",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.AddCommand(showCmd, setCmd, pathCmd)
	return cmd
}
