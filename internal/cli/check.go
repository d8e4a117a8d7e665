package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers/compat"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers/factory"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newClient 按当前设置（加上命令行覆盖）构建具体客户端
func newClient(cmd *cobra.Command, a *app, flags *backendFlags) (*compat.Client, error) {
	settings, err := a.loadSettings()
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	flags.apply(cmd, settings)

	client, err := factory.DefaultFactory.CreateCompat(settings.Translator, settings.TranslationConfig())
	if err != nil {
		return nil, explain(err)
	}
	return client, nil
}

func newCheckCommand(a *app) *cobra.Command {
	var flags backendFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "检查当前后端的地址、密钥和模型是否可用",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, a, &flags)
			if err != nil {
				return err
			}

			a.log.Debug("健康检查",
				zap.String("backend", client.Name()),
				zap.String("base_url", client.BaseURL()),
				zap.String("model", client.Model()),
			)
			if err := client.HealthCheck(cmd.Context()); err != nil {
				return explain(err)
			}

			ok := color.New(color.FgGreen).SprintFunc()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, model %s)\n",
				ok("OK"), client.Name(), client.BaseURL(), client.Model())
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

func newModelsCommand(a *app) *cobra.Command {
	var flags backendFlags

	cmd := &cobra.Command{
		Use:   "models",
		Short: "列出当前后端可用的模型",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, a, &flags)
			if err != nil {
				return err
			}

			models, err := client.ListModels(cmd.Context())
			if err != nil {
				return explain(err)
			}

			current := client.Model()
			for _, m := range models {
				if m == current {
					fmt.Fprintf(cmd.OutOrStdout(), "%s *\n", m)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
