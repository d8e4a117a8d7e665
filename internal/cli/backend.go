package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/nerdneilsfield/go-transpreview/internal/config"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers/factory"
	"github.com/spf13/cobra"
)

// backendFlags 覆盖配置文件中的后端设置
type backendFlags struct {
	backend string
	apiKey  string
	baseURL string
	model   string
}

func (f *backendFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.backend, "backend", "b", "", "翻译后端: "+strings.Join(factory.SupportedIDs(), ", "))
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API 密钥（建议使用配置文件或 TRANSPREVIEW_API_KEY）")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "覆盖后端默认地址")
	cmd.Flags().StringVar(&f.model, "model", "", "覆盖后端默认模型")
}

// apply 只覆盖显式指定的标志
func (f *backendFlags) apply(cmd *cobra.Command, s *config.Settings) {
	if cmd.Flags().Changed("backend") {
		s.Translator = f.backend
	}
	if cmd.Flags().Changed("api-key") {
		s.APIKey = f.apiKey
	}
	if cmd.Flags().Changed("base-url") {
		s.BaseURL = f.baseURL
	}
	if cmd.Flags().Changed("model") {
		s.Model = f.model
	}
}

// suggestBackend 为拼错的后端标识给出最接近的候选
func suggestBackend(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return ""
	}

	best, bestDistance := "", 4
	for _, candidate := range factory.SupportedIDs() {
		if fuzzy.MatchFold(id, candidate) {
			return candidate
		}
		if d := fuzzy.LevenshteinDistance(id, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

// explain 为常见错误补充提示
func explain(err error) error {
	var unknown *providers.UnknownBackendError
	switch {
	case errors.As(err, &unknown):
		if s := suggestBackend(unknown.Backend); s != "" {
			return fmt.Errorf("%w (did you mean %q?)", err, s)
		}
		return fmt.Errorf("%w (supported: %s)", err, strings.Join(factory.SupportedIDs(), ", "))
	case providers.IsNotConfigured(err):
		return fmt.Errorf("%w: run `transpreview config set api_key <key>` or set %s_API_KEY", err, config.EnvPrefix)
	default:
		return err
	}
}
