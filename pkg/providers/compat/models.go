package compat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nerdneilsfield/go-transpreview/pkg/providers"
	goopenai "github.com/sashabaranov/go-openai"
)

// ListModels 列出端点上可用的模型 ID（按字母排序）
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if !c.IsConfigured() {
		return nil, providers.NotConfigured(c.backend.DisplayName)
	}

	cfg := goopenai.DefaultConfig(c.config.APIKey)
	// go-openai 的路径以斜杠开头，避免出现双斜杠
	cfg.BaseURL = strings.TrimSuffix(c.BaseURL(), "/")
	cfg.HTTPClient = c.httpClient
	client := goopenai.NewClientWithConfig(cfg)

	list, err := client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s list models failed: %w", c.backend.DisplayName, err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids, nil
}
