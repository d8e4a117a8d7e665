package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/go-transpreview/pkg/providers/factory"
	"github.com/spf13/cobra"
)

func newProvidersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "列出支持的翻译后端",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := ""
			if s, err := a.loadSettings(); err == nil {
				current = strings.ToLower(s.Translator)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"", "ID", "Name", "Default Endpoint", "Default Model"})
			for _, b := range factory.Supported() {
				mark := ""
				if b.ID == current {
					mark = "*"
				}
				t.AppendRow(table.Row{mark, b.ID, b.DisplayName, b.DefaultBaseURL, b.DefaultModel})
			}
			t.Render()
			return nil
		},
	}
}
