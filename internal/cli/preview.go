package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/preview"
)

func newPreviewCmd() *cobra.Command {
	var (
		values editor.Values
		asHTML bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a notification mock",
		Long:  "Render the notification described by the flags as it would appear in the browser preview. Empty fields show their placeholders.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := values.Data()

			if asHTML {
				html, err := preview.HTML(data)
				if err != nil {
					return fmt.Errorf("rendering preview: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), html)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), preview.RenderTerminal(data))
			return nil
		},
	}

	bindTemplateFlags(cmd, &values)
	cmd.Flags().BoolVar(&asHTML, "html", false, "print the HTML mock instead of the terminal card")
	return cmd
}
