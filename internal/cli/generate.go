package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/generator"
)

func newGenerateCmd() *cobra.Command {
	var (
		layout string
		tone   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate notification body copy with the configured AI provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := editor.Values{LayoutTemplate: layout, Tone: tone}
			if errs := values.ValidateForGenerate(); !errs.OK() {
				return validationError(errs)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			log := newLogger(cfg)

			provider, err := newProvider(cmd.Context(), cfg.AI)
			if err != nil {
				return fmt.Errorf("AI provider: %w", err)
			}

			action, err := generator.NewAction(provider, cfg.Notifier.Prompt, log)
			if err != nil {
				return fmt.Errorf("prompt: %w", err)
			}

			result := action.Generate(cmd.Context(), generator.Request{LayoutTemplate: layout, Tone: tone})
			if !result.Success {
				return errors.New(result.Message)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&layout, "layout", "", "layout description for the message (required)")
	cmd.Flags().StringVar(&tone, "tone", "", "desired tone, e.g. Friendly or Urgent")
	return cmd
}
