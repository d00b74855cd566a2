package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/push"
)

func newPushCmd() *cobra.Command {
	var (
		values editor.Values
		token  string
		link   string
		dryRun bool
		curl   bool
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Send a web push to a registration token through FCM",
		Long:  "Send the notification described by the flags to a browser registration token. --dry-run prints the FCM v1 request body, --curl prints a ready-to-run curl command instead of sending.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := values.Validate(); !errs.OK() {
				return validationError(errs)
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("--token is required")
			}

			if dryRun {
				payload, err := push.DebugPayload(push.BuildMessage(token, values.Data(), link))
				if err != nil {
					return fmt.Errorf("building payload: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), payload)
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if link == "" {
				link = cfg.PublicURL
			}
			if cfg.FirebaseCredJSON == "" {
				return push.ErrDisabled
			}

			message := push.BuildMessage(token, values.Data(), link)
			if curl {
				fmt.Fprintln(cmd.OutOrStdout(), push.DebugCurl(cmd.Context(), cfg.FirebaseCredJSON, cfg.Firebase.ProjectID, message))
				return nil
			}

			log := newLogger(cfg)
			client, err := push.NewMessagingClient(cmd.Context(), cfg.Firebase.ProjectID, cfg.FirebaseCredJSON)
			if err != nil {
				return fmt.Errorf("FCM client: %w", err)
			}
			sender := push.NewSender(client, log, push.WithLink(link))

			id, err := sender.Send(cmd.Context(), token, values.Data())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	bindTemplateFlags(cmd, &values)
	cmd.Flags().StringVar(&token, "token", "", "FCM registration token of the target browser (required)")
	cmd.Flags().StringVar(&link, "link", "", "HTTPS URL opened on click (defaults to PUBLIC_URL)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the FCM request body without sending")
	cmd.Flags().BoolVar(&curl, "curl", false, "print an authorized curl command instead of sending")
	return cmd
}
