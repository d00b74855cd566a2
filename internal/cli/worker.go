package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eternisai/firebase-notifier/internal/worker"
)

// simulation is what the worker does with one simulated push.
type simulation struct {
	Outcome      worker.Outcome      `json:"outcome"`
	Notification *worker.Shown       `json:"notification,omitempty"`
	OnClick      *worker.ClickAction `json:"onClick,omitempty"`
}

func newWorkerScriptCmd() *cobra.Command {
	var (
		output   string
		simulate string
		visible  bool
	)

	cmd := &cobra.Command{
		Use:   "worker-script",
		Short: "Render the background service worker script",
		Long: "Render the firebase-messaging service worker with the Firebase web config from the environment, for hosting it outside the server.\n" +
			"--simulate <payload> instead reports how the worker handles a push carrying payload (an empty payload is a push without data).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("simulate") {
				return printSimulation(cmd, simulate, visible)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			script, err := worker.Script(cfg.Firebase)
			if err != nil {
				return fmt.Errorf("rendering worker: %w", err)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(script)
				return err
			}
			if err := os.WriteFile(output, script, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(script))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&simulate, "simulate", "", "push payload to simulate instead of rendering the script")
	cmd.Flags().BoolVar(&visible, "visible", false, "simulate with an app window visible")
	return cmd
}

func printSimulation(cmd *cobra.Command, payload string, visible bool) error {
	shown, outcome := worker.ForPush([]byte(payload), payload != "", visible)

	result := simulation{Outcome: outcome}
	if outcome == worker.OutcomeShown {
		click := worker.OnClick()
		result.Notification = &shown
		result.OnClick = &click
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
