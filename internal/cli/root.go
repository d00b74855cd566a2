// Package cli implements notifyctl, a terminal companion to the notifier server.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eternisai/firebase-notifier/internal/config"
	"github.com/eternisai/firebase-notifier/internal/generator"
	"github.com/eternisai/firebase-notifier/internal/logger"
)

var version = "dev"

// Overridden in tests.
var (
	loadConfig  = config.Load
	newProvider = generator.NewProvider
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "notifyctl",
		Short:         "Compose, preview and send Firebase web notifications",
		Long:          "notifyctl previews notification templates in the terminal, generates message copy with the configured AI provider and sends web pushes through FCM.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newPushCmd())
	cmd.AddCommand(newWorkerScriptCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

// newLogger logs to stderr so command output stays pipeable.
func newLogger(cfg *config.Config) *logger.Logger {
	lc := logger.FromConfig(cfg.LogLevel, "text")
	lc.Output = os.Stderr
	return logger.New(lc)
}
