package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eternisai/firebase-notifier/internal/editor"
)

// bindTemplateFlags registers the notification fields shared by preview and push.
func bindTemplateFlags(cmd *cobra.Command, v *editor.Values) {
	cmd.Flags().StringVar(&v.Title, "title", "", "notification title")
	cmd.Flags().StringVar(&v.Body, "body", "", "notification body")
	cmd.Flags().StringVar(&v.IconURL, "icon", "", "icon URL")
	cmd.Flags().StringVar(&v.ImageURL, "image", "", "image URL")
}

func validationError(errs editor.FieldErrors) error {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, errs[f]))
	}
	return fmt.Errorf("invalid notification: %s", strings.Join(parts, "; "))
}
