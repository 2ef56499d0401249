package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newEscapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "escape <animal-id>",
		Short: "Report an escape sighting for an animal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			animalID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid animal ID: %s", args[0])
			}

			ctx := context.Background()
			report, err := apiClient.Checks().ReportEscape(ctx, animalID)
			if err != nil {
				return fmt.Errorf("failed to report escape: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(report)
			}

			if report.Suppressed {
				fmt.Printf("Sighting recorded, alert %d already open\n", report.Alert.ID)
			} else {
				fmt.Printf("Escape alert %d created: %s\n", report.Alert.ID, report.Alert.Message)
			}
			return nil
		},
	}
}
