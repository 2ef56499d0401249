package cli

import (
	"context"
	"fmt"

	"github.com/pashupehchan/herdwatch/pkg/client"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Trigger detection sweeps",
	}

	cmd.AddCommand(newCheckGeofenceCmd())
	cmd.AddCommand(newCheckVaccinationsCmd())
	cmd.AddCommand(newCheckVitalsCmd())

	return cmd
}

func printCheckSummary(summary *client.CheckSummary) error {
	format := getOutputFormat()
	if format != "table" {
		return printOutput(summary)
	}

	fmt.Printf("Evaluated:  %d\n", summary.Evaluated)
	fmt.Printf("Created:    %d\n", summary.Created)
	fmt.Printf("Refreshed:  %d\n", summary.Refreshed)
	fmt.Printf("Suppressed: %d\n", summary.Suppressed)
	fmt.Printf("Resolved:   %d\n", summary.Resolved)
	fmt.Printf("Skipped:    %d\n", summary.Skipped)
	return nil
}

func newCheckGeofenceCmd() *cobra.Command {
	var farmID int64

	cmd := &cobra.Command{
		Use:   "geofence",
		Short: "Run the geofence sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var scope *int64
			if farmID > 0 {
				scope = &farmID
			}

			summary, err := apiClient.Checks().RunGeofence(ctx, scope)
			if err != nil {
				return fmt.Errorf("geofence check failed: %w", err)
			}

			return printCheckSummary(summary)
		},
	}

	cmd.Flags().Int64Var(&farmID, "farm", 0, "limit the sweep to one farm")

	return cmd
}

func newCheckVaccinationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vaccinations",
		Short: "Run the missed-vaccination sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := apiClient.Checks().RunVaccinations(context.Background())
			if err != nil {
				return fmt.Errorf("vaccination check failed: %w", err)
			}

			return printCheckSummary(summary)
		},
	}
}

func newCheckVitalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vitals",
		Short: "Run the vitals health sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := apiClient.Checks().RunVitals(context.Background())
			if err != nil {
				return fmt.Errorf("vitals check failed: %w", err)
			}

			return printCheckSummary(summary)
		},
	}
}
