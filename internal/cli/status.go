package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show herd monitoring summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}

				if health, err := apiClient.Health(ctx); err == nil {
					summary["api"] = health.Status
				}
				if alerts, err := apiClient.Alerts().Summary(ctx); err == nil {
					summary["alerts"] = alerts
				}
				if devices, err := apiClient.Devices().Statuses(ctx); err == nil {
					summary["devices"] = len(devices)
				}
				return printOutput(summary)
			}

			fmt.Println("HerdWatch Dashboard")
			fmt.Println(strings.Repeat("=", 40))

			// API health
			health, err := apiClient.Health(ctx)
			if err != nil {
				fmt.Printf("  API:        (error: %v)\n", err)
			} else {
				fmt.Printf("  API:        %s\n", formatStatus(health.Status))
			}

			// Alerts
			alerts, err := apiClient.Alerts().Summary(ctx)
			if err != nil {
				fmt.Printf("  Alerts:     (error: %v)\n", err)
			} else {
				fmt.Printf("  Alerts:     %d open", alerts.Open)
				if alerts.High > 0 {
					fmt.Printf(" (%d high severity)", alerts.High)
				}
				fmt.Println()
			}

			// Devices
			devices, err := apiClient.Devices().Statuses(ctx)
			if err != nil {
				fmt.Printf("  Devices:    (error: %v)\n", err)
			} else {
				connected := 0
				for _, d := range devices {
					if d.Connected {
						connected++
					}
				}
				fmt.Printf("  Devices:    %d connected (%d total)\n", connected, len(devices))
			}

			return nil
		},
	}
}
