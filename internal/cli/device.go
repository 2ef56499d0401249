package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDeviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Inspect collar connectivity",
	}

	cmd.AddCommand(newDeviceStatusCmd())

	return cmd
}

func newDeviceStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the connectivity of all known devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			statuses, err := apiClient.Devices().Statuses(ctx)
			if err != nil {
				return fmt.Errorf("failed to get device statuses: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(statuses)
			}

			t := NewTable("DEVICE", "STATE", "LAST HEARTBEAT")
			for _, s := range statuses {
				state := "disconnected"
				if s.Connected {
					state = "connected"
				}
				lastSeen := "-"
				if s.LastHeartbeat != nil {
					lastSeen = s.LastHeartbeat.Format("2006-01-02 15:04:05")
				}
				t.AddRow(s.DeviceID, formatStatus(state), lastSeen)
			}
			t.Render()
			return nil
		},
	}
}
