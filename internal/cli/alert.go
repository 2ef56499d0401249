package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pashupehchan/herdwatch/pkg/client"
	"github.com/spf13/cobra"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertGetCmd())
	cmd.AddCommand(newAlertSummaryCmd())
	cmd.AddCommand(newAlertResolveCmd())
	cmd.AddCommand(newAlertNotificationsCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var severity, category string
	var animalID, farmID int64
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			opts := &client.AlertListOptions{}
			if severity != "" {
				opts.Severity = &severity
			}
			if category != "" {
				opts.Category = &category
			}
			if animalID > 0 {
				opts.AnimalID = &animalID
			}
			if farmID > 0 {
				opts.FarmID = &farmID
			}
			if !all {
				open := true
				opts.IsOpen = &open
			}

			page, err := apiClient.Alerts().List(ctx, opts)
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(page)
			}

			t := NewTable("ID", "ANIMAL", "CATEGORY", "SEVERITY", "STATE", "MESSAGE")
			for _, a := range page.Data {
				state := "open"
				if !a.IsOpen {
					state = "resolved"
				}
				t.AddRow(
					strconv.FormatInt(a.ID, 10),
					strconv.FormatInt(a.AnimalID, 10),
					a.Category,
					formatSeverity(a.Severity),
					formatStatus(state),
					truncate(a.Message, 50),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().Int64Var(&animalID, "animal", 0, "filter by animal ID")
	cmd.Flags().Int64Var(&farmID, "farm", 0, "filter by farm ID")
	cmd.Flags().BoolVar(&all, "all", false, "include resolved alerts")

	return cmd
}

func newAlertGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get alert details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			ctx := context.Background()
			alert, err := apiClient.Alerts().Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get alert: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(alert)
			}

			state := "open"
			if !alert.IsOpen {
				state = "resolved"
			}

			fmt.Printf("ID:       %d\n", alert.ID)
			fmt.Printf("Animal:   %d\n", alert.AnimalID)
			fmt.Printf("Farm:     %d\n", alert.FarmID)
			fmt.Printf("Category: %s\n", alert.Category)
			fmt.Printf("Severity: %s\n", formatSeverity(alert.Severity))
			fmt.Printf("State:    %s\n", state)
			fmt.Printf("Message:  %s\n", alert.Message)
			fmt.Printf("Created:  %s\n", alert.CreatedAt.Format("2006-01-02 15:04:05"))
			if alert.ResolvedAt != nil {
				fmt.Printf("Resolved: %s by %s\n", alert.ResolvedAt.Format("2006-01-02 15:04:05"), alert.ResolvedBy)
				if alert.ResolutionNotes != "" {
					fmt.Printf("Notes:    %s\n", alert.ResolutionNotes)
				}
			}
			return nil
		},
	}
}

func newAlertSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show open alert counts by severity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			summary, err := apiClient.Alerts().Summary(ctx)
			if err != nil {
				return fmt.Errorf("failed to get alert summary: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(summary)
			}

			fmt.Printf("Open alerts: %d\n", summary.Open)
			fmt.Printf("  High:   %d\n", summary.High)
			fmt.Printf("  Medium: %d\n", summary.Medium)
			fmt.Printf("  Low:    %d\n", summary.Low)
			return nil
		},
	}
}

func newAlertResolveCmd() *cobra.Command {
	var resolvedBy, notes string

	cmd := &cobra.Command{
		Use:   "resolve <id>...",
		Short: "Resolve one or more alerts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid alert ID: %s", arg)
				}
				ids = append(ids, id)
			}

			ctx := context.Background()

			if len(ids) == 1 {
				if err := apiClient.Alerts().Resolve(ctx, ids[0], resolvedBy, notes); err != nil {
					return fmt.Errorf("failed to resolve alert: %w", err)
				}
				fmt.Printf("Alert %d resolved\n", ids[0])
				return nil
			}

			resolved, err := apiClient.Alerts().BulkResolve(ctx, ids, resolvedBy, notes)
			if err != nil {
				return fmt.Errorf("failed to resolve alerts: %w", err)
			}
			fmt.Printf("%d of %d alerts resolved\n", resolved, len(ids))
			return nil
		},
	}

	cmd.Flags().StringVar(&resolvedBy, "by", "", "name of the person resolving the alert")
	cmd.Flags().StringVar(&notes, "notes", "", "resolution notes")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func newAlertNotificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifications <id>",
		Short: "Show the notification delivery log for an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			ctx := context.Background()
			logs, err := apiClient.Alerts().Notifications(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get notifications: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(logs)
			}

			t := NewTable("CARETAKER", "CHANNEL", "STATUS", "SENT AT", "ERROR")
			for _, l := range logs {
				sentAt := "-"
				if l.SentAt != nil {
					sentAt = l.SentAt.Format("2006-01-02 15:04:05")
				}
				t.AddRow(
					strconv.FormatInt(l.CaretakerID, 10),
					l.Channel,
					formatStatus(l.Status),
					sentAt,
					truncate(l.ErrorMessage, 40),
				)
			}
			t.Render()
			return nil
		},
	}
}
