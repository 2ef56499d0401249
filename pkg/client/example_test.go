package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pashupehchan/herdwatch/pkg/client"
)

// Example demonstrates basic usage of the HerdWatch client
func Example() {
	// Create a new client
	c := client.NewClient(client.Config{
		BaseURL: "https://api.pashupehchan.com",
	})

	ctx := context.Background()

	// List open alerts
	open := true
	page, err := c.Alerts().List(ctx, &client.AlertListOptions{
		IsOpen: &open,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d open alerts\n", page.TotalItems)
}

// ExampleAlertService_List demonstrates listing high-severity health alerts
func ExampleAlertService_List() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.pashupehchan.com",
	})

	severity := "high"
	category := "health"

	page, err := c.Alerts().List(context.Background(), &client.AlertListOptions{
		ListOptions: client.ListOptions{
			Page:     1,
			PageSize: 20,
		},
		Severity: &severity,
		Category: &category,
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, a := range page.Data {
		fmt.Printf("  - %s: %s\n", a.Severity, a.Message)
	}
}

// ExampleAlertService_Resolve demonstrates closing an alert
func ExampleAlertService_Resolve() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.pashupehchan.com",
	})

	err := c.Alerts().Resolve(context.Background(), 42, "ramesh", "Vet visit completed")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Alert 42 resolved")
}

// ExampleCheckService_RunGeofence demonstrates triggering a geofence sweep
func ExampleCheckService_RunGeofence() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.pashupehchan.com",
	})

	farmID := int64(1)
	summary, err := c.Checks().RunGeofence(context.Background(), &farmID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Evaluated %d animals, created %d alerts\n", summary.Evaluated, summary.Created)
}

// ExampleDeviceService_Statuses demonstrates checking collar connectivity
func ExampleDeviceService_Statuses() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.pashupehchan.com",
	})

	statuses, err := c.Devices().Statuses(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	for _, s := range statuses {
		fmt.Printf("%s connected=%v\n", s.DeviceID, s.Connected)
	}
}

// ExampleClient_Health demonstrates checking API health
func ExampleClient_Health() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.pashupehchan.com",
	})

	health, err := c.Health(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("API Status: %s\n", health.Status)
}
