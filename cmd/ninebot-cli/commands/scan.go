package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fhunleth/ninebot-ble/internal/ble"
)

func scanCmd() *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for nearby scooters advertising the Nordic UART service",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			adapter := ble.NewTinygoAdapter()
			if err := adapter.Enable(); err != nil {
				return fmt.Errorf("enable adapter: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), duration)
			defer cancel()

			devices, err := adapter.Scan(ctx, ble.ServiceUUID)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}

			if len(devices) == 0 {
				fmt.Println("No devices found.")
				return nil
			}
			for _, d := range devices {
				fmt.Printf("%-20s %-30s RSSI: %d\n", d.MAC, d.Name, d.RSSI)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&duration, "timeout", 5*time.Second, "how long to scan before reporting results")
	return cmd
}
