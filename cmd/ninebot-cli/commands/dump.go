package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fhunleth/ninebot-ble/internal/ble"
	"github.com/fhunleth/ninebot-ble/internal/ble/registers"
)

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Connect, pair, and read every known register (controller then BMS)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := connectAndPair(context.Background())
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect() }()

			for _, id := range registers.AllControllerRegisters() {
				dumpOne(client, id)
			}
			for _, id := range registers.AllBmsRegisters() {
				dumpOne(client, id)
			}
			return nil
		},
	}
}

func dumpOne(client *ble.Client, id registers.RegisterId) {
	start := time.Now()
	val, err := client.ReadReg(id)
	if err != nil {
		fmt.Printf("%-40s: error: %v\n", id.String(), err)
		return
	}
	if rec != nil {
		rec.RegisterReadDuration(id.String(), time.Since(start).Seconds())
	}
	printRegister(id, val)
}
