package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fhunleth/ninebot-ble/internal/ble/registers"
)

func readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <register>...",
		Short: "Connect, pair, and read one or more named registers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ids := make([]registers.RegisterId, 0, len(args))
			for _, a := range args {
				id, err := lookupRegisterArg(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			client, err := connectAndPair(context.Background())
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect() }()

			for _, id := range ids {
				start := time.Now()
				val, err := client.ReadReg(id)
				if err != nil {
					return fmt.Errorf("read %s: %w", id, err)
				}
				if rec != nil {
					rec.RegisterReadDuration(id.String(), time.Since(start).Seconds())
				}
				printRegister(id, val)
			}
			return nil
		},
	}
}

func printRegister(id registers.RegisterId, val any) {
	unit := ""
	if desc, ok := registers.Lookup(id); ok {
		unit = string(desc.Unit)
	}
	fmt.Printf("%-40s: %v %s\n", id.String(), val, unit)
}
