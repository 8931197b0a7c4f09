package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	intentDI "github.com/nvidaurre/swaprouter/business/intent/di"
	"github.com/nvidaurre/swaprouter/internal/token"
)

func newStatusCmd() *cobra.Command {
	var chainID uint64

	cmd := &cobra.Command{
		Use:   "status <order-hash>",
		Short: "Look up the status of a gasless order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			_, _, mono, _, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer mono.Close()

			status, err := intentDI.GetIntentService(mono.Services()).GetOrderStatus(ctx, args[0], chainID)
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			bold.Printf("Order %s\n", status.OrderHash)
			fmt.Printf("  Status: %s\n", colorStatus(status.Status))
			if status.TxHash != "" {
				fmt.Printf("  Tx:     %s\n", status.TxHash)
			}
			for _, fill := range status.Fills {
				fmt.Printf("  Fill:   %s maker=%s taker=%s\n",
					fill.TxHash, fill.FilledMakerAmount, fill.FilledAuctionTakerAmount)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain", token.ChainIDEthereum, "chain id")

	return cmd
}

func colorStatus(status string) string {
	switch status {
	case "filled":
		return color.GreenString(status)
	case "cancelled", "expired":
		return color.RedString(status)
	default:
		return color.YellowString(status)
	}
}
