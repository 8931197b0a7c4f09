package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	routerapp "github.com/nvidaurre/swaprouter/business/router/app"
	routerDI "github.com/nvidaurre/swaprouter/business/router/di"
	"github.com/nvidaurre/swaprouter/internal/token"
)

func newRoutesCmd() *cobra.Command {
	var (
		src        string
		dst        string
		amount     string
		wallet     string
		chainID    uint64
		dstChainID uint64
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Compare routes across protocols",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			_, _, mono, _, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer mono.Close()

			routes := routerDI.GetRouterService(mono.Services()).CompareRoutes(ctx, routerapp.RouteRequest{
				SrcToken:      src,
				DstToken:      dst,
				Amount:        amount,
				WalletAddress: wallet,
				SrcChainID:    chainID,
				DstChainID:    dstChainID,
			})
			if len(routes) == 0 {
				color.Yellow("no routes available")
				return nil
			}

			for _, r := range routes {
				marker := "  "
				if r.Recommended {
					marker = color.GreenString("* ")
				}
				flags := ""
				if r.Gasless {
					flags += " gasless"
				}
				if r.MEVProtected {
					flags += " mev-protected"
				}
				if r.CrossChain {
					flags += " cross-chain"
				}
				fmt.Printf("%s%-20s %-20s ~%-4s gas %-12s%s\n",
					marker, r.Protocol, r.DstAmount, r.Estimate, r.GasCost, flags)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "source token address")
	cmd.Flags().StringVar(&dst, "dst", "", "destination token address")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in base units")
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet address")
	cmd.Flags().Uint64Var(&chainID, "chain", token.ChainIDEthereum, "source chain id")
	cmd.Flags().Uint64Var(&dstChainID, "dst-chain", 0, "destination chain id (cross-chain)")
	cmd.MarkFlagRequired("src")
	cmd.MarkFlagRequired("dst")
	cmd.MarkFlagRequired("amount")

	return cmd
}
