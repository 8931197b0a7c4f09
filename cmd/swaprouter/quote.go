package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	intentDI "github.com/nvidaurre/swaprouter/business/intent/di"
	intentdomain "github.com/nvidaurre/swaprouter/business/intent/domain"
	swapDI "github.com/nvidaurre/swaprouter/business/swap/di"
	"github.com/nvidaurre/swaprouter/internal/token"
)

type quoteFlags struct {
	src     string
	dst     string
	amount  string
	wallet  string
	chainID uint64
	fusion  bool
}

func newQuoteCmd() *cobra.Command {
	flags := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch a swap quote",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			_, _, mono, _, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer mono.Close()

			bold := color.New(color.Bold)

			if flags.fusion {
				quote, err := intentDI.GetIntentService(mono.Services()).GetQuote(ctx, intentdomain.QuoteParams{
					FromTokenAddress: flags.src,
					ToTokenAddress:   flags.dst,
					Amount:           flags.amount,
					WalletAddress:    flags.wallet,
					SrcChainID:       flags.chainID,
				})
				if err != nil {
					return err
				}
				bold.Printf("quote %s\n", quote.QuoteID)
				fmt.Printf("  receive: %s (preset %s)\n", color.GreenString(quote.DstAmount), quote.RecommendedPreset)
				for name, p := range quote.Presets {
					fmt.Printf("  preset %-8s auction %ds  %s -> %s\n",
						name, p.AuctionDuration, p.AuctionStartAmount, p.AuctionEndAmount)
				}
				return nil
			}

			quote, err := swapDI.GetSwapService(mono.Services()).GetQuote(ctx,
				flags.chainID, flags.src, flags.dst, flags.amount)
			if err != nil {
				return err
			}
			bold.Printf("%s -> %s\n", quote.SrcToken.Symbol, quote.DstToken.Symbol)
			fmt.Printf("  receive: %s\n", color.GreenString(quote.DstAmount))
			fmt.Printf("  gas:     %d\n", quote.Gas)
			if venues := quote.VenueNames(); len(venues) > 0 {
				fmt.Printf("  venues:  %v\n", venues)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.src, "src", "", "source token address")
	cmd.Flags().StringVar(&flags.dst, "dst", "", "destination token address")
	cmd.Flags().StringVar(&flags.amount, "amount", "", "amount in base units")
	cmd.Flags().StringVar(&flags.wallet, "wallet", "", "wallet address (required for fusion quotes)")
	cmd.Flags().Uint64Var(&flags.chainID, "chain", token.ChainIDEthereum, "chain id")
	cmd.Flags().BoolVar(&flags.fusion, "fusion", false, "use the gasless intent protocol")
	cmd.MarkFlagRequired("src")
	cmd.MarkFlagRequired("dst")
	cmd.MarkFlagRequired("amount")

	return cmd
}
