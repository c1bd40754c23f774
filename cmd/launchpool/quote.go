package main

import (
	"fmt"

	"github.com/krazyTry/launchpool-go/dbc"
	"github.com/krazyTry/launchpool-go/u256"
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	var floor, raised, payment string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a purchase on the bonding curve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			priceFloor, err := u256.Parse(floor)
			if err != nil {
				return err
			}
			totalRaised, err := u256.Parse(raised)
			if err != nil {
				return err
			}
			amount, err := u256.Parse(payment)
			if err != nil {
				return err
			}
			tokens, err := dbc.GetTokenAmount(priceFloor, totalRaised, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tokens %s\nprice  %s\n", tokens.Dec(), dbc.GetPrice(priceFloor, totalRaised).String())
			return nil
		},
	}
	cmd.Flags().StringVar(&floor, "floor", "1e15", "price floor")
	cmd.Flags().StringVar(&raised, "raised", "0", "total raised so far")
	cmd.Flags().StringVar(&payment, "payment", "1e18", "payment amount")
	return cmd
}
