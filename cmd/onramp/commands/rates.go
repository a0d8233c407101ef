package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vitwit/onramp/types"
	"github.com/vitwit/onramp/utils"
)

var paymentMethod string

// rates <fiat> <crypto> <amount>: quote a purchase.
func ratesCmd() *cobra.Command {
	var inCrypto bool

	cmd := &cobra.Command{
		Use:   "rates <fiat> <crypto> <amount>",
		Short: "Quote a purchase across gateways",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rateRequest(args, inCrypto)
			if err != nil {
				return err
			}

			o, err := session()
			if err != nil {
				return err
			}
			defer o.Close()

			quotes, err := o.Rates(cmd.Context(), req)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GATEWAY\tRECEIVE\tRATE\tFEES\tSTATUS")
			for _, q := range quotes {
				status := "available"
				if !q.Available {
					status = "unavailable"
					if q.Error != nil {
						status = q.Error.Message
					}
				}
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n",
					q.Identifier, q.ReceivedCrypto.String(), req.Crypto, q.Rate.String(), q.Fees.String(), status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&paymentMethod, "method", "m", "creditCard", "payment method")
	cmd.Flags().BoolVar(&inCrypto, "in-crypto", false, "amount is in crypto rather than fiat")
	return cmd
}

func rateRequest(args []string, inCrypto bool) (types.RateRequest, error) {
	amount, err := utils.ValidateAmount(args[2])
	if err != nil {
		return types.RateRequest{}, err
	}
	req := types.RateRequest{
		Fiat:          args[0],
		Crypto:        args[1],
		Amount:        *amount,
		PaymentMethod: paymentMethod,
	}
	if inCrypto {
		req.Params.AmountInCrypto = types.Bool(true)
	}
	return req, nil
}
