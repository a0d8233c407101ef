package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitwit/onramp/filter"
	"github.com/vitwit/onramp/types"
	"github.com/vitwit/onramp/workflow"
)

// buy <fiat> <crypto> <amount>: run a purchase end to end.
func buyCmd() *cobra.Command {
	var (
		gateway  string
		address  string
		memo     string
		inCrypto bool
		markers  []string
	)

	cmd := &cobra.Command{
		Use:   "buy <fiat> <crypto> <amount>",
		Short: "Run the purchase steps of a gateway interactively",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rateRequest(args, inCrypto)
			if err != nil {
				return err
			}
			req.Params.Gateway = gateway

			if address != "" {
				req.Address = &types.DestinationAddress{Address: address, Memo: memo}
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
			quote, err := pickQuote(filter.Available(quotes), gateway)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Buying %s %s with %s through %s\n",
				quote.ReceivedCrypto.String(), req.Crypto, req.PaymentMethod, quote.Identifier)

			opts := []workflow.Option{
				workflow.WithReviewBeforeCardForm(),
				workflow.WithParams(types.StepParams{
					Country:        cfg.Country,
					AmountInCrypto: req.Params.AmountInCrypto,
				}),
			}
			if req.Address != nil {
				opts = append(opts, workflow.WithDefaultAddresses(
					types.DefaultAddresses{strings.ToUpper(req.Crypto): *req.Address}, req.Crypto))
			}
			if len(markers) > 0 {
				opts = append(opts, workflow.WithTerminal(workflow.CompletionURL(markers...)))
			}

			wf, err := o.NewWorkflowFromQuote(quote, req.Crypto, opts...)
			if err != nil {
				return err
			}

			if err := wf.Run(cmd.Context(), newTerminalCollector(os.Stdin, os.Stdout)); err != nil {
				var stepErr *types.StepError
				if errors.As(err, &stepErr) && stepErr.Fatal {
					fmt.Fprintln(os.Stdout, "The purchase could not be completed. Please contact support.")
				}
				return err
			}
			fmt.Fprintln(os.Stdout, "Purchase complete.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&paymentMethod, "method", "m", "creditCard", "payment method")
	cmd.Flags().StringVarP(&gateway, "gateway", "g", "", "gateway to use (default: first available)")
	cmd.Flags().StringVar(&address, "address", "", "destination address")
	cmd.Flags().StringVar(&memo, "memo", "", "destination memo or tag")
	cmd.Flags().BoolVar(&inCrypto, "in-crypto", false, "amount is in crypto rather than fiat")
	cmd.Flags().StringSliceVar(&markers, "complete-marker", nil, "URL fragments that mark the purchase as complete")
	return cmd
}

func pickQuote(quotes []types.RateQuote, gateway string) (types.RateQuote, error) {
	for _, q := range quotes {
		if gateway == "" || strings.EqualFold(q.Identifier, gateway) {
			return q, nil
		}
	}
	if gateway != "" {
		return types.RateQuote{}, fmt.Errorf("gateway %s has no available quote", gateway)
	}
	return types.RateQuote{}, fmt.Errorf("no gateway can serve this purchase")
}
