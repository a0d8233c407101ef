package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vitwit/onramp/types"
)

// gateways: list gateways and what they support.
func gatewaysCmd() *cobra.Command {
	var withAmounts bool

	cmd := &cobra.Command{
		Use:   "gateways",
		Short: "List the gateways available after filtering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := session()
			if err != nil {
				return err
			}
			defer o.Close()

			catalog, err := o.Gateways(cmd.Context(), types.GatewaysParams{
				IncludeDefaultAmounts: types.Bool(withAmounts),
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GATEWAY\tCRYPTO\tFIAT\tPAYMENT METHODS")
			for _, gw := range catalog.Gateways {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					gw.DisplayName(),
					joinCodes(gw.CryptoCurrencies, func(a types.CryptoAsset) string { return a.Code }),
					joinCodes(gw.FiatCurrencies, func(a types.FiatAsset) string { return a.Code }),
					joinCodes(gw.PaymentMethods, func(m types.PaymentMethod) string { return m.Code }),
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&withAmounts, "default-amounts", false, "ask for default amount hints")
	return cmd
}

func joinCodes[T any](items []T, code func(T) string) string {
	if len(items) == 0 {
		return "-"
	}
	codes := make([]string, 0, len(items))
	for _, it := range items {
		codes = append(codes, code(it))
	}
	return strings.Join(codes, ",")
}
