package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vitwit/onramp"
	"github.com/vitwit/onramp/config"
	"github.com/vitwit/onramp/types"
)

var (
	envFile  string
	apiKey   string
	stage    string
	country  string
	logLevel string
	proxyURL string

	cfg *types.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:          "onramp",
		Short:        "Buy crypto through third-party payment gateways",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadWithOverrides(envFile, config.Overrides{
				config.KeyAPIKey:   apiKey,
				config.KeyStage:    stage,
				config.KeyCountry:  country,
				config.KeyLogLevel: logLevel,
				config.KeyProxy:    proxyURL,
			})
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default ./.env when present)")
	root.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (overrides ONRAMP_API_KEY)")
	root.PersistentFlags().StringVar(&stage, "stage", "", "prod, dev or demo")
	root.PersistentFlags().StringVar(&country, "country", "", "two-letter country code")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&proxyURL, "proxy", "", "proxy as host:port[:user:pass[:socks5]]")

	root.AddCommand(gatewaysCmd(), ratesCmd(), buyCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return root.ExecuteContext(ctx)
}

// session builds an Onramp from the loaded configuration.
func session() (*onramp.Onramp, error) {
	return onramp.New(cfg)
}
