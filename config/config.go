// Package config loads the session configuration from ONRAMP_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vitwit/onramp/types"
	"github.com/vitwit/onramp/utils"
)

const envPrefix = "ONRAMP"

// Keys, without the ONRAMP_ prefix.
const (
	KeyAPIKey                = "API_KEY"
	KeyBaseURL               = "BASE_URL"
	KeyStage                 = "STAGE"
	KeyCountry               = "COUNTRY"
	KeyTimeout               = "TIMEOUT"
	KeyLogLevel              = "LOG_LEVEL"
	KeyEnableMetrics         = "ENABLE_METRICS"
	KeyProxy                 = "PROXY"
	KeyAddresses             = "ADDRESSES"
	KeyOnlyCryptos           = "ONLY_CRYPTOS"
	KeyExcludeCryptos        = "EXCLUDE_CRYPTOS"
	KeyOnlyFiat              = "ONLY_FIAT"
	KeyExcludeFiat           = "EXCLUDE_FIAT"
	KeyOnlyPaymentMethods    = "ONLY_PAYMENT_METHODS"
	KeyExcludePaymentMethods = "EXCLUDE_PAYMENT_METHODS"
	KeyOnlyGateways          = "ONLY_GATEWAYS"
)

var allKeys = []string{
	KeyAPIKey, KeyBaseURL, KeyStage, KeyCountry, KeyTimeout, KeyLogLevel,
	KeyEnableMetrics, KeyProxy, KeyAddresses,
	KeyOnlyCryptos, KeyExcludeCryptos, KeyOnlyFiat, KeyExcludeFiat,
	KeyOnlyPaymentMethods, KeyExcludePaymentMethods, KeyOnlyGateways,
}

// Overrides maps keys to values that win over the environment, such as
// command line flags. Empty values are ignored.
type Overrides map[string]string

// Load reads the configuration. envFile names a dotenv file whose values are
// used for variables not already set; "" tries ./.env and ignores its absence.
func Load(envFile string) (*types.Config, error) {
	return LoadWithOverrides(envFile, nil)
}

// LoadWithOverrides is Load with explicit values for some keys.
func LoadWithOverrides(envFile string, overrides Overrides) (*types.Config, error) {
	if err := loadDotenv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetDefault(KeyStage, string(types.StageProd))
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyEnableMetrics, false)
	v.AutomaticEnv()
	for _, k := range allKeys {
		_ = v.BindEnv(k)
	}
	for k, val := range overrides {
		if val != "" {
			v.Set(k, val)
		}
	}

	addrs, err := utils.ParseDefaultAddresses(v.GetString(KeyAddresses))
	if err != nil {
		return nil, err
	}

	cfg := &types.Config{
		APIKey:           v.GetString(KeyAPIKey),
		BaseURL:          v.GetString(KeyBaseURL),
		Stage:            types.Stage(v.GetString(KeyStage)),
		Country:          v.GetString(KeyCountry),
		DefaultTimeout:   v.GetDuration(KeyTimeout),
		LogLevel:         v.GetString(KeyLogLevel),
		EnableMetrics:    v.GetBool(KeyEnableMetrics),
		Proxy:            v.GetString(KeyProxy),
		DefaultAddresses: addrs,
	}

	filters := &types.Filters{
		OnlyCryptos:           utils.ParseCodeList(v.GetString(KeyOnlyCryptos)),
		ExcludeCryptos:        utils.ParseCodeList(v.GetString(KeyExcludeCryptos)),
		OnlyFiat:              utils.ParseCodeList(v.GetString(KeyOnlyFiat)),
		ExcludeFiat:           utils.ParseCodeList(v.GetString(KeyExcludeFiat)),
		OnlyPaymentMethods:    utils.ParseCodeList(v.GetString(KeyOnlyPaymentMethods)),
		ExcludePaymentMethods: utils.ParseCodeList(v.GetString(KeyExcludePaymentMethods)),
		OnlyGateways:          utils.ParseCodeList(v.GetString(KeyOnlyGateways)),
	}
	if !filters.IsZero() {
		cfg.Filters = filters
	}

	if cfg.APIKey == "" {
		return nil, &types.Error{
			Code:    types.ErrCodeConfig,
			Message: fmt.Sprintf("%s_%s is required", envPrefix, KeyAPIKey),
		}
	}
	if err := utils.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotenv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return &types.Error{Code: types.ErrCodeConfig, Message: "load " + path, Err: err}
}
