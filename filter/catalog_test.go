package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/onramp/types"
)

func crypto(codes ...string) []types.CryptoAsset {
	out := make([]types.CryptoAsset, 0, len(codes))
	for _, c := range codes {
		out = append(out, types.CryptoAsset{Code: c, Name: c})
	}
	return out
}

func fiat(codes ...string) []types.FiatAsset {
	out := make([]types.FiatAsset, 0, len(codes))
	for _, c := range codes {
		out = append(out, types.FiatAsset{Code: c, Name: c})
	}
	return out
}

func methods(codes ...string) []types.PaymentMethod {
	out := make([]types.PaymentMethod, 0, len(codes))
	for _, c := range codes {
		out = append(out, types.PaymentMethod{Code: c})
	}
	return out
}

func cryptoCodes(gw types.Gateway) []string {
	out := make([]string, 0, len(gw.CryptoCurrencies))
	for _, a := range gw.CryptoCurrencies {
		out = append(out, a.Code)
	}
	return out
}

func gatewayIDs(c types.GatewayCatalog) []string {
	out := make([]string, 0, len(c.Gateways))
	for _, gw := range c.Gateways {
		out = append(out, gw.Identifier)
	}
	return out
}

func sampleCatalog() types.GatewayCatalog {
	return types.GatewayCatalog{
		Gateways: []types.Gateway{
			{
				Identifier:       "Moonpay",
				CryptoCurrencies: crypto("BTC", "ETH", "XLM"),
				FiatCurrencies:   fiat("EUR", "USD"),
				PaymentMethods:   methods("creditCard", "applePay"),
			},
			{
				Identifier:       "Transak",
				CryptoCurrencies: crypto("ETH"),
				FiatCurrencies:   fiat("GBP"),
				PaymentMethods:   methods("bankTransfer"),
			},
			{
				Identifier:       "Wyre",
				CryptoCurrencies: crypto("BTC", "USDC"),
				FiatCurrencies:   fiat("USD"),
				PaymentMethods:   methods("creditCard"),
			},
		},
	}
}

func TestCatalog_OnlyCryptosKeepsEveryGateway(t *testing.T) {
	catalog := types.GatewayCatalog{
		Gateways: []types.Gateway{
			{Identifier: "A", CryptoCurrencies: crypto("BTC", "ETH")},
			{Identifier: "B", CryptoCurrencies: crypto("BTC")},
		},
	}

	got := Catalog(catalog, &types.Filters{OnlyCryptos: []string{"BTC"}})

	require.Len(t, got.Gateways, 2)
	assert.Equal(t, []string{"A", "B"}, gatewayIDs(got))
	assert.Equal(t, []string{"BTC"}, cryptoCodes(got.Gateways[0]))
	assert.Equal(t, []string{"BTC"}, cryptoCodes(got.Gateways[1]))
}

func TestCatalog(t *testing.T) {
	tests := []struct {
		name    string
		filters *types.Filters
		check   func(t *testing.T, got types.GatewayCatalog)
	}{
		{
			name:    "case-insensitive crypto allow list",
			filters: &types.Filters{OnlyCryptos: []string{"btc"}},
			check: func(t *testing.T, got types.GatewayCatalog) {
				assert.Equal(t, []string{"Moonpay", "Transak", "Wyre"}, gatewayIDs(got))
				assert.Equal(t, []string{"BTC"}, cryptoCodes(got.Gateways[0]))
				assert.Empty(t, got.Gateways[1].CryptoCurrencies)
				assert.Equal(t, []string{"BTC"}, cryptoCodes(got.Gateways[2]))
			},
		},
		{
			name:    "deny list applies after allow list",
			filters: &types.Filters{OnlyCryptos: []string{"BTC", "ETH"}, ExcludeCryptos: []string{"eth"}},
			check: func(t *testing.T, got types.GatewayCatalog) {
				assert.Equal(t, []string{"BTC"}, cryptoCodes(got.Gateways[0]))
				assert.Empty(t, got.Gateways[1].CryptoCurrencies)
			},
		},
		{
			name:    "fiat lists",
			filters: &types.Filters{OnlyFiat: []string{"usd", "gbp"}, ExcludeFiat: []string{"GBP"}},
			check: func(t *testing.T, got types.GatewayCatalog) {
				assert.Equal(t, fiat("USD"), got.Gateways[0].FiatCurrencies)
				assert.Empty(t, got.Gateways[1].FiatCurrencies)
				assert.Equal(t, fiat("USD"), got.Gateways[2].FiatCurrencies)
			},
		},
		{
			name:    "payment methods compare exactly",
			filters: &types.Filters{OnlyPaymentMethods: []string{"CREDITCARD", "applePay"}},
			check: func(t *testing.T, got types.GatewayCatalog) {
				assert.Equal(t, methods("applePay"), got.Gateways[0].PaymentMethods)
				assert.Empty(t, got.Gateways[2].PaymentMethods)
			},
		},
		{
			name:    "exclude payment methods",
			filters: &types.Filters{ExcludePaymentMethods: []string{"creditCard"}},
			check: func(t *testing.T, got types.GatewayCatalog) {
				assert.Equal(t, methods("applePay"), got.Gateways[0].PaymentMethods)
				assert.Equal(t, methods("bankTransfer"), got.Gateways[1].PaymentMethods)
				assert.Empty(t, got.Gateways[2].PaymentMethods)
			},
		},
		{
			name:    "gateway allow list keeps catalog order",
			filters: &types.Filters{OnlyGateways: []string{"Wyre", "Moonpay"}},
			check: func(t *testing.T, got types.GatewayCatalog) {
				assert.Equal(t, []string{"Moonpay", "Wyre"}, gatewayIDs(got))
				assert.Equal(t, []string{"BTC", "ETH", "XLM"}, cryptoCodes(got.Gateways[0]))
			},
		},
		{
			name:    "empty lists are the identity",
			filters: &types.Filters{OnlyCryptos: []string{}, ExcludeFiat: nil},
			check: func(t *testing.T, got types.GatewayCatalog) {
				assert.Equal(t, sampleCatalog(), got)
			},
		},
		{
			name:    "nil filters are the identity",
			filters: nil,
			check: func(t *testing.T, got types.GatewayCatalog) {
				assert.Equal(t, sampleCatalog(), got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Catalog(sampleCatalog(), tt.filters))
		})
	}
}

func TestCatalog_DoesNotModifyInput(t *testing.T) {
	in := sampleCatalog()
	_ = Catalog(in, &types.Filters{
		OnlyCryptos:        []string{"BTC"},
		ExcludeFiat:        []string{"USD"},
		OnlyPaymentMethods: []string{"creditCard"},
		OnlyGateways:       []string{"Moonpay"},
	})
	assert.Equal(t, sampleCatalog(), in)
}

func TestCatalog_Idempotent(t *testing.T) {
	f := &types.Filters{
		OnlyCryptos:           []string{"btc", "eth"},
		ExcludeCryptos:        []string{"ETH"},
		ExcludePaymentMethods: []string{"applePay"},
		OnlyGateways:          []string{"Moonpay", "Wyre"},
	}
	once := Catalog(sampleCatalog(), f)
	twice := Catalog(once, f)
	assert.Equal(t, once, twice)
}

func TestCatalog_KeepsOtherFields(t *testing.T) {
	in := sampleCatalog()
	in.Icons = map[string]types.Icon{"BTC": {}}
	in.Gateways[0].Name = "MoonPay"

	got := Catalog(in, &types.Filters{OnlyCryptos: []string{"BTC"}})
	assert.Equal(t, in.Icons, got.Icons)
	assert.Equal(t, "MoonPay", got.Gateways[0].Name)
}
