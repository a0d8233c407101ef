package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
	"gateways": [
		{
			"identifier": "Moonpay",
			"cryptoCurrencies": [{"code": "BTC", "name": "Bitcoin"}, {"code": "ETH", "name": "Ether"}],
			"fiatCurrencies": [{"code": "EUR", "name": "Euro"}],
			"paymentMethods": ["creditCard", {"code": "sepa", "name": "SEPA"}],
			"defaultAmounts": {"EUR": "100"}
		},
		{
			"identifier": "Wyre",
			"name": "Wyre Inc",
			"cryptoCurrencies": [{"code": "btc", "name": "Bitcoin"}],
			"fiatCurrencies": [{"code": "USD", "name": "Dollar"}, {"code": "EUR", "name": "Euro"}],
			"paymentMethods": ["creditCard"]
		}
	],
	"localization": {"country": "gb"}
}`

func TestGatewayCatalog_Decode(t *testing.T) {
	var c GatewayCatalog
	require.NoError(t, json.Unmarshal([]byte(catalogJSON), &c))

	require.Len(t, c.Gateways, 2)
	mp := c.Gateways[0]
	assert.Equal(t, "Moonpay", mp.DisplayName())
	assert.Equal(t, []PaymentMethod{{Code: "creditCard"}, {Code: "sepa", Name: "SEPA"}}, mp.PaymentMethods)
	assert.True(t, decimal.NewFromInt(100).Equal(mp.DefaultAmounts["EUR"]))
	assert.Equal(t, "Wyre Inc", c.Gateways[1].DisplayName())
	assert.Equal(t, "gb", c.Localization.Country)

	g, ok := c.Gateway("Wyre")
	require.True(t, ok)
	assert.Equal(t, "Wyre", g.Identifier)
	_, ok = c.Gateway("Unknown")
	assert.False(t, ok)
}

func TestGatewayCatalog_Distinct(t *testing.T) {
	var c GatewayCatalog
	require.NoError(t, json.Unmarshal([]byte(catalogJSON), &c))

	cryptos := c.Cryptos()
	require.Len(t, cryptos, 2)
	assert.Equal(t, "BTC", cryptos[0].Code)
	assert.Equal(t, "ETH", cryptos[1].Code)

	fiat := c.FiatCurrencies()
	require.Len(t, fiat, 2)
	assert.Equal(t, "EUR", fiat[0].Code)
	assert.Equal(t, "USD", fiat[1].Code)

	methods := c.PaymentMethods()
	assert.Equal(t, []string{"creditCard", "sepa"}, []string{methods[0].Code, methods[1].Code})
	assert.Equal(t, "SEPA", methods[1].DisplayName())
	assert.Equal(t, "creditCard", methods[0].DisplayName())
}

func TestPaymentMethod_UnmarshalInvalid(t *testing.T) {
	var p PaymentMethod
	assert.Error(t, json.Unmarshal([]byte(`42`), &p))
}

func TestRateQuote_Decode(t *testing.T) {
	raw := `[
		{
			"identifier": "Moonpay",
			"available": true,
			"receivedCrypto": 0.0021,
			"rate": "47000.5",
			"fees": 3.99,
			"duration": {"seconds": 600, "message": "10 minutes"},
			"nextStep": {"type": "iframe", "url": "https://buy.moonpay.com/x"}
		},
		{
			"identifier": "Wyre",
			"available": false,
			"error": {"type": "MIN", "message": "Minimum is 50 EUR"}
		}
	]`

	var quotes []RateQuote
	require.NoError(t, json.Unmarshal([]byte(raw), &quotes))
	require.Len(t, quotes, 2)

	mp := quotes[0]
	assert.True(t, mp.ReceivedCrypto.Equal(decimal.RequireFromString("0.0021")))
	assert.True(t, mp.Rate.Equal(decimal.RequireFromString("47000.5")))
	assert.Equal(t, 600, mp.Duration.Seconds)
	require.NotNil(t, mp.NextStep)
	assert.Equal(t, KindIframe, mp.NextStep.Kind())

	assert.Nil(t, quotes[1].NextStep)
	assert.Equal(t, "Minimum is 50 EUR", quotes[1].Error.Message)
}

func TestRateQuote_DecodeUnknownStepKeepsQuote(t *testing.T) {
	raw := `[
		{"identifier": "Moonpay", "available": true, "nextStep": {"type": "form", "url": "https://x/f", "data": []}},
		{"identifier": "Newcomer", "available": true, "nextStep": {"type": "redirect", "url": "https://x/r", "target": "_blank"}}
	]`

	var quotes []RateQuote
	require.NoError(t, json.Unmarshal([]byte(raw), &quotes))
	require.Len(t, quotes, 2)
	assert.Equal(t, KindForm, quotes[0].NextStep.Kind())

	step, ok := quotes[1].NextStep.(*UnsupportedStep)
	require.True(t, ok)
	assert.Equal(t, StepKind("redirect"), step.Kind())
	assert.Equal(t, "https://x/r", step.TargetURL())
	assert.True(t, IsUnsupported(step))
	assert.False(t, IsUnsupported(quotes[0].NextStep))

	out, err := json.Marshal(quotes[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"redirect","url":"https://x/r","target":"_blank"}`, string(mustField(t, out, "nextStep")))
}

func TestRateQuote_DecodeMalformedStep(t *testing.T) {
	var q RateQuote
	err := json.Unmarshal([]byte(`{"identifier":"X","nextStep":{"type":"form","data":"nope"}}`), &q)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func mustField(t *testing.T, obj []byte, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(obj, &m))
	return m[key]
}

func TestRateQuote_MarshalKeepsNextStep(t *testing.T) {
	q := RateQuote{Identifier: "Moonpay", Available: true, NextStep: &WaitStep{URL: "https://w"}}
	raw, err := json.Marshal(q)
	require.NoError(t, err)

	var back RateQuote
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, &WaitStep{URL: "https://w"}, back.NextStep)
}

func TestDefaultAddresses_For(t *testing.T) {
	addrs := DefaultAddresses{
		"BTC": {Address: "bc1qxyz"},
		"xlm": {Address: "GABC", Memo: "123"},
	}

	a, ok := addrs.For("BTC")
	require.True(t, ok)
	assert.False(t, a.HasMemo())

	a, ok = addrs.For("XLM")
	require.True(t, ok)
	assert.Equal(t, "123", a.Memo)
	assert.True(t, a.HasMemo())

	_, ok = addrs.For("ETH")
	assert.False(t, ok)

	var none DefaultAddresses
	_, ok = none.For("BTC")
	assert.False(t, ok)
}

func TestConfig_BaseURL(t *testing.T) {
	assert.Equal(t, ProdBaseURL, (&Config{Stage: StageProd}).APIBaseURL())
	assert.Equal(t, DevBaseURL, (&Config{Stage: StageDev}).APIBaseURL())
	assert.Equal(t, DevBaseURL, (&Config{Stage: StageDemo}).APIBaseURL())
	assert.Equal(t, "http://localhost:8080", (&Config{BaseURL: "http://localhost:8080/"}).APIBaseURL())
	assert.Equal(t, "Basic pk_test", (&Config{APIKey: "pk_test"}).AuthorizationHeader())
}

func TestFilters_Clone(t *testing.T) {
	var nilFilters *Filters
	assert.Nil(t, nilFilters.Clone())

	f := &Filters{OnlyGateways: []string{"Moonpay"}, ExcludeFiat: []string{"USD"}}
	c := f.Clone()
	require.Equal(t, f, c)

	f.OnlyGateways[0] = "Wyre"
	f.ExcludeFiat = append(f.ExcludeFiat, "GBP")
	assert.Equal(t, []string{"Moonpay"}, c.OnlyGateways)
	assert.Equal(t, []string{"USD"}, c.ExcludeFiat)
}

func TestFilters_IsZero(t *testing.T) {
	var nilFilters *Filters
	assert.True(t, nilFilters.IsZero())
	assert.True(t, (&Filters{OnlyCryptos: []string{}}).IsZero())
	assert.False(t, (&Filters{ExcludeFiat: []string{"USD"}}).IsZero())
}
