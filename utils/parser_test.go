package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/onramp/types"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"apiKey": "pk_test_123",
		"stage": "dev",
		"country": "gb",
		"defaultTimeout": 5000000000,
		"filters": {"onlyCryptos": ["BTC", "ETH"]},
		"defaultAddresses": {"eth": {"address": "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "pk_test_123", cfg.APIKey)
	assert.Equal(t, types.StageDev, cfg.Stage)
	assert.Equal(t, 5*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, []string{"BTC", "ETH"}, cfg.Filters.OnlyCryptos)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", cfg.DefaultAddresses["ETH"].Address)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"apiKey":`},
		{"missing key", `{"stage":"prod"}`},
		{"unknown stage", `{"apiKey":"k","stage":"staging"}`},
		{"bad country", `{"apiKey":"k","country":"GBR"}`},
		{"bad log level", `{"apiKey":"k","logLevel":"trace"}`},
		{"bad base url", `{"apiKey":"k","baseUrl":"not a url"}`},
		{"bad address", `{"apiKey":"k","defaultAddresses":{"ETH":{"address":"0xabc"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			assert.ErrorIs(t, err, types.ErrConfig)
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	assert.ErrorIs(t, ValidateConfig(nil), types.ErrConfig)
}

func TestParseDefaultAddresses(t *testing.T) {
	addrs, err := ParseDefaultAddresses(`{"BTC":{"address":"bc1q"},"XLM":{"address":"G","memo":"1"}}`)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultAddresses{
		"BTC": {Address: "bc1q"},
		"XLM": {Address: "G", Memo: "1"},
	}, addrs)

	empty, err := ParseDefaultAddresses("  ")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = ParseDefaultAddresses(`[1,2]`)
	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestParseCodeList(t *testing.T) {
	assert.Equal(t, []string{"BTC", "ETH"}, ParseCodeList(" BTC, ,ETH,"))
	assert.Nil(t, ParseCodeList(""))
}
