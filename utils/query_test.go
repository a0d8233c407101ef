package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitwit/onramp/types"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		params interface{}
		want   string
	}{
		{
			name:   "nil",
			params: nil,
			want:   "",
		},
		{
			name:   "nil pointer",
			params: (*types.RateParams)(nil),
			want:   "",
		},
		{
			name:   "not a struct",
			params: "country=gb",
			want:   "",
		},
		{
			name:   "empty params",
			params: types.RateParams{},
			want:   "",
		},
		{
			name:   "set fields only",
			params: types.RateParams{Country: "gb", AmountInCrypto: types.Bool(false)},
			want:   "amountInCrypto=false&country=gb",
		},
		{
			name:   "pointer to struct",
			params: &types.GatewaysParams{IncludeIcons: types.Bool(true)},
			want:   "includeIcons=true",
		},
		{
			name: "extra does not override typed fields",
			params: types.StepParams{
				Country: "pt",
				Extra:   map[string]string{"country": "es", "partnerContext": "abc", "": "skip"},
			},
			want: "country=pt&partnerContext=abc",
		},
		{
			name:   "escaping",
			params: types.RateParams{Address: "addr with space&x"},
			want:   "address=addr+with+space%26x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.params))
		})
	}
}

func TestAppendQuery(t *testing.T) {
	assert.Equal(t, "https://x/step", AppendQuery("https://x/step", ""))
	assert.Equal(t, "https://x/step?country=gb", AppendQuery("https://x/step", "country=gb"))
	assert.Equal(t, "https://x/step?token=1&country=gb", AppendQuery("https://x/step?token=1", "country=gb"))
}
