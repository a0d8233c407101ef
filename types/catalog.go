package types

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// GatewayCatalog is the response of the gateways endpoint. It is replaced
// wholesale on every fetch.
type GatewayCatalog struct {
	Gateways     []Gateway       `json:"gateways"`
	Icons        map[string]Icon `json:"icons,omitempty"`
	Localization *Localization   `json:"localization,omitempty"`
}

// Gateway is a third-party payment provider listed in the catalog.
type Gateway struct {
	Identifier       string          `json:"identifier"`
	Name             string          `json:"name,omitempty"`
	CryptoCurrencies []CryptoAsset   `json:"cryptoCurrencies"`
	FiatCurrencies   []FiatAsset     `json:"fiatCurrencies"`
	PaymentMethods   []PaymentMethod `json:"paymentMethods"`

	// DefaultAmounts holds suggested amounts keyed by fiat code.
	DefaultAmounts map[string]decimal.Decimal `json:"defaultAmounts,omitempty"`
}

// DisplayName falls back to the identifier when the catalog carries no name.
func (g Gateway) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.Identifier
}

type CryptoAsset struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	Network   string `json:"network,omitempty"`
	Precision int    `json:"precision,omitempty"`
}

type FiatAsset struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	Precision int    `json:"precision,omitempty"`
}

// PaymentMethod is decoded either from a bare code string or from an object.
type PaymentMethod struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		p.Code = code
		p.Name = ""
		return nil
	}

	type alias PaymentMethod
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = PaymentMethod(a)
	return nil
}

// DisplayName falls back to the code.
func (p PaymentMethod) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Code
}

type Icon struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Symbol string `json:"symbol,omitempty"`
}

type Localization struct {
	Country  string `json:"country,omitempty"`
	State    string `json:"state,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// Gateway returns the gateway with the given identifier.
func (c *GatewayCatalog) Gateway(identifier string) (Gateway, bool) {
	for _, g := range c.Gateways {
		if g.Identifier == identifier {
			return g, true
		}
	}
	return Gateway{}, false
}

// Cryptos returns the distinct crypto assets across all gateways, in first-seen order.
func (c *GatewayCatalog) Cryptos() []CryptoAsset {
	seen := make(map[string]struct{})
	out := make([]CryptoAsset, 0)
	for _, g := range c.Gateways {
		for _, a := range g.CryptoCurrencies {
			key := strings.ToUpper(a.Code)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// FiatCurrencies returns the distinct fiat assets across all gateways, in first-seen order.
func (c *GatewayCatalog) FiatCurrencies() []FiatAsset {
	seen := make(map[string]struct{})
	out := make([]FiatAsset, 0)
	for _, g := range c.Gateways {
		for _, a := range g.FiatCurrencies {
			key := strings.ToUpper(a.Code)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// PaymentMethods returns the distinct payment methods across all gateways, in first-seen order.
func (c *GatewayCatalog) PaymentMethods() []PaymentMethod {
	seen := make(map[string]struct{})
	out := make([]PaymentMethod, 0)
	for _, g := range c.Gateways {
		for _, m := range g.PaymentMethods {
			if _, ok := seen[m.Code]; ok {
				continue
			}
			seen[m.Code] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}
