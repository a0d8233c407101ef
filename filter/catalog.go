package filter

import (
	"strings"

	"github.com/vitwit/onramp/types"
)

// Catalog narrows a gateway catalog by the allow and deny lists in f.
//
// For each gateway, and independently for crypto, fiat and payment methods,
// a non-empty allow list keeps only matching entries and a non-empty deny
// list then removes matches. Crypto and fiat codes compare case-insensitively,
// payment methods exactly. A gateway whose lists end up empty is kept; only
// OnlyGateways removes gateways. Order is preserved and the input catalog is
// never modified. A nil or empty f returns the catalog unchanged.
func Catalog(catalog types.GatewayCatalog, f *types.Filters) types.GatewayCatalog {
	if f.IsZero() {
		return catalog
	}

	onlyCryptos := foldSet(f.OnlyCryptos)
	excludeCryptos := foldSet(f.ExcludeCryptos)
	onlyFiat := foldSet(f.OnlyFiat)
	excludeFiat := foldSet(f.ExcludeFiat)
	onlyMethods := exactSet(f.OnlyPaymentMethods)
	excludeMethods := exactSet(f.ExcludePaymentMethods)
	onlyGateways := exactSet(f.OnlyGateways)

	gateways := make([]types.Gateway, 0, len(catalog.Gateways))
	for _, gw := range catalog.Gateways {
		if onlyGateways != nil && !onlyGateways[gw.Identifier] {
			continue
		}

		gw.CryptoCurrencies = keep(gw.CryptoCurrencies, func(a types.CryptoAsset) string {
			return strings.ToUpper(a.Code)
		}, onlyCryptos, excludeCryptos)
		gw.FiatCurrencies = keep(gw.FiatCurrencies, func(a types.FiatAsset) string {
			return strings.ToUpper(a.Code)
		}, onlyFiat, excludeFiat)
		gw.PaymentMethods = keep(gw.PaymentMethods, func(m types.PaymentMethod) string {
			return m.Code
		}, onlyMethods, excludeMethods)

		gateways = append(gateways, gw)
	}

	catalog.Gateways = gateways
	return catalog
}

// keep applies an allow list then a deny list. nil sets are skipped, and the
// input slice is returned untouched when both are.
func keep[T any](items []T, key func(T) string, only, exclude map[string]bool) []T {
	if only == nil && exclude == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if only != nil && !only[k] {
			continue
		}
		if exclude != nil && exclude[k] {
			continue
		}
		out = append(out, item)
	}
	return out
}

func foldSet(codes []string) map[string]bool {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	return set
}

func exactSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
