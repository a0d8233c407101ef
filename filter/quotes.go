package filter

import "github.com/vitwit/onramp/types"

// Quotes narrows rate quotes, keeping their order.
//
// A quote is dropped when onlyGateways is non-empty and does not list its
// gateway, or when the default address for selectedCrypto carries a memo and
// the quote's next step is a form without a cryptocurrencyAddressTag field.
// Quotes with no next step, or a next step of another kind, are not checked
// against the memo rule.
func Quotes(quotes []types.RateQuote, onlyGateways []string, addrs types.DefaultAddresses, selectedCrypto string) []types.RateQuote {
	allowed := exactSet(onlyGateways)
	memo := memoRequired(addrs, selectedCrypto)
	if allowed == nil && !memo {
		return quotes
	}

	out := make([]types.RateQuote, 0, len(quotes))
	for _, q := range quotes {
		if allowed != nil && !allowed[q.Identifier] {
			continue
		}
		if memo && !capturesTag(q.NextStep) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Available keeps the quotes a user can select: available ones whose next
// step is of a supported kind.
func Available(quotes []types.RateQuote) []types.RateQuote {
	out := make([]types.RateQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.Available && !types.IsUnsupported(q.NextStep) {
			out = append(out, q)
		}
	}
	return out
}

func memoRequired(addrs types.DefaultAddresses, selectedCrypto string) bool {
	if selectedCrypto == "" {
		return false
	}
	addr, ok := addrs.For(selectedCrypto)
	return ok && addr.HasMemo()
}

func capturesTag(step types.NextStep) bool {
	form, ok := step.(*types.FormStep)
	if !ok {
		return true
	}
	return form.HasField(types.FieldCryptoAddressTag)
}
