package types

import "strings"

// DestinationAddress is where the purchased crypto is delivered.
type DestinationAddress struct {
	Address string `json:"address" validate:"required"`
	Memo    string `json:"memo,omitempty"`
}

// HasMemo reports whether the address carries a memo/tag.
func (a DestinationAddress) HasMemo() bool {
	return a.Memo != ""
}

// DefaultAddresses holds pre-filled destination addresses keyed by crypto code.
type DefaultAddresses map[string]DestinationAddress

// For looks an address up by crypto code, ignoring case.
func (d DefaultAddresses) For(crypto string) (DestinationAddress, bool) {
	if d == nil {
		return DestinationAddress{}, false
	}
	if a, ok := d[crypto]; ok {
		return a, true
	}
	for code, a := range d {
		if strings.EqualFold(code, crypto) {
			return a, true
		}
	}
	return DestinationAddress{}, false
}
