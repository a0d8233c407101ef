package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/vitwit/onramp/types"
)

// evmAssets are crypto codes delivered to an EVM account address.
var evmAssets = map[string]struct{}{
	"ETH":   {},
	"USDC":  {},
	"USDT":  {},
	"DAI":   {},
	"MATIC": {},
	"POL":   {},
	"BNB":   {},
	"LINK":  {},
	"UNI":   {},
	"AAVE":  {},
	"WETH":  {},
	"WBTC":  {},
}

// ValidateAmount checks if an amount string is a valid decimal
func ValidateAmount(amount string) (*decimal.Decimal, error) {
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(amount), ",", ".", 1))
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}

	if dec.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	return &dec, nil
}

// ValidatePositiveAmount rejects zero and negative amounts.
func ValidatePositiveAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}

// ValidateRateRequest checks struct tags and the amount of a rate request.
func ValidateRateRequest(req *types.RateRequest) error {
	if req == nil {
		return &types.Error{Code: types.ErrCodeInvalidRequest, Message: "rate request is required"}
	}
	if err := validate.Struct(req); err != nil {
		return &types.Error{
			Code:    types.ErrCodeInvalidRequest,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}
	if err := ValidatePositiveAmount(req.Amount); err != nil {
		return &types.Error{Code: types.ErrCodeInvalidRequest, Message: err.Error()}
	}
	return nil
}

// ValidateFilePayload makes sure an upload carries a name and content.
func ValidateFilePayload(p *types.FilePayload) error {
	if p == nil {
		return &types.Error{Code: types.ErrCodeInvalidRequest, Message: "file payload is required"}
	}
	if err := validate.Struct(p); err != nil {
		return &types.Error{
			Code:    types.ErrCodeInvalidRequest,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}
	return nil
}

// IsEVMAsset reports whether the crypto code is delivered to an EVM address.
func IsEVMAsset(crypto string) bool {
	_, ok := evmAssets[strings.ToUpper(crypto)]
	return ok
}

// ValidateDestinationAddress validates an address for the given crypto and
// returns it normalised. EVM addresses come back in EIP-55 checksum form.
func ValidateDestinationAddress(crypto string, addr types.DestinationAddress) (types.DestinationAddress, error) {
	address := strings.TrimSpace(addr.Address)
	if address == "" {
		return addr, fmt.Errorf("address cannot be empty")
	}

	if strings.IndexFunc(address, unicode.IsSpace) >= 0 {
		return addr, fmt.Errorf("address cannot contain whitespace")
	}

	if IsEVMAsset(crypto) {
		if !common.IsHexAddress(address) {
			return addr, fmt.Errorf("%s address must be a 0x-prefixed 20-byte hex address", strings.ToUpper(crypto))
		}
		address = common.HexToAddress(address).Hex()
	}

	return types.DestinationAddress{
		Address: address,
		Memo:    strings.TrimSpace(addr.Memo),
	}, nil
}

// ValidateDefaultAddresses validates every entry of an address book.
func ValidateDefaultAddresses(addrs types.DefaultAddresses) (types.DefaultAddresses, error) {
	if addrs == nil {
		return nil, nil
	}
	out := make(types.DefaultAddresses, len(addrs))
	for crypto, a := range addrs {
		normalised, err := ValidateDestinationAddress(crypto, a)
		if err != nil {
			return nil, fmt.Errorf("address for %s: %w", crypto, err)
		}
		out[strings.ToUpper(crypto)] = normalised
	}
	return out, nil
}
