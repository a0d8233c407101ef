package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vitwit/onramp/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ParseConfig parses and validates a Config from JSON
func ParseConfig(data []byte) (*types.Config, error) {
	var config types.Config

	if err := json.Unmarshal(data, &config); err != nil {
		return nil, &types.Error{
			Code:    types.ErrCodeConfig,
			Message: fmt.Sprintf("failed to parse config: %v", err),
		}
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ValidateConfig checks struct tags and normalises the default addresses in place.
func ValidateConfig(config *types.Config) error {
	if config == nil {
		return &types.Error{Code: types.ErrCodeConfig, Message: "config is required"}
	}

	if err := validate.Struct(config); err != nil {
		return &types.Error{
			Code:    types.ErrCodeConfig,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	addrs, err := ValidateDefaultAddresses(config.DefaultAddresses)
	if err != nil {
		return &types.Error{
			Code:    types.ErrCodeConfig,
			Message: "invalid default address",
			Err:     err,
		}
	}
	config.DefaultAddresses = addrs

	return nil
}

// ParseDefaultAddresses parses a JSON object of crypto code to address, e.g.
// {"BTC":{"address":"bc1..."},"XLM":{"address":"G...","memo":"123"}}.
func ParseDefaultAddresses(data string) (types.DefaultAddresses, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, nil
	}

	var addrs types.DefaultAddresses
	if err := json.Unmarshal([]byte(data), &addrs); err != nil {
		return nil, &types.Error{
			Code:    types.ErrCodeConfig,
			Message: fmt.Sprintf("failed to parse addresses: %v", err),
		}
	}
	return addrs, nil
}

// ParseCodeList splits a comma separated list of codes, dropping blanks.
func ParseCodeList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if code := strings.TrimSpace(p); code != "" {
			out = append(out, code)
		}
	}
	return out
}
