package types

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// RateQuote is a gateway-specific estimate of how much crypto a fiat amount yields.
// A quote set is always replaced as a whole, never patched.
type RateQuote struct {
	Identifier     string          `json:"identifier"`
	Available      bool            `json:"available"`
	ReceivedCrypto decimal.Decimal `json:"receivedCrypto"`
	Rate           decimal.Decimal `json:"rate"`
	Fees           decimal.Decimal `json:"fees"`
	FeeBreakdown   []Fee           `json:"feeBreakdown,omitempty"`
	Duration       *Duration       `json:"duration,omitempty"`
	RequiredKYC    []string        `json:"requiredKYC,omitempty"`
	Icon           string          `json:"icon,omitempty"`
	Error          *QuoteError     `json:"error,omitempty"`

	// NextStep is only present on available quotes.
	NextStep NextStep `json:"-"`
}

type Fee struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Duration is the provider's estimate of how long delivery takes.
type Duration struct {
	Seconds int    `json:"seconds"`
	Message string `json:"message,omitempty"`
}

// QuoteError explains why a quote is unavailable.
type QuoteError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (q *RateQuote) UnmarshalJSON(data []byte) error {
	type alias RateQuote
	aux := struct {
		*alias
		NextStep json.RawMessage `json:"nextStep,omitempty"`
	}{alias: (*alias)(q)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	step, err := DecodeNextStep(aux.NextStep)
	if errors.Is(err, ErrUnsupportedStep) {
		step, err = decodeUnsupportedStep(aux.NextStep)
	}
	if err != nil {
		return err
	}
	q.NextStep = step
	return nil
}

// decodeUnsupportedStep keeps a step of an unknown kind, so one gateway with
// a new step kind does not fail the whole quote set.
func decodeUnsupportedStep(data json.RawMessage) (NextStep, error) {
	step := &UnsupportedStep{}
	if err := json.Unmarshal(data, step); err != nil {
		return nil, &Error{Code: ErrCodeInvalidResponse, Message: "failed to decode next step", Err: err}
	}
	step.Raw = append(json.RawMessage(nil), data...)
	return step, nil
}

func (q RateQuote) MarshalJSON() ([]byte, error) {
	type alias RateQuote
	aux := struct {
		alias
		NextStep NextStep `json:"nextStep,omitempty"`
	}{alias: alias(q), NextStep: q.NextStep}
	return json.Marshal(aux)
}

// RateRequest identifies the pair, amount and payment method being quoted.
type RateRequest struct {
	Fiat          string          `json:"fiat" validate:"required,alphanum"`
	Crypto        string          `json:"crypto" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod" validate:"required"`
	Params        RateParams      `json:"-"`

	// Address, when set, is the destination for this request and takes
	// precedence over the configured address for Crypto.
	Address *DestinationAddress `json:"address,omitempty"`
}
