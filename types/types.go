package types

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Stage selects the API environment a session talks to.
type Stage string

const (
	StageProd Stage = "prod"
	StageDev  Stage = "dev"
	// StageDemo behaves like dev but disables provider-specific adapters.
	StageDemo Stage = "demo"
)

const (
	ProdBaseURL = "https://api.onramper.com"
	DevBaseURL  = "https://api.onramper.dev"
)

// BaseURL returns the API root for the stage.
func (s Stage) BaseURL() string {
	if s == StageProd {
		return ProdBaseURL
	}
	return DevBaseURL
}

func (s Stage) String() string {
	return string(s)
}

// Filters narrows the gateway catalog and the rate quotes offered to the user.
// Empty lists mean "not supplied".
type Filters struct {
	OnlyCryptos           []string `json:"onlyCryptos,omitempty"`
	ExcludeCryptos        []string `json:"excludeCryptos,omitempty"`
	OnlyFiat              []string `json:"onlyFiat,omitempty"`
	ExcludeFiat           []string `json:"excludeFiat,omitempty"`
	OnlyPaymentMethods    []string `json:"onlyPaymentMethods,omitempty"`
	ExcludePaymentMethods []string `json:"excludePaymentMethods,omitempty"`
	OnlyGateways          []string `json:"onlyGateways,omitempty"`
}

// IsZero reports whether no filter list is set.
func (f *Filters) IsZero() bool {
	if f == nil {
		return true
	}
	return len(f.OnlyCryptos) == 0 && len(f.ExcludeCryptos) == 0 &&
		len(f.OnlyFiat) == 0 && len(f.ExcludeFiat) == 0 &&
		len(f.OnlyPaymentMethods) == 0 && len(f.ExcludePaymentMethods) == 0 &&
		len(f.OnlyGateways) == 0
}

// Clone returns a deep copy of f.
func (f *Filters) Clone() *Filters {
	if f == nil {
		return nil
	}
	return &Filters{
		OnlyCryptos:           slices.Clone(f.OnlyCryptos),
		ExcludeCryptos:        slices.Clone(f.ExcludeCryptos),
		OnlyFiat:              slices.Clone(f.OnlyFiat),
		ExcludeFiat:           slices.Clone(f.ExcludeFiat),
		OnlyPaymentMethods:    slices.Clone(f.OnlyPaymentMethods),
		ExcludePaymentMethods: slices.Clone(f.ExcludePaymentMethods),
		OnlyGateways:          slices.Clone(f.OnlyGateways),
	}
}

// Config contains the session configuration. It is built once and never
// mutated after the session is constructed.
type Config struct {
	APIKey           string           `json:"apiKey" validate:"required"`
	BaseURL          string           `json:"baseUrl,omitempty" validate:"omitempty,url"`
	Stage            Stage            `json:"stage,omitempty" validate:"omitempty,oneof=prod dev demo"`
	Country          string           `json:"country,omitempty" validate:"omitempty,len=2"`
	DefaultTimeout   time.Duration    `json:"defaultTimeout,omitempty"`
	LogLevel         string           `json:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
	EnableMetrics    bool             `json:"enableMetrics,omitempty"`
	Proxy            string           `json:"proxy,omitempty"`
	Filters          *Filters         `json:"filters,omitempty"`
	DefaultAddresses DefaultAddresses `json:"defaultAddresses,omitempty" validate:"omitempty,dive"`
}

// APIBaseURL returns the explicit base URL, or the stage default.
func (c *Config) APIBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	return c.Stage.BaseURL()
}

// AuthorizationHeader is the value sent in the Authorization header of every request.
func (c *Config) AuthorizationHeader() string {
	return "Basic " + c.APIKey
}

// GatewaysParams are the optional query parameters of a catalog fetch.
type GatewaysParams struct {
	Country               string            `url:"country,omitempty"`
	IncludeIcons          *bool             `url:"includeIcons,omitempty"`
	IncludeDefaultAmounts *bool             `url:"includeDefaultAmounts,omitempty"`
	Extra                 map[string]string `url:",inline"`
}

// RateParams are the optional query parameters of a rate fetch.
type RateParams struct {
	Country        string            `url:"country,omitempty"`
	AmountInCrypto *bool             `url:"amountInCrypto,omitempty"`
	Address        string            `url:"address,omitempty"`
	Gateway        string            `url:"gateway,omitempty"`
	Extra          map[string]string `url:",inline"`
}

// StepParams are the optional query parameters of a step submission.
type StepParams struct {
	Country        string            `url:"country,omitempty"`
	AmountInCrypto *bool             `url:"amountInCrypto,omitempty"`
	Extra          map[string]string `url:",inline"`
}

// Bool returns a pointer to b, for optional query flags.
func Bool(b bool) *bool {
	return &b
}

// Error types
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Err     error       `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Common error codes
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInvalidResponse    = "INVALID_RESPONSE"
	ErrCodeNetwork            = "NETWORK_ERROR"
	ErrCodeCancelled          = "REQUEST_CANCELLED"
	ErrCodeUnsupportedStep    = "UNSUPPORTED_STEP"
	ErrCodeWorkflowAborted    = "WORKFLOW_ABORTED"
	ErrCodeWorkflowCompleted  = "WORKFLOW_COMPLETED"
	ErrCodeSubmissionInFlight = "SUBMISSION_IN_FLIGHT"
	ErrCodeConfig             = "CONFIG_ERROR"
)

var (
	ErrInvalidRequest     = &Error{Code: ErrCodeInvalidRequest, Message: "invalid request"}
	ErrInvalidResponse    = &Error{Code: ErrCodeInvalidResponse, Message: "invalid response"}
	ErrTransport          = &Error{Code: ErrCodeNetwork, Message: "network error"}
	ErrRequestCancelled   = &Error{Code: ErrCodeCancelled, Message: "request cancelled"}
	ErrUnsupportedStep    = &Error{Code: ErrCodeUnsupportedStep, Message: "unsupported step"}
	ErrWorkflowAborted    = &Error{Code: ErrCodeWorkflowAborted, Message: "workflow aborted"}
	ErrWorkflowCompleted  = &Error{Code: ErrCodeWorkflowCompleted, Message: "workflow completed"}
	ErrSubmissionInFlight = &Error{Code: ErrCodeSubmissionInFlight, Message: "a submission is already in flight"}
	ErrConfig             = &Error{Code: ErrCodeConfig, Message: "invalid configuration"}
)
