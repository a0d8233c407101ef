package workflow

import (
	"context"

	"github.com/vitwit/onramp/types"
)

// Capability is the kind of input a step needs from the user.
type Capability string

const (
	CapabilityForm           Capability = "form"
	CapabilityEmail          Capability = "email"
	CapabilityVerifyCode     Capability = "verifyEmailCode"
	CapabilityUpload         Capability = "upload"
	CapabilityPickOne        Capability = "pickOne"
	CapabilityConfirmPayment Capability = "confirmPayment"
	CapabilityWait           Capability = "wait"
	CapabilityReview         Capability = "review"
)

func (c Capability) String() string {
	return string(c)
}

// Resolve maps a step to the capability that satisfies it. A form asking for
// nothing but an email address, or nothing but the email verification code,
// gets its own capability. Resolve returns "" for a nil step.
func Resolve(step types.NextStep) Capability {
	switch s := step.(type) {
	case *types.FormStep:
		if len(s.Data) == 1 {
			switch s.Data[0].Name {
			case types.FieldEmail:
				return CapabilityEmail
			case types.FieldVerifyEmailCode:
				return CapabilityVerifyCode
			}
		}
		return CapabilityForm
	case *types.FileStep:
		return CapabilityUpload
	case *types.PickOneStep:
		return CapabilityPickOne
	case *types.IframeStep:
		return CapabilityConfirmPayment
	case *types.WaitStep:
		return CapabilityWait
	default:
		return ""
	}
}

// Request is what the workflow asks a Collector for.
type Request struct {
	WorkflowID string
	Capability Capability
	Step       types.NextStep

	// Err is the recoverable error of the last submission of this step, if any.
	Err *types.StepError

	// Prefill holds values the workflow already knows for form fields.
	Prefill types.FieldMap
}

// Collector obtains payloads from the user. Form, email, verification code
// and pickOne requests expect a types.FieldMap, uploads a *types.FilePayload,
// and confirmPayment, wait and review a types.Confirmation.
type Collector interface {
	Collect(ctx context.Context, req Request) (types.Payload, error)
}

// CollectorFunc adapts a function to a Collector.
type CollectorFunc func(ctx context.Context, req Request) (types.Payload, error)

func (f CollectorFunc) Collect(ctx context.Context, req Request) (types.Payload, error) {
	return f(ctx, req)
}

// Submitter sends a step payload and returns the following step.
type Submitter interface {
	SubmitStep(ctx context.Context, step types.NextStep, payload types.Payload, params types.StepParams) (types.NextStep, error)
}
