package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// StepKind is the discriminator of a NextStep.
type StepKind string

const (
	KindForm    StepKind = "form"
	KindFile    StepKind = "file"
	KindPickOne StepKind = "pickOne"
	KindIframe  StepKind = "iframe"
	KindWait    StepKind = "wait"
)

func (k StepKind) String() string {
	return string(k)
}

type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeChoice  FieldType = "choice"
)

// Well-known field names.
const (
	FieldEmail             = "email"
	FieldVerifyEmailCode   = "verifyEmailCode"
	FieldCryptoAddress     = "cryptocurrencyAddress"
	FieldCryptoAddressTag  = "cryptocurrencyAddressTag"
	FieldCardNumber        = "ccNumber"
	DefaultPickOneFieldKey = "option"
)

// Field describes one input a step asks for.
type Field struct {
	Name      string    `json:"name"`
	Type      FieldType `json:"type"`
	HumanName string    `json:"humanName"`
	Hint      string    `json:"hint,omitempty"`
	Required  *bool     `json:"required,omitempty"`
	Options   []string  `json:"options,omitempty"`
}

// IsRequired treats an absent flag as required.
func (f Field) IsRequired() bool {
	return f.Required == nil || *f.Required
}

// NextStep is the server's instruction for what input is needed next.
// The concrete types are *FormStep, *FileStep, *PickOneStep, *IframeStep and
// *WaitStep. Quotes may also carry an *UnsupportedStep.
type NextStep interface {
	Kind() StepKind
	TargetURL() string
	isNextStep()
}

// FormStep collects one or more typed fields.
type FormStep struct {
	URL  string  `json:"url"`
	Data []Field `json:"data"`
}

// FileStep uploads a single document.
type FileStep struct {
	URL                  string   `json:"url"`
	HumanName            string   `json:"humanName,omitempty"`
	AcceptedContentTypes []string `json:"acceptedContentTypes,omitempty"`
	Data                 []Field  `json:"data,omitempty"`
}

// PickOneStep asks the user to choose one of the server-supplied options.
type PickOneStep struct {
	URL       string   `json:"url"`
	Title     string   `json:"title,omitempty"`
	HumanName string   `json:"humanName,omitempty"`
	Name      string   `json:"name,omitempty"`
	Options   []string `json:"options"`
	Data      []Field  `json:"data,omitempty"`
}

// IframeStep sends the user to an external confirmation page.
type IframeStep struct {
	URL            string `json:"url"`
	Fullscreen     bool   `json:"fullscreen,omitempty"`
	NeededFeatures string `json:"neededFeatures,omitempty"`
}

// UnsupportedStep is a quote's next step of a kind this package cannot run.
// It is kept so the quote stays listed; it cannot be submitted.
type UnsupportedStep struct {
	Type string          `json:"type"`
	URL  string          `json:"url,omitempty"`
	Raw  json.RawMessage `json:"-"`
}

// WaitStep holds until the server is ready to continue.
type WaitStep struct {
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

func (*FormStep) Kind() StepKind    { return KindForm }
func (*FileStep) Kind() StepKind    { return KindFile }
func (*PickOneStep) Kind() StepKind { return KindPickOne }
func (*IframeStep) Kind() StepKind  { return KindIframe }
func (*WaitStep) Kind() StepKind    { return KindWait }

func (s *UnsupportedStep) Kind() StepKind { return StepKind(s.Type) }

func (s *FormStep) TargetURL() string    { return s.URL }
func (s *FileStep) TargetURL() string    { return s.URL }
func (s *PickOneStep) TargetURL() string { return s.URL }
func (s *IframeStep) TargetURL() string  { return s.URL }
func (s *WaitStep) TargetURL() string    { return s.URL }

func (s *UnsupportedStep) TargetURL() string { return s.URL }

func (*FormStep) isNextStep()    {}
func (*FileStep) isNextStep()    {}
func (*PickOneStep) isNextStep() {}
func (*IframeStep) isNextStep()  {}
func (*WaitStep) isNextStep()    {}

func (*UnsupportedStep) isNextStep() {}

// HasField reports whether the form declares a field with the given name.
func (s *FormStep) HasField(name string) bool {
	_, ok := s.Field(name)
	return ok
}

func (s *FormStep) Field(name string) (Field, bool) {
	for _, f := range s.Data {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldName is the key the selected option is submitted under.
func (s *PickOneStep) FieldName() string {
	if s.Name != "" {
		return s.Name
	}
	return DefaultPickOneFieldKey
}

// HasOption reports whether value is one of the offered options.
func (s *PickOneStep) HasOption(value string) bool {
	for _, o := range s.Options {
		if o == value {
			return true
		}
	}
	return false
}

func (s *FormStep) MarshalJSON() ([]byte, error) {
	type alias FormStep
	return json.Marshal(struct {
		Type StepKind `json:"type"`
		*alias
	}{KindForm, (*alias)(s)})
}

func (s *FileStep) MarshalJSON() ([]byte, error) {
	type alias FileStep
	return json.Marshal(struct {
		Type StepKind `json:"type"`
		*alias
	}{KindFile, (*alias)(s)})
}

func (s *PickOneStep) MarshalJSON() ([]byte, error) {
	type alias PickOneStep
	return json.Marshal(struct {
		Type StepKind `json:"type"`
		*alias
	}{KindPickOne, (*alias)(s)})
}

func (s *IframeStep) MarshalJSON() ([]byte, error) {
	type alias IframeStep
	return json.Marshal(struct {
		Type StepKind `json:"type"`
		*alias
	}{KindIframe, (*alias)(s)})
}

func (s *WaitStep) MarshalJSON() ([]byte, error) {
	type alias WaitStep
	return json.Marshal(struct {
		Type StepKind `json:"type"`
		*alias
	}{KindWait, (*alias)(s)})
}

// MarshalJSON returns the step as received.
func (s *UnsupportedStep) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	type alias UnsupportedStep
	return json.Marshal((*alias)(s))
}

// IsUnsupported reports whether step is an *UnsupportedStep.
func IsUnsupported(step NextStep) bool {
	_, ok := step.(*UnsupportedStep)
	return ok
}

// DecodeNextStep decodes a step descriptor. An empty body, null, or an object
// without a type means there is no further step and yields (nil, nil).
func DecodeNextStep(data []byte) (NextStep, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var head struct {
		Type StepKind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &Error{
			Code:    ErrCodeInvalidResponse,
			Message: "failed to decode next step",
			Err:     err,
		}
	}

	var step NextStep
	switch head.Type {
	case "":
		return nil, nil
	case KindForm:
		step = &FormStep{}
	case KindFile:
		step = &FileStep{}
	case KindPickOne:
		step = &PickOneStep{}
	case KindIframe:
		step = &IframeStep{}
	case KindWait:
		step = &WaitStep{}
	default:
		return nil, &Error{
			Code:    ErrCodeUnsupportedStep,
			Message: fmt.Sprintf("unsupported step type: %s", head.Type),
		}
	}

	if err := json.Unmarshal(data, step); err != nil {
		return nil, &Error{
			Code:    ErrCodeInvalidResponse,
			Message: fmt.Sprintf("failed to decode %s step", head.Type),
			Err:     err,
		}
	}
	return step, nil
}

// Payload is what a UI collaborator hands back for a step:
// FieldMap, *FilePayload or Confirmation.
type Payload interface {
	isPayload()
}

// FieldMap carries structured input for form and pickOne steps.
type FieldMap map[string]any

// FilePayload carries the raw document for a file step.
type FilePayload struct {
	Name        string `json:"name" validate:"required"`
	ContentType string `json:"contentType,omitempty"`
	Content     []byte `json:"-" validate:"required"`
}

// Confirmation is the signal for iframe and wait steps.
type Confirmation struct{}

func (FieldMap) isPayload()     {}
func (*FilePayload) isPayload() {}
func (Confirmation) isPayload() {}

// DateValue is the three-part value of a date field.
type DateValue struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (DateValue, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return DateValue{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateValue{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func (d DateValue) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
