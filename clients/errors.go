package clients

const (
	// -----------------------------
	// MOONPAY ERROR TYPES
	// -----------------------------
	MoonPayBadRequest   = "BadRequestError"
	MoonPayValidation   = "ValidationError"
	MoonPayUnauthorized = "UnauthorizedError"
	MoonPayForbidden    = "ForbiddenError"
	MoonPayNotFound     = "NotFoundError"

	// -----------------------------
	// NORMALISED FAILURE BODY KEYS
	// -----------------------------
	bodyKeyName    = "name"
	bodyKeyMessage = "message"
	bodyKeyFatal   = "fatal"
)

// moonPayFatalTypes end the purchase; retrying the same step cannot succeed.
var moonPayFatalTypes = map[string]bool{
	MoonPayUnauthorized: true,
	MoonPayForbidden:    true,
	MoonPayNotFound:     true,
}
