package delivery

import "time"

// DeliveryResult describes a single delivery call.
type DeliveryResult struct {
	Success bool
	Message string

	// ProviderCode is the code the provider reported sending, empty when it did not echo one.
	ProviderCode string
	// EffectiveCode is what the user must enter: ProviderCode when usable, otherwise the generated code.
	EffectiveCode string

	StatusCode int
	ErrorBody  string // masked provider body of a failed call
	Duration   time.Duration
	Err        error // classification of a failure: ErrTransport, ErrTimeout or ErrRejected
}
