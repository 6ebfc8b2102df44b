package export

import "fmt"

// FetchError reports a failed store query, naming the entity kind whose
// query failed. A fetch is all-or-nothing: one FetchError aborts the run
// and no partial data is returned.
type FetchError struct {
	Kind  Kind  // Entity kind whose query failed
	Cause error // Underlying store error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error [kind=%s]: %v", e.Kind, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewFetchError creates a new FetchError.
func NewFetchError(kind Kind, cause error) *FetchError {
	return &FetchError{Kind: kind, Cause: cause}
}

// NormalizationError reports malformed input rejected during
// normalization. Normalize itself is total and never produces one; the
// type exists so strict validators can surface shape problems through
// the same channel as every other stage.
type NormalizationError struct {
	Cause error
}

// Error implements the error interface.
func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *NormalizationError) Unwrap() error {
	return e.Cause
}

// NewNormalizationError creates a new NormalizationError.
func NewNormalizationError(cause error) *NormalizationError {
	return &NormalizationError{Cause: cause}
}

// EncodingError reports that the selected encoder failed to produce a
// payload.
type EncodingError struct {
	Format Format // Format whose encoder failed
	Cause  error  // Underlying encoder error
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error [format=%s]: %v", e.Format, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// NewEncodingError creates a new EncodingError.
func NewEncodingError(format Format, cause error) *EncodingError {
	return &EncodingError{Format: format, Cause: cause}
}

// DeliveryError reports that the sink refused or failed the hand-off of
// a finished artifact.
type DeliveryError struct {
	Cause error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// NewDeliveryError creates a new DeliveryError.
func NewDeliveryError(cause error) *DeliveryError {
	return &DeliveryError{Cause: cause}
}
