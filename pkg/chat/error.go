package chat

import "fmt"

// ErrorResponse represents an error returned to the client.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationError reports the first constraint violated by an incoming
// request. Its message is safe to return to the client verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UpstreamError wraps a provider or transport failure from the completion
// gateway. The wrapped cause goes to the operational log only; clients get a
// generic message.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return "upstream completion failed"
	}
	return fmt.Sprintf("upstream completion failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
