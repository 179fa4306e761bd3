package completion

import "fmt"

// ValidationError means the completion service answered, but the reply did
// not match the expected shape. Terminal for the call; no retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "completion: invalid response: " + e.Reason
}

// ServiceError means the completion service was unreachable or returned a
// server-side error. Terminal for the call; no retry.
type ServiceError struct {
	Reason string
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion: %s: %v", e.Reason, e.Err)
	}
	return "completion: " + e.Reason
}

func (e *ServiceError) Unwrap() error { return e.Err }
