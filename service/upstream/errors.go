package upstream

import (
	"fmt"
	"time"
)

// HTTPError is a non-200 answer from the upstream API.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream {%s} returned status {%d}: %s", e.Endpoint, e.StatusCode, e.Message)
}

// NetworkError means the request was sent but no response came back.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("no response from upstream {%s}: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type TimeoutError struct {
	Endpoint string
	Timeout  time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("upstream {%s} timed out after %s", e.Endpoint, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
