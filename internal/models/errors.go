package models

import "fmt"

// GatewayError reports a failed market data fetch. Callers drop the affected
// context fragment and carry on.
type GatewayError struct {
	Source string // "quote" or "ipo_calendar"
	Key    string // symbol or URL
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s gateway: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s gateway (%s): %v", e.Source, e.Key, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
