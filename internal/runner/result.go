package runner

import "time"

// Status classifies the outcome of one executed step.
type Status string

const (
	// StatusPass means the endpoint answered with HTTP 200.
	StatusPass Status = "PASS"
	// StatusFail means the endpoint answered with any other status code.
	StatusFail Status = "FAIL"
	// StatusError means the step itself failed: network error, request
	// construction failure, or a set_env extraction against a non-JSON body.
	StatusError Status = "ERROR"
)

// Result is the immutable per-step outcome record consumed by reporting.
// Code carries the HTTP status code; ERROR results carry the sentinel 0 and
// the error description in Body. Duration covers the whole step, including
// substitution and extraction.
type Result struct {
	Name     string
	Status   Status
	Code     int
	Body     string
	Duration time.Duration
}
