// Package executor defines the interface for running user code.
//
// Execution is fully delegated: the only real implementation forwards the
// request to a remote provider and relays its answer. Nothing in this
// process compiles or runs submitted source.
package executor

import (
	"context"
	"encoding/json"
)

// Request is one execution: a script, the provider's language identifier,
// a runtime version index, and optional stdin.
type Request struct {
	Language     string `json:"language"`
	VersionIndex string `json:"versionIndex"`
	Code         string `json:"code"`
	Stdin        string `json:"stdin,omitempty"`
}

// Executor submits a request and returns the provider's JSON response
// verbatim. The provider's own output/error shape is the contract — we don't
// reshape it, so new provider fields flow through untouched.
type Executor interface {
	Execute(ctx context.Context, req Request) (json.RawMessage, error)
}
