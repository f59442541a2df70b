package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion lets clients detect envelope format changes.
const envelopeVersion = 1

// Envelope is the consistent JSON wrapper around every response body.
type Envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps response bodies in the Envelope structure.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	success := !strings.HasPrefix(status, "4") && !strings.HasPrefix(status, "5")
	return Envelope{
		V:       envelopeVersion,
		Success: success,
		Data:    v,
	}, nil
}
