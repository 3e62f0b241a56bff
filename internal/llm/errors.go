package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-success answer from a provider
type APIError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

var rateLimitCodes = map[string]bool{
	"RateLimitReached":    true,
	"rate_limit_exceeded": true,
	"rate_limit_error":    true,
	"RESOURCE_EXHAUSTED":  true,
	"ResourceExhausted":   true,
}

// IsRateLimited reports whether err is a quota or throttling failure
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || rateLimitCodes[apiErr.Code]
}

type errorBody struct {
	Code    json.RawMessage `json:"code"`
	Type    string          `json:"type"`
	Message string          `json:"message"`
}

type errorEnvelope struct {
	errorBody
	Error *errorBody `json:"error"`
}

// ReadAPIError builds an APIError from a failed HTTP response. It understands
// the OpenAI, GitHub Models and Anthropic error envelopes.
func ReadAPIError(provider string, resp *http.Response) *APIError {
	apiErr := &APIError{Provider: provider, StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}

	body := env.errorBody
	if env.Error != nil {
		body = *env.Error
	}

	apiErr.Code = rawCode(body.Code)
	if apiErr.Code == "" {
		apiErr.Code = body.Type
	}
	apiErr.Message = body.Message
	return apiErr
}

func rawCode(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
