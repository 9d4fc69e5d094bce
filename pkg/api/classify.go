package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// classify maps a raw response to its decoded body or a classified error.
// This is the only place domain errors are minted.
func classify(resp *response) ([]byte, error) {
	switch resp.status {
	case 200:
		return resp.body, nil

	case 401:
		return nil, authenticationError()

	case 402:
		var payload struct {
			Balance float64 `json:"balance"`
		}
		// Decode failures leave the balance at zero; the error kind is
		// what matters to callers.
		_ = json.Unmarshal(resp.body, &payload)
		return nil, insufficientFundsError(payload.Balance)

	case 429:
		retryAfter := 0
		if v := resp.header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retryAfter = n
			}
		}
		return nil, rateLimitError(retryAfter)

	case 404:
		return nil, notFoundError()

	default:
		return nil, &Error{
			Kind:    KindGeneric,
			Status:  resp.status,
			Detail:  errorDetail(resp.body),
			Message: "api error",
		}
	}
}

// errorDetail pulls the server's detail field out of an error body,
// falling back to the raw text when the body is not valid JSON.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "unknown error"
	}
	return text
}

// decodeSession unmarshals a session payload, tolerating unknown fields.
func decodeSession(body []byte) (*Session, error) {
	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, &Error{
			Kind:    KindGeneric,
			Message: "failed to decode session payload",
			Detail:  strings.TrimSpace(string(body)),
			Err:     err,
		}
	}
	return &session, nil
}
