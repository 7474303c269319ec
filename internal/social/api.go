// Package social is the typed binding to the doremi REST API. It mirrors
// the backend's actual wire shapes — inconsistent field casing included —
// and funnels every outcome through the envelope normalizer so callers only
// ever see a clean result or an *APIError.
package social

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/doremi/internal/client"
	"github.com/d60-Lab/doremi/internal/envelope"
)

// APIError is an application- or transport-level failure with the message
// already normalized for display.
type APIError struct {
	Status  int // 0 for network/validation failures
	Message string
}

func (e *APIError) Error() string { return e.Message }

// API exposes one method per backend endpoint.
type API struct {
	c        *client.Client
	validate *validator.Validate
}

// New wraps a transport client.
func New(c *client.Client) *API {
	return &API{c: c, validate: validator.New()}
}

// checkInput runs client-side validation. Failures never reach the network.
func (a *API) checkInput(req any) error {
	if err := a.validate.Struct(req); err != nil {
		return &APIError{Message: err.Error()}
	}
	return nil
}

// settle converts a transport outcome into (body, nil) on HTTP success or a
// normalized *APIError otherwise.
func settle(resp *client.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, &APIError{Message: envelope.MsgNetworkUnreachable}
	}
	if !resp.OK() {
		msg := envelope.Normalize(resp.Body).Message
		if msg == "" || msg == envelope.FallbackMessage {
			msg = envelope.StatusMessage(resp.Status)
		}
		return nil, &APIError{Status: resp.Status, Message: msg}
	}
	return resp.Body, nil
}

func unmarshal(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Message: envelope.FallbackMessage}
	}
	return nil
}

// settleEnvelope additionally rejects 2xx bodies whose envelope reports
// failure.
func settleEnvelope(resp *client.Response, err error) ([]byte, error) {
	body, err := settle(resp, err)
	if err != nil {
		return nil, err
	}
	if res := envelope.Normalize(body); !res.Succeeded {
		return nil, &APIError{Status: resp.Status, Message: res.Message}
	}
	return body, nil
}
