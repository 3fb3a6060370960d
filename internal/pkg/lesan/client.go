// Package lesan implements the RPC call convention of the IRAC backend:
// a JSON POST shaped as {service, model, act, details:{set, get}} with an
// optional opaque bearer token header.
package lesan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"irac/internal/pkg/httpclient"
)

// Request is one RPC envelope.
type Request struct {
	Service string  `json:"service"`
	Model   string  `json:"model"`
	Act     string  `json:"act"`
	Details Details `json:"details"`
}

// Details carries the input fields (set) and the requested output field
// projection (get).
type Details struct {
	Set map[string]interface{} `json:"set"`
	Get map[string]interface{} `json:"get"`
}

// Response is the backend's uniform reply envelope.
type Response struct {
	Success bool            `json:"success"`
	Body    json.RawMessage `json:"body"`
	Message string          `json:"message,omitempty"`
}

// Client talks to a lesan endpoint.
type Client struct {
	endpoint string
	client   *httpclient.Client
}

// New creates a client for the given endpoint. The token is attached as a
// bearer header when non-empty.
func New(endpoint, token string) *Client {
	c := httpclient.New().WithTimeout(30 * time.Second)
	if token != "" {
		c = c.WithBearerToken(token)
	}
	return &Client{endpoint: endpoint, client: c}
}

// Call performs one RPC round trip. Transport and envelope-decoding problems
// are returned as errors; an application-level rejection comes back as a
// Response with Success=false and is the caller's to interpret.
func (c *Client) Call(ctx context.Context, service, model, act string, set, get map[string]interface{}) (*Response, error) {
	if set == nil {
		set = map[string]interface{}{}
	}
	if get == nil {
		get = map[string]interface{}{}
	}

	req := Request{
		Service: service,
		Model:   model,
		Act:     act,
		Details: Details{Set: set, Get: get},
	}

	raw, err := c.client.Post(ctx, c.endpoint, req)
	if err != nil {
		return nil, fmt.Errorf("lesan call %s.%s failed: %w", model, act, err)
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("lesan call %s.%s: invalid response envelope: %w", model, act, err)
	}
	return &resp, nil
}

// DecodeBody unmarshals the response body into dest.
func (r *Response) DecodeBody(dest interface{}) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("lesan response has no body")
	}
	return json.Unmarshal(r.Body, dest)
}
