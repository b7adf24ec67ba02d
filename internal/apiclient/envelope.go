package apiclient

import (
	"context"
	"net/url"

	"github.com/wellpath/portal/internal/model"
)

// Envelope is the wrapper every backend response uses.
type Envelope[T any] struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Data       T                 `json:"data"`
	Token      string            `json:"token,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

// Call performs a request and returns the envelope's data field.
func Call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	env, err := CallEnvelope[T](ctx, c, method, path, query, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// CallEnvelope performs a request and returns the whole envelope.
func CallEnvelope[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*Envelope[T], error) {
	var env Envelope[T]
	if err := c.Do(ctx, method, path, query, body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
