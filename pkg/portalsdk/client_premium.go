package portalsdk

import (
	"context"
	"net/http"
	"strings"
)

// Subscribe activates premium from a manually entered transaction reference.
func (c *Client) Subscribe(ctx context.Context, req SubscribeRequest) (*MessageResponse, error) {
	req.UTRNumber = strings.TrimSpace(req.UTRNumber)
	if err := Validate(req); err != nil {
		return nil, err
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/premium/subscribe", req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(resp)
}

// CreateOrder opens a payment-provider order for the current student.
func (c *Client) CreateOrder(ctx context.Context) (*OrderResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/premium/create-order", nil)
	if err != nil {
		return nil, err
	}

	var out OrderResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
