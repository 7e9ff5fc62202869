/*
Package portalsdk is the gateway client for the SROTS placement portal REST API.

# Overview

Every backend call made by the portal goes through a single Client. The client
owns the cross-cutting auth behaviour so callers never re-implement it:

  - the bearer token is attached to every request when one is available
  - a 401 from any endpoint other than login or token refresh fires the
    OnUnauthorized hook, which the application wires to session invalidation
  - requests that exceed the timeout (30 seconds by default) fail with
    ErrNetworkTimeout
  - request bodies are validated before any network traffic

# Creating a Client

	client := portalsdk.NewClient("https://portal.example.com/api/v1", portalsdk.Options{
		Tokens: store, // anything with Token(ctx) string
		OnUnauthorized: func(ctx context.Context, rejected, path string) {
			container.Invalidate(ctx, rejected)
		},
	})

# Operations

	resp, err := client.Login(ctx, "alice", "secret")
	_, err = client.ForgotPassword(ctx, "alice@college.edu")
	order, err := client.CreateOrder(ctx)
	ack, err := client.Subscribe(ctx, portalsdk.SubscribeRequest{UTRNumber: "123456789012", Months: 6})
	user, err := client.Profile(ctx, resp.UserID)

# Errors

Errors are wrapped so errors.Is and errors.As work at any layer:

	switch {
	case errors.Is(err, portalsdk.ErrInvalidCredentials):
	case errors.Is(err, portalsdk.ErrAuthorizationExpired):
	case errors.Is(err, portalsdk.ErrNetworkTimeout):
	}

	var restricted *portalsdk.RestrictedAccountError
	if errors.As(err, &restricted) { ... }

UserMessage turns any error into a short sentence that is safe to show to an
end user.
*/
package portalsdk
