// Package flows drives the user-facing sequences of the portal: signing in,
// recovering a password and activating a premium subscription. Each flow
// talks to the backend through portalsdk and records the outcome in a
// session.Container.
package flows
