package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/srots/portal/internal/flows"
	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/stretchr/testify/require"
)

func TestRunUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no args", args: nil, want: "usage: srotsctl <command>"},
		{name: "unknown command", args: []string{"frobnicate"}, want: `unknown command "frobnicate"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr)
			require.Equal(t, 2, code)
			require.Contains(t, stderr.String(), tc.want)
			require.Contains(t, stderr.String(), "login -u <username>")
			require.Empty(t, stdout.String())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "failure text", err: failure(flows.MsgActivationFailed), want: flows.MsgActivationFailed},
		{name: "not signed in", err: fmt.Errorf("order: %w", session.ErrNotAuthenticated), want: "not signed in, run `srotsctl login` first"},
		{name: "not a student", err: flows.ErrNotStudent, want: "premium is only available to students"},
		{name: "backend", err: &portalsdk.RestrictedAccountError{Message: "blocked"}, want: "blocked"},
		{name: "timeout", err: portalsdk.ErrNetworkTimeout, want: portalsdk.MsgTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, errorMessage(tc.err))
		})
	}
}
