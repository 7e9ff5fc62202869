// Command srotsctl signs in to the SROTS portal from a terminal. The session
// is kept in the configured store and reused by later invocations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/srots/portal/internal/app"
	"github.com/srots/portal/internal/flows"
	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/pkg/portalsdk"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app.Application, args []string, out io.Writer) error
}

var commands = map[string]command{
	"login":           {usage: "login -u <username> [-p <password>]", run: runLogin},
	"logout":          {usage: "logout", run: runLogout},
	"whoami":          {usage: "whoami", run: runWhoami},
	"open":            {usage: "open <path>", run: runOpen},
	"forgot-password": {usage: "forgot-password <email>", run: runForgotPassword},
	"reset-password":  {usage: "reset-password -token <token> [-p <new password>]", run: runResetPassword},
	"plans":           {usage: "plans", run: runPlans},
	"order":           {usage: "order", run: runOrder},
	"confirm":         {usage: "confirm", run: runConfirm},
	"subscribe":       {usage: "subscribe [-plan <id>] <utr>", run: runSubscribe},
	"qr":              {usage: "qr [-plan <id>] [-o <file.png>]", run: runQR},
	"analytics":       {usage: "analytics [overview|system]", run: runAnalytics},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return 2
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "srotsctl: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "srotsctl: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.OnSessionExpired(func(context.Context, string) {
		fmt.Fprintln(stderr, portalsdk.MsgSessionExpired)
	}))
	if err != nil {
		fmt.Fprintf(stderr, "srotsctl: %v\n", err)
		return 1
	}
	defer a.Close()

	if err := cmd.run(ctx, a, args[1:], stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "usage: srotsctl %s\n", cmd.usage)
			return 2
		}
		fmt.Fprintf(stderr, "srotsctl: %s\n", errorMessage(err))
		a.Logger().Debug("command failed", "command", args[0], "error", err)
		return 1
	}
	return 0
}

func errorMessage(err error) string {
	var f failure
	switch {
	case errors.As(err, &f):
		return f.Error()
	case errors.Is(err, session.ErrNotAuthenticated):
		return "not signed in, run `srotsctl login` first"
	case errors.Is(err, flows.ErrNotStudent), errors.Is(err, flows.ErrUnknownPlan), errors.Is(err, flows.ErrInvalidVPA):
		return strings.TrimPrefix(err.Error(), "flows: ")
	}
	return portalsdk.UserMessage(err)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: srotsctl <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "environment:")
	fmt.Fprint(w, app.Usage())
}
