package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/srots/portal/internal/app"
	"github.com/srots/portal/internal/flows"
	"github.com/srots/portal/internal/guard"
	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/pkg/portalsdk"
)

var errUsage = errors.New("usage")

// failure is an error whose text is already meant for the user.
type failure string

func (f failure) Error() string { return string(f) }

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// readSecret returns value, or the first line of stdin when value is empty.
func readSecret(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(ctx context.Context, a *app.Application, args []string, out io.Writer) error {
	fs := newFlags("login")
	username := fs.String("u", "", "username or email")
	password := fs.String("p", os.Getenv("SROTS_PASSWORD"), "password (read from stdin when empty)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *username == "" {
		return errUsage
	}

	pw, err := readSecret(*password, "Password: ")
	if err != nil {
		return err
	}

	res, err := a.Login.Login(ctx, *username, pw)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Signed in as %s (%s)\n", res.Session.User.FullName, res.Session.Role())
	if res.Notice != "" && res.Session.AccountStatus() != portalsdk.AccountActive {
		fmt.Fprintln(out, res.Notice)
	}
	fmt.Fprintf(out, "Continue at %s\n", res.Destination)
	return nil
}

func runLogout(ctx context.Context, a *app.Application, _ []string, out io.Writer) error {
	if err := a.Login.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Signed out")
	return nil
}

func runWhoami(_ context.Context, a *app.Application, _ []string, out io.Writer) error {
	state := a.Sessions.State()
	if state.Phase != session.Authenticated {
		fmt.Fprintln(out, "Not signed in")
		return nil
	}

	u := state.Session.User
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "User\t%s (%s)\n", u.FullName, u.Username)
	fmt.Fprintf(tw, "Role\t%s\n", u.Role)
	if u.CollegeID != "" {
		fmt.Fprintf(tw, "College\t%s\n", u.CollegeID)
	}
	if u.Role == portalsdk.RoleStudent {
		premium := "inactive"
		if u.PremiumActive {
			premium = "active"
			if u.PremiumExpiry != nil {
				premium += " until " + u.PremiumExpiry.Format("2006-01-02")
			}
		}
		fmt.Fprintf(tw, "Premium\t%s\n", premium)
	}
	fmt.Fprintf(tw, "Home\t%s\n", guard.DefaultDashboard(u.Role, u.PremiumActive))
	return tw.Flush()
}

func runOpen(_ context.Context, a *app.Application, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	res := a.Navigate(args[0])
	switch res.Decision {
	case guard.Proceed:
		fmt.Fprintf(out, "%s: allowed\n", args[0])
	case guard.Wait:
		fmt.Fprintln(out, "Signing you in. Please wait.")
	default:
		fmt.Fprintf(out, "%s: %s -> %s\n", args[0], res.Decision, res.URL())
	}
	return nil
}

func runForgotPassword(ctx context.Context, a *app.Application, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	res := a.Login.RequestPasswordReset(ctx, args[0])
	if !res.Sent {
		return failure(res.Message)
	}
	fmt.Fprintln(out, res.Message)
	return nil
}

func runResetPassword(ctx context.Context, a *app.Application, args []string, out io.Writer) error {
	fs := newFlags("reset-password")
	token := fs.String("token", "", "token from the reset link")
	password := fs.String("p", "", "new password (read from stdin when empty)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *token == "" {
		return errUsage
	}

	pw, err := readSecret(*password, "New password: ")
	if err != nil {
		return err
	}

	res := a.Login.ResetPassword(ctx, *token, pw)
	if !res.Sent {
		return failure(res.Message)
	}
	fmt.Fprintln(out, res.Message)
	return nil
}

func runPlans(_ context.Context, a *app.Application, _ []string, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLAN\tMONTHS\tPRICE\t")
	for _, p := range a.Subscription.Plans() {
		mark := ""
		if p.Recommended {
			mark = "recommended"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\tINR %s\t%s\n", p.ID, p.Name, p.Months, p.Price.StringFixed(2), mark)
	}
	return tw.Flush()
}

func runOrder(ctx context.Context, a *app.Application, _ []string, out io.Writer) error {
	c, err := a.Subscription.InitiateOrder(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func runConfirm(ctx context.Context, a *app.Application, _ []string, out io.Writer) error {
	act, err := a.Subscription.ConfirmCheckout(ctx)
	if err != nil {
		return err
	}
	if !act.Active {
		fmt.Fprintln(out, "Payment not yet confirmed by the portal")
		return nil
	}
	fmt.Fprintln(out, act.Message)
	return nil
}

func runSubscribe(ctx context.Context, a *app.Application, args []string, out io.Writer) error {
	fs := newFlags("subscribe")
	plan := fs.String("plan", flows.DefaultPlanID, "plan id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	if _, err := a.Subscription.SelectPlan(*plan); err != nil {
		return err
	}

	act, err := a.Subscription.SubmitManualReference(ctx, fs.Arg(0))
	if err != nil {
		var invalid *portalsdk.ValidationError
		if errors.As(err, &invalid) || errors.Is(err, session.ErrNotAuthenticated) {
			return err
		}
		a.Logger().Debug("manual activation failed", "error", err)
		return failure(flows.MsgActivationFailed)
	}

	fmt.Fprintln(out, act.Message)
	if !act.Active {
		fmt.Fprintln(out, "Premium is not active yet. Run `srotsctl confirm` later.")
	}
	return nil
}

func runQR(_ context.Context, a *app.Application, args []string, out io.Writer) error {
	fs := newFlags("qr")
	plan := fs.String("plan", flows.DefaultPlanID, "plan id")
	file := fs.String("o", "srots-upi.png", "output PNG")
	if err := parse(fs, args); err != nil {
		return err
	}

	p, err := a.Subscription.SelectPlan(*plan)
	if err != nil {
		return err
	}
	link, err := a.Subscription.PaymentLink()
	if err != nil {
		return err
	}
	if err := a.Subscription.WritePaymentQR(*file); err != nil {
		return err
	}

	fmt.Fprintf(out, "Pay INR %s for %s with any UPI app:\n%s\nQR written to %s\n", p.Price.StringFixed(2), p.Name, link, *file)
	fmt.Fprintln(out, "Then run: srotsctl subscribe -plan", p.ID, "<UTR>")
	return nil
}

func runAnalytics(ctx context.Context, a *app.Application, args []string, out io.Writer) error {
	kind := "overview"
	if len(args) > 0 {
		kind = args[0]
	}

	var (
		data portalsdk.Analytics
		err  error
	)
	switch kind {
	case "overview":
		data, err = a.Client.AnalyticsOverview(ctx)
	case "system":
		data, err = a.Client.AnalyticsSystem(ctx)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
