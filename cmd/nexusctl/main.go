// Command nexusctl drives the license console from a terminal. It shares the
// session slots with the console server, so a login here is seen there.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"nexuscomply/internal/access"
	"nexuscomply/internal/backend"
	"nexuscomply/internal/license/export"
	"nexuscomply/internal/license/models"
	"nexuscomply/internal/license/query"
	"nexuscomply/internal/license/status"
	"nexuscomply/internal/platform/config"
	"nexuscomply/internal/platform/logger"
	"nexuscomply/internal/session/service"
	"nexuscomply/internal/session/store"
	"nexuscomply/pkg/domain"
	dErrors "nexuscomply/pkg/domain-errors"
	"nexuscomply/pkg/platform/circuit"
	"nexuscomply/pkg/secrets"
)

const usage = `usage: nexusctl <command> [flags]

commands:
  login            sign in (-u, -p)
  logout           sign out
  whoami           show the signed-in principal
  change-password  change the password (-current, -new, -confirm)
  forgot           request a recovery token (-email)
  validate         check a recovery token (-token)
  reset            set a new password with a recovery token (-token, -new, -confirm)
  licenses         list licenses (-page, -size, -search, -region, -type, -active, -xlsx)
  delete           delete a license (-id, -yes)
  keygen           print a new session seal key
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	session *service.Service
	engine  *query.Engine
	out     io.Writer
	now     func() time.Time
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	if args[0] == "keygen" {
		key, err := secrets.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, key)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, stdout, logger.NewWithWriter(stderr, cfg.Logging.Level, "text"))
	if err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "change-password":
		return a.changePassword(ctx, rest)
	case "forgot":
		return a.forgot(ctx, rest)
	case "validate":
		return a.validate(ctx, rest)
	case "reset":
		return a.reset(ctx, rest)
	case "licenses":
		return a.licenses(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer, log *slog.Logger) (*app, error) {
	key, err := cfg.Session.Key()
	if err != nil {
		return nil, err
	}
	client := backend.New(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithRateLimit(cfg.Backend.RPS, cfg.Backend.Burst),
		backend.WithBreaker(circuit.New("backend",
			circuit.WithFailureThreshold(cfg.Backend.BreakerThreshold),
			circuit.WithCooldown(cfg.Backend.BreakerCooldown),
		)),
		backend.WithLogger(log),
	)
	session := service.NewService(client, store.NewFileSlots(cfg.Session.Dir, key), service.WithLogger(log))
	client.SetTokenSource(session)
	client.SetUnauthorizedHook(session.Invalidate)
	if err := session.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return &app{
		session: session,
		engine:  query.NewEngine(client, query.WithLogger(log), query.WithPageSize(cfg.Console.PageSize)),
		out:     out,
		now:     time.Now,
	}, nil
}

func parse(name string, args []string, define func(fs *flag.FlagSet)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	define(fs)
	if err := fs.Parse(args); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("%s: %v", name, err))
	}
	return nil
}

func (a *app) requireSession(ctx context.Context) (*domain.Principal, error) {
	p := a.session.Current(ctx)
	if p == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not signed in, run nexusctl login")
	}
	return p, nil
}

// require applies the same route gate as the console.
func (a *app) require(ctx context.Context, action access.Action) (*domain.Principal, error) {
	p := a.session.Current(ctx)
	switch access.Decide(access.Route{Capability: access.Capability{Resource: access.ResourceLicenses, Action: action}}, p) {
	case access.Allow:
		return p, nil
	case access.RedirectLogin:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not signed in, run nexusctl login")
	case access.RedirectChangePassword:
		return nil, dErrors.New(dErrors.CodeForbidden, "a password change is required, run nexusctl change-password")
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "your role may not "+string(action)+" licenses")
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	var username, password string
	if err := parse("login", args, func(fs *flag.FlagSet) {
		fs.StringVar(&username, "u", "", "username")
		fs.StringVar(&password, "p", os.Getenv("NEXUS_PASSWORD"), "password (default $NEXUS_PASSWORD)")
	}); err != nil {
		return err
	}

	p, err := a.session.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", p.Username, p.Role)
	if p.PasswordChangeRequired {
		fmt.Fprintln(a.out, "a password change is required: run nexusctl change-password")
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	p, err := a.requireSession(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "username\t%s\n", p.Username)
	fmt.Fprintf(w, "name\t%s\n", p.FullName)
	fmt.Fprintf(w, "email\t%s\n", p.Email)
	fmt.Fprintf(w, "role\t%s\n", p.Role)
	fmt.Fprintf(w, "region\t%s\n", p.Region)
	fmt.Fprintf(w, "password change required\t%t\n", p.PasswordChangeRequired)
	return w.Flush()
}

func (a *app) changePassword(ctx context.Context, args []string) error {
	var current, next, confirm string
	if err := parse("change-password", args, func(fs *flag.FlagSet) {
		fs.StringVar(&current, "current", "", "current password")
		fs.StringVar(&next, "new", "", "new password")
		fs.StringVar(&confirm, "confirm", "", "new password again")
	}); err != nil {
		return err
	}
	if err := a.session.ChangePassword(ctx, current, next, confirm); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "password changed")
	return nil
}

func (a *app) forgot(ctx context.Context, args []string) error {
	var email string
	if err := parse("forgot", args, func(fs *flag.FlagSet) {
		fs.StringVar(&email, "email", "", "account email")
	}); err != nil {
		return err
	}
	res, err := a.session.RequestPasswordReset(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "reset instructions sent to %s\n", res.Email)
	if res.ResetToken != "" {
		fmt.Fprintf(a.out, "reset token: %s\n", res.ResetToken)
	}
	return nil
}

func (a *app) validate(ctx context.Context, args []string) error {
	var token string
	if err := parse("validate", args, func(fs *flag.FlagSet) {
		fs.StringVar(&token, "token", "", "recovery token")
	}); err != nil {
		return err
	}
	res, err := a.session.ValidateResetToken(ctx, token)
	if err != nil {
		return err
	}
	if !res.Valid {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid or expired reset token")
	}
	fmt.Fprintln(a.out, "token is valid")
	return nil
}

func (a *app) reset(ctx context.Context, args []string) error {
	var token, next, confirm string
	if err := parse("reset", args, func(fs *flag.FlagSet) {
		fs.StringVar(&token, "token", "", "recovery token")
		fs.StringVar(&next, "new", "", "new password")
		fs.StringVar(&confirm, "confirm", "", "new password again")
	}); err != nil {
		return err
	}
	if err := a.session.ResetPassword(ctx, token, next, confirm); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "password has been reset, sign in with the new password")
	return nil
}

func (a *app) licenses(ctx context.Context, args []string) error {
	var page, size int
	var criteria models.FilterCriteria
	var xlsx string
	if err := parse("licenses", args, func(fs *flag.FlagSet) {
		fs.IntVar(&page, "page", 0, "zero-based page number")
		fs.IntVar(&size, "size", 0, "page size (default from config)")
		fs.StringVar(&criteria.Search, "search", "", "match license key or software name")
		fs.StringVar(&criteria.Region, "region", "", "exact region")
		fs.StringVar(&criteria.LicenseType, "type", "", "exact license type")
		fs.StringVar(&criteria.Active, "active", "", "true or false")
		fs.StringVar(&xlsx, "xlsx", "", "also write the page to this workbook")
	}); err != nil {
		return err
	}
	switch criteria.Active {
	case "", "true", "false":
	default:
		return dErrors.New(dErrors.CodeBadRequest, "active must be true or false")
	}

	p, err := a.require(ctx, access.ActionView)
	if err != nil {
		return err
	}
	if _, err := a.engine.Load(ctx, page, size); err != nil {
		return err
	}
	a.engine.SetFilter(criteria)
	views := a.engine.Views(p, status.At(a.now()))
	st := a.engine.State()

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKEY\tSOFTWARE\tREGION\tUSAGE\tVALID TO\tSTATUS\tACTIONS")
	for _, v := range views {
		state := string(v.Lifecycle)
		if v.ExpiringSoon {
			state += fmt.Sprintf(" (%dd)", v.DaysUntilExpiry)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d %s\t%s\t%s\t%v\n",
			v.ID, v.LicenseKey, v.SoftwareName, v.Region,
			v.CurrentUsage, v.MaxUsage, v.Pressure, v.ValidTo, state, v.Actions)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d, %d shown, %d total\n",
		st.Page.PageNumber+1, max(st.Page.TotalPages, 1), len(views), st.Page.TotalElements)

	if xlsx == "" {
		return nil
	}
	f, err := os.Create(xlsx)
	if err != nil {
		return err
	}
	if err := export.Write(f, views); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (a *app) delete(ctx context.Context, args []string) error {
	var rawID string
	var yes bool
	if err := parse("delete", args, func(fs *flag.FlagSet) {
		fs.StringVar(&rawID, "id", "", "license ID")
		fs.BoolVar(&yes, "yes", false, "confirm the deletion")
	}); err != nil {
		return err
	}
	id, err := domain.ParseLicenseID(rawID)
	if err != nil {
		return err
	}
	if _, err := a.require(ctx, access.ActionDelete); err != nil {
		return err
	}
	if !yes {
		return dErrors.New(dErrors.CodeBadRequest, "deleting license "+id.String()+" cannot be undone, repeat with -yes")
	}
	if err := a.engine.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "license %s deleted\n", id)
	return nil
}
