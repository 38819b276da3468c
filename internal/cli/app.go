// Package cli is the terminal front-end of FloraBase.
//
// Every command is one screen: it asks a service for a Resource, a form
// Outcome or a list Controller and prints the result. Nothing here talks to
// HTTP or storage directly.
//
// COMMANDS:
//
//	register | login | logout | whoami
//	flowers [-page N] [-q TEXT] [-sort LABEL] [-browse]
//	flower ID
//	posts feed | mine | get ID | create | update ID | delete ID
//	profile [update]
//	admin users | delete ID
//
// A failed screen prints the message and, when the session ended, the command
// that leads back in. Run returns ErrReported in that case so main can exit
// non-zero without printing the error twice.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/AshimStha/FloraBase-Frontend/internal/form"
	"github.com/AshimStha/FloraBase-Frontend/internal/listquery"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
	"github.com/AshimStha/FloraBase-Frontend/internal/service"
	"github.com/AshimStha/FloraBase-Frontend/internal/session"
)

// ErrReported means the command failed and already told the user why.
var ErrReported = errors.New("cli: command failed")

// ErrUsage means the arguments were wrong; usage has been printed.
var ErrUsage = errors.New("cli: usage")

// Deps is everything the front-end is built from.
type Deps struct {
	Session    *session.Store
	Backend    service.Backend
	Logger     *slog.Logger
	Debounce   time.Duration
	MapsAPIKey string
	In         io.Reader
	Out        io.Writer
}

type App struct {
	in      io.Reader
	logger  *slog.Logger
	mapsKey string

	mu  sync.Mutex // serialises writes to out; list updates arrive async
	out io.Writer

	session *session.Store
	auth    *service.AuthService
	catalog *service.CatalogService
	posts   *service.PostService
	profile *service.ProfileService
	admin   *service.AdminService

	commands map[string]command
}

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

func New(d Deps) *App {
	a := &App{
		in:      d.In,
		out:     d.Out,
		logger:  d.Logger,
		mapsKey: d.MapsAPIKey,
		session: d.Session,
		auth:    service.NewAuthService(d.Backend, d.Session, d.Logger),
		catalog: service.NewCatalogService(d.Backend, listquery.Options{Debounce: d.Debounce}, d.Logger),
		posts:   service.NewPostService(d.Backend, d.Session, d.Logger),
		profile: service.NewProfileService(d.Backend, d.Session, d.Logger),
		admin:   service.NewAdminService(d.Backend, d.Session, d.Logger),
	}
	a.commands = map[string]command{
		"register": {"create an account", a.register},
		"login":    {"sign in", a.login},
		"logout":   {"sign out", a.logout},
		"whoami":   {"show the signed-in user", a.whoami},
		"flowers":  {"browse the flower catalog", a.flowers},
		"flower":   {"show one catalog flower", a.flower},
		"posts":    {"community posts: feed | mine | get | create | update | delete", a.postsCmd},
		"profile":  {"show or update your profile", a.profileCmd},
		"admin":    {"manage users: users | delete", a.adminCmd},
	}
	return a
}

// Run executes one command line, without the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		if len(args) == 0 {
			return ErrUsage
		}
		return nil
	}
	cmd, ok := a.commands[args[0]]
	if !ok {
		a.printf("unknown command %q\n\n", args[0])
		a.usage()
		return ErrUsage
	}
	a.logger.Debug("cli: running", slog.String("command", args[0]))
	return cmd.run(ctx, args[1:])
}

func (a *App) usage() {
	names := make([]string, 0, len(a.commands))
	for n := range a.commands {
		names = append(names, n)
	}
	sort.Strings(names)

	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.out, "usage: florabase <command> [flags]")
	fmt.Fprintln(a.out)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, n := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", n, a.commands[n].usage)
	}
	tw.Flush()
}

func (a *App) printf(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

// table writes rows aligned under header.
func (a *App) table(header []string, rows [][]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()
}

// details writes label/value pairs, skipping empty values.
func (a *App) details(pairs ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", pairs[i], pairs[i+1])
	}
	tw.Flush()
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// parse wraps FlagSet.Parse so that -h is not an error and bad flags map to
// ErrUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return ErrUsage
	}
	return nil
}

// outcome prints a form result and returns ErrReported on failure.
func (a *App) outcome(out form.Outcome, success string) error {
	if out.OK() {
		a.printf("%s\n", success)
		a.next(out.Next)
		return nil
	}
	shown := false
	for _, k := range out.FieldErrors.Keys() {
		a.printf("  %s: %s\n", k, out.FieldErrors[k])
		shown = shown || out.FieldErrors[k] == out.Message
	}
	if out.Message != "" && !shown {
		a.printf("error: %s\n", out.Message)
	}
	a.next(out.Next)
	return ErrReported
}

// failed prints a resource failure and returns ErrReported.
func (a *App) failed(message string, redirect nav.Route) error {
	a.printf("error: %s\n", message)
	a.next(redirect)
	return ErrReported
}

// next tells the user which command opens route.
func (a *App) next(route nav.Route) {
	if cmd := commandFor(route); cmd != "" {
		a.printf("next: %s\n", cmd)
	}
}

func commandFor(route nav.Route) string {
	switch route {
	case nav.None, nav.Back:
		return ""
	case nav.Home, nav.Flowers:
		return "florabase flowers"
	case nav.Login:
		return "florabase login"
	case nav.Register:
		return "florabase register"
	case nav.Profile, nav.EditPosts:
		return "florabase profile"
	case nav.UpdateProf:
		return "florabase profile update"
	case nav.CreatePost:
		return "florabase posts create"
	case nav.AdminBoard:
		return "florabase admin users"
	}
	s := string(route)
	switch {
	case strings.HasPrefix(s, "/flower/mongodb/"):
		return "florabase posts get " + strings.TrimPrefix(s, "/flower/mongodb/")
	case strings.HasPrefix(s, "/update-post/"):
		return "florabase posts update " + strings.TrimPrefix(s, "/update-post/")
	case strings.HasPrefix(s, "/flower/"):
		return "florabase flower " + strings.TrimPrefix(s, "/flower/")
	}
	return "(" + s + ")"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
