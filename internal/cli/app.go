// Package cli implements the blogctl commands on top of the client store.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/bekizod/Blog-Post/internal/notify"
	"github.com/bekizod/Blog-Post/internal/store"
)

var (
	// ErrUsage is returned for unknown commands and malformed arguments
	ErrUsage = errors.New("invalid usage")
	// ErrLoginRequired is returned by protected commands without a session
	ErrLoginRequired = errors.New("please log in first: blogctl login --email <email>")
	// ErrAborted is returned when the user declines a confirmation
	ErrAborted = errors.New("aborted")
)

// ValidationError carries per-field messages from a local or server-side check
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type command struct {
	name    string
	summary string
	public  bool
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{name: "login", summary: "log in with email and password", public: true, run: (*App).login},
	{name: "register", summary: "create an account", public: true, run: (*App).register},
	{name: "logout", summary: "end the current session", run: (*App).logout},
	{name: "profile", summary: "show or update your profile (profile update --first-name ...)", run: (*App).profile},
	{name: "posts", summary: "list posts (--page, --limit, --search)", run: (*App).posts},
	{name: "post", summary: "show, create, edit or delete a post", run: (*App).post},
	{name: "comment", summary: "comment on a post: comment <id> <text>", run: (*App).comment},
	{name: "like", summary: "like or unlike a post: like <id>", run: (*App).like},
}

// App runs blogctl commands
type App struct {
	store  *store.Store
	out    io.Writer
	in     *bufio.Reader
	logger *slog.Logger
}

// New creates an App. out receives rendered output; in answers prompts.
func New(s *store.Store, out io.Writer, in io.Reader, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{store: s, out: out, in: bufio.NewReader(in), logger: logger}
}

// Run restores the saved session and executes one command
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		if len(args) == 0 {
			return ErrUsage
		}
		return nil
	}

	idx := slices.IndexFunc(commands, func(c command) bool { return c.name == args[0] })
	if idx < 0 {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	cmd := commands[idx]

	a.store.Initialize(ctx)
	if !cmd.public && !a.store.State().Authenticated() {
		return ErrLoginRequired
	}

	a.logger.Debug("Running command", "command", cmd.name, "args", len(args)-1)
	return cmd.run(a, ctx, args[1:])
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: blogctl [--config file] <command> [flags]")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(a.out, "  %-10s %s\n", c.name, c.summary)
	}
}

// Toasts returns a notifier that prints store notifications as one-line messages
func Toasts(w io.Writer) notify.Notifier {
	return notify.NotifierFunc(func(_ context.Context, n notify.Notification) error {
		mark := "✓"
		if n.Level == notify.LevelError {
			mark = "✗"
		}
		_, err := fmt.Fprintf(w, "%s %s\n", mark, n.Message)
		return err
	})
}

// confirm asks a yes/no question; anything but y or yes declines
func (a *App) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", question)
	answer, err := a.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// prompt reads one line of input
func (a *App) prompt(label string) string {
	fmt.Fprintf(a.out, "%s: ", label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}
