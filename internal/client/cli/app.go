// Package cli is the terminal front end: signup, login, the protected home
// view, logout and the shop.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"storefront/internal/client"
	"storefront/internal/client/session"
	"storefront/internal/validation"

	"golang.org/x/term"
)

// App carries what every command needs.
type App struct {
	serverURL string
	sessions  *session.Store
	in        io.Reader
	reader    *bufio.Reader
	out       io.Writer
}

func newApp(serverURL string, sessions *session.Store, in io.Reader, out io.Writer) *App {
	return &App{
		serverURL: serverURL,
		sessions:  sessions,
		in:        in,
		reader:    bufio.NewReader(in),
		out:       out,
	}
}

// api returns a client, authenticated when token is non-empty.
func (a *App) api(token string) *client.Client {
	if token == "" {
		return client.New(a.serverURL)
	}
	return client.New(a.serverURL, client.WithToken(token))
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// prompt prints label and reads one trimmed line. EOF after partial
// input returns the partial line.
func (a *App) prompt(label string) (string, error) {
	a.printf("%s: ", label)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptValue returns preset when the flag was given, otherwise prompts.
func (a *App) promptValue(preset, label string) (string, error) {
	if preset != "" {
		return strings.TrimSpace(preset), nil
	}
	return a.prompt(label)
}

// password reads without echo from a terminal, or as a plain line otherwise.
func (a *App) password(label string) (string, error) {
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.printf("%s: ", label)
		pw, err := term.ReadPassword(int(f.Fd()))
		a.println()
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return a.prompt(label)
}

// fieldError is a form validation failure caught before calling the server.
type fieldError struct {
	summary string
	fields  validation.Violations
}

func (e *fieldError) Error() string {
	return formatFields(e.summary, e.fields)
}

// userError shows msg to the user and keeps err for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

var errSessionExpired = errors.New("session expired")

const msgSessionExpired = "Your session has expired. Please login again."

// describe turns client errors into what the user should read.
func describe(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		return errors.New(formatFields(apiErr.Message, apiErr.Fields))
	}
	if errors.Is(err, client.ErrUnreachable) {
		return &userError{msg: client.MsgUnreachable, err: err}
	}
	return err
}

// loadSession returns the stored session. An unreadable session file is
// discarded with a warning and treated as logged out.
func (a *App) loadSession() (*session.Session, error) {
	sess, err := a.sessions.Load()
	if errors.Is(err, session.ErrCorrupt) {
		a.printf("Warning: discarding unreadable session file %s\n", a.sessions.Path())
		return nil, a.sessions.Clear()
	}
	return sess, err
}

// requireSession is session.RequireSession for commands that need a login.
func (a *App) requireSession() (*session.Session, error) {
	sess, err := session.RequireSession(a.sessions)
	if errors.Is(err, session.ErrCorrupt) {
		if sess, err = a.loadSession(); err != nil {
			return nil, err
		}
		err = session.ErrNotLoggedIn
	}
	if errors.Is(err, session.ErrNotLoggedIn) {
		return nil, &userError{msg: session.MsgNotLoggedIn, err: err}
	}
	return sess, err
}

func formatFields(summary string, fields map[string]string) string {
	if len(fields) == 0 {
		return summary
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(summary)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %s", k, fields[k])
	}
	return b.String()
}
