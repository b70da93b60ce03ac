package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/repowatch/internal/client/client"
	"github.com/dmitrijs2005/repowatch/internal/client/config"
	"github.com/dmitrijs2005/repowatch/internal/client/navigation"
	"github.com/dmitrijs2005/repowatch/internal/client/services"
	"github.com/dmitrijs2005/repowatch/internal/client/session"
	"github.com/dmitrijs2005/repowatch/internal/client/storage"
	"github.com/dmitrijs2005/repowatch/internal/logging"
)

type App struct {
	config *config.Config
	db     *sql.DB
	log    logging.Logger

	authService  services.AuthService
	watchService services.WatchService
	guard        *navigation.Guard

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the session database, restores any persisted session and
// wires the services. Logs go to stderr so they do not mix with prompts.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(c.LogLevel, os.Stderr)

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := session.NewStore(db, log)
	store.Load(ctx)

	as := services.NewAuthService(api, store, log)
	ws := services.NewWatchService(api, as)

	app := newApp(as, ws, bufio.NewReader(os.Stdin), os.Stdout)
	app.config = c
	app.db = db
	app.log = log
	return app, nil
}

func newApp(as services.AuthService, ws services.WatchService, reader *bufio.Reader, out io.Writer) *App {
	return &App{
		log:          logging.Discard(),
		authService:  as,
		watchService: ws,
		guard:        navigation.NewGuard(as),
		reader:       reader,
		out:          out,
	}
}

// Run starts the REPL and blocks until the user leaves it.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to repowatch (type 'help' for commands)")
	if u := a.authService.CurrentUser(); u != nil {
		printlnFn("Signed in as", u.Username)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	if err := a.authService.Close(); err != nil {
		a.log.Warn(context.Background(), "close backend client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "close session database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsAuthenticated()
}

func (a *App) isAdmin() bool {
	return a.authService.IsAdmin()
}

// getStatus renders the prompt status, e.g. "(alice authenticated)".
func (a *App) getStatus() string {
	state := a.authService.State().String()
	if u := a.authService.CurrentUser(); u != nil {
		return fmt.Sprintf("(%s %s)", u.Username, state)
	}
	return fmt.Sprintf("(%s)", state)
}

// Navigate asks the guard whether dest may be opened. An anonymous user is
// taken through the login prompt and the destination is checked again; a
// non-admin asking for an admin page is refused.
func (a *App) Navigate(ctx context.Context, dest string) bool {
	d := a.guard.Resolve(dest)
	if !d.Redirected {
		return true
	}

	a.log.Debug(ctx, "navigation redirected", "requested", d.Requested, "target", d.Target, "reason", d.Reason.String())

	switch d.Reason {
	case navigation.ReasonUnauthenticated:
		printlnFn("Please log in first.")
		if err := a.Login(ctx); err != nil {
			printlnFn("Error:", describe(err))
			return false
		}
		return a.guard.Allowed(dest)
	case navigation.ReasonForbidden:
		printlnFn("Access denied: administrators only.")
	}
	return false
}
