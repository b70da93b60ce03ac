package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/repowatch/internal/client/client"
	"github.com/dmitrijs2005/repowatch/internal/client/services"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// Destinations of the interactive client.
const (
	pathLogin      = "/login"
	pathRegister   = "/register"
	pathOnboarding = "/onboarding"
	pathAccount    = "/account"
	pathDashboard  = "/dashboard"
	pathRepoNew    = "/repos/new"
	pathRepoDelete = "/repos/delete"
	pathUpdates    = "/updates"
	pathAdminUsers = "/admin/users"
)

// routes maps a command onto the destination it opens. Commands missing
// here (help, logout, exit) are not guarded.
var routes = map[string]string{
	"login":      pathLogin,
	"register":   pathRegister,
	"onboarding": pathOnboarding,
	"whoami":     pathAccount,
	"list":       pathDashboard,
	"l":          pathDashboard,
	"add":        pathRepoNew,
	"delete":     pathRepoDelete,
	"updates":    pathUpdates,
	"adduser":    pathAdminUsers,
}

// execIface is the command surface the REPL drives. *App implements it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Navigate(ctx context.Context, dest string) bool

	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Onboarding(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Updates(ctx context.Context) error
	AddUser(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line from reader until EOF or exit/quit.
// Before a routed command runs, the guard gets a say through Navigate.
// Handler errors are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("rw %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if dest, ok := routes[cmd]; ok && !a.Navigate(ctx, dest) {
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText(a))
		case "login":
			cmdErr = a.Login(ctx)
		case "register":
			cmdErr = a.Register(ctx)
		case "onboarding":
			cmdErr = a.Onboarding(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "add":
			cmdErr = a.Add(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "updates":
			cmdErr = a.Updates(ctx)
		case "adduser":
			cmdErr = a.AddUser(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}

func helpText(a execIface) string {
	switch {
	case a.isAdmin():
		return "Available commands: whoami, (l)ist [github|docker], add <kind> <repo>, delete <kind> <repo>, updates, onboarding, adduser, logout, exit"
	case a.isLoggedIn():
		return "Available commands: whoami, (l)ist [github|docker], add <kind> <repo>, delete <kind> <repo>, updates, onboarding, logout, exit"
	default:
		return "Available commands: register, login, exit"
	}
}

// describe turns an error into a line for the user.
func describe(err error) string {
	var authErr *client.AuthenticationError
	switch {
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, client.ErrMalformedResponse):
		return "unexpected response from server"
	case errors.Is(err, services.ErrNotAuthenticated):
		return "please log in first"
	default:
		return err.Error()
	}
}
