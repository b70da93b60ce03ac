package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/repowatch/internal/client/client"
	"github.com/dmitrijs2005/repowatch/internal/client/services"
	"github.com/dmitrijs2005/repowatch/internal/common"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

var errEmptyUsername = errors.New("user name must not be empty")

func (a *App) credentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return "", nil, err
	}
	if userName == "" {
		return "", nil, errEmptyUsername
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Login prompts for credentials and opens a session. A user who still has
// to onboard is taken there straight away.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.Login(ctx, userName, string(password)); err != nil {
		return err
	}
	printlnFn("Login successful")

	return a.afterSignIn(ctx)
}

// Register creates an account. A pending account waits for approval and
// does not log in; any other account is logged in and onboarded.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	isAdmin, err := getYesNo(a.reader, "Administrator account?", a.out)
	if err != nil {
		return err
	}
	isPending, err := getYesNo(a.reader, "Leave the account pending approval?", a.out)
	if err != nil {
		return err
	}

	resp, err := a.authService.Register(ctx, userName, string(password),
		services.RegisterOptions{IsAdmin: isAdmin, IsPending: isPending})
	if err != nil {
		return err
	}

	if isPending {
		printlnFn(pendingMessage(resp))
		return nil
	}
	printlnFn("Registration successful")
	return a.afterSignIn(ctx)
}

// AddUser lets an administrator create another account. The account is
// always pending and the current session is left alone.
func (a *App) AddUser(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	isAdmin, err := getYesNo(a.reader, "Administrator account?", a.out)
	if err != nil {
		return err
	}

	resp, err := a.authService.Register(ctx, userName, string(password),
		services.RegisterOptions{IsAdmin: isAdmin, IsPending: true})
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("User %s created.", userName), pendingMessage(resp))
	return nil
}

func pendingMessage(resp *client.AuthResponse) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return "Registration received, waiting for approval."
}

func (a *App) afterSignIn(ctx context.Context) error {
	if !a.authService.FirstLoginPending() {
		return nil
	}
	if !a.Navigate(ctx, pathOnboarding) {
		return nil
	}
	return a.Onboarding(ctx)
}

// Onboarding walks a first-time user through seeding the watch lists and
// then marks the session as onboarded. Both prompts may be skipped.
func (a *App) Onboarding(ctx context.Context) error {
	if !a.authService.FirstLoginPending() {
		printlnFn("Onboarding already completed.")
		return nil
	}

	printlnFn("Welcome! Let's set up your first watches.")
	prompts := []struct {
		kind   client.RepoKind
		prompt string
	}{
		{client.GitHub, "GitHub repository to watch (owner/name, empty to skip)"},
		{client.Docker, "Docker Hub repository to watch (namespace/name, empty to skip)"},
	}
	for _, p := range prompts {
		repo, err := getSimpleText(a.reader, p.prompt, a.out)
		if err != nil {
			return err
		}
		if repo == "" {
			continue
		}
		if err := a.watchService.Add(ctx, p.kind, repo); err != nil {
			return err
		}
		printlnFn("Watching", repo)
	}

	if err := a.authService.CompleteOnboarding(); err != nil {
		return err
	}
	printlnFn("You're all set.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.authService.CurrentUser()
	if u == nil {
		return services.ErrNotAuthenticated
	}
	role := "user"
	if u.IsAdmin {
		role = "admin"
	}
	printlnFn(fmt.Sprintf("%s (%s)", u.Username, role))
	if a.authService.FirstLoginPending() {
		printlnFn("Onboarding pending, run 'onboarding' to finish it.")
	}
	return nil
}

// Logout always leaves the client logged out, even if the server could not
// be told.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout(ctx)
	printlnFn("Logged out")
	return nil
}
