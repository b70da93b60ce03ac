package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/repowatch/internal/client/client"
	"github.com/dmitrijs2005/repowatch/internal/client/session"
	"github.com/dmitrijs2005/repowatch/internal/logging"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// State is the coarse session state exposed to the UI.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RegisterOptions are the optional flags of a registration. A pending
// registration creates the account without logging into it.
type RegisterOptions struct {
	IsAdmin   bool
	IsPending bool
}

// AuthService defines the session operations of the client.
//
// Contract:
//   - Login / Register: authenticate against the backend and persist the
//     session. Errors are *client.AuthenticationError, *client.ProtocolError
//     or *client.TransientNetworkError.
//   - Logout: best-effort backend notification, then unconditional local
//     teardown. Never fails.
//   - CompleteOnboarding: clears the first-login flag of the current session.
//   - The queries read in-memory state only and never block on I/O.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*client.AuthResponse, error)
	Register(ctx context.Context, username, password string, opts RegisterOptions) (*client.AuthResponse, error)
	Logout(ctx context.Context)
	CompleteOnboarding() error

	IsAuthenticated() bool
	IsAdmin() bool
	AuthHeader() map[string]string
	FirstLoginPending() bool
	CurrentUser() *session.Identity
	State() State

	Close() error
}

type authService struct {
	client   client.Client
	store    *session.Store
	log      logging.Logger
	inFlight atomic.Int32
}

// NewAuthService wires an AuthService. store must already be loaded.
func NewAuthService(c client.Client, store *session.Store, log logging.Logger) AuthService {
	return &authService{client: c, store: store, log: log.With("component", "auth")}
}

// Login authenticates, persists the session and then asks the backend
// whether settings exist; if not, the user still has to onboard. A failed
// probe only leaves the first-login flag at false.
func (a *authService) Login(ctx context.Context, username, password string) (*client.AuthResponse, error) {
	a.inFlight.Add(1)
	defer a.inFlight.Add(-1)

	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.log.Warn(ctx, "login rejected", "user", username, "error", err)
		return nil, err
	}

	if err := a.establish(ctx, resp, "malformed login response"); err != nil {
		return nil, err
	}

	exist, err := a.client.IsConfigured(ctx)
	if err != nil {
		a.log.Warn(ctx, "configuration probe failed, assuming onboarding is done", "error", err)
	} else if err := a.store.SetFirstLoginPending(!exist); err != nil {
		a.log.Warn(ctx, "cannot record onboarding state", "error", err)
	}

	a.log.Info(ctx, "logged in", "user", username, "first_login", a.store.FirstLoginPending())
	return resp, nil
}

// Register creates an account. Unless the account is pending approval the
// new user is logged in and always has to onboard.
func (a *authService) Register(ctx context.Context, username, password string, opts RegisterOptions) (*client.AuthResponse, error) {
	a.inFlight.Add(1)
	defer a.inFlight.Add(-1)

	resp, err := a.client.Register(ctx, client.RegisterRequest{
		Username:  username,
		Password:  password,
		IsAdmin:   opts.IsAdmin,
		IsPending: opts.IsPending,
	})
	if err != nil {
		a.log.Warn(ctx, "registration rejected", "user", username, "error", err)
		return nil, err
	}

	if opts.IsPending {
		a.log.Info(ctx, "registration pending approval", "user", username)
		return resp, nil
	}

	if err := a.establish(ctx, resp, "malformed register response"); err != nil {
		return nil, err
	}
	if err := a.store.SetFirstLoginPending(true); err != nil {
		a.log.Warn(ctx, "cannot record onboarding state", "error", err)
	}

	a.log.Info(ctx, "registered", "user", username)
	return resp, nil
}

// establish validates a successful auth payload and writes it to the store.
func (a *authService) establish(ctx context.Context, resp *client.AuthResponse, malformed string) error {
	if resp == nil || resp.Data == nil || resp.Data.Token == "" || len(resp.Data.User) == 0 {
		return &client.ProtocolError{Message: malformed}
	}

	identity, err := session.ParseIdentity(resp.Data.User)
	if err != nil {
		return &client.ProtocolError{Message: malformed, Err: err}
	}

	if err := a.store.Set(ctx, resp.Data.Token, identity); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout notifies the backend when there is a token to revoke and then
// clears the local session on every path, including a failed or panicking
// notification and a cancelled ctx.
func (a *authService) Logout(ctx context.Context) {
	a.inFlight.Add(1)
	defer a.inFlight.Add(-1)

	defer func() {
		if err := a.store.Clear(context.WithoutCancel(ctx)); err != nil {
			a.log.Error(ctx, "cannot remove persisted session", "error", err)
		}
	}()

	token := a.store.Token()
	if token == "" {
		return
	}
	if err := a.client.Logout(ctx, token); err != nil {
		a.log.Warn(ctx, "backend logout failed, clearing local session anyway", "error", err)
		return
	}
	a.log.Info(ctx, "logged out")
}

func (a *authService) CompleteOnboarding() error {
	if err := a.store.SetFirstLoginPending(false); err != nil {
		return ErrNotAuthenticated
	}
	return nil
}

func (a *authService) IsAuthenticated() bool {
	s := a.store.Snapshot()
	return s.Token != "" && s.Identity != nil
}

func (a *authService) IsAdmin() bool {
	s := a.store.Snapshot()
	return s.Token != "" && s.Identity != nil && s.Identity.IsAdmin
}

// AuthHeader returns the credential header to merge into outgoing
// requests, or an empty map when logged out.
func (a *authService) AuthHeader() map[string]string {
	token := a.store.Token()
	if token == "" {
		return map[string]string{}
	}
	return map[string]string{client.AuthorizationHeader: token}
}

func (a *authService) FirstLoginPending() bool {
	return a.store.FirstLoginPending()
}

func (a *authService) CurrentUser() *session.Identity {
	return a.store.Identity()
}

func (a *authService) State() State {
	if a.inFlight.Load() > 0 {
		return StateAuthenticating
	}
	if a.IsAuthenticated() {
		return StateAuthenticated
	}
	return StateAnonymous
}

func (a *authService) Close() error {
	return a.client.Close()
}
