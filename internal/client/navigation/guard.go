package navigation

import (
	"path"
	"strings"
)

// Authenticator is the read-only view of the session the guard needs.
type Authenticator interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Reason explains a redirect.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthenticated
	ReasonForbidden
)

func (r Reason) String() string {
	switch r {
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonForbidden:
		return "forbidden"
	default:
		return "none"
	}
}

// Decision is the outcome of Resolve. Target equals Requested unless
// Redirected is set.
type Decision struct {
	Requested  string
	Target     string
	Redirected bool
	Reason     Reason
}

type Guard struct {
	auth      Authenticator
	public    []string
	adminOnly []string
	loginPath string
	homePath  string
}

type Option func(*Guard)

// WithPublic adds destinations reachable without a session.
func WithPublic(paths ...string) Option {
	return func(g *Guard) {
		for _, p := range paths {
			g.public = append(g.public, Normalize(p))
		}
	}
}

// WithAdminOnly adds destinations (and everything below them) that
// require an admin identity.
func WithAdminOnly(paths ...string) Option {
	return func(g *Guard) {
		for _, p := range paths {
			g.adminOnly = append(g.adminOnly, Normalize(p))
		}
	}
}

func WithLoginPath(p string) Option {
	return func(g *Guard) { g.loginPath = Normalize(p) }
}

func WithHomePath(p string) Option {
	return func(g *Guard) { g.homePath = Normalize(p) }
}

const (
	DefaultLoginPath = "/login"
	DefaultHomePath  = "/dashboard"
)

func NewGuard(auth Authenticator, opts ...Option) *Guard {
	g := &Guard{
		auth:      auth,
		public:    []string{"/login", "/register", "/onboarding"},
		adminOnly: []string{"/admin"},
		loginPath: DefaultLoginPath,
		homePath:  DefaultHomePath,
	}
	for _, opt := range opts {
		opt(g)
	}
	// the login page must stay reachable or every redirect would loop
	if !under(g.loginPath, g.public) {
		g.public = append(g.public, g.loginPath)
	}
	return g
}

// Resolve checks dest against the current session. It does no I/O.
func (g *Guard) Resolve(dest string) Decision {
	p := Normalize(dest)
	d := Decision{Requested: p, Target: p}

	switch {
	case under(p, g.public):
	case !g.auth.IsAuthenticated():
		d.Target, d.Redirected, d.Reason = g.loginPath, true, ReasonUnauthenticated
	case under(p, g.adminOnly) && !g.auth.IsAdmin():
		d.Target, d.Redirected, d.Reason = g.homePath, true, ReasonForbidden
	}
	return d
}

// Allowed is shorthand for a Resolve without redirect.
func (g *Guard) Allowed(dest string) bool {
	return !g.Resolve(dest).Redirected
}

// Normalize strips query and fragment and cleans the path, so
// "dashboard/?tab=1" and "/dashboard" match the same rule.
func Normalize(dest string) string {
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		dest = dest[:i]
	}
	return path.Clean("/" + strings.TrimSpace(dest))
}

func under(p string, prefixes []string) bool {
	for _, pre := range prefixes {
		if p == pre || pre == "/" || strings.HasPrefix(p, pre+"/") {
			return true
		}
	}
	return false
}
