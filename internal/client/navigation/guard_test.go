package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAuth struct {
	authenticated bool
	admin         bool
}

func (f *fakeAuth) IsAuthenticated() bool { return f.authenticated }
func (f *fakeAuth) IsAdmin() bool         { return f.admin }

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"/dashboard":       "/dashboard",
		"dashboard":        "/dashboard",
		"/dashboard/":      "/dashboard",
		"/dashboard?tab=2": "/dashboard",
		"/a/../admin#top":  "/admin",
		"":                 "/",
		"  /login  ":       "/login",
		"//admin//users/":  "/admin/users",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestResolve_Anonymous(t *testing.T) {
	g := NewGuard(&fakeAuth{})

	d := g.Resolve("/dashboard")
	assert.Equal(t, Decision{Requested: "/dashboard", Target: "/login", Redirected: true, Reason: ReasonUnauthenticated}, d)

	for _, p := range []string{"/login", "/register", "/onboarding", "/login?next=/dashboard"} {
		assert.True(t, g.Allowed(p), p)
	}
	assert.False(t, g.Allowed("/admin/users"))
	assert.False(t, g.Allowed("/"))
}

func TestResolve_AuthenticatedUser(t *testing.T) {
	g := NewGuard(&fakeAuth{authenticated: true})

	assert.Equal(t, Decision{Requested: "/dashboard", Target: "/dashboard"}, g.Resolve("/dashboard?x=1"))
	assert.True(t, g.Allowed("/account"))

	d := g.Resolve("/admin/users")
	assert.True(t, d.Redirected)
	assert.Equal(t, "/dashboard", d.Target)
	assert.Equal(t, ReasonForbidden, d.Reason)

	assert.True(t, g.Allowed("/administrator"), "prefix match is per segment")
}

func TestResolve_Admin(t *testing.T) {
	g := NewGuard(&fakeAuth{authenticated: true, admin: true})
	assert.True(t, g.Allowed("/admin"))
	assert.True(t, g.Allowed("/admin/users"))
}

func TestResolve_AdminFlagWithoutSession(t *testing.T) {
	g := NewGuard(&fakeAuth{admin: true})
	d := g.Resolve("/admin")
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
}

func TestResolve_FollowsSessionChanges(t *testing.T) {
	a := &fakeAuth{authenticated: true}
	g := NewGuard(a)
	assert.True(t, g.Allowed("/dashboard"))

	a.authenticated = false
	d := g.Resolve("/dashboard")
	assert.True(t, d.Redirected)
	assert.Equal(t, "/login", d.Target)
}

func TestOptions(t *testing.T) {
	g := NewGuard(&fakeAuth{},
		WithLoginPath("/signin"),
		WithPublic("/about"),
		WithHomePath("home"),
		WithAdminOnly("/ops"),
	)

	assert.True(t, g.Allowed("/signin"), "login path is always public")
	assert.True(t, g.Allowed("/about/team"))
	assert.Equal(t, "/signin", g.Resolve("/repos").Target)

	g = NewGuard(&fakeAuth{authenticated: true}, WithHomePath("home"), WithAdminOnly("/ops"))
	d := g.Resolve("/ops/jobs")
	assert.Equal(t, "/home", d.Target)
	assert.Equal(t, ReasonForbidden, d.Reason)
}

func TestReason_String(t *testing.T) {
	assert.Equal(t, "none", ReasonNone.String())
	assert.Equal(t, "unauthenticated", ReasonUnauthenticated.String())
	assert.Equal(t, "forbidden", ReasonForbidden.String())
}
