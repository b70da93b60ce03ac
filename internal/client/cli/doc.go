// Package cli provides the interactive repowatch command-line client.
//
// It wires configuration, the local session database, the backend client
// and an interactive REPL. Every command maps to a destination; the
// navigation guard decides whether the current session may open it and
// sends anonymous users to the login prompt first.
//
// Key features:
//   - Login / Register / Logout with a session that survives restarts
//   - First-login onboarding
//   - GitHub and Docker Hub watch lists and the latest-updates feed
//   - Admin-only account creation
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
