// Package session owns the client's authenticated session: the bearer
// token, the identity the backend issued it for, and the in-memory
// first-login flag.
//
// Store is the only writer of the persisted "token" and "user" keys. Both
// keys are written in one transaction and removed in one transaction, so
// storage never holds one without the other. The in-memory copy is
// reconciled with storage once at start (Load) and on every successful
// mutation (Set, Clear).
package session
