// Package navigation decides whether the current session may open a
// destination of the interactive client and where to send it otherwise.
package navigation
