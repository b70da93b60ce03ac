// Package services contains the application services of the repowatch
// client: AuthService drives the session life cycle on top of the backend
// transport and the session store, and WatchService is the authenticated
// watch-list collaborator built on AuthService.AuthHeader.
package services
