package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authHeader = map[string]string{AuthorizationHeader: "T1"}

func TestWatchedRepos_ByKind(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodGet, "/watched_repos", http.StatusOK, `["owner/a","owner/b"]`)
	fb.handle(http.MethodGet, "/watched_docker_repos", http.StatusOK, `["library/nginx"]`)
	c := fb.client(t)

	gh, err := c.WatchedRepos(context.Background(), GitHub, authHeader)
	require.NoError(t, err)
	assert.Equal(t, []string{"owner/a", "owner/b"}, gh)
	assert.Equal(t, "T1", fb.last("/watched_repos").header.Get(AuthorizationHeader))

	dk, err := c.WatchedRepos(context.Background(), Docker, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"library/nginx"}, dk)
	assert.Empty(t, fb.last("/watched_docker_repos").header.Get(AuthorizationHeader))
}

func TestAddAndDeleteRepo(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/app_docker_repo", http.StatusOK, ``)
	fb.handle(http.MethodPost, "/delete_repo", http.StatusOK, ``)
	c := fb.client(t)

	require.NoError(t, c.AddRepo(context.Background(), Docker, "library/redis", authHeader))
	assert.Equal(t, map[string]any{"repo": "library/redis"}, fb.last("/app_docker_repo").body)

	require.NoError(t, c.DeleteRepo(context.Background(), GitHub, "owner/a", authHeader))
	assert.Equal(t, map[string]any{"repo": "owner/a"}, fb.last("/delete_repo").body)
}

func TestAddRepo_BackendRejects(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodPost, "/app_repo", http.StatusInternalServerError, `{"error":"Database error: locked"}`)

	err := fb.client(t).AddRepo(context.Background(), GitHub, "owner/a", authHeader)
	require.EqualError(t, err, "Database error: locked")
}

func TestLatestUpdates(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodGet, "/latest_updates", http.StatusOK,
		`[{"date":"2025-06-20","repo":"owner/a","version":"2.0.2","changelog":"- fix"}]`)

	ups, err := fb.client(t).LatestUpdates(context.Background(), authHeader)
	require.NoError(t, err)
	assert.Equal(t, []Update{{Date: "2025-06-20", Repo: "owner/a", Version: "2.0.2", Changelog: "- fix"}}, ups)
}

func TestWatchedRepos_Malformed(t *testing.T) {
	fb := newFakeBackend(t)
	fb.handle(http.MethodGet, "/watched_repos", http.StatusOK, `{"not":"a list"}`)

	_, err := fb.client(t).WatchedRepos(context.Background(), GitHub, nil)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseRepoKind(t *testing.T) {
	for in, want := range map[string]RepoKind{"github": GitHub, "gh": GitHub, "docker": Docker, "hub": Docker} {
		got, err := ParseRepoKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseRepoKind("gitlab")
	require.Error(t, err)

	_, err = (&HTTPClient{}).WatchedRepos(context.Background(), RepoKind("gitlab"), nil)
	require.Error(t, err)
}
