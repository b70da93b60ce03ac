package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RepoKind selects between the GitHub and Docker Hub watch lists.
type RepoKind string

const (
	GitHub RepoKind = "github"
	Docker RepoKind = "docker"
)

// ParseRepoKind accepts "github"/"gh" and "docker"/"hub".
func ParseRepoKind(s string) (RepoKind, error) {
	switch s {
	case "github", "gh":
		return GitHub, nil
	case "docker", "hub":
		return Docker, nil
	default:
		return "", fmt.Errorf("unknown repository kind %q", s)
	}
}

// Update is one entry of the latest-updates feed.
type Update struct {
	Date      string `json:"date"`
	Repo      string `json:"repo"`
	Version   string `json:"version"`
	Changelog string `json:"changelog"`
}

type repoRequest struct {
	Repo string `json:"repo"`
}

type repoPaths struct {
	list, add, remove string
}

var watchPaths = map[RepoKind]repoPaths{
	GitHub: {list: "/watched_repos", add: "/app_repo", remove: "/delete_repo"},
	Docker: {list: "/watched_docker_repos", add: "/app_docker_repo", remove: "/delete_docker_repo"},
}

func pathsFor(kind RepoKind) (repoPaths, error) {
	p, ok := watchPaths[kind]
	if !ok {
		return repoPaths{}, fmt.Errorf("unknown repository kind %q", kind)
	}
	return p, nil
}

// WatchedRepos lists the watched repositories of one kind. header carries
// the caller's credentials.
func (c *HTTPClient) WatchedRepos(ctx context.Context, kind RepoKind, header map[string]string) ([]string, error) {
	p, err := pathsFor(kind)
	if err != nil {
		return nil, err
	}
	var repos []string
	if err := c.getJSON(ctx, p.list, header, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *HTTPClient) AddRepo(ctx context.Context, kind RepoKind, repo string, header map[string]string) error {
	p, err := pathsFor(kind)
	if err != nil {
		return err
	}
	return c.postRepo(ctx, p.add, repo, header)
}

func (c *HTTPClient) DeleteRepo(ctx context.Context, kind RepoKind, repo string, header map[string]string) error {
	p, err := pathsFor(kind)
	if err != nil {
		return err
	}
	return c.postRepo(ctx, p.remove, repo, header)
}

func (c *HTTPClient) LatestUpdates(ctx context.Context, header map[string]string) ([]Update, error) {
	var updates []Update
	if err := c.getJSON(ctx, "/latest_updates", header, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *HTTPClient) postRepo(ctx context.Context, path, repo string, header map[string]string) error {
	status, body, err := c.do(ctx, http.MethodPost, path, header, repoRequest{Repo: repo})
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return rejection(status, body, fmt.Sprintf("%s failed", path))
	}
	return nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, header map[string]string, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, header, nil)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return rejection(status, body, fmt.Sprintf("%s failed", path))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProtocolError{Message: "malformed " + path + " response", Err: err}
	}
	return nil
}
