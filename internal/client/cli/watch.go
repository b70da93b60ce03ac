package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/repowatch/internal/client/client"
)

var errRepoUsage = errors.New("usage: <github|docker> <owner/name>")

// List prints the watch lists; with an argument only the named one.
func (a *App) List(ctx context.Context, args []string) error {
	kinds := []client.RepoKind{client.GitHub, client.Docker}
	if len(args) > 0 {
		k, err := client.ParseRepoKind(args[0])
		if err != nil {
			return err
		}
		kinds = []client.RepoKind{k}
	}

	for _, k := range kinds {
		repos, err := a.watchService.List(ctx, k)
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("%s (%d):", kindTitle(k), len(repos)))
		for _, r := range repos {
			printlnFn("  " + r)
		}
	}
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	kind, repo, err := repoArgs(args)
	if err != nil {
		return err
	}
	if err := a.watchService.Add(ctx, kind, repo); err != nil {
		return err
	}
	printlnFn("Watching", repo)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	kind, repo, err := repoArgs(args)
	if err != nil {
		return err
	}
	if err := a.watchService.Delete(ctx, kind, repo); err != nil {
		return err
	}
	printlnFn("Stopped watching", repo)
	return nil
}

func (a *App) Updates(ctx context.Context) error {
	updates, err := a.watchService.Updates(ctx)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		printlnFn("No updates yet.")
		return nil
	}
	for _, u := range updates {
		line := fmt.Sprintf("%s  %s  %s", u.Date, u.Repo, u.Version)
		if u.Changelog != "" {
			line += "\n    " + strings.ReplaceAll(strings.TrimSpace(u.Changelog), "\n", "\n    ")
		}
		printlnFn(line)
	}
	return nil
}

func repoArgs(args []string) (client.RepoKind, string, error) {
	if len(args) != 2 {
		return "", "", errRepoUsage
	}
	kind, err := client.ParseRepoKind(args[0])
	if err != nil {
		return "", "", err
	}
	return kind, args[1], nil
}

func kindTitle(k client.RepoKind) string {
	if k == client.Docker {
		return "Docker Hub"
	}
	return "GitHub"
}
