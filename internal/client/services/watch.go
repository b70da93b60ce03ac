package services

import (
	"context"

	"github.com/dmitrijs2005/repowatch/internal/client/client"
)

// WatchList is the backend surface the watch service needs;
// *client.HTTPClient implements it.
type WatchList interface {
	WatchedRepos(ctx context.Context, kind client.RepoKind, header map[string]string) ([]string, error)
	AddRepo(ctx context.Context, kind client.RepoKind, repo string, header map[string]string) error
	DeleteRepo(ctx context.Context, kind client.RepoKind, repo string, header map[string]string) error
	LatestUpdates(ctx context.Context, header map[string]string) ([]client.Update, error)
}

type WatchService interface {
	List(ctx context.Context, kind client.RepoKind) ([]string, error)
	Add(ctx context.Context, kind client.RepoKind, repo string) error
	Delete(ctx context.Context, kind client.RepoKind, repo string) error
	Updates(ctx context.Context) ([]client.Update, error)
}

type watchService struct {
	backend WatchList
	auth    AuthService
}

// NewWatchService returns a WatchService that signs every call with the
// current session's credentials.
func NewWatchService(backend WatchList, auth AuthService) WatchService {
	return &watchService{backend: backend, auth: auth}
}

func (s *watchService) header() (map[string]string, error) {
	if !s.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.auth.AuthHeader(), nil
}

func (s *watchService) List(ctx context.Context, kind client.RepoKind) ([]string, error) {
	h, err := s.header()
	if err != nil {
		return nil, err
	}
	return s.backend.WatchedRepos(ctx, kind, h)
}

func (s *watchService) Add(ctx context.Context, kind client.RepoKind, repo string) error {
	h, err := s.header()
	if err != nil {
		return err
	}
	return s.backend.AddRepo(ctx, kind, repo, h)
}

func (s *watchService) Delete(ctx context.Context, kind client.RepoKind, repo string) error {
	h, err := s.header()
	if err != nil {
		return err
	}
	return s.backend.DeleteRepo(ctx, kind, repo, h)
}

func (s *watchService) Updates(ctx context.Context) ([]client.Update, error) {
	h, err := s.header()
	if err != nil {
		return nil, err
	}
	return s.backend.LatestUpdates(ctx, h)
}
