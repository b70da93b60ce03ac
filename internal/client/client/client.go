package client

import (
	"context"
	"encoding/json"
)

// Client is the subset of the backend the auth service talks to.
type Client interface {
	Login(ctx context.Context, username, password string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
	IsConfigured(ctx context.Context) (bool, error)
	Close() error
}

// AuthResponse is the envelope of /auth/login and /auth/register.
type AuthResponse struct {
	Success bool      `json:"success"`
	Data    *AuthData `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
}

// AuthData carries the issued token and the raw user object.
type AuthData struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
	IsPending bool   `json:"is_pending"`
}

type configStatus struct {
	Data *struct {
		SettingsExist bool `json:"settings_exist"`
	} `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
