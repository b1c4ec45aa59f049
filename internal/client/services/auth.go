// Package services contains the application services of the recipe
// client. They sit between the CLI and the API client and own the
// session and list state the views render.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/session"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

var (
	// ErrInvalidCredentials is returned by Login when the API rejects the
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotAuthenticated is returned by operations that need a session.
	ErrNotAuthenticated = errors.New("not logged in")
)

// MsgInvalidCredentials is shown when a login attempt is rejected.
const MsgInvalidCredentials = "Invalid email or password. Please try again."

type credentialsError struct{ cause error }

func (e *credentialsError) Error() string       { return ErrInvalidCredentials.Error() }
func (e *credentialsError) Unwrap() []error     { return []error{ErrInvalidCredentials, e.cause} }
func (e *credentialsError) UserMessage() string { return MsgInvalidCredentials }

// SessionStore is the subset of *session.Store used by services.
type SessionStore interface {
	Login(ctx context.Context, token string, userID int64, username string) error
	Logout(ctx context.Context) error
	Current() *session.Session
	IsAuthenticated() bool
}

// AuthService defines account operations.
//
// Contract:
//   - Register: create an account; does not log in.
//   - Login: authenticate and persist the session.
//   - Logout: drop the session locally; the API keeps no server state.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Current() *session.Session
}

type authService struct {
	api     client.Client
	session SessionStore
	log     logging.Logger
}

func NewAuthService(api client.Client, sess SessionStore, log logging.Logger) AuthService {
	return &authService{api: api, session: sess, log: log}
}

func (a *authService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	u, err := a.api.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	a.log.Info(ctx, "account created", "user_id", u.ID, "name", u.Name)
	return u, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	res, err := a.api.Login(ctx, models.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, &credentialsError{cause: err}
		}
		return nil, err
	}

	if err := a.session.Login(ctx, res.Token, res.UserID, res.Username); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return a.session.Current(), nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}

func (a *authService) Current() *session.Session {
	return a.session.Current()
}
