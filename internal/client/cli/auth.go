package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/client/form"
	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/session"
	"github.com/dmitrijs2005/recipebook/internal/validation"
)

const (
	msgLoginRequired   = "Please log in first."
	msgAlreadyLoggedIn = "You are already logged in."
	msgRegistered      = "Account created. Please log in."
	msgLoggedOut       = "You have been logged out."
)

var loginPrompts = []fieldPrompt{
	{name: validation.FieldEmail, label: "Email"},
	{name: validation.FieldPassword, label: "Password", secret: true},
}

var registerPrompts = []fieldPrompt{
	{name: validation.FieldUsername, label: "Username"},
	{name: validation.FieldEmail, label: "Email"},
	{name: validation.FieldPassword, label: "Password", secret: true},
	{name: validation.FieldRepeatPassword, label: "Repeat password", secret: true},
}

func (a *App) loginView(ctx context.Context, _ int64) error {
	a.printf("Type 'login' to sign in or 'register' to create an account.\n")
	return nil
}

// Register asks for account details and creates the account.
func (a *App) Register(ctx context.Context) error {
	f := form.New(validation.RegisterSchema, nil)
	if err := a.fill(f, registerPrompts, false); err != nil {
		return err
	}
	return a.submitRegister(ctx, f)
}

func (a *App) submitRegister(ctx context.Context, f *form.Form) error {
	err := a.submit(ctx, f, func(ctx context.Context, v validation.Record) error {
		_, err := a.auth.Register(ctx, models.RegisterInput{
			Name:     v[validation.FieldUsername],
			Email:    v[validation.FieldEmail],
			Password: v[validation.FieldPassword],
		})
		return err
	})
	if err != nil {
		return err
	}
	a.notify.Success(msgRegistered)
	return a.nav.Go(ctx, RouteLogin, 0)
}

// Login asks for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	f := form.New(validation.LoginSchema, nil)
	if err := a.fill(f, loginPrompts, false); err != nil {
		return err
	}
	return a.submitLogin(ctx, f)
}

// loginWith signs in with already collected values.
func (a *App) loginWith(ctx context.Context, rec validation.Record) error {
	return a.submitLogin(ctx, form.New(validation.LoginSchema, rec))
}

func (a *App) submitLogin(ctx context.Context, f *form.Form) error {
	var sess *session.Session
	err := a.submit(ctx, f, func(ctx context.Context, v validation.Record) error {
		s, err := a.auth.Login(ctx, v[validation.FieldEmail], v[validation.FieldPassword])
		sess = s
		return err
	})
	if err != nil {
		return err
	}
	a.notify.Success(fmt.Sprintf("Welcome back, %s!", sess.Username))
	return a.fail(ctx, a.nav.Go(ctx, RouteHome, 0))
}

// Logout ends the session on request.
func (a *App) Logout(ctx context.Context) error {
	a.userLogout.Store(true)
	defer a.userLogout.Store(false)

	if err := a.auth.Logout(ctx); err != nil {
		return a.fail(ctx, err)
	}
	a.notify.Success(msgLoggedOut)
	return a.nav.Go(ctx, RouteLogin, 0)
}

// Whoami prints the signed in user.
func (a *App) Whoami(ctx context.Context) error {
	cur := a.auth.Current()
	if !cur.Authenticated() {
		a.printf("Not logged in.\n")
		return nil
	}
	a.printf("Logged in as %s (user #%d)\n", cur.Username, cur.UserID)
	return nil
}
