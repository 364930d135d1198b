package cli

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/client"
	"storefront/internal/client/session"
	"storefront/internal/model"
	"storefront/internal/validation"
)

// Register runs the signup form. Like the web flow, it does not log in.
func (a *App) Register(ctx context.Context, name, phone string) error {
	sess, err := a.loadSession()
	if err != nil {
		return err
	}
	if sess != nil && sess.Token != "" {
		a.printf("Already logged in as %s. Logout first to create another account.\n", sess.User.Name)
		return nil
	}

	var req model.RegisterRequest
	if req.Name, err = a.promptValue(name, "Full name"); err != nil {
		return err
	}
	if req.Phone, err = a.promptValue(phone, "Phone number"); err != nil {
		return err
	}
	if req.Password, err = a.password("Password"); err != nil {
		return err
	}
	if req.ConfirmPassword, err = a.password("Confirm password"); err != nil {
		return err
	}

	if msg, fields := validation.Struct(req); !fields.Empty() {
		return &fieldError{summary: msg, fields: fields}
	}

	api := a.api("")
	defer api.Close()
	if _, err := api.Register(ctx, req); err != nil {
		return describe(err)
	}

	a.println("Registration successful! Please login to continue...")
	return nil
}

// Login authenticates and stores the session.
func (a *App) Login(ctx context.Context, phone string) error {
	sess, err := a.loadSession()
	if err != nil {
		return err
	}
	if sess != nil && sess.Token != "" {
		a.printf("Already logged in as %s.\n", sess.User.Name)
		return nil
	}

	var req model.LoginRequest
	if req.Phone, err = a.promptValue(phone, "Phone number"); err != nil {
		return err
	}
	if req.Password, err = a.password("Password"); err != nil {
		return err
	}

	if msg, fields := validation.Struct(req); !fields.Empty() {
		return &fieldError{summary: msg, fields: fields}
	}
	if !validation.IsPhone(req.Phone) {
		return &fieldError{
			summary: "Please enter a valid 10-digit phone number",
			fields:  validation.Violations{"phone": "Please enter a valid 10-digit phone number"},
		}
	}

	api := a.api("")
	defer api.Close()
	auth, err := api.Login(ctx, req.Phone, req.Password)
	if err != nil {
		return describe(err)
	}

	if err := a.sessions.Save(&session.Session{Token: auth.Token, User: auth.UserResponse}); err != nil {
		return err
	}
	a.printf("Login successful! Welcome, %s.\n", auth.Name)
	return nil
}

// Logout notifies the server, then forgets the session whatever the
// server said.
func (a *App) Logout(ctx context.Context) error {
	sess, err := a.loadSession()
	if err != nil {
		return err
	}
	if sess != nil && sess.Token != "" {
		api := a.api(sess.Token)
		if err := api.Logout(ctx); err != nil {
			a.printf("Warning: server logout failed: %v\n", describe(err))
		}
		api.Close()
	}
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	a.println("Logged out successfully!")
	return nil
}

// Home is the protected landing view, rendered from the stored snapshot.
func (a *App) Home() error {
	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	a.println("Welcome to Home Page")
	a.println("This is a protected route. You can only see this if you're logged in.")
	a.println()
	a.println("Your Profile")
	a.printf("  Name:  %s\n", orNA(sess.User.Name))
	a.printf("  Phone: %s\n", orNA(sess.User.Phone))
	return nil
}

// Profile asks the server who the token belongs to and refreshes the
// snapshot. A rejected token ends the local session.
func (a *App) Profile(ctx context.Context) error {
	sess, err := a.requireSession()
	if err != nil {
		return err
	}

	api := a.api(sess.Token)
	defer api.Close()
	user, err := api.Profile(ctx)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			_ = a.sessions.Clear()
			return &userError{msg: msgSessionExpired, err: errSessionExpired}
		}
		return describe(err)
	}

	sess.User = *user
	if err := a.sessions.Save(sess); err != nil {
		return err
	}
	a.printf("ID:    %s\nName:  %s\nPhone: %s\n", user.ID, user.Name, user.Phone)
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
