// Package profile backs the auth and profile forms. Sessions are
// backend-owned; this layer only validates inputs and reports outcomes.
package profile

import (
	"context"
	"fmt"
	"strings"

	"outfit-planner/internal/backend"
)

const minPasswordLen = 8

// API is the backend slice the auth and profile forms use.
type API interface {
	Login(ctx context.Context, creds backend.Credentials) error
	Signup(ctx context.Context, creds backend.Credentials) error
	FetchProfile(ctx context.Context) (backend.Profile, error)
	UpdateProfile(ctx context.Context, p backend.Profile) error
}

// Service is the auth and profile controller.
type Service struct {
	api API
}

// NewService creates a profile service.
func NewService(api API) *Service {
	return &Service{api: api}
}

// Login validates and submits credentials.
func (s *Service) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return fmt.Errorf("enter a valid email address")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	return s.api.Login(ctx, backend.Credentials{Email: email, Password: password})
}

// Signup validates and registers a new account.
func (s *Service) Signup(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return fmt.Errorf("enter a valid email address")
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return s.api.Signup(ctx, backend.Credentials{Name: name, Email: email, Password: password})
}

// Current loads the signed-in user's profile.
func (s *Service) Current(ctx context.Context) (backend.Profile, error) {
	return s.api.FetchProfile(ctx)
}

// Update validates and saves profile changes.
func (s *Service) Update(ctx context.Context, p backend.Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	p.Email = strings.TrimSpace(p.Email)
	if !validEmail(p.Email) {
		return fmt.Errorf("enter a valid email address")
	}
	return s.api.UpdateProfile(ctx, p)
}

// validEmail is a sanity check, not full address validation; the backend
// has the final say.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
