package profile

import (
	"context"
	"testing"

	"outfit-planner/internal/backend"
)

type fakeAuthAPI struct {
	logins  []backend.Credentials
	signups []backend.Credentials
	profile backend.Profile
	updates []backend.Profile
}

func (f *fakeAuthAPI) Login(ctx context.Context, creds backend.Credentials) error {
	f.logins = append(f.logins, creds)
	return nil
}

func (f *fakeAuthAPI) Signup(ctx context.Context, creds backend.Credentials) error {
	f.signups = append(f.signups, creds)
	return nil
}

func (f *fakeAuthAPI) FetchProfile(ctx context.Context) (backend.Profile, error) {
	return f.profile, nil
}

func (f *fakeAuthAPI) UpdateProfile(ctx context.Context, p backend.Profile) error {
	f.updates = append(f.updates, p)
	return nil
}

func TestLogin(t *testing.T) {
	api := &fakeAuthAPI{}
	s := NewService(api)

	if err := s.Login(context.Background(), " user@example.com ", "hunter22"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if len(api.logins) != 1 || api.logins[0].Email != "user@example.com" {
		t.Errorf("Expected trimmed credentials, got %+v", api.logins)
	}

	for _, bad := range []string{"", "nodomain", "two@@ats.com", "trailing@dot."} {
		if err := s.Login(context.Background(), bad, "hunter22"); err == nil {
			t.Errorf("Expected email %q to be rejected", bad)
		}
	}
	if err := s.Login(context.Background(), "user@example.com", ""); err == nil {
		t.Error("Expected an empty password to be rejected")
	}
}

func TestSignup(t *testing.T) {
	api := &fakeAuthAPI{}
	s := NewService(api)

	if err := s.Signup(context.Background(), "Ada", "ada@example.com", "longenough"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if len(api.signups) != 1 || api.signups[0].Name != "Ada" {
		t.Errorf("Expected one signup, got %+v", api.signups)
	}

	if err := s.Signup(context.Background(), "", "ada@example.com", "longenough"); err == nil {
		t.Error("Expected a missing name to be rejected")
	}
	if err := s.Signup(context.Background(), "Ada", "ada@example.com", "short"); err == nil {
		t.Error("Expected a short password to be rejected")
	}
}

func TestUpdate(t *testing.T) {
	api := &fakeAuthAPI{}
	s := NewService(api)

	if err := s.Update(context.Background(), backend.Profile{Name: " Ada ", Email: "ada@example.com"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(api.updates) != 1 || api.updates[0].Name != "Ada" {
		t.Errorf("Expected trimmed update, got %+v", api.updates)
	}

	if err := s.Update(context.Background(), backend.Profile{Name: "Ada", Email: "bad"}); err == nil {
		t.Error("Expected an invalid email to be rejected")
	}
}
