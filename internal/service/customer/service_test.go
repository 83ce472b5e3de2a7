package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"weetzen-shop/internal/domain"
	profilerepo "weetzen-shop/internal/repository/profile"
	"github.com/golang-jwt/jwt/v5"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User), nextID: 1}
}

func (s *stubUserRepo) Create(_ context.Context, email, passwordHash string) (*domain.User, error) {
	if _, ok := s.byEmail[email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	u := &domain.User{ID: "user-" + email, Email: email, PasswordHash: passwordHash}
	s.byEmail[email] = u
	return u, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubProfileRepo struct {
	ensured   map[string]string
	lastPatch profilerepo.PatchInput
	patchUser string
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{ensured: make(map[string]string)}
}

func (s *stubProfileRepo) Ensure(_ context.Context, userID, email string) (*domain.Profile, error) {
	s.ensured[userID] = email
	return &domain.Profile{ID: userID, Email: email}, nil
}

func (s *stubProfileRepo) Get(_ context.Context, userID string) (*domain.Profile, error) {
	if email, ok := s.ensured[userID]; ok {
		return &domain.Profile{ID: userID, Email: email}, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubProfileRepo) Update(_ context.Context, userID string, in profilerepo.UpdateInput) (*domain.Profile, error) {
	return &domain.Profile{ID: userID, FullName: in.FullName, Email: in.Email, Phone: in.Phone, Address: in.Address}, nil
}

func (s *stubProfileRepo) Patch(_ context.Context, userID string, in profilerepo.PatchInput) error {
	s.patchUser = userID
	s.lastPatch = in
	return nil
}

func (s *stubProfileRepo) SetAdmin(context.Context, string, bool) error { return nil }

const testSecret = "test-secret"

func newTestService(users *stubUserRepo, profiles *stubProfileRepo) *Service {
	return New(users, profiles, testSecret, time.Hour)
}

func tokenUserID(t *testing.T, token string) string {
	t.Helper()
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", tok.Method)
		}
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	id, _ := claims["userId"].(string)
	return id
}

func TestSignupIssuesToken(t *testing.T) {
	users := newStubUserRepo()
	profiles := newStubProfileRepo()
	svc := newTestService(users, profiles)

	u, token, err := svc.Signup(context.Background(), " Max@Example.DE ", "jagdrevier1", "Max Jäger")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.Email != "max@example.de" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if got := tokenUserID(t, token); got != u.ID {
		t.Fatalf("expected token for %q, got %q", u.ID, got)
	}
	if profiles.ensured[u.ID] != u.Email {
		t.Fatal("expected profile row ensured on signup")
	}
	if profiles.patchUser != u.ID || profiles.lastPatch.FullName != "Max Jäger" {
		t.Fatalf("expected full name patched, got %+v for %q", profiles.lastPatch, profiles.patchUser)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(newStubUserRepo(), newStubProfileRepo())

	if _, _, err := svc.Signup(context.Background(), "not-an-email", "jagdrevier1", ""); err == nil {
		t.Fatal("expected error for invalid email")
	}
	if _, _, err := svc.Signup(context.Background(), "max@example.de", "kurz", ""); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService(newStubUserRepo(), newStubProfileRepo())

	if _, _, err := svc.Signup(context.Background(), "max@example.de", "jagdrevier1", ""); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	if _, _, err := svc.Signup(context.Background(), "max@example.de", "jagdrevier1", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(newStubUserRepo(), newStubProfileRepo())

	created, _, err := svc.Signup(context.Background(), "max@example.de", "jagdrevier1", "")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	u, token, err := svc.Login(context.Background(), "Max@Example.de", "jagdrevier1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != created.ID {
		t.Fatalf("expected user %q, got %q", created.ID, u.ID)
	}
	if got := tokenUserID(t, token); got != u.ID {
		t.Fatalf("expected token for %q, got %q", u.ID, got)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(newStubUserRepo(), newStubProfileRepo())

	if _, _, err := svc.Signup(context.Background(), "max@example.de", "jagdrevier1", ""); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "max@example.de", "falsch123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "unbekannt@example.de", "jagdrevier1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestProfileEnsuresRow(t *testing.T) {
	users := newStubUserRepo()
	profiles := newStubProfileRepo()
	svc := newTestService(users, profiles)

	u, _, err := svc.Signup(context.Background(), "max@example.de", "jagdrevier1", "")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	p, err := svc.Profile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.ID != u.ID || p.Email != u.Email {
		t.Fatalf("unexpected profile %+v", p)
	}
}
