package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"weetzen-shop/internal/domain"
	profilerepo "weetzen-shop/internal/repository/profile"
	userrepo "weetzen-shop/internal/repository/user"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when the signup email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// Service handles signup/login and profile access.
type Service struct {
	users       userrepo.Repository
	profiles    profilerepo.Repository
	jwtSecret   []byte
	accessTTL   time.Duration
	passwordMin int
}

func New(users userrepo.Repository, profiles profilerepo.Repository, jwtSecret string, accessTTL time.Duration) *Service {
	return &Service{
		users:       users,
		profiles:    profiles,
		jwtSecret:   []byte(jwtSecret),
		accessTTL:   accessTTL,
		passwordMin: 8,
	}
}

// Signup registers a new user, lazily creating the profile row, and returns
// the user plus a signed access token.
func (s *Service) Signup(ctx context.Context, email, password, fullName string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", errors.New("email required")
	}
	password = strings.TrimSpace(password)
	if len(password) < s.passwordMin {
		return nil, "", fmt.Errorf("password must be at least %d characters", s.passwordMin)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u, err := s.users.Create(ctx, email, string(hashed))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	if _, err := s.profiles.Ensure(ctx, u.ID, u.Email); err == nil && strings.TrimSpace(fullName) != "" {
		_ = s.profiles.Patch(ctx, u.ID, profilerepo.PatchInput{FullName: strings.TrimSpace(fullName)})
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login validates credentials and returns the user plus a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Profile returns the user's profile, creating the row on first access.
func (s *Service) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profiles.Ensure(ctx, u.ID, u.Email)
}

// UpdateProfile overwrites the self-service profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in profilerepo.UpdateInput) (*domain.Profile, error) {
	if _, err := s.Profile(ctx, userID); err != nil {
		return nil, err
	}
	return s.profiles.Update(ctx, userID, in)
}

func (s *Service) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
