package operators

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/devfolio/devfolio/internal/config"
	"github.com/devfolio/devfolio/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotOperator        = errors.New("identity is not a registered operator")
)

// Service encapsulates operator-related business logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: time.Now}
}

// HashPassword returns the bcrypt hash stored for an operator.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EnsureBootstrap creates or refreshes the configured admin account.
func (s *Service) EnsureBootstrap(ctx context.Context, admin config.AdminConfig) (*Operator, error) {
	email := normalize(admin.Email)
	if email == "" {
		return nil, nil
	}
	hash := admin.PasswordHash
	if hash == "" && admin.Password != "" {
		h, err := HashPassword(admin.Password)
		if err != nil {
			return nil, err
		}
		hash = h
		logger.Warn("ADMIN_PASSWORD is set in plain text; prefer ADMIN_PASSWORD_HASH")
	}
	return s.repo.UpsertByEmail(ctx, &Operator{Email: email, Name: admin.Name, PasswordHash: hash})
}

// Authenticate checks email and password and records the login.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Operator, error) {
	op, err := s.repo.GetByEmail(ctx, normalize(email))
	if err != nil {
		return nil, err
	}
	if op == nil || op.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.repo.UpsertByEmail(ctx, &Operator{Email: op.Email, LastLoginAt: s.now().UTC()})
}

// UpsertFromClaims maps verified OIDC claims onto an existing operator.
// Identities whose email is not an operator are refused; missing sub yields nil.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*Operator, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, nil
	}
	existing, err := s.repo.GetByEmail(ctx, normalize(email))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotOperator
	}
	return s.repo.UpsertByEmail(ctx, &Operator{
		Email:       existing.Email,
		Sub:         sub,
		Name:        name,
		LastLoginAt: s.now().UTC(),
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (*Operator, error) {
	return s.repo.GetByID(ctx, id)
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
