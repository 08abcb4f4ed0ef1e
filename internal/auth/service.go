package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/classleaf/quizport/internal/quiz"
)

// Roles carried in tokens.
const (
	RoleIssuer = "issuer"
	RoleAdmin  = "admin"
)

const bcryptCost = 12

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues and parses the HMAC-signed tokens used by the issuer and
// admin surfaces. Respondent flows are anonymous and never touch this.
type Service struct {
	hmac     []byte
	tokenTTL time.Duration
	store    quiz.Store
}

func NewService(secret string, tokenTTL time.Duration, store quiz.Store) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &Service{hmac: []byte(secret), tokenTTL: tokenTTL, store: store}
}

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login resolves the single active issuer for the email and compares the
// bcrypt hash. Suspended issuers cannot log in; their quizzes stay readable
// through the public paths.
func (s *Service) Login(ctx context.Context, email, password string) (quiz.Issuer, string, error) {
	is, err := s.store.GetIssuerByCredential(ctx, email)
	if err != nil {
		if errors.Is(err, quiz.ErrIssuerNotFound) {
			return quiz.Issuer{}, "", ErrInvalidCredentials
		}
		return quiz.Issuer{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(is.PasswordHash), []byte(password)) != nil {
		return quiz.Issuer{}, "", ErrInvalidCredentials
	}
	tok, err := s.IssueToken(is.ID, RoleIssuer)
	if err != nil {
		return quiz.Issuer{}, "", err
	}
	return is, tok, nil
}

func (s *Service) IssueToken(sub, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quizport",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.hmac)
}

func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("bad token")
	}
	c, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("bad claims")
	}
	return c, nil
}

// HashPassword hashes an issuer credential for storage.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword compares a stored hash against a presented credential.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
