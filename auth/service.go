package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken signals a missing, malformed, expired, or forged token.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrPasswordImmutable signals a password change attempted through the
	// profile path instead of the dedicated password endpoint.
	ErrPasswordImmutable = errors.New("auth: password cannot be updated here")
	// ErrInvalidUserData signals registration input missing required fields.
	ErrInvalidUserData = errors.New("auth: name, email and password are required")
)

// DefaultTokenTTL is the session validity window used when no TTL is configured.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Service handles credential and session business logic.
type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// SessionResult bundles the account and a freshly issued token.
type SessionResult struct {
	Token   string
	Account Account
}

// NewService creates a new authentication service.
func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates a new account with the default user role and opens a session.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (SessionResult, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Name) == "" || req.Password == "" {
		return SessionResult{}, ErrInvalidUserData
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return SessionResult{}, fmt.Errorf("auth: hash password: %w", err)
	}

	account, err := s.repo.CreateAccount(ctx, CreateAccountParams{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: string(passwordHash),
		Role:         RoleUser,
	})
	if err != nil {
		return SessionResult{}, err
	}

	token, err := s.generateToken(account.ID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return SessionResult{Token: token, Account: account}, nil
}

// Login authenticates an account and opens a session.
func (s *Service) Login(ctx context.Context, req LoginRequest) (SessionResult, error) {
	account, err := s.repo.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return SessionResult{}, ErrInvalidCredentials
		}
		return SessionResult{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password))
	if err != nil {
		return SessionResult{}, ErrInvalidCredentials
	}

	token, err := s.generateToken(account.ID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return SessionResult{Token: token, Account: account}, nil
}

// ResolveIdentity is the authorization gate for protected operations: it
// verifies the token and loads the referenced account. A token whose account
// row has since vanished is treated the same as a forged one.
func (s *Service) ResolveIdentity(ctx context.Context, tokenString string) (Account, error) {
	accountID, err := s.verifyToken(tokenString)
	if err != nil {
		return Account{}, err
	}

	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Account{}, ErrInvalidToken
		}
		return Account{}, err
	}

	return account, nil
}

// UpdateProfile applies the supplied profile fields and reissues the session
// token. Password changes through this path are rejected outright.
func (s *Service) UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (SessionResult, error) {
	if update.Password != nil {
		return SessionResult{}, ErrPasswordImmutable
	}

	account, err := s.repo.UpdateAccount(ctx, accountID, UpdateAccountParams{
		Name:        update.Name,
		Email:       update.Email,
		PhoneNumber: update.PhoneNumber,
		Location:    update.Location,
	})
	if err != nil {
		return SessionResult{}, err
	}

	// Token is reissued on every successful profile update, identity change or not.
	token, err := s.generateToken(account.ID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return SessionResult{Token: token, Account: account}, nil
}

// ChangePassword replaces the stored hash after verifying the current password.
func (s *Service) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	return s.repo.UpdatePasswordHash(ctx, accountID, string(newHash))
}

// generateToken creates a signed JWT bound to the account ID.
func (s *Service) generateToken(accountID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": accountID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// verifyToken validates the signature and expiry and extracts the account ID.
func (s *Service) verifyToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	accountID, ok := claims["user_id"].(string)
	if !ok || accountID == "" {
		return "", fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	return accountID, nil
}
