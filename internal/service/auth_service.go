package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nlcorner/admin-api/internal/models"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

type accountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
}

type adminMembership interface {
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
}

// AuthConfig defines configuration for session issuance and validation.
type AuthConfig struct {
	Secret      string
	TokenExpiry time.Duration
	Issuer      string
}

// LoginRequest is the credential payload for the local login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued session token and an admin pre-check.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	IsAdmin   bool      `json:"isAdmin"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// AuthService resolves session tokens to identities and gates admin access.
// Results are memoised in an injected SessionCache; a cache miss costs
// exactly two backend lookups (identity, then admin membership).
type AuthService struct {
	accounts  accountRepository
	admins    adminMembership
	cache     *SessionCache
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(accounts accountRepository, admins adminMembership, cache *SessionCache, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cache == nil {
		cache = NewSessionCache(0)
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 15 * time.Minute
	}
	return &AuthService{accounts: accounts, admins: admins, cache: cache, validator: validate, logger: logger, config: config}
}

// Login verifies credentials and issues a session token. The admin
// membership pre-check is informational; non-admins still get a session and
// the dashboard redirects them.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	isAdmin, err := s.admins.ExistsByUserID(ctx, account.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin membership")
	}

	token, issuedAt, err := s.issueToken(account)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.TokenExpiry.Seconds()),
		IsAdmin:   isAdmin,
		UserID:    account.ID,
		Email:     account.Email,
		IssuedAt:  issuedAt,
	}, nil
}

// Authorize resolves the session token and requires admin membership.
// Absent or invalid tokens yield ErrUnauthorized; a valid session without
// membership yields ErrForbidden.
func (s *AuthService) Authorize(ctx context.Context, token string) (*models.AuthContext, error) {
	auth, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !auth.IsAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not an admin")
	}
	return auth, nil
}

// SessionUser resolves the session token without requiring membership.
// Used by the identity probe, which reports isAdmin instead of failing.
func (s *AuthService) SessionUser(ctx context.Context, token string) (*models.AuthContext, error) {
	return s.resolve(ctx, token)
}

// InvalidateCache drops all memoised authorization results. Admin-set
// mutations call this so membership changes do not wait out the TTL.
func (s *AuthService) InvalidateCache() {
	s.cache.Reset()
}

func (s *AuthService) resolve(ctx context.Context, token string) (*models.AuthContext, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "no session found")
	}

	if cached, ok := s.cache.Get(token); ok {
		return &cached, nil
	}

	claims, err := s.parseToken(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	account, err := s.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "failed to load account")
	}

	isAdmin, err := s.admins.ExistsByUserID(ctx, account.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "failed to check admin membership")
	}

	auth := models.AuthContext{Account: *account, IsAdmin: isAdmin}
	s.cache.Set(token, auth)

	return &auth, nil
}

func (s *AuthService) parseToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) issueToken(account *models.Account) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.SessionClaims{
		Email: account.Email,
		Name:  account.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
