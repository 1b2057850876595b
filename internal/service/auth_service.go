package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/internal/models"
	"github.com/dutyops/duty-roster-api/pkg/config"
	appErrors "github.com/dutyops/duty-roster-api/pkg/errors"
)

// UserStore is the account and audit persistence surface.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
	InsertAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, limit, offset int) ([]models.AuditLog, int, error)
}

// AuthService authenticates administrators and serves the audit trail.
type AuthService struct {
	users    UserStore
	validate *validator.Validate
	logger   *zap.Logger

	secret     []byte
	expiration time.Duration
}

// NewAuthService constructs the auth service.
func NewAuthService(users UserStore, cfg *config.Config, validate *validator.Validate, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		validate:   validate,
		logger:     logger,
		secret:     []byte(cfg.JWT.Secret),
		expiration: cfg.JWT.Expiration,
	}
}

// Login verifies credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login request")
	}
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, appErrors.ErrInactiveAccount
	}

	expiresAt := time.Now().Add(s.expiration)
	claims := models.JWTClaims{
		UserID:   user.ID,
		Role:     user.Role,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign token")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("update last login", zap.Error(err))
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      *user,
	}, nil
}

// ParseToken validates a signed token and returns its claims.
func (s *AuthService) ParseToken(token string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// AuditLogs pages through the audit trail, newest first.
func (s *AuthService) AuditLogs(ctx context.Context, page, pageSize int) (*dto.AuditLogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	entries, total, err := s.users.ListAuditLogs(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.AuditLogListResponse{Entries: entries, Total: total}, nil
}

// RecordAudit appends one entry to the audit trail.
func (s *AuthService) RecordAudit(ctx context.Context, entry *models.AuditLog) {
	if err := s.users.InsertAuditLog(ctx, entry); err != nil {
		s.logger.Warn("insert audit log", zap.Error(err))
	}
}
