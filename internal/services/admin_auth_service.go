package services

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/utils"
)

// AdminClaims is the token payload checked by the admin middleware.
type AdminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type AdminAuthConfig struct {
	Username     string
	PasswordHash string // bcrypt
	Secret       string
	TTL          time.Duration
}

type AdminToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AdminAuthService interface {
	Login(ctx context.Context, username, password string) (*AdminToken, error)
}

type adminAuthService struct {
	cfg AdminAuthConfig
	now func() time.Time
}

func NewAdminAuthService(cfg AdminAuthConfig) AdminAuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &adminAuthService{cfg: cfg, now: time.Now}
}

func (s *adminAuthService) Login(_ context.Context, username, password string) (*AdminToken, error) {
	const op = "AdminAuthService.Login"

	if s.cfg.Secret == "" || s.cfg.Username == "" || s.cfg.PasswordHash == "" {
		return nil, utils.E(utils.CodeUnavailable, op, "admin login is not configured", nil)
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "username and password are required", nil)
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passErr := utils.CheckPassword(s.cfg.PasswordHash, password)
	if !userOK || passErr != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", passErr)
	}

	now := s.now().UTC()
	exp := now.Add(s.cfg.TTL)
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: string(models.RoleAdmin),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return &AdminToken{Token: signed, ExpiresAt: exp}, nil
}
