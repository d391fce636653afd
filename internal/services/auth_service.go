package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ruolez/inventory-update/internal/connectors"
	"github.com/ruolez/inventory-update/internal/models"
	"github.com/ruolez/inventory-update/internal/repositories"
	"github.com/ruolez/inventory-update/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors ---
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserNotActivated = errors.New("user account is not activated")
	ErrSessionNotFound  = errors.New("session not found or expired")
)

// sessionTTL is how long a login session stays valid after issuance.
const sessionTTL = 24 * time.Hour

// --- DTOs ---

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// LoginResult DTO
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(ctx context.Context, username string) (*LoginResult, error)
	Logout(token string) error
	GetSession(token string) (*models.Session, error)
	SweepExpiredSessions() (int64, error)
}

// --- authService Implementation ---
type authService struct {
	sessionRepo       repositories.SessionRepository
	adminCfgRepo      repositories.AdminConfigRepository
	newAdminConnector AdminConnectorFactory
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(sessionRepo repositories.SessionRepository, adminCfgRepo repositories.AdminConfigRepository, adminFactory AdminConnectorFactory) AuthService {
	return &authService{
		sessionRepo:       sessionRepo,
		adminCfgRepo:      adminCfgRepo,
		newAdminConnector: adminFactory,
	}
}

// Login authenticates a username against the admin database and issues an
// opaque session token. An account is rejected only when its activated flag
// is explicitly false; an absent flag means active.
func (s *authService) Login(ctx context.Context, username string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	cfg, err := s.adminCfgRepo.GetAdminDBConfig()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminDBNotConfigured
		}
		return nil, fmt.Errorf("failed to load admin DB config: %w", err)
	}

	user, err := s.newAdminConnector(cfg).AuthenticateUser(ctx, username)
	if err != nil {
		if errors.Is(err, connectors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if user.Activated != nil && !*user.Activated {
		return nil, ErrUserNotActivated
	}

	fullName := user.Username
	if user.FullName != nil && *user.FullName != "" {
		fullName = *user.FullName
	}

	// Opportunistic sweep; login traffic is the natural heartbeat for it.
	if swept, err := s.sessionRepo.DeleteExpiredSessions(); err != nil {
		utils.LogError(err, "Login: expired session sweep failed")
	} else if swept > 0 {
		utils.LogDebug("Expired sessions purged", map[string]interface{}{"count": swept})
	}

	token := uuid.NewString()
	if err := s.sessionRepo.CreateSession(token, user.Username, fullName, time.Now().Add(sessionTTL)); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &LoginResult{Token: token, Username: user.Username, FullName: fullName}, nil
}

// Logout ends the session for the given token. Unknown tokens are a no-op.
func (s *authService) Logout(token string) error {
	if err := s.sessionRepo.DeleteSession(token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetSession resolves a session token to its live session.
func (s *authService) GetSession(token string) (*models.Session, error) {
	session, err := s.sessionRepo.GetSessionByToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// SweepExpiredSessions purges sessions past their expiry.
func (s *authService) SweepExpiredSessions() (int64, error) {
	return s.sessionRepo.DeleteExpiredSessions()
}
