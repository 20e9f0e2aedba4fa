package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/pkg/validator"
	"projecthub/internal/platform/auth"
	"projecthub/internal/platform/database"
	"projecthub/internal/platform/metrics"
	"projecthub/internal/platform/models"
	"projecthub/internal/platform/repositories"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=150,excludesall= "`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is the token pair handed back after login or refresh.
type Session struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type Service struct {
	users    *repositories.UserRepository
	tokenSvc *auth.TokenService
}

func NewService(users *repositories.UserRepository, tokenSvc *auth.TokenService) *Service {
	return &Service{users: users, tokenSvc: tokenSvc}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = validator.NormalizeEmail(in.Email)

	if err := validator.Struct(in); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("Username already exists")
	}

	existing, err = s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("Email already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:           "usr_" + uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same name
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("Username or email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login checks the password and issues a session. Unknown users, wrong passwords and
// disabled accounts all fail with the same message.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validator.Struct(in); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.IsActive || !auth.CheckPassword(user.PasswordHash, in.Password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.InvalidCredentials()
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return s.issue(user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	userID, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.InvalidCredentials()
	}

	return s.issue(user)
}

// Me returns the stored account behind an authenticated identity.
func (s *Service) Me(ctx context.Context, actor auth.Identity) (*models.User, error) {
	if !actor.IsAuthenticated() {
		return nil, apperrors.Unauthenticated()
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, apperrors.Unauthenticated()
	}
	return user, nil
}

func (s *Service) issue(user *models.User) (*Session, error) {
	access, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokenSvc.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
