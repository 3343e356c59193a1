package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/weiawesome/foodgram/internal/audit"
	"github.com/weiawesome/foodgram/internal/domain"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/pkg/jwt"
	"github.com/weiawesome/foodgram/pkg/log"
	"github.com/weiawesome/foodgram/pkg/middleware"
)

// userServiceImpl implements UserService interface.
type userServiceImpl struct {
	repo       repository.UserRepository
	follows    repository.FollowRepository
	tokens     TokenIssuer
	bcryptCost int
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, follows repository.FollowRepository, tokens TokenIssuer, bcryptCost int) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userServiceImpl{
		repo:       repo,
		follows:    follows,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register registers a new user.
func (s *userServiceImpl) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hashedPassword),
		Roles:        []string{middleware.RoleUser},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailExists
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameExists
		}
		l.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Username, user.Roles)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to generate tokens after register")
		return nil, err
	}

	audit.Log(ctx, audit.ActionRegister, user.ID, "user registered")

	return authResponse(user, pair), nil
}

// Login authenticates a user.
func (s *userServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			audit.LogWithDetail(ctx, audit.ActionLoginFailed, "", req.Email, "login failed: user not found")
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.LogWithDetail(ctx, audit.ActionLoginFailed, user.ID, req.Email, "login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Username, user.Roles)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to generate tokens after login")
		return nil, err
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")

	return authResponse(user, pair), nil
}

// RefreshToken exchanges a refresh token for a new token pair.
func (s *userServiceImpl) RefreshToken(ctx context.Context, req *domain.RefreshTokenRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	pair, claims, err := s.tokens.RefreshTokens(req.RefreshToken)
	if err != nil {
		l.Warn().Err(err).Msg("failed to refresh token")
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		l.Error().Err(err).Str(log.FieldUserID, claims.UserID).Msg("failed to get user after refresh")
		return nil, err
	}

	audit.Log(ctx, audit.ActionRefreshToken, user.ID, "token refreshed")

	return authResponse(user, pair), nil
}

// Logout revokes every token issued to the user so far.
func (s *userServiceImpl) Logout(ctx context.Context, userID string) error {
	s.tokens.RevokeUserTokens(userID)
	audit.Log(ctx, audit.ActionLogout, userID, "user logged out")
	return nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, viewerID, userID string) (*domain.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	resp := user.ToResponse()
	if viewerID != "" && viewerID != user.ID {
		following, err := s.follows.BatchIsFollowing(ctx, viewerID, []string{user.ID})
		if err != nil {
			return nil, err
		}
		resp.IsSubscribed = following[user.ID]
	}
	return &resp, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context, viewerID string, offset, limit int) ([]domain.UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	following := map[string]bool{}
	if viewerID != "" && len(users) > 0 {
		ids := make([]string, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		following, err = s.follows.BatchIsFollowing(ctx, viewerID, ids)
		if err != nil {
			return nil, 0, err
		}
	}

	results := make([]domain.UserResponse, len(users))
	for i, u := range users {
		results[i] = u.ToResponse()
		results[i].IsSubscribed = following[u.ID]
	}
	return results, total, nil
}

// ChangePassword verifies the current password, stores the new one and
// revokes outstanding tokens.
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID string, req *domain.ChangePasswordRequest) error {
	l := log.Ctx(ctx)

	if err := validateStruct(req); err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to update password")
		return err
	}

	s.tokens.RevokeUserTokens(userID)
	audit.Log(ctx, audit.ActionChangePassword, userID, "password changed")
	return nil
}

func (s *userServiceImpl) GrantRole(ctx context.Context, email, role string) error {
	l := log.Ctx(ctx)

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	for _, r := range user.Roles {
		if r == role {
			return nil
		}
	}

	if err := s.repo.UpdateRoles(ctx, user.ID, append(user.Roles, role)); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to update roles")
		return err
	}

	audit.LogWithDetail(ctx, audit.ActionGrantRole, user.ID, role, "role granted")
	return nil
}

func authResponse(user *domain.User, pair *jwt.TokenPair) *domain.AuthResponse {
	return &domain.AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExpiresAt,
	}
}

var _ TokenIssuer = (*jwt.Manager)(nil)
