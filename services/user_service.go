package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"streakTrackerAPI/internal/auth"
	"streakTrackerAPI/internal/store"
	"streakTrackerAPI/internal/user"
)

var (
	ErrUserExists              = errors.New("user already exists")
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidPassword         = errors.New("invalid password")
	ErrCurrentPasswordRequired = errors.New("current password is required to update password")
	ErrCurrentPasswordWrong    = errors.New("current password is incorrect")
	ErrEmailInUse              = errors.New("email already in use")
)

type UserService struct {
	store  store.UserStore
	tokens *auth.TokenIssuer
	now    func() time.Time
}

func NewUserService(s store.UserStore, tokens *auth.TokenIssuer) *UserService {
	return &UserService{store: s, tokens: tokens, now: time.Now}
}

func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &user.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("User registered")
	return u, nil
}

func (s *UserService) Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error) {
	u, err := s.store.GetUserByEmail(ctx, user.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidPassword
		}
		return nil, err
	}

	return s.authResponse(u)
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes name, email and password. A new password requires the
// current one. The response carries a freshly issued token.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *user.UpdateProfileRequest) (*user.AuthResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if err := auth.CheckPassword(u.PasswordHash, req.CurrentPassword); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return nil, ErrCurrentPasswordWrong
			}
			return nil, err
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	u.UpdatedAt = s.now()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			return nil, ErrEmailInUse
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.authResponse(u)
}

func (s *UserService) authResponse(u *user.User) (*user.AuthResponse, error) {
	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &user.AuthResponse{Token: token, User: u.Public()}, nil
}
