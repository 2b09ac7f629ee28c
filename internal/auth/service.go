package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/taiwoajasa245/quran-reader/internal/quran"
	"github.com/taiwoajasa245/quran-reader/pkg/util"
)

type AuthService struct {
	repo   Repository
	secret string
}

func NewAuthService(repo Repository, secret string) AuthService {
	return AuthService{
		repo:   repo,
		secret: secret,
	}
}

func (h *AuthService) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, errors.New("invalid email and password")
	}

	hashed, err := util.HashPasswordBcrypt(password)
	if err != nil {
		return nil, err
	}

	_, err = h.repo.CreateUser(ctx, User{Email: email, Password: hashed, Reciter: quran.DefaultReciter})
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("create user failed")
		return nil, err
	}

	return h.Login(ctx, email, password)
}

func (h *AuthService) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := h.repo.GetUserByEmail(ctx, email)
	if err != nil {
		log.Debug().Err(err).Str("email", email).Msg("login lookup failed")
		return nil, ErrInvalidCredentials
	}

	if err := util.ComparePasswordBcrypt(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(h.secret, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	user.Token = token

	return user, nil
}

// Me returns the account behind a verified token.
func (h *AuthService) Me(ctx context.Context, userID int) (*User, error) {
	return h.repo.GetUserByID(ctx, userID)
}

func (h *AuthService) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	current, err := h.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.UserName == "" {
		req.UserName = current.UserName
	}
	if req.Reciter == "" {
		req.Reciter = current.Reciter
	}
	if !quran.ValidReciter(req.Reciter) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReciter, req.Reciter)
	}

	return h.repo.UpdateUserProfile(ctx, userID, req)
}
