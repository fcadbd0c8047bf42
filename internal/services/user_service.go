package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/gridtrade/exchange/internal/models"
	"github.com/gridtrade/exchange/internal/store"
	appErr "github.com/gridtrade/exchange/pkg/errors"
	"github.com/gridtrade/exchange/pkg/logger"
)

type UserService interface {
	// Login upserts the profile for email. A new user is stored as sent; for
	// an existing user the name is kept unless it was empty, and the role
	// follows the latest login.
	Login(ctx context.Context, email, role, name string) (*models.User, error)
}

type userService struct {
	store store.Store
}

func NewUserService(st store.Store) UserService {
	return &userService{store: st}
}

var _ UserService = (*userService)(nil)

func (s *userService) Login(ctx context.Context, email, role, name string) (*models.User, error) {
	if email == "" {
		return nil, appErr.New(appErr.CodeInvalid, "Email is required")
	}

	logger.L().Info("login attempt", zap.String("email", email))

	u, err := s.store.GetUser(ctx, email)
	switch {
	case appErr.IsCode(err, appErr.CodeNotFound):
		u = &models.User{Email: email, Role: role, Name: name}
	case err != nil:
		return nil, err
	default:
		if u.Name == "" {
			u.Name = name
		}
		u.Role = role
	}

	if err := s.store.PutUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
