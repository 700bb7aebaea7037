package service

import (
	"context"
	"errors"

	"github.com/patric-chuzhbe/slidr/internal/models"
)

// Auth validates signups and logins against the user store.
// Passwords are stored and compared as plain strings and no session is issued:
// callers pass the returned user id on later requests.
type Auth struct {
	db userKeeper
}

func NewAuth(db userKeeper) *Auth {
	return &Auth{db: db}
}

// Signup registers a new user. It fails with models.ErrDuplicateEmail when
// the email is already taken.
func (s *Auth) Signup(ctx context.Context, request models.SignupRequest) (*models.User, error) {
	_, err := s.db.FindUserByEmail(ctx, request.Email)
	switch {
	case err == nil:
		return nil, models.ErrDuplicateEmail
	case !errors.Is(err, models.ErrUserNotFound):
		return nil, err
	}

	return s.db.SaveUser(ctx, &models.User{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     request.Email,
		Password:  request.Password,
	})
}

// Login returns the user whose email and password both match exactly,
// or models.ErrInvalidCredentials.
func (s *Auth) Login(ctx context.Context, email, password string) (*models.User, error) {
	usr, err := s.db.FindUserByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if usr.Password != password {
		return nil, models.ErrInvalidCredentials
	}

	return usr, nil
}
