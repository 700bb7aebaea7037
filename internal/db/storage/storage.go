// Package storage declares the persistence contract every backend
// (postgresdb, jsondb, memorystorage) fulfils.
package storage

import (
	"context"

	"github.com/patric-chuzhbe/slidr/internal/models"
)

// UserStore persists users. Lookups return models.ErrUserNotFound when
// nothing matches; SaveUser fails with models.ErrDuplicateEmail rather than
// overwriting another user's record.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	FindUserByID(ctx context.Context, userID int64) (*models.User, error)

	// SaveUser inserts the user when ID is zero and updates it otherwise.
	SaveUser(ctx context.Context, usr *models.User) (*models.User, error)

	// DeleteUser removes the user together with the projects it owns.
	DeleteUser(ctx context.Context, usr *models.User) error
}

// ProjectStore persists projects. FindProjectByID returns
// models.ErrProjectNotFound when nothing matches.
type ProjectStore interface {
	FindProjectByID(ctx context.Context, projectID int64) (*models.Project, error)

	FindProjectsByUser(ctx context.Context, userID int64) ([]models.Project, error)

	// SaveProject inserts the project when ID is zero and updates title and
	// content otherwise. The owner is never reassigned.
	SaveProject(ctx context.Context, project *models.Project) (*models.Project, error)

	DeleteProject(ctx context.Context, project *models.Project) error
}

type Counter interface {
	CountUsers(ctx context.Context) (int64, error)

	CountProjects(ctx context.Context) (int64, error)
}

type Storage interface {
	UserStore
	ProjectStore
	Counter

	Ping(ctx context.Context) error

	Close() error
}
