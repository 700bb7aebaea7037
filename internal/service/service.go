// Package service implements the business operations behind the HTTP and
// gRPC transports: signup/login and project CRUD.
package service

import (
	"context"

	"github.com/patric-chuzhbe/slidr/internal/models"
)

type userKeeper interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)
	SaveUser(ctx context.Context, usr *models.User) (*models.User, error)
}

type projectKeeper interface {
	FindProjectByID(ctx context.Context, projectID int64) (*models.Project, error)
	FindProjectsByUser(ctx context.Context, userID int64) ([]models.Project, error)
	SaveProject(ctx context.Context, project *models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, project *models.Project) error
}

type counter interface {
	CountUsers(ctx context.Context) (int64, error)
	CountProjects(ctx context.Context) (int64, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type internalStorage interface {
	counter
	pinger
}

type projectStorage interface {
	userKeeper
	projectKeeper
}

// Internal serves the operational endpoints: storage health and counters.
type Internal struct {
	db internalStorage
}

func NewInternal(db internalStorage) *Internal {
	return &Internal{db: db}
}

// Ping checks the health of the database/storage layer.
func (s *Internal) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// GetInternalStats returns the number of users and projects.
func (s *Internal) GetInternalStats(ctx context.Context) (models.InternalStatsResponse, error) {
	users, err := s.db.CountUsers(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	projects, err := s.db.CountProjects(ctx)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	return models.InternalStatsResponse{
		Users:    users,
		Projects: projects,
	}, nil
}
