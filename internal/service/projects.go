package service

import (
	"context"

	"github.com/patric-chuzhbe/slidr/internal/models"
)

// Projects performs project CRUD. No operation checks that the caller owns
// the project it touches.
type Projects struct {
	db projectStorage
}

func NewProjects(db projectStorage) *Projects {
	return &Projects{db: db}
}

// ListByUser returns every project owned by the user, or models.ErrUserNotFound.
func (s *Projects) ListByUser(ctx context.Context, userID int64) ([]models.Project, error) {
	if _, err := s.db.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.db.FindProjectsByUser(ctx, userID)
}

func (s *Projects) GetByID(ctx context.Context, projectID int64) (*models.Project, error) {
	return s.db.FindProjectByID(ctx, projectID)
}

// Create stores a new project owned by userID. Nothing is written when the
// user does not exist.
func (s *Projects) Create(ctx context.Context, userID int64, title, content string) (*models.Project, error) {
	owner, err := s.db.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	owner.Password = ""

	return s.db.SaveProject(ctx, &models.Project{
		Title:   title,
		Content: content,
		User:    owner,
	})
}

// Update overwrites only the fields present in the update.
func (s *Projects) Update(ctx context.Context, projectID int64, update models.ProjectUpdate) (*models.Project, error) {
	project, err := s.db.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	update.Apply(project)

	return s.db.SaveProject(ctx, project)
}

func (s *Projects) Delete(ctx context.Context, projectID int64) error {
	project, err := s.db.FindProjectByID(ctx, projectID)
	if err != nil {
		return err
	}

	return s.db.DeleteProject(ctx, project)
}
