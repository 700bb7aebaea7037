// Package mockstorage provides a testify-based mock implementation
// of the storage interfaces used by the service and router packages.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/slidr/internal/models"
)

// StorageMock is a testify mock that implements storage.Storage.
//
// Use it in service and router tests to simulate database behavior,
// including driver faults that the in-memory backends never produce.
type StorageMock struct {
	mock.Mock
}

// Ping mocks the storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks closing the storage and releasing resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *StorageMock) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	usr, _ := args.Get(0).(*models.User)
	return usr, args.Error(1)
}

func (m *StorageMock) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	usr, _ := args.Get(0).(*models.User)
	return usr, args.Error(1)
}

func (m *StorageMock) SaveUser(ctx context.Context, usr *models.User) (*models.User, error) {
	args := m.Called(ctx, usr)
	saved, _ := args.Get(0).(*models.User)
	return saved, args.Error(1)
}

func (m *StorageMock) DeleteUser(ctx context.Context, usr *models.User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

func (m *StorageMock) FindProjectByID(ctx context.Context, projectID int64) (*models.Project, error) {
	args := m.Called(ctx, projectID)
	project, _ := args.Get(0).(*models.Project)
	return project, args.Error(1)
}

func (m *StorageMock) FindProjectsByUser(ctx context.Context, userID int64) ([]models.Project, error) {
	args := m.Called(ctx, userID)
	projects, _ := args.Get(0).([]models.Project)
	return projects, args.Error(1)
}

func (m *StorageMock) SaveProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	args := m.Called(ctx, project)
	saved, _ := args.Get(0).(*models.Project)
	return saved, args.Error(1)
}

func (m *StorageMock) DeleteProject(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *StorageMock) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StorageMock) CountProjects(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
