package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/patric-chuzhbe/slidr/internal/logger"
	"github.com/patric-chuzhbe/slidr/internal/models"
)

type authService interface {
	Signup(ctx context.Context, request models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type projectService interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Project, error)
	GetByID(ctx context.Context, projectID int64) (*models.Project, error)
	Create(ctx context.Context, userID int64, title, content string) (*models.Project, error)
	Update(ctx context.Context, projectID int64, update models.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, projectID int64) error
}

// SlidrHandler serves slidr.Slidr on top of the same services as the HTTP API.
type SlidrHandler struct {
	auth     authService
	projects projectService
	validate *validator.Validate
}

func NewSlidrHandler(auth authService, projects projectService) *SlidrHandler {
	return &SlidrHandler{
		auth:     auth,
		projects: projects,
		validate: validator.New(),
	}
}

func (h *SlidrHandler) Signup(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	request := models.SignupRequest{
		FirstName: stringField(in, "firstName"),
		LastName:  stringField(in, "lastName"),
		Email:     stringField(in, "email"),
		Password:  stringField(in, "password"),
	}
	if err := h.validate.Struct(request); err != nil {
		logger.Log.Debugln("Error calling the `h.validate.Struct()`: ", zap.Error(err))
		return nil, status.Error(codes.InvalidArgument, "firstName, lastName, email and password are required")
	}

	usr, err := h.auth.Signup(ctx, request)
	if err != nil {
		return nil, toStatus(err, "h.auth.Signup()")
	}

	return authStruct(usr, "Signup successful!")
}

func (h *SlidrHandler) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	usr, err := h.auth.Login(ctx, stringField(in, "email"), stringField(in, "password"))
	if err != nil {
		return nil, toStatus(err, "h.auth.Login()")
	}

	return authStruct(usr, "Login successful!")
}

func (h *SlidrHandler) ListProjects(ctx context.Context, in *wrapperspb.Int64Value) (*structpb.ListValue, error) {
	projects, err := h.projects.ListByUser(ctx, in.GetValue())
	if err != nil {
		return nil, toStatus(err, "h.projects.ListByUser()")
	}

	values := make([]*structpb.Value, 0, len(projects))
	for i := range projects {
		project, err := projectStruct(&projects[i])
		if err != nil {
			return nil, toStatus(err, "projectStruct()")
		}
		values = append(values, structpb.NewStructValue(project))
	}

	return &structpb.ListValue{Values: values}, nil
}

func (h *SlidrHandler) GetProject(ctx context.Context, in *wrapperspb.Int64Value) (*structpb.Struct, error) {
	project, err := h.projects.GetByID(ctx, in.GetValue())
	if err != nil {
		return nil, toStatus(err, "h.projects.GetByID()")
	}

	return projectStruct(project)
}

// CreateProject expects {"userId": number, "title": string, "content": string}.
func (h *SlidrHandler) CreateProject(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	userID, err := int64Field(in, "userId")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	project, err := h.projects.Create(ctx, userID, stringField(in, "title"), stringField(in, "content"))
	if err != nil {
		return nil, toStatus(err, "h.projects.Create()")
	}

	return projectStruct(project)
}

// UpdateProject expects {"id": number} plus the fields to change. Absent
// (or null) title/content are left as they are.
func (h *SlidrHandler) UpdateProject(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	projectID, err := int64Field(in, "id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var update models.ProjectUpdate
	if title, present := optionalStringField(in, "title"); present {
		update.Title = &title
	}
	if content, present := optionalStringField(in, "content"); present {
		update.Content = &content
	}

	project, err := h.projects.Update(ctx, projectID, update)
	if err != nil {
		return nil, toStatus(err, "h.projects.Update()")
	}

	return projectStruct(project)
}

func (h *SlidrHandler) DeleteProject(ctx context.Context, in *wrapperspb.Int64Value) (*wrapperspb.StringValue, error) {
	if err := h.projects.Delete(ctx, in.GetValue()); err != nil {
		return nil, toStatus(err, "h.projects.Delete()")
	}

	return wrapperspb.String("Project deleted"), nil
}

func toStatus(err error, call string) error {
	switch {
	case errors.Is(err, models.ErrDuplicateEmail):
		return status.Error(codes.AlreadyExists, "This email is already in use!")
	case errors.Is(err, models.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "Invalid credentials.")
	case errors.Is(err, models.ErrUserNotFound):
		return status.Error(codes.FailedPrecondition, "User not found")
	case errors.Is(err, models.ErrProjectNotFound):
		return status.Error(codes.NotFound, "Project not found")
	default:
		logger.Log.Debugln("Error calling the `"+call+"`: ", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func optionalStringField(in *structpb.Struct, name string) (string, bool) {
	value, ok := in.GetFields()[name]
	if !ok {
		return "", false
	}
	if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
		return "", false
	}

	return value.GetStringValue(), true
}

// int64Field reads an integral number. Fractions and values outside the
// int64 range are rejected rather than truncated.
func int64Field(in *structpb.Struct, name string) (int64, error) {
	value, ok := in.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	number, isNumber := value.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, fmt.Errorf("%s must be a number", name)
	}

	n := number.NumberValue
	if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
		return 0, fmt.Errorf("%s must be an integer", name)
	}

	return int64(n), nil
}

func authStruct(usr *models.User, message string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"userId":    usr.ID,
		"firstName": usr.FirstName,
		"lastName":  usr.LastName,
		"email":     usr.Email,
		"message":   message,
	})
}

func projectStruct(project *models.Project) (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"id":      project.ID,
		"title":   project.Title,
		"content": project.Content,
	}
	if project.User != nil {
		fields["user"] = map[string]interface{}{
			"id":        project.User.ID,
			"firstName": project.User.FirstName,
			"lastName":  project.User.LastName,
			"email":     project.User.Email,
		}
	}

	return structpb.NewStruct(fields)
}
