// Package router exposes the HTTP/JSON API under /api: signup and login,
// project CRUD, plus the /ping health check and internal stats.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/slidr/internal/gzippedhttp"
	"github.com/patric-chuzhbe/slidr/internal/ipchecker"
	"github.com/patric-chuzhbe/slidr/internal/logger"
	"github.com/patric-chuzhbe/slidr/internal/models"
)

const (
	msgSignupSuccess      = "Signup successful!"
	msgLoginSuccess       = "Login successful!"
	msgEmailTaken         = "This email is already in use!"
	msgInvalidCredentials = "Invalid credentials."
	msgInvalidBody        = "Invalid request body."
	msgSignupFields       = "firstName, lastName, email and password are required"
	msgUserNotFound       = "User not found"
	msgUserIDRequired     = "userId is required"
	msgProjectNotFound    = "Project not found"
	msgProjectDeleted     = "Project deleted"
	msgInvalidID          = "Invalid identifier"
	msgInternalError      = "Internal server error"
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

type internalService interface {
	Ping(ctx context.Context) error
	GetInternalStats(ctx context.Context) (models.InternalStatsResponse, error)
}

// Router holds the services the HTTP handlers delegate to.
type Router struct {
	auth     authService
	projects projectService
	internal internalService
	validate *validator.Validate
}

// New builds the chi router with logging, panic recovery, CORS restricted to
// allowedOrigins and gzip in both directions.
func New(
	auth authService,
	projects projectService,
	internal internalService,
	ipChecker *ipchecker.IPChecker,
	allowedOrigins []string,
) *chi.Mux {
	myRouter := &Router{
		auth:     auth,
		projects: projects,
		internal: internal,
		validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowedHeaders: []string{"Accept", "Content-Type", "Content-Encoding", "Accept-Encoding", logger.RequestIDHeader},
			ExposedHeaders: []string{logger.RequestIDHeader},
			MaxAge:         300,
		}),
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
	)

	router.Get(`/ping`, myRouter.GetPing)
	router.Route(`/api`, func(r chi.Router) {
		r.Post(`/auth/signup`, myRouter.PostApiauthsignup)
		r.Post(`/auth/login`, myRouter.PostApiauthlogin)

		r.Route(`/projects`, func(r chi.Router) {
			r.Post(`/`, myRouter.PostApiprojects)
			r.Get(`/user/{userId}`, myRouter.GetApiprojectsuser)
			r.Get(`/{id}`, myRouter.GetApiproject)
			r.Put(`/{id}`, myRouter.PutApiproject)
			r.Delete(`/{id}`, myRouter.DeleteApiproject)
		})

		r.With(ipChecker.OnlyTrusted).Get(`/internal/stats`, myRouter.GetApiinternalstats)
	})

	return router
}

// PostApiauthsignup registers a user: 200 with the profile, 400 when the
// email is taken or a field is missing.
func (r *Router) PostApiauthsignup(response http.ResponseWriter, request *http.Request) {
	var signupRequest models.SignupRequest
	if err := json.NewDecoder(request.Body).Decode(&signupRequest); err != nil {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidBody})
		return
	}
	if err := r.validate.Struct(signupRequest); err != nil {
		logger.Log.Debugln("Error calling the `r.validate.Struct()`: ", zap.Error(err))
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: msgSignupFields})
		return
	}

	usr, err := r.auth.Signup(request.Context(), signupRequest)
	switch {
	case errors.Is(err, models.ErrDuplicateEmail):
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: msgEmailTaken})
	case err != nil:
		logger.Log.Debugln("Error calling the `r.auth.Signup()`: ", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{Error: msgInternalError})
	default:
		writeJSON(response, http.StatusOK, newAuthResponse(usr, msgSignupSuccess))
	}
}

// PostApiauthlogin checks the credentials: 200 with the profile or 401.
func (r *Router) PostApiauthlogin(response http.ResponseWriter, request *http.Request) {
	var loginRequest models.LoginRequest
	if err := json.NewDecoder(request.Body).Decode(&loginRequest); err != nil {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidBody})
		return
	}

	usr, err := r.auth.Login(request.Context(), loginRequest.Email, loginRequest.Password)
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		writeJSON(response, http.StatusUnauthorized, models.ErrorResponse{Error: msgInvalidCredentials})
	case err != nil:
		logger.Log.Debugln("Error calling the `r.auth.Login()`: ", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{Error: msgInternalError})
	default:
		writeJSON(response, http.StatusOK, newAuthResponse(usr, msgLoginSuccess))
	}
}

// GetApiprojectsuser lists the projects of a user, 400 when the user does not exist.
func (r *Router) GetApiprojectsuser(response http.ResponseWriter, request *http.Request) {
	userID, ok := parseID(response, request, "userId")
	if !ok {
		return
	}

	projects, err := r.projects.ListByUser(request.Context(), userID)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		http.Error(response, msgUserNotFound, http.StatusBadRequest)
	case err != nil:
		internalError(response, "r.projects.ListByUser()", err)
	default:
		if projects == nil {
			projects = []models.Project{}
		}
		writeJSON(response, http.StatusOK, projects)
	}
}

// GetApiproject returns one project, 404 when it does not exist.
func (r *Router) GetApiproject(response http.ResponseWriter, request *http.Request) {
	projectID, ok := parseID(response, request, "id")
	if !ok {
		return
	}

	project, err := r.projects.GetByID(request.Context(), projectID)
	r.writeProject(response, project, err, "r.projects.GetByID()")
}

// PostApiprojects creates a project for the given userId, 400 when the user does not exist.
func (r *Router) PostApiprojects(response http.ResponseWriter, request *http.Request) {
	var createRequest models.CreateProjectRequest
	if err := json.NewDecoder(request.Body).Decode(&createRequest); err != nil {
		http.Error(response, msgInvalidBody, http.StatusBadRequest)
		return
	}
	if err := r.validate.Struct(createRequest); err != nil {
		logger.Log.Debugln("Error calling the `r.validate.Struct()`: ", zap.Error(err))
		http.Error(response, msgUserIDRequired, http.StatusBadRequest)
		return
	}

	project, err := r.projects.Create(
		request.Context(),
		*createRequest.UserID,
		createRequest.Title,
		createRequest.Content,
	)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		http.Error(response, msgUserNotFound, http.StatusBadRequest)
	case err != nil:
		internalError(response, "r.projects.Create()", err)
	default:
		writeJSON(response, http.StatusOK, project)
	}
}

// PutApiproject applies a partial update: only the fields present in the body change.
func (r *Router) PutApiproject(response http.ResponseWriter, request *http.Request) {
	projectID, ok := parseID(response, request, "id")
	if !ok {
		return
	}

	var update models.ProjectUpdate
	if err := json.NewDecoder(request.Body).Decode(&update); err != nil {
		http.Error(response, msgInvalidBody, http.StatusBadRequest)
		return
	}

	project, err := r.projects.Update(request.Context(), projectID, update)
	r.writeProject(response, project, err, "r.projects.Update()")
}

// DeleteApiproject removes a project and answers with a plain text confirmation.
func (r *Router) DeleteApiproject(response http.ResponseWriter, request *http.Request) {
	projectID, ok := parseID(response, request, "id")
	if !ok {
		return
	}

	err := r.projects.Delete(request.Context(), projectID)
	switch {
	case errors.Is(err, models.ErrProjectNotFound):
		http.Error(response, msgProjectNotFound, http.StatusNotFound)
	case err != nil:
		internalError(response, "r.projects.Delete()", err)
	default:
		response.Header().Set("Content-Type", "text/plain; charset=utf-8")
		response.WriteHeader(http.StatusOK)
		if _, err := response.Write([]byte(msgProjectDeleted)); err != nil {
			logger.Log.Debugln("Error writing the response: ", zap.Error(err))
		}
	}
}

// GetPing reports whether the storage is reachable.
func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.internal.Ping(request.Context()); err != nil {
		internalError(response, "r.internal.Ping()", err)
		return
	}

	response.WriteHeader(http.StatusOK)
}

// GetApiinternalstats returns user and project counters; trusted subnet only.
func (r *Router) GetApiinternalstats(response http.ResponseWriter, request *http.Request) {
	stats, err := r.internal.GetInternalStats(request.Context())
	if err != nil {
		internalError(response, "r.internal.GetInternalStats()", err)
		return
	}

	writeJSON(response, http.StatusOK, stats)
}

func (r *Router) writeProject(response http.ResponseWriter, project *models.Project, err error, call string) {
	switch {
	case errors.Is(err, models.ErrProjectNotFound):
		http.Error(response, msgProjectNotFound, http.StatusNotFound)
	case err != nil:
		internalError(response, call, err)
	default:
		writeJSON(response, http.StatusOK, project)
	}
}

func newAuthResponse(usr *models.User, message string) models.AuthResponse {
	return models.AuthResponse{
		UserID:    usr.ID,
		FirstName: usr.FirstName,
		LastName:  usr.LastName,
		Email:     usr.Email,
		Message:   message,
	}
}

func parseID(response http.ResponseWriter, request *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(request, param), 10, 64)
	if err != nil {
		http.Error(response, msgInvalidID, http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

func internalError(response http.ResponseWriter, call string, err error) {
	logger.Log.Debugln("Error calling the `"+call+"`: ", zap.Error(err))
	http.Error(response, msgInternalError, http.StatusInternalServerError)
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		internalError(response, "json.Marshal()", err)
		return
	}

	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if _, err := response.Write(body); err != nil {
		logger.Log.Debugln("Error writing the response: ", zap.Error(err))
	}
}
