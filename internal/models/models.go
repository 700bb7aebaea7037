// Package models holds the entities, request/response payloads and sentinel
// errors shared by the storage, service and transport layers.
package models

import "errors"

// User is a registered account. Password is stored and compared verbatim.
type User struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"`
}

// Project is a stored slideshow. Content is an opaque serialized document
// and is never parsed server-side.
type Project struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	User    *User  `json:"user"`
}

// ProjectUpdate describes a partial update: nil fields are left untouched.
// A JSON null decodes to nil as well, so {"title": null} keeps the current
// title instead of clearing it. Send "" to clear a field.
type ProjectUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Apply overwrites the fields of p that are present in u.
func (u ProjectUpdate) Apply(p *Project) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
}

type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both signup and login. The password is never echoed.
type AuthResponse struct {
	UserID    int64  `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

type CreateProjectRequest struct {
	UserID  *int64 `json:"userId" validate:"required"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type InternalStatsResponse struct {
	Users    int64 `json:"users"`
	Projects int64 `json:"projects"`
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

var (
	ErrDuplicateEmail     = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrProjectNotFound    = errors.New("project not found")
)
