// Package validate holds the typed request schemas for every endpoint that
// accepts a body. Each request type validates itself and reports failures as
// a list of field errors instead of panicking or returning opaque strings.
package validate

import (
	"net/url"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
	minPasswordLen    = 4
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, FieldError{"username", "username is required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{"password", "password is required"})
	}
	return errs
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, FieldError{"username", "username is required"})
	}
	if len(r.Password) < minPasswordLen {
		errs = append(errs, FieldError{"password", "password must be at least 4 characters"})
	}
	return errs
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r ChangePasswordRequest) Validate() []FieldError {
	var errs []FieldError
	if r.CurrentPassword == "" {
		errs = append(errs, FieldError{"currentPassword", "current password is required"})
	}
	if len(r.NewPassword) < minPasswordLen {
		errs = append(errs, FieldError{"newPassword", "new password must be at least 4 characters"})
	}
	if r.NewPassword != r.ConfirmPassword {
		errs = append(errs, FieldError{"confirmPassword", "passwords do not match"})
	}
	return errs
}

// VideoInsertRequest is the metadata part of a multipart upload (the
// "videoData" form field).
type VideoInsertRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    int    `json:"duration"`
}

func (r VideoInsertRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, FieldError{"title", "title is required"})
	} else if len(r.Title) > maxTitleLen {
		errs = append(errs, FieldError{"title", "title must be at most 200 characters"})
	}
	if len(r.Description) > maxDescriptionLen {
		errs = append(errs, FieldError{"description", "description must be at most 5000 characters"})
	}
	if r.Duration < 0 {
		errs = append(errs, FieldError{"duration", "duration must not be negative"})
	}
	return errs
}

type EmbedRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    int    `json:"duration"`
	EmbedURL    string `json:"embed_url"`
}

func (r EmbedRequest) Validate() []FieldError {
	errs := VideoInsertRequest{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Duration:    r.Duration,
	}.Validate()
	if !isAbsoluteURL(r.EmbedURL) {
		errs = append(errs, FieldError{"embed_url", "embed_url must be an absolute http(s) URL"})
	}
	return errs
}

// VideoPatchRequest carries partial updates; absent fields stay nil.
type VideoPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Duration    *int    `json:"duration"`
}

func (r VideoPatchRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			errs = append(errs, FieldError{"title", "title must not be empty"})
		} else if len(*r.Title) > maxTitleLen {
			errs = append(errs, FieldError{"title", "title must be at most 200 characters"})
		}
	}
	if r.Description != nil && len(*r.Description) > maxDescriptionLen {
		errs = append(errs, FieldError{"description", "description must be at most 5000 characters"})
	}
	if r.Duration != nil && *r.Duration < 0 {
		errs = append(errs, FieldError{"duration", "duration must not be negative"})
	}
	return errs
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func (r CategoryRequest) Validate() []FieldError {
	var errs []FieldError
	name := strings.TrimSpace(r.Name)
	if name == "" {
		errs = append(errs, FieldError{"name", "name is required"})
	} else if name == "All" {
		// "All" is the no-filter sentinel and cannot be a real category.
		errs = append(errs, FieldError{"name", `"All" is reserved`})
	}
	return errs
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
