package main

import (
	"time"
)

// PaginatedResponse matches handlers.PaginatedResponse.
type PaginatedResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse matches handlers.ErrorResponse.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse matches handlers.SuccessResponse.
type SuccessResponse struct {
	Message string `json:"message"`
}

// LoginRequest matches handlers.LoginRequest.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminResponse matches admin.Admin.
type AdminResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// SessionResponse matches handlers.SessionResponse.
type SessionResponse struct {
	User    string    `json:"user"`
	Expires time.Time `json:"expires"`
}

// MediaResponse matches handlers.MediaResponse.
type MediaResponse struct {
	ID               string     `json:"id"`
	ContentType      string     `json:"content_type"`
	Title            string     `json:"title"`
	Version          int        `json:"version"`
	PublishedVersion int        `json:"published_version"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ThumbnailURLs    []string   `json:"thumbnail_urls"`
}
