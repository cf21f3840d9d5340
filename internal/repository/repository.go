// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"devconnector/internal/models"
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned for identifiers the driver cannot parse.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict is returned when a conditional list update does not apply,
	// e.g. liking a post twice.
	ErrConflict = errors.New("conflicting update")
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create assigns the id and inserts. A taken email yields ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Summaries returns name and avatar keyed by user id. Unknown ids are skipped.
	Summaries(ctx context.Context, ids []string) (map[string]*models.UserSummary, error)
	// Delete removes the user. Missing users are not an error.
	Delete(ctx context.Context, id string) error
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	// Create assigns the id and inserts. A second profile for the same user
	// yields ErrDuplicate.
	Create(ctx context.Context, profile *models.Profile) error
	// Update writes the scalar fields, skills and social links. The
	// experience and education lists are only changed by the list methods.
	Update(ctx context.Context, profile *models.Profile) error
	// DeleteByUserID removes the profile. Missing profiles are not an error.
	DeleteByUserID(ctx context.Context, userID string) error

	AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error)
	AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error)
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// List returns every post, newest first.
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Delete(ctx context.Context, id string) error

	// AddLike prepends a like by userID, or returns ErrConflict if one exists.
	AddLike(ctx context.Context, postID, userID string) ([]models.Like, error)
	// RemoveLike drops the like by userID, or returns ErrConflict if none exists.
	RemoveLike(ctx context.Context, postID, userID string) ([]models.Like, error)
	// AddComment assigns the comment id and prepends it.
	AddComment(ctx context.Context, postID string, comment models.Comment) ([]models.Comment, error)
	// RemoveComment drops the comment with commentID. Unknown ids leave
	// the list unchanged.
	RemoveComment(ctx context.Context, postID, commentID string) ([]models.Comment, error)
}

// Store bundles the repositories of one storage driver.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Posts() PostRepository
	// Driver names the backing store, e.g. "mongo" or "sqlite".
	Driver() string
	Ping(ctx context.Context) error
	// Reset deletes every record. Used by seeding.
	Reset(ctx context.Context) error
	Close(ctx context.Context) error
}
