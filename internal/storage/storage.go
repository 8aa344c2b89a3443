package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates that the requested entity does not exist in the
// underlying storage.
var ErrNotFound = errors.New("storage: not found")

// ErrConflict indicates that the requested write collides with existing
// state, such as a duplicate email or a batch update naming an id that
// does not exist.
var ErrConflict = errors.New("storage: conflict")

// ErrInvalid indicates that a required field is missing or malformed.
// Wrapping errors name the offending field.
var ErrInvalid = errors.New("storage: invalid input")

// Store exposes the persistence primitives required by the application. It is
// expected to be safe for concurrent use.
type Store interface {
	Photos() Photos
	Users() Users
	Ping(ctx context.Context) error
	Close() error
}

// Photo is the metadata record for a single gallery image. The binary
// content lives in the asset store; AssetRef and ThumbRef are opaque
// references into it.
type Photo struct {
	ID          int64
	Title       string
	Description string
	AssetRef    string
	ThumbRef    string
	SortOrder   int
	TakenAt     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PhotoCreate contains the data required to insert a new photo.
type PhotoCreate struct {
	Title       string
	Description string
	AssetRef    string
	ThumbRef    string
	SortOrder   int
	TakenAt     *time.Time
}

// PhotoUpdate describes the mutable fields of a photo. A nil field
// indicates that no update should be applied for that attribute.
type PhotoUpdate struct {
	Title       *string
	Description *string
	AssetRef    *string
	ThumbRef    *string
	SortOrder   *int
	TakenAt     *time.Time
}

// OrderEntry pairs a photo id with its new sort order.
type OrderEntry struct {
	ID        int64
	SortOrder int
}

// Photos defines the operations supported for managing photo records.
type Photos interface {
	Create(ctx context.Context, input PhotoCreate) (Photo, error)
	GetByID(ctx context.Context, id int64) (Photo, error)
	// List returns every photo sorted by sort order ascending, with ties
	// broken by creation time descending (newest first).
	List(ctx context.Context) ([]Photo, error)
	Update(ctx context.Context, id int64, input PhotoUpdate) (Photo, error)
	// Delete removes the photo and returns the removed record so the
	// caller can release its assets.
	Delete(ctx context.Context, id int64) (Photo, error)
	// BatchSetOrder applies every entry as a single atomic unit. If any
	// id does not exist it returns ErrConflict and no entry is applied.
	BatchSetOrder(ctx context.Context, entries []OrderEntry) error
}

// User is an account that may authenticate against the API.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Admin        bool
	CreatedAt    time.Time
}

// UserCreate contains the data required to register a new user.
type UserCreate struct {
	Email        string
	PasswordHash string
	Admin        bool
}

// Users defines the operations supported for managing accounts.
type Users interface {
	Create(ctx context.Context, input UserCreate) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
}
