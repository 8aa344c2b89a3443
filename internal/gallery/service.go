// Package gallery coordinates the record store and the asset store so
// that metadata, stored files, and the user-visible sequence stay
// consistent across create, update, delete, and bulk reorder.
//
// The ordering rules are deliberate and must not be reversed: a new
// asset is always stored before any record references it, and an old
// asset is released only after the record update that drops the
// reference has committed. Cleanup is best-effort; an orphaned asset is
// wasted space, never a dangling reference.
package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Oxyrus/photowall/internal/assets"
	"github.com/Oxyrus/photowall/internal/storage"
)

// Service implements the photo lifecycle over an injected record store
// and asset store.
type Service struct {
	logger *slog.Logger
	photos storage.Photos
	assets assets.Store
}

func NewService(logger *slog.Logger, photos storage.Photos, assets assets.Store) *Service {
	return &Service{
		logger: logger,
		photos: photos,
		assets: assets,
	}
}

// CreateInput carries a validated create intent from the API layer.
type CreateInput struct {
	Title       string
	Description string
	SortOrder   int
	File        io.Reader
	Filename    string
}

// UpdateInput carries a partial update. Nil pointer fields are left
// unchanged; a nil File means the asset is kept as-is.
type UpdateInput struct {
	Title       *string
	Description *string
	SortOrder   *int
	File        io.Reader
	Filename    string
}

// List returns every photo in display order: sort order ascending,
// newest first among equals.
func (s *Service) List(ctx context.Context) ([]storage.Photo, error) {
	photos, err := s.photos.List(ctx)
	if err != nil {
		return nil, storeErr("list photos", err)
	}
	return photos, nil
}

// Get returns a single photo by id.
func (s *Service) Get(ctx context.Context, id int64) (storage.Photo, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return storage.Photo{}, storeErr("get photo", err)
	}
	return photo, nil
}

// Create stores the asset first and inserts the record only once the
// bytes are durable. If the insert fails the freshly stored asset is
// released again, so neither store ends up referencing the other's
// failure.
func (s *Service) Create(ctx context.Context, input CreateInput) (storage.Photo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return storage.Photo{}, fmt.Errorf("%w: title must not be empty", storage.ErrInvalid)
	}
	if input.File == nil {
		return storage.Photo{}, fmt.Errorf("%w: image is required", storage.ErrInvalid)
	}

	data, err := io.ReadAll(input.File)
	if err != nil {
		return storage.Photo{}, &IOError{Op: "read upload", Err: err}
	}
	if len(data) == 0 {
		return storage.Photo{}, fmt.Errorf("%w: image must not be empty", storage.ErrInvalid)
	}

	assetRef, err := s.assets.Save(ctx, bytes.NewReader(data), input.Filename)
	if err != nil {
		return storage.Photo{}, &IOError{Op: "store asset", Err: err}
	}

	thumbRef := s.storeThumbnail(ctx, data)

	photo, err := s.photos.Create(ctx, storage.PhotoCreate{
		Title:       input.Title,
		Description: input.Description,
		AssetRef:    assetRef,
		ThumbRef:    thumbRef,
		SortOrder:   input.SortOrder,
		TakenAt:     extractTakenAt(data),
	})
	if err != nil {
		s.assets.BestEffortDelete(ctx, assetRef)
		s.assets.BestEffortDelete(ctx, thumbRef)
		return storage.Photo{}, storeErr("insert record", err)
	}

	s.logger.Info("photo created", "photoID", photo.ID, "asset", photo.AssetRef)

	return photo, nil
}

// Update applies a metadata change and, when a new stream is present,
// swaps the asset: store new bytes, commit the record update, then
// release the old asset — in that order, never reversed.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (storage.Photo, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return storage.Photo{}, fmt.Errorf("%w: title must not be empty", storage.ErrInvalid)
	}

	current, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return storage.Photo{}, storeErr("get photo", err)
	}

	update := storage.PhotoUpdate{
		Title:       input.Title,
		Description: input.Description,
		SortOrder:   input.SortOrder,
	}

	var newAsset, newThumb string
	if input.File != nil {
		data, err := io.ReadAll(input.File)
		if err != nil {
			return storage.Photo{}, &IOError{Op: "read upload", Err: err}
		}
		if len(data) == 0 {
			return storage.Photo{}, fmt.Errorf("%w: image must not be empty", storage.ErrInvalid)
		}

		newAsset, err = s.assets.Save(ctx, bytes.NewReader(data), input.Filename)
		if err != nil {
			return storage.Photo{}, &IOError{Op: "store asset", Err: err}
		}
		newThumb = s.storeThumbnail(ctx, data)

		update.AssetRef = &newAsset
		update.ThumbRef = &newThumb
		update.TakenAt = extractTakenAt(data)
	}

	photo, err := s.photos.Update(ctx, id, update)
	if err != nil {
		if newAsset != "" {
			s.assets.BestEffortDelete(ctx, newAsset)
			s.assets.BestEffortDelete(ctx, newThumb)
		}
		return storage.Photo{}, storeErr("update record", err)
	}

	// The record now references the new asset; the old one is free to go.
	if newAsset != "" {
		s.assets.BestEffortDelete(ctx, current.AssetRef)
		s.assets.BestEffortDelete(ctx, current.ThumbRef)
	}

	s.logger.Info("photo updated", "photoID", photo.ID, "assetSwapped", newAsset != "")

	return photo, nil
}

// Delete removes the record first and only then releases its assets, so
// a failed cleanup leaves an orphaned file rather than a live record
// pointing at deleted bytes.
func (s *Service) Delete(ctx context.Context, id int64) error {
	photo, err := s.photos.Delete(ctx, id)
	if err != nil {
		return storeErr("delete record", err)
	}

	s.assets.BestEffortDelete(ctx, photo.AssetRef)
	s.assets.BestEffortDelete(ctx, photo.ThumbRef)

	s.logger.Info("photo deleted", "photoID", id)

	return nil
}

// OpenAsset streams the full-size image for the photo.
func (s *Service) OpenAsset(ctx context.Context, id int64) (io.ReadCloser, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get photo", err)
	}
	return s.open(ctx, photo.AssetRef)
}

// OpenThumbnail streams the downscaled image, falling back to the full
// asset for photos that have no thumbnail.
func (s *Service) OpenThumbnail(ctx context.Context, id int64) (io.ReadCloser, error) {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get photo", err)
	}

	ref := photo.ThumbRef
	if ref == "" {
		ref = photo.AssetRef
	}
	return s.open(ctx, ref)
}

func (s *Service) open(ctx context.Context, ref string) (io.ReadCloser, error) {
	rc, err := s.assets.Open(ctx, ref)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, &IOError{Op: "open asset", Err: err}
	}
	return rc, nil
}

// storeThumbnail generates and stores a thumbnail. Thumbnails are an
// optimisation, so any failure is logged and the photo proceeds without
// one.
func (s *Service) storeThumbnail(ctx context.Context, data []byte) string {
	thumb, err := makeThumbnail(data)
	if err != nil {
		s.logger.Warn("failed to generate thumbnail", "error", err)
		return ""
	}

	ref, err := s.assets.Save(ctx, bytes.NewReader(thumb), "thumb.jpg")
	if err != nil {
		s.logger.Warn("failed to store thumbnail", "error", err)
		return ""
	}

	return ref
}
