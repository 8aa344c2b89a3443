package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Oxyrus/photowall/internal/storage"
)

type photoRepository struct {
	db *sql.DB
}

const photoColumns = `id, title, description, asset_ref, thumb_ref, sort_order, taken_at, created_at, updated_at`

func (r *photoRepository) Create(ctx context.Context, input storage.PhotoCreate) (storage.Photo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return storage.Photo{}, fmt.Errorf("%w: title must not be empty", storage.ErrInvalid)
	}
	if input.AssetRef == "" {
		return storage.Photo{}, fmt.Errorf("%w: asset reference must not be empty", storage.ErrInvalid)
	}

	now := time.Now().UTC()

	var takenAt sql.NullTime
	if input.TakenAt != nil {
		takenAt = sql.NullTime{Time: input.TakenAt.UTC(), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO photos (title, description, asset_ref, thumb_ref, sort_order, taken_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Title,
		input.Description,
		input.AssetRef,
		input.ThumbRef,
		input.SortOrder,
		takenAt,
		now,
		now,
	)
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: create photo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: create photo: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *photoRepository) GetByID(ctx context.Context, id int64) (storage.Photo, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		WHERE id = ?`,
		id,
	)
	return scanPhoto(row)
}

func (r *photoRepository) List(ctx context.Context) ([]storage.Photo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list photos: %w", err)
	}
	defer rows.Close()

	var result []storage.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list photos: %w", err)
	}

	return result, nil
}

func (r *photoRepository) Update(ctx context.Context, id int64, input storage.PhotoUpdate) (storage.Photo, error) {
	setClauses := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return storage.Photo{}, fmt.Errorf("%w: title must not be empty", storage.ErrInvalid)
		}
		setClauses = append(setClauses, "title = ?")
		args = append(args, *input.Title)
	}

	if input.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *input.Description)
	}

	if input.AssetRef != nil {
		if *input.AssetRef == "" {
			return storage.Photo{}, fmt.Errorf("%w: asset reference must not be empty", storage.ErrInvalid)
		}
		setClauses = append(setClauses, "asset_ref = ?")
		args = append(args, *input.AssetRef)
	}

	if input.ThumbRef != nil {
		setClauses = append(setClauses, "thumb_ref = ?")
		args = append(args, *input.ThumbRef)
	}

	if input.SortOrder != nil {
		setClauses = append(setClauses, "sort_order = ?")
		args = append(args, *input.SortOrder)
	}

	if input.TakenAt != nil {
		setClauses = append(setClauses, "taken_at = ?")
		args = append(args, input.TakenAt.UTC())
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE photos SET %s WHERE id = ?", strings.Join(setClauses, ", "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: update photo: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: update photo: %w", err)
	}

	if rowsAffected == 0 {
		return storage.Photo{}, storage.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *photoRepository) Delete(ctx context.Context, id int64) (storage.Photo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: delete photo: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		WHERE id = ?`,
		id,
	)
	photo, err := scanPhoto(row)
	if err != nil {
		return storage.Photo{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id); err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: delete photo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: delete photo: %w", err)
	}

	return photo, nil
}

// BatchSetOrder applies every (id, order) pair inside one transaction.
// A pair naming a nonexistent id aborts the whole batch with ErrConflict,
// leaving the stored sequence untouched.
func (r *photoRepository) BatchSetOrder(ctx context.Context, entries []storage.OrderEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: batch set order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	for _, entry := range entries {
		res, err := tx.ExecContext(ctx, `
			UPDATE photos
			SET sort_order = ?, updated_at = ?
			WHERE id = ?`,
			entry.SortOrder,
			now,
			entry.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: batch set order: %w", err)
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: batch set order: %w", err)
		}

		if rowsAffected == 0 {
			return fmt.Errorf("%w: photo %d does not exist", storage.ErrConflict, entry.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: batch set order: %w", err)
	}

	return nil
}

type photoScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(s photoScanner) (storage.Photo, error) {
	var (
		photo        storage.Photo
		takenAtRaw   sql.NullTime
		createdAtRaw time.Time
		updatedAtRaw time.Time
	)

	err := s.Scan(
		&photo.ID,
		&photo.Title,
		&photo.Description,
		&photo.AssetRef,
		&photo.ThumbRef,
		&photo.SortOrder,
		&takenAtRaw,
		&createdAtRaw,
		&updatedAtRaw,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return storage.Photo{}, storage.ErrNotFound
		}
		return storage.Photo{}, fmt.Errorf("sqlite: scan photo: %w", err)
	}

	if takenAtRaw.Valid {
		t := takenAtRaw.Time.UTC()
		photo.TakenAt = &t
	}

	photo.CreatedAt = createdAtRaw.UTC()
	photo.UpdatedAt = updatedAtRaw.UTC()

	return photo, nil
}
