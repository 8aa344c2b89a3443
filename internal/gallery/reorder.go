package gallery

import (
	"context"
	"fmt"

	"github.com/Oxyrus/photowall/internal/storage"
)

// Reorder applies a client-submitted permutation of sort orders as one
// atomic unit. A single entry naming a nonexistent photo aborts the
// whole batch with ErrConflict; readers never observe a half-applied
// sequence.
//
// No numeric scheme is imposed on the order values: swapping two
// adjacent values implements move up/down, a dense 0..n-1 assignment
// implements a full drag reorder. Equal values are allowed — recency
// breaks the tie at read time.
func (s *Service) Reorder(ctx context.Context, entries []storage.OrderEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: reorder list must not be empty", storage.ErrInvalid)
	}

	seen := make(map[int64]struct{}, len(entries))
	for _, entry := range entries {
		if entry.ID <= 0 {
			return fmt.Errorf("%w: photo id must be positive", storage.ErrInvalid)
		}
		if _, ok := seen[entry.ID]; ok {
			return fmt.Errorf("%w: photo %d listed more than once", storage.ErrInvalid, entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}

	if err := s.photos.BatchSetOrder(ctx, entries); err != nil {
		return storeErr("batch set order", err)
	}

	s.logger.Info("photos reordered", "count", len(entries))

	return nil
}
