package assets

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore keeps assets as flat files under a single directory.
type DiskStore struct {
	root   string
	logger *slog.Logger
}

// NewDiskStore creates the upload directory if needed and returns a
// store rooted there.
func NewDiskStore(root string, logger *slog.Logger) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("assets: upload directory must not be empty")
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("assets: create upload directory: %w", err)
	}

	return &DiskStore{root: root, logger: logger}, nil
}

// Save writes the stream to a temp file and renames it into place under
// a generated name, so a partially written asset is never visible and
// two uploads with the same suggested name never collide.
func (s *DiskStore) Save(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("assets: save: %w", err)
	}
	if r == nil {
		return "", fmt.Errorf("assets: save: nil reader")
	}

	ref := newRef(suggestedName)

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("assets: save: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("assets: save: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("assets: save: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.root, ref)); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("assets: save: %w", err)
	}

	return ref, nil
}

// Open returns the stored bytes for the reference.
func (s *DiskStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("assets: open %s: %w", ref, err)
	}

	return f, nil
}

// Delete removes the asset file. A reference that is already gone is a
// success.
func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("asset already removed", "ref", ref)
			return nil
		}
		return fmt.Errorf("assets: delete %s: %w", ref, err)
	}

	return nil
}

// BestEffortDelete removes the asset, logging instead of returning
// failures.
func (s *DiskStore) BestEffortDelete(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.Delete(ctx, ref); err != nil {
		s.logger.Warn("failed to clean up asset", "ref", ref, "error", err)
	}
}

// resolve maps a reference to a path inside the root, rejecting anything
// that would escape it.
func (s *DiskStore) resolve(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", fmt.Errorf("assets: invalid reference %q: %w", ref, fs.ErrInvalid)
	}
	return filepath.Join(s.root, ref), nil
}

// newRef mints a collision-resistant name, keeping only the extension of
// the suggested name.
func newRef(suggestedName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(suggestedName)))
	if len(ext) > 10 {
		ext = ""
	}
	return uuid.NewString() + ext
}

var _ Store = (*DiskStore)(nil)
