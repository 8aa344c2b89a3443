package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/photowall/internal/gallery"
	"github.com/Oxyrus/photowall/internal/storage"
)

// GalleryService is the slice of the photo lifecycle the handlers need.
type GalleryService interface {
	List(ctx context.Context) ([]storage.Photo, error)
	Get(ctx context.Context, id int64) (storage.Photo, error)
	Create(ctx context.Context, input gallery.CreateInput) (storage.Photo, error)
	Update(ctx context.Context, id int64, input gallery.UpdateInput) (storage.Photo, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, entries []storage.OrderEntry) error
	OpenAsset(ctx context.Context, id int64) (io.ReadCloser, error)
	OpenThumbnail(ctx context.Context, id int64) (io.ReadCloser, error)
}

type PhotoHandler struct {
	logger  *slog.Logger
	gallery GalleryService
}

func NewPhotoHandler(logger *slog.Logger, gallery GalleryService) *PhotoHandler {
	return &PhotoHandler{
		logger:  logger,
		gallery: gallery,
	}
}

type photoResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Order        int        `json:"order"`
	ImageURL     string     `json:"imageUrl"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	TakenAt      *time.Time `json:"takenAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toPhotoResponse(p storage.Photo) photoResponse {
	return photoResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Order:        p.SortOrder,
		ImageURL:     fmt.Sprintf("/api/photos/%d/image", p.ID),
		ThumbnailURL: fmt.Sprintf("/api/photos/%d/thumbnail", p.ID),
		TakenAt:      p.TakenAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (h *PhotoHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	photos, err := h.gallery.List(ctx)
	if err != nil {
		h.writeError(c, err, "failed to list photos")
		return
	}

	items := make([]photoResponse, 0, len(photos))
	for _, photo := range photos {
		items = append(items, toPhotoResponse(photo))
	}

	c.JSON(http.StatusOK, items)
}

func (h *PhotoHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := photoID(c)
	if !ok {
		return
	}

	photo, err := h.gallery.Get(ctx, id)
	if err != nil {
		h.writeError(c, err, "failed to load photo")
		return
	}

	c.JSON(http.StatusOK, toPhotoResponse(photo))
}

func (h *PhotoHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No image uploaded"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read upload"})
		return
	}
	defer file.Close()

	order, ok := formOrder(c)
	if !ok {
		return
	}

	photo, err := h.gallery.Create(ctx, gallery.CreateInput{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		SortOrder:   order,
		File:        file,
		Filename:    header.Filename,
	})
	if err != nil {
		h.writeError(c, err, "failed to create photo")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Photo uploaded successfully",
		"photo":   toPhotoResponse(photo),
	})
}

func (h *PhotoHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := photoID(c)
	if !ok {
		return
	}

	input := gallery.UpdateInput{}

	if title, present := c.GetPostForm("title"); present {
		trimmed := strings.TrimSpace(title)
		input.Title = &trimmed
	}
	if description, present := c.GetPostForm("description"); present {
		trimmed := strings.TrimSpace(description)
		input.Description = &trimmed
	}
	if _, present := c.GetPostForm("order"); present {
		order, ok := formOrder(c)
		if !ok {
			return
		}
		input.SortOrder = &order
	}

	if header, err := c.FormFile("image"); err == nil {
		file, err := header.Open()
		if err != nil {
			h.logger.Error("failed to open uploaded file", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read upload"})
			return
		}
		defer file.Close()

		input.File = file
		input.Filename = header.Filename
	}

	photo, err := h.gallery.Update(ctx, id, input)
	if err != nil {
		h.writeError(c, err, "failed to update photo")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Photo updated successfully",
		"photo":   toPhotoResponse(photo),
	})
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := photoID(c)
	if !ok {
		return
	}

	if err := h.gallery.Delete(ctx, id); err != nil {
		h.writeError(c, err, "failed to delete photo")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}

type reorderRequest struct {
	PhotoOrders []struct {
		ID    int64 `json:"id"`
		Order int   `json:"order"`
	} `json:"photoOrders"`
}

func (h *PhotoHandler) Reorder(c *gin.Context) {
	ctx := c.Request.Context()

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data format"})
		return
	}

	entries := make([]storage.OrderEntry, 0, len(req.PhotoOrders))
	for _, item := range req.PhotoOrders {
		entries = append(entries, storage.OrderEntry{ID: item.ID, SortOrder: item.Order})
	}

	if err := h.gallery.Reorder(ctx, entries); err != nil {
		h.writeError(c, err, "failed to reorder photos")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photos reordered successfully"})
}

func (h *PhotoHandler) Image(c *gin.Context) {
	h.streamAsset(c, h.gallery.OpenAsset)
}

func (h *PhotoHandler) Thumbnail(c *gin.Context) {
	h.streamAsset(c, h.gallery.OpenThumbnail)
}

func (h *PhotoHandler) streamAsset(c *gin.Context, open func(context.Context, int64) (io.ReadCloser, error)) {
	ctx := c.Request.Context()

	id, ok := photoID(c)
	if !ok {
		return
	}

	rc, err := open(ctx, id)
	if err != nil {
		h.writeError(c, err, "failed to open image")
		return
	}
	defer rc.Close()

	buffered := bufio.NewReader(rc)
	head, _ := buffered.Peek(512)

	c.Header("Content-Type", http.DetectContentType(head))
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, buffered); err != nil {
		h.logger.Warn("failed to stream image", "photoID", id, "error", err)
	}
}

// writeError maps the error taxonomy onto stable status codes: NotFound
// 404, validation 400, conflict 409, anything else 500.
func (h *PhotoHandler) writeError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Photo not found"})
	case errors.Is(err, storage.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"message": invalidMessage(err)})
	case errors.Is(err, storage.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Reorder references a photo that does not exist"})
	default:
		h.logger.Error(logMsg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// invalidMessage strips the sentinel prefix so the client sees only the
// field-level reason.
func invalidMessage(err error) string {
	msg := err.Error()
	if reason := strings.TrimPrefix(msg, storage.ErrInvalid.Error()+": "); reason != msg {
		return reason
	}
	return msg
}

func photoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid photo id"})
		return 0, false
	}
	return id, true
}

func formOrder(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.PostForm("order"))
	if raw == "" {
		return 0, true
	}
	order, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Order must be an integer"})
		return 0, false
	}
	return order, true
}
