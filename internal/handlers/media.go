// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"wedsite/internal/middleware"
	"wedsite/internal/models"
	"wedsite/internal/storage"
	"wedsite/internal/store"
)

// mediaPageSize is how many uploads one listing page returns.
const mediaPageSize = 50

// allowedImageTypes are the sniffed content types accepted for upload.
// SVG is refused because it can carry script.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStore is the object storage the media handlers write to.
// *storage.Client satisfies it.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

type mediaRepo interface {
	Create(m *models.Media) (*models.Media, error)
	ListByOwner(ownerID uuid.UUID, limit, offset int) ([]models.Media, error)
	Delete(id, ownerID uuid.UUID) (*models.Media, error)
}

// Media handles image uploads for the couple, story, gallery, and
// jeweller image slots. Objects live under the uploader's key prefix.
type Media struct {
	objects  ObjectStore
	media    mediaRepo
	guard    weddingGuard
	maxBytes int64
}

// NewMedia creates a new Media handler group. objects may be nil when
// object storage is not configured; uploads then answer 503.
func NewMedia(objects ObjectStore, media mediaRepo, weddings weddingFetcher, couples coupleFinder, maxBytes int64) *Media {
	return &Media{
		objects:  objects,
		media:    media,
		guard:    weddingGuard{weddings: weddings, couples: couples},
		maxBytes: maxBytes,
	}
}

// Upload stores one image from the multipart "file" field. An optional
// "wedding_id" field tags the upload with the wedding it belongs to; the
// caller must be allowed to edit that wedding.
func (m *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if m.objects == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	// Allow some overhead for the multipart framing and form fields.
	r.Body = http.MaxBytesReader(w, r.Body, m.maxBytes+4096)
	if err := r.ParseMultipartForm(m.maxBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file too large, maximum is %d MB", m.maxBytes>>20))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > m.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file too large, maximum is %d MB", m.maxBytes>>20))
		return
	}

	var weddingID *uuid.UUID
	if raw := r.FormValue("wedding_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid wedding_id")
			return
		}
		allowed, err := m.guard.canEditID(r.Context(), sess, id)
		if err != nil {
			writeDomainError(w, r, "check wedding access", err)
			return
		}
		if !allowed {
			writeError(w, http.StatusNotFound, store.ErrNotFound.Error())
			return
		}
		weddingID = &id
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}

	key := storage.ObjectKey(sess.UserID, header.Filename)
	url, err := m.objects.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusBadGateway, "failed to upload file")
		return
	}

	created, err := m.media.Create(&models.Media{
		OwnerID:      sess.UserID,
		WeddingID:    weddingID,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		S3Key:        key,
		URL:          url,
	})
	if err != nil {
		slog.Error("save media record failed", "error", err, "key", key)
		if derr := m.objects.Delete(r.Context(), key); derr != nil {
			slog.Warn("orphaned upload", "error", derr, "key", key)
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("media uploaded", "owner_id", sess.UserID, "key", key, "bytes", created.SizeBytes)
	writeJSON(w, http.StatusCreated, created)
}

// List returns the caller's uploads, newest first. ?page= selects a page.
func (m *Media) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 0 {
		page = 0
	}

	items, err := m.media.ListByOwner(sess.UserID, mediaPageSize, page*mediaPageSize)
	if err != nil {
		slog.Error("list media failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if items == nil {
		items = []models.Media{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Delete removes one of the caller's uploads and its stored object.
func (m *Media) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "media not found")
		return
	}

	deleted, err := m.media.Delete(id, sess.UserID)
	if err != nil {
		slog.Error("delete media failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if deleted == nil {
		writeError(w, http.StatusNotFound, "media not found")
		return
	}

	if m.objects != nil && storage.OwnedBy(deleted.S3Key, sess.UserID) {
		if err := m.objects.Delete(r.Context(), deleted.S3Key); err != nil {
			slog.Warn("s3 delete failed", "error", err, "key", deleted.S3Key)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
