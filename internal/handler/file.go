package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/muthakira-dev/muthakira/internal/api"
	"github.com/muthakira-dev/muthakira/internal/domain"
	"github.com/muthakira-dev/muthakira/internal/errors"
	"github.com/muthakira-dev/muthakira/internal/logger"
	"github.com/muthakira-dev/muthakira/internal/utils"
)

const adminKeyHeader = "X-Admin-Key"

// ListFiles handles GET /api/files?subject=&q=&type=
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	files := h.file.List(domain.FileFilter{
		Subject: query.Get("subject"),
		Kind:    query.Get("type"),
		Query:   query.Get("q"),
	})
	writeJSON(w, files)
}

// Upload handles POST /api/upload: multipart form with the binary under
// "file" plus the metadata fields. The artifact is written to storage first;
// if the catalog rejects the metadata the artifact is removed again.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Public.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.WriteErrorAndStatusCode(w, errors.Validation("يرجى اختيار ملف"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, errors.Validation("يرجى اختيار ملف"))
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !domain.UploadAllowed(header.Filename, mimeType) {
		utils.WriteErrorAndStatusCode(w, errors.Validation("نوع الملف غير مدعوم. يُقبل PDF وWord والصور والفيديوهات القصيرة"))
		return
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	size, err := h.media.Save(file, storedName)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	rec, err := h.file.Create(domain.FileCreationData{
		Title:        r.FormValue("title"),
		Subject:      r.FormValue("subject"),
		UploaderName: r.FormValue("uploaderName"),
		UploaderRole: r.FormValue("uploaderRole"),
		Keywords:     r.FormValue("keywords"),
		StoredName:   storedName,
		OriginalName: header.Filename,
		SizeBytes:    size,
		MimeType:     mimeType,
	})
	if err != nil {
		// No catalog record exists: remove the orphaned artifact.
		if cleanupErr := h.media.Delete(storedName); cleanupErr != nil {
			logger.Log.Warn("failed to clean up rejected upload", "stored_name", storedName, "error", cleanupErr)
		}
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.UploadResponse{Message: "تم رفع الملف بنجاح", File: rec})
}

// DeleteFile handles DELETE /api/files/{id}, admin only.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.file.Delete(id, r.Header.Get(adminKeyHeader)); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.MessageResponse{Message: "تم حذف الملف"})
}

// Download handles GET /api/files/{id}/download, serving the artifact under
// its original name.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.file.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	artifact, err := h.media.Open(rec.StoredName)
	if err != nil {
		// Record exists but the binary is gone: recoverable partial state
		// after an interrupted delete.
		utils.WriteErrorAndStatusCode(w, errors.NotFound("file"))
		return
	}
	defer artifact.Close()

	w.Header().Set("Content-Type", rec.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rec.OriginalName}))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", rec.SizeBytes))
	if _, err := io.Copy(w, artifact); err != nil {
		logger.Log.Debug("download interrupted", "file_id", id, "error", err)
	}
}
