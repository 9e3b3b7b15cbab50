package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/muthakira-dev/muthakira/internal/chat"
	"github.com/muthakira-dev/muthakira/internal/config"
	"github.com/muthakira-dev/muthakira/internal/logger"
	"github.com/muthakira-dev/muthakira/internal/service"
)

// ArtifactStorage rounds out the upload/download path: the handler writes the
// binary before the catalog record exists and streams it back on download.
type ArtifactStorage interface {
	Save(data io.Reader, storedName string) (int64, error)
	Open(storedName string) (io.ReadCloser, error)
	Delete(storedName string) error
}

type Handler struct {
	file    service.FileService
	comment service.CommentService
	hub     *chat.Hub
	media   ArtifactStorage
	cfg     *config.Config
}

func New(file service.FileService, comment service.CommentService, hub *chat.Hub, media ArtifactStorage, cfg *config.Config) *Handler {
	return &Handler{file, comment, hub, media, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
