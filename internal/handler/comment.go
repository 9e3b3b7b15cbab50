package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muthakira-dev/muthakira/internal/api"
	"github.com/muthakira-dev/muthakira/internal/utils"
)

// ListComments handles GET /api/files/{id}/comments.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.comment.List(chi.URLParam(r, "id")))
}

// AddComment handles POST /api/files/{id}/comments. The file id is not
// checked against the catalog.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var body api.AddCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comment.Add(chi.URLParam(r, "id"), body.Name, body.Text)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.AddCommentResponse{Message: "تم إضافة التعليق", Comment: comment})
}
