// Package api holds the request/response DTOs of the JSON surface.
package api

import "github.com/muthakira-dev/muthakira/internal/domain"

type AddCommentRequest struct {
	Name string `json:"name"`
	Text string `json:"text" validate:"required"`
}

type UploadResponse struct {
	Message string            `json:"message"`
	File    domain.FileRecord `json:"file"`
}

type AddCommentResponse struct {
	Message string         `json:"message"`
	Comment domain.Comment `json:"comment"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
