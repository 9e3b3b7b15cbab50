package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/muthakira-dev/muthakira/internal/domain"
	"github.com/muthakira-dev/muthakira/internal/errors"
	"github.com/muthakira-dev/muthakira/internal/service/utils"
)

type CommentService interface {
	List(fileId domain.FileId) []domain.Comment
	Add(fileId domain.FileId, name, text string) (domain.Comment, error)
}

type Comment struct {
	store CommentStore
}

func NewComment(store CommentStore) CommentService {
	return &Comment{store}
}

// List returns the thread for a file id in append order. An unknown id yields
// an empty thread, not an error.
func (c *Comment) List(fileId domain.FileId) []domain.Comment {
	thread := c.store.Read()[fileId]
	if thread == nil {
		return []domain.Comment{}
	}
	return thread
}

// Add appends a comment to the file's thread. The file's existence is
// deliberately not checked; the ledger and the catalog are decoupled.
func (c *Comment) Add(fileId domain.FileId, name, text string) (domain.Comment, error) {
	content := utils.SanitizeText(text)
	if content == "" {
		return domain.Comment{}, errors.Validation("نص التعليق مطلوب")
	}

	author := utils.SanitizeText(name)
	if author == "" {
		author = defaultUploader
	}

	comment := domain.Comment{
		Id:        uuid.NewString(),
		Name:      author,
		Text:      content,
		CreatedAt: time.Now().UTC(),
	}

	err := c.store.Update(func(threads domain.CommentThreads) (domain.CommentThreads, error) {
		threads[fileId] = append(threads[fileId], comment)
		return threads, nil
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}
