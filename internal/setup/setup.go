package setup

import (
	"path/filepath"

	"github.com/muthakira-dev/muthakira/internal/chat"
	"github.com/muthakira-dev/muthakira/internal/config"
	"github.com/muthakira-dev/muthakira/internal/domain"
	"github.com/muthakira-dev/muthakira/internal/handler"
	"github.com/muthakira-dev/muthakira/internal/service"
	"github.com/muthakira-dev/muthakira/internal/storage/fs"
	"github.com/muthakira-dev/muthakira/internal/storage/jsondb"
)

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Handler *handler.Handler
	Hub     *chat.Hub
	Media   *fs.Storage
}

// SetupDependencies initializes everything the server needs: the three
// durable collections, artifact storage, the chat hub and the HTTP handler.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	media, err := fs.New(cfg.Public.UploadsDir)
	if err != nil {
		return nil, err
	}

	records, err := jsondb.NewCollection(filepath.Join(cfg.Public.DataDir, "files.json"),
		func() []domain.FileRecord { return []domain.FileRecord{} })
	if err != nil {
		return nil, err
	}
	comments, err := jsondb.NewCollection(filepath.Join(cfg.Public.DataDir, "comments.json"),
		func() domain.CommentThreads { return domain.CommentThreads{} })
	if err != nil {
		return nil, err
	}
	chatLog, err := jsondb.NewCollection(filepath.Join(cfg.Public.DataDir, "chat.json"),
		func() []domain.ChatMessage { return []domain.ChatMessage{} })
	if err != nil {
		return nil, err
	}

	hub := chat.NewHub(chatLog, cfg.Public.Chat.PersistLimit, cfg.Public.Chat.ReplayLimit)

	file := service.NewFile(records, comments, media, cfg.AdminKey())
	comment := service.NewComment(comments)

	h := handler.New(file, comment, hub, media, cfg)

	return &Dependencies{
		Config:  cfg,
		Handler: h,
		Hub:     hub,
		Media:   media,
	}, nil
}
