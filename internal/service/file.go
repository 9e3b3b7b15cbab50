package service

import (
	"crypto/subtle"
	"sort"
	"strings"
	"time"

	"github.com/muthakira-dev/muthakira/internal/domain"
	"github.com/muthakira-dev/muthakira/internal/errors"
	"github.com/muthakira-dev/muthakira/internal/logger"
)

const (
	maxKeywords     = 12
	defaultUploader = "مستخدم"
)

type FileService interface {
	List(filter domain.FileFilter) []domain.FileRecord
	Get(id domain.FileId) (domain.FileRecord, error)
	Create(data domain.FileCreationData) (domain.FileRecord, error)
	Delete(id domain.FileId, adminKey string) error
}

// FileRecordStore is the files.json collection.
type FileRecordStore interface {
	Read() []domain.FileRecord
	Update(fn func([]domain.FileRecord) ([]domain.FileRecord, error)) error
}

// CommentStore is the comments.json collection, shared with the comment service.
type CommentStore interface {
	Read() domain.CommentThreads
	Update(fn func(domain.CommentThreads) (domain.CommentThreads, error)) error
}

// MediaStorage holds the uploaded binaries themselves.
type MediaStorage interface {
	Delete(storedName string) error
}

type File struct {
	records  FileRecordStore
	comments CommentStore
	media    MediaStorage
	adminKey string
}

func NewFile(records FileRecordStore, comments CommentStore, media MediaStorage, adminKey string) FileService {
	return &File{records, comments, media, adminKey}
}

// List returns the filtered catalog, newest first. The whole filtered set is
// returned; there is no pagination.
func (f *File) List(filter domain.FileFilter) []domain.FileRecord {
	all := f.records.Read()

	subject := strings.TrimSpace(filter.Subject)
	kind := strings.TrimSpace(filter.Kind)
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	filtered := make([]domain.FileRecord, 0, len(all))
	for _, rec := range all {
		if subject != "" && rec.Subject != subject {
			continue
		}
		if kind != "" && rec.Kind != kind {
			continue
		}
		if query != "" && !matchesQuery(rec, query) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].UploadedAt.After(filtered[j].UploadedAt)
	})
	return filtered
}

func matchesQuery(rec domain.FileRecord, query string) bool {
	hay := strings.ToLower(strings.Join(append([]string{rec.Title, rec.OriginalName}, rec.Keywords...), " "))
	return strings.Contains(hay, query)
}

func (f *File) Get(id domain.FileId) (domain.FileRecord, error) {
	for _, rec := range f.records.Read() {
		if rec.Id == id {
			return rec, nil
		}
	}
	return domain.FileRecord{}, errors.NotFound("file")
}

// Create appends a new record. The caller has already written the binary
// artifact under data.StoredName; the record id is the artifact's base name
// so the two share a namespace.
func (f *File) Create(data domain.FileCreationData) (domain.FileRecord, error) {
	subject := strings.TrimSpace(data.Subject)
	if !domain.SubjectAllowed(subject) {
		return domain.FileRecord{}, errors.Validation("المادة غير صحيحة")
	}

	rec := domain.FileRecord{
		Id:           idFromStoredName(data.StoredName),
		Title:        strings.TrimSpace(data.Title),
		Subject:      subject,
		StoredName:   data.StoredName,
		Url:          "/uploads/" + data.StoredName,
		OriginalName: data.OriginalName,
		SizeBytes:    data.SizeBytes,
		MimeType:     data.MimeType,
		Kind:         domain.DetectKind(data.OriginalName, data.MimeType),
		Keywords:     normalizeKeywords(data.Keywords),
		UploaderName: strings.TrimSpace(data.UploaderName),
		UploaderRole: data.UploaderRole,
		UploadedAt:   time.Now().UTC(),
	}
	if rec.Title == "" {
		rec.Title = data.OriginalName
	}
	if rec.UploaderName == "" {
		rec.UploaderName = defaultUploader
	}
	if rec.UploaderRole != domain.RoleStudent && rec.UploaderRole != domain.RoleTeacher {
		rec.UploaderRole = domain.RoleStudent
	}

	err := f.records.Update(func(all []domain.FileRecord) ([]domain.FileRecord, error) {
		return append(all, rec), nil
	})
	if err != nil {
		return domain.FileRecord{}, err
	}
	return rec, nil
}

// Delete removes the artifact, then the record, then the comment thread.
// The three steps are not mutually atomic: a crash in between leaves
// recoverable partial state, never a corrupt collection.
func (f *File) Delete(id domain.FileId, adminKey string) error {
	if subtle.ConstantTimeCompare([]byte(adminKey), []byte(f.adminKey)) != 1 {
		return errors.Unauthorized("غير مصرح: مفتاح المشرف غير صحيح")
	}

	rec, err := f.Get(id)
	if err != nil {
		return err
	}

	if err := f.media.Delete(rec.StoredName); err != nil {
		// Missing artifacts are already tolerated by the media layer; anything
		// else is logged and the record removal proceeds anyway.
		logger.Log.Warn("failed to delete stored artifact", "file_id", id, "error", err)
	}

	err = f.records.Update(func(all []domain.FileRecord) ([]domain.FileRecord, error) {
		kept := all[:0]
		for _, r := range all {
			if r.Id != id {
				kept = append(kept, r)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	// Cascade: drop the whole comment thread keyed by this file id.
	return f.comments.Update(func(threads domain.CommentThreads) (domain.CommentThreads, error) {
		delete(threads, id)
		return threads, nil
	})
}

func normalizeKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		kw := strings.TrimSpace(p)
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

func idFromStoredName(storedName string) domain.FileId {
	if i := strings.LastIndex(storedName, "."); i > 0 {
		return storedName[:i]
	}
	return storedName
}
