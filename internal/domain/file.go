package domain

import (
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// Subjects is the whitelist checked at upload time. Records created before a
// whitelist change are not re-validated.
var Subjects = []Subject{"رياضيات", "فيزياء", "كيمياء", "أحياء", "لغة عربية", "لغة إنجليزية"}

func SubjectAllowed(s Subject) bool {
	for _, allowed := range Subjects {
		if s == allowed {
			return true
		}
	}
	return false
}

// FileRecord is immutable after creation. JSON tags match the on-disk
// files.json layout.
type FileRecord struct {
	Id           FileId       `json:"id"`
	Title        string       `json:"title"`
	Subject      Subject      `json:"subject"`
	StoredName   string       `json:"filename"`
	Url          string       `json:"url"`
	OriginalName string       `json:"originalName"`
	SizeBytes    int64        `json:"size"`
	MimeType     string       `json:"mime"`
	Kind         FileKind     `json:"type"`
	Keywords     []string     `json:"keywords"`
	UploaderName string       `json:"uploaderName"`
	UploaderRole UploaderRole `json:"uploaderRole"`
	UploadedAt   time.Time    `json:"uploadedAt"`
}

type FileCreationData struct {
	Title        string
	Subject      Subject
	UploaderName string
	UploaderRole UploaderRole
	Keywords     string // raw comma-separated form field
	StoredName   string
	OriginalName string
	SizeBytes    int64
	MimeType     string
}

type FileFilter struct {
	Subject Subject
	Kind    FileKind
	Query   string // case-insensitive substring over title/originalName/keywords
}

// DetectKind derives the display category from the MIME type with an
// extension fallback, mirroring the upload allowlist.
func DetectKind(filename, mimeType string) FileKind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case mimeType == "application/pdf" || ext == ".pdf":
		return KindPdf
	case mimeType == "application/msword",
		mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		ext == ".doc", ext == ".docx":
		return KindWord
	case strings.HasPrefix(mimeType, "image/"),
		ext == ".png", ext == ".jpg", ext == ".jpeg", ext == ".gif", ext == ".webp":
		return KindImage
	case strings.HasPrefix(mimeType, "video/"),
		ext == ".mp4", ext == ".webm", ext == ".mov", ext == ".m4v":
		return KindVideo
	}
	return KindOther
}

// allowed upload extensions and their fallback MIME types
var allowedExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {},
	".mp4": {}, ".webm": {}, ".mov": {}, ".m4v": {},
}

var allowedMimes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/png": {}, "image/jpeg": {}, "image/gif": {}, "image/webp": {},
	"video/mp4": {}, "video/webm": {}, "video/quicktime": {},
}

// UploadAllowed checks the declared MIME type with an extension fallback.
// Content is never sniffed.
func UploadAllowed(filename, mimeType string) bool {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		if _, ok := allowedMimes[mt]; ok {
			return true
		}
	}
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}
