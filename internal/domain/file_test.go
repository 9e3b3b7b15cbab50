package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectAllowed(t *testing.T) {
	for _, s := range Subjects {
		assert.True(t, SubjectAllowed(s), s)
	}
	assert.False(t, SubjectAllowed("تاريخ"))
	assert.False(t, SubjectAllowed(""))
	assert.False(t, SubjectAllowed("رياضيات ")) // caller trims before checking
}

func TestDetectKind(t *testing.T) {
	cases := []struct {
		filename string
		mimeType string
		want     FileKind
	}{
		{"notes.pdf", "application/pdf", KindPdf},
		{"notes.PDF", "application/octet-stream", KindPdf},
		{"essay.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", KindWord},
		{"essay.doc", "", KindWord},
		{"diagram.png", "image/png", KindImage},
		{"photo.jpeg", "", KindImage},
		{"clip.mp4", "video/mp4", KindVideo},
		{"clip.mov", "", KindVideo},
		{"archive.zip", "application/zip", KindOther},
		{"unknown", "", KindOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectKind(tc.filename, tc.mimeType), "%s %s", tc.filename, tc.mimeType)
	}
}

func TestUploadAllowed(t *testing.T) {
	assert.True(t, UploadAllowed("notes.pdf", "application/pdf"))
	assert.True(t, UploadAllowed("clip.mov", "video/quicktime"))
	// extension fallback when the declared MIME type is unknown
	assert.True(t, UploadAllowed("essay.docx", "application/octet-stream"))
	assert.True(t, UploadAllowed("photo.JPG", ""))
	assert.False(t, UploadAllowed("malware.exe", "application/x-msdownload"))
	assert.False(t, UploadAllowed("script.sh", "text/x-shellscript"))
}
