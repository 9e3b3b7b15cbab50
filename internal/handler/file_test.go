package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muthakira-dev/muthakira/internal/config"
	"github.com/muthakira-dev/muthakira/internal/domain"
	"github.com/muthakira-dev/muthakira/internal/errors"
)

// MockFileService implements the service.FileService interface
type MockFileService struct {
	MockList   func(filter domain.FileFilter) []domain.FileRecord
	MockGet    func(id domain.FileId) (domain.FileRecord, error)
	MockCreate func(data domain.FileCreationData) (domain.FileRecord, error)
	MockDelete func(id domain.FileId, adminKey string) error
}

func (m *MockFileService) List(filter domain.FileFilter) []domain.FileRecord {
	if m.MockList != nil {
		return m.MockList(filter)
	}
	return []domain.FileRecord{}
}

func (m *MockFileService) Get(id domain.FileId) (domain.FileRecord, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.FileRecord{}, nil
}

func (m *MockFileService) Create(data domain.FileCreationData) (domain.FileRecord, error) {
	if m.MockCreate != nil {
		return m.MockCreate(data)
	}
	return domain.FileRecord{}, nil
}

func (m *MockFileService) Delete(id domain.FileId, adminKey string) error {
	if m.MockDelete != nil {
		return m.MockDelete(id, adminKey)
	}
	return nil
}

// memMedia is an in-memory ArtifactStorage.
type memMedia struct {
	files map[string][]byte
}

func newMemMedia() *memMedia {
	return &memMedia{files: map[string][]byte{}}
}

func (m *memMedia) Save(data io.Reader, storedName string) (int64, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return 0, err
	}
	m.files[storedName] = b
	return int64(len(b)), nil
}

func (m *memMedia) Open(storedName string) (io.ReadCloser, error) {
	b, ok := m.files[storedName]
	if !ok {
		return nil, errors.NotFound("artifact")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memMedia) Delete(storedName string) error {
	delete(m.files, storedName)
	return nil
}

func setupFileTestHandler(fileService *MockFileService, media *memMedia) *chi.Mux {
	h := &Handler{
		file:  fileService,
		media: media,
		cfg:   &config.Config{Public: config.Public{MaxUploadBytes: 50 << 20}},
	}
	r := chi.NewRouter()
	r.Get("/api/files", h.ListFiles)
	r.Post("/api/upload", h.Upload)
	r.Delete("/api/files/{id}", h.DeleteFile)
	r.Get("/api/files/{id}/download", h.Download)
	return r
}

func TestListFilesHandler(t *testing.T) {
	t.Run("passes query filters through and returns records", func(t *testing.T) {
		records := []domain.FileRecord{{Id: "a", Title: "جبر", Subject: "رياضيات"}}
		mockService := &MockFileService{
			MockList: func(filter domain.FileFilter) []domain.FileRecord {
				assert.Equal(t, "رياضيات", filter.Subject)
				assert.Equal(t, "pdf", filter.Kind)
				assert.Equal(t, "جبر", filter.Query)
				return records
			},
		}
		router := setupFileTestHandler(mockService, newMemMedia())

		req := httptest.NewRequest(http.MethodGet, "/api/files?subject=رياضيات&type=pdf&q=جبر", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []domain.FileRecord
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].Id)
	})
}

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	t.Run("successful upload saves artifact then creates record", func(t *testing.T) {
		media := newMemMedia()
		var created domain.FileCreationData
		mockService := &MockFileService{
			MockCreate: func(data domain.FileCreationData) (domain.FileRecord, error) {
				created = data
				return domain.FileRecord{Id: "new-id", Title: data.Title}, nil
			},
		}
		router := setupFileTestHandler(mockService, media)

		body, contentType := multipartUpload(t, "notes.pdf", "pdf-bytes", map[string]string{
			"title":   "ملخص",
			"subject": "رياضيات",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "new-id")

		assert.Equal(t, "ملخص", created.Title)
		assert.Equal(t, "notes.pdf", created.OriginalName)
		assert.Equal(t, int64(len("pdf-bytes")), created.SizeBytes)
		assert.True(t, strings.HasSuffix(created.StoredName, ".pdf"))
		require.Len(t, media.files, 1)
	})

	t.Run("missing file part is rejected", func(t *testing.T) {
		router := setupFileTestHandler(&MockFileService{}, newMemMedia())

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("title", "بدون ملف"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("disallowed file type is rejected", func(t *testing.T) {
		media := newMemMedia()
		router := setupFileTestHandler(&MockFileService{}, media)

		body, contentType := multipartUpload(t, "malware.exe", "MZ", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, media.files)
	})

	t.Run("catalog rejection removes the saved artifact", func(t *testing.T) {
		media := newMemMedia()
		mockService := &MockFileService{
			MockCreate: func(data domain.FileCreationData) (domain.FileRecord, error) {
				return domain.FileRecord{}, errors.Validation("المادة غير صحيحة")
			},
		}
		router := setupFileTestHandler(mockService, media)

		body, contentType := multipartUpload(t, "notes.pdf", "pdf-bytes", map[string]string{"subject": "تاريخ"})
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, media.files, "rejected upload must not leave an orphaned artifact")
	})
}

func TestDeleteFileHandler(t *testing.T) {
	t.Run("passes id and admin key to the catalog", func(t *testing.T) {
		mockService := &MockFileService{
			MockDelete: func(id domain.FileId, adminKey string) error {
				assert.Equal(t, "abc", id)
				assert.Equal(t, "sekrit", adminKey)
				return nil
			},
		}
		router := setupFileTestHandler(mockService, newMemMedia())

		req := httptest.NewRequest(http.MethodDelete, "/api/files/abc", nil)
		req.Header.Set("X-Admin-Key", "sekrit")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "تم حذف الملف")
	})

	t.Run("unauthorized and not found surface their status codes", func(t *testing.T) {
		cases := []struct {
			name string
			err  error
			code int
		}{
			{"wrong key", errors.Unauthorized("غير مصرح"), http.StatusForbidden},
			{"unknown id", errors.NotFound("file"), http.StatusNotFound},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockService := &MockFileService{
					MockDelete: func(id domain.FileId, adminKey string) error { return tc.err },
				}
				router := setupFileTestHandler(mockService, newMemMedia())

				req := httptest.NewRequest(http.MethodDelete, "/api/files/abc", nil)
				rr := httptest.NewRecorder()
				router.ServeHTTP(rr, req)

				assert.Equal(t, tc.code, rr.Code)
			})
		}
	})
}

func TestDownloadHandler(t *testing.T) {
	t.Run("streams artifact with original name", func(t *testing.T) {
		media := newMemMedia()
		_, err := media.Save(strings.NewReader("artifact-bytes"), "abc.pdf")
		require.NoError(t, err)

		mockService := &MockFileService{
			MockGet: func(id domain.FileId) (domain.FileRecord, error) {
				return domain.FileRecord{
					Id:           id,
					StoredName:   "abc.pdf",
					OriginalName: "ملخص.pdf",
					MimeType:     "application/pdf",
					SizeBytes:    int64(len("artifact-bytes")),
					UploadedAt:   time.Now(),
				}, nil
			},
		}
		router := setupFileTestHandler(mockService, media)

		req := httptest.NewRequest(http.MethodGet, "/api/files/abc/download", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "artifact-bytes", rr.Body.String())
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		mockService := &MockFileService{
			MockGet: func(id domain.FileId) (domain.FileRecord, error) {
				return domain.FileRecord{}, errors.NotFound("file")
			},
		}
		router := setupFileTestHandler(mockService, newMemMedia())

		req := httptest.NewRequest(http.MethodGet, "/api/files/zzz/download", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("record without artifact is 404", func(t *testing.T) {
		mockService := &MockFileService{
			MockGet: func(id domain.FileId) (domain.FileRecord, error) {
				return domain.FileRecord{Id: id, StoredName: "gone.pdf"}, nil
			},
		}
		router := setupFileTestHandler(mockService, newMemMedia())

		req := httptest.NewRequest(http.MethodGet, "/api/files/abc/download", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
