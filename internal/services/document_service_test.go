package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/services"
)

type fakeObjectStore struct {
	uploads int
	deletes int
	keys    []string
	err     error
}

func (f *fakeObjectStore) Upload(_ context.Context, key, _ string, _ io.Reader) error {
	f.uploads++
	f.keys = append(f.keys, key)
	return f.err
}

func (f *fakeObjectStore) NewReader(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeObjectStore) Delete(_ context.Context, _ string) error {
	f.deletes++
	return f.err
}

func TestFileKind(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"site-photo.jpg", "image"},
		{"scan.PNG", "image"},
		{"claim.pdf", "pdf"},
		{"notes.docx", "document"},
		{"ledger.xlsx", "spreadsheet"},
		{"ledger.csv", "spreadsheet"},
		{"README", "unknown"},
		{"archive.tar.gz", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := services.FileKind(tt.filename); got != tt.want {
			t.Errorf("FileKind(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestDetectMime(t *testing.T) {
	tests := []struct {
		filename string
		declared string
		want     string
	}{
		{"photo.jpg", "", "image/jpeg"},
		{"claim.pdf", "text/plain", "application/pdf"},
		{"mystery", "application/zip", "application/zip"},
		{"mystery", "", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := services.DetectMime(tt.filename, tt.declared); got != tt.want {
			t.Errorf("DetectMime(%q, %q) = %q, want %q", tt.filename, tt.declared, got, tt.want)
		}
	}
}

func TestPreviewAvailable(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"application/pdf", true},
		{"application/msword", false},
		{"text/csv", false},
		{"application/octet-stream", false},
	}
	for _, tt := range tests {
		if got := services.PreviewAvailable(tt.mimeType); got != tt.want {
			t.Errorf("PreviewAvailable(%q) = %v, want %v", tt.mimeType, got, tt.want)
		}
	}
}

func TestUpload_RejectsBeforeStorageCall(t *testing.T) {
	store := &fakeObjectStore{}
	svc := services.NewDocumentService(nil, store, 1024)
	owner := uuid.New()

	tests := []struct {
		name   string
		header *multipart.FileHeader
		params services.UploadParams
		want   error
	}{
		{
			name:   "oversized file",
			header: &multipart.FileHeader{Filename: "big.pdf", Size: 4096},
			params: services.UploadParams{Category: "invoice"},
			want:   services.ErrFileTooLarge,
		},
		{
			name:   "blocked extension",
			header: &multipart.FileHeader{Filename: "payload.exe", Size: 10},
			params: services.UploadParams{Category: "other"},
			want:   services.ErrFileTypeBlocked,
		},
		{
			name:   "unknown category",
			header: &multipart.FileHeader{Filename: "fine.pdf", Size: 10},
			params: services.UploadParams{Category: "memes"},
			want:   services.ErrCategoryRequired,
		},
		{
			name:   "empty category",
			header: &multipart.FileHeader{Filename: "fine.pdf", Size: 10},
			params: services.UploadParams{},
			want:   services.ErrCategoryRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), owner, tt.header, tt.params)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if store.uploads != 0 {
		t.Errorf("expected no storage calls for rejected uploads, got %d", store.uploads)
	}
}

func TestUpload_ExtensionCheckIsCaseInsensitive(t *testing.T) {
	store := &fakeObjectStore{}
	svc := services.NewDocumentService(nil, store, 1024)

	header := &multipart.FileHeader{Filename: "PAYLOAD.EXE", Size: 10}
	_, err := svc.Upload(context.Background(), uuid.New(), header, services.UploadParams{Category: "other"})
	if !errors.Is(err, services.ErrFileTypeBlocked) {
		t.Errorf("expected %v, got %v", services.ErrFileTypeBlocked, err)
	}
}

func multipartFile(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close form writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to parse form: %v", err)
	}
	return form.File["file"][0]
}

// An admin uploading into another user's case passes the case owner's id, so
// the object key must be namespaced under that owner, not the uploader.
func TestUpload_KeyNamespacedUnderOwner(t *testing.T) {
	store := &fakeObjectStore{err: errors.New("storage offline")}
	svc := services.NewDocumentService(nil, store, 1024)
	owner := uuid.New()

	header := multipartFile(t, "invoice 42.pdf", "%PDF-1.4")
	_, err := svc.Upload(context.Background(), owner, header, services.UploadParams{Category: "invoice"})
	if err == nil {
		t.Fatal("expected the storage error to surface")
	}

	if len(store.keys) != 1 {
		t.Fatalf("expected one storage call, got %d", len(store.keys))
	}
	key := store.keys[0]
	if !strings.HasPrefix(key, "users/"+owner.String()+"/invoice/") {
		t.Errorf("expected key namespaced under the owner, got %q", key)
	}
	if !strings.HasSuffix(key, "-invoice_42.pdf") {
		t.Errorf("expected sanitized filename suffix, got %q", key)
	}
}
