package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/models"
	"github.com/resolveai/resolve-backend/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentAccessDenied = errors.New("you do not have access to this document")
	ErrFileTooLarge         = errors.New("file exceeds the maximum upload size")
	ErrFileTypeBlocked      = errors.New("this file type is not allowed")
	ErrCategoryRequired     = errors.New("document category is required")
)

var validCategories = map[string]bool{
	"invoice": true, "contract": true, "correspondence": true,
	"photo": true, "quote": true, "other": true,
}

// Executable payloads are rejected outright; everything else is accepted and
// classified, however exotic the extension.
var blockedExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".com": true, ".sh": true, ".msi": true,
}

// FileKind groups extensions into the families the dashboard understands.
// An extension-less or unrecognized filename classifies as "unknown".
func FileKind(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic":
		return "image"
	case ".pdf":
		return "pdf"
	case ".doc", ".docx", ".txt", ".rtf", ".odt":
		return "document"
	case ".xls", ".xlsx", ".csv":
		return "spreadsheet"
	default:
		return "unknown"
	}
}

// DetectMime resolves a content type from the filename extension, falling
// back to the type the client declared, then to octet-stream.
func DetectMime(filename, declared string) string {
	if ext := filepath.Ext(filename); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}

// PreviewAvailable reports whether the mime type can render inline in the
// dashboard. Only image and PDF families qualify; everything else is
// download-only.
func PreviewAvailable(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || strings.HasPrefix(mimeType, "application/pdf")
}

type DocumentService struct {
	db      *gorm.DB
	store   storage.ObjectStore
	maxSize int64
}

func NewDocumentService(db *gorm.DB, store storage.ObjectStore, maxSize int64) *DocumentService {
	return &DocumentService{db: db, store: store, maxSize: maxSize}
}

type UploadParams struct {
	Category    string
	Description string
	CaseID      *uuid.UUID
	ContractID  *uuid.UUID
}

// Upload validates the file, forwards the bytes to the object store under an
// owner/category-namespaced key, then persists the Document row. The size
// and type checks run before any storage call. ownerID is the user the
// document belongs to, which for admin uploads into another user's case is
// the case owner, not the uploader.
func (s *DocumentService) Upload(ctx context.Context, ownerID uuid.UUID, file *multipart.FileHeader, params UploadParams) (*models.Document, error) {
	if !validCategories[params.Category] {
		return nil, ErrCategoryRequired
	}
	if file.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}
	if blockedExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		return nil, ErrFileTypeBlocked
	}

	mimeType := DetectMime(file.Filename, file.Header.Get("Content-Type"))
	key := fmt.Sprintf("users/%s/%s/%s-%s", ownerID, params.Category, uuid.New(), sanitizeFilename(file.Filename))

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	if err := s.store.Upload(ctx, key, mimeType, src); err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	doc := models.Document{
		ID:          uuid.New(),
		UserID:      ownerID,
		CaseID:      params.CaseID,
		ContractID:  params.ContractID,
		FileName:    file.Filename,
		StorageKey:  key,
		MimeType:    mimeType,
		FileType:    FileKind(file.Filename),
		Size:        file.Size,
		Category:    params.Category,
		Description: params.Description,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		return nil, fmt.Errorf("failed to persist document: %w", err)
	}
	return &doc, nil
}

// Get returns the document when the actor owns it or holds the admin role.
func (s *DocumentService) Get(actor *models.User, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := s.db.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	if !canAccessDocument(&doc, actor) {
		return nil, ErrDocumentAccessDenied
	}
	return &doc, nil
}

// OpenDownload resolves the document and opens a byte stream from the object
// store. Preview requests inline rendering but only image and PDF types get
// it; the rest always go out as attachments.
func (s *DocumentService) OpenDownload(ctx context.Context, actor *models.User, id uuid.UUID, preview bool) (*models.Document, io.ReadCloser, string, error) {
	doc, err := s.Get(actor, id)
	if err != nil {
		return nil, nil, "", err
	}

	reader, err := s.store.NewReader(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to open object stream: %w", err)
	}

	disposition := fmt.Sprintf("attachment; filename=%q", doc.FileName)
	if preview && PreviewAvailable(doc.MimeType) {
		disposition = fmt.Sprintf("inline; filename=%q", doc.FileName)
	}
	return doc, reader, disposition, nil
}

// Delete removes the row, then the external object best-effort. A failed
// object delete is logged and reported but never rolls back the row removal,
// so orphaned objects are possible.
func (s *DocumentService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	doc, err := s.Get(actor, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(doc).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		slog.Error("object delete failed, orphan left in storage",
			"document_id", doc.ID, "storage_key", doc.StorageKey, "error", err)
	}
	return nil
}

type ListFilter struct {
	CaseID     *uuid.UUID
	ContractID *uuid.UUID
	Category   string
}

// List returns the actor's documents, newest first.
func (s *DocumentService) List(userID uuid.UUID, filter ListFilter, page, limit int) ([]models.Document, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := s.db.Model(&models.Document{}).Where("user_id = ?", userID)
	if filter.CaseID != nil {
		query = query.Where("case_id = ?", *filter.CaseID)
	}
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []models.Document
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&docs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, total, nil
}

func canAccessDocument(doc *models.Document, actor *models.User) bool {
	return doc.UserID == actor.ID || models.ParseRole(actor.Role) == models.RoleAdmin
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
