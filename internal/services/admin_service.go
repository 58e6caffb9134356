package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/config"
	"github.com/resolveai/resolve-backend/internal/mailer"
	"github.com/resolveai/resolve-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAdminLoginDisabled    = errors.New("admin login is not configured")
	ErrInvalidAdminLogin     = errors.New("invalid email or password")
	ErrDocumentationNoTarget = errors.New("case has no documents to send")
)

type AdminService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer *mailer.Mailer
}

func NewAdminService(db *gorm.DB, cfg *config.Config, m *mailer.Mailer) *AdminService {
	return &AdminService{db: db, cfg: cfg, mailer: m}
}

// Login checks the configured admin credentials and issues a signed session
// token for the admin cookie. Sessions expire after the configured window.
func (s *AdminService) Login(email, password string) (string, time.Time, error) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" || s.cfg.SessionSecret == "" {
		return "", time.Time{}, ErrAdminLoginDisabled
	}
	if !strings.EqualFold(email, s.cfg.AdminEmail) {
		return "", time.Time{}, ErrInvalidAdminLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidAdminLogin
	}

	expiresAt := time.Now().Add(s.cfg.SessionExpiry)
	claims := jwt.MapClaims{
		"sub":   "admin",
		"email": s.cfg.AdminEmail,
		"role":  string(models.RoleAdmin),
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// SendDocumentation emails a summary of a case and links to its documents.
func (s *AdminService) SendDocumentation(caseID uuid.UUID, recipient, subject, message string) error {
	var kase models.Case
	if err := s.db.Preload("User").First(&kase, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCaseNotFound
		}
		return fmt.Errorf("failed to fetch case: %w", err)
	}

	var docs []models.Document
	if err := s.db.Where("case_id = ?", caseID).Order("created_at DESC").Find(&docs).Error; err != nil {
		return fmt.Errorf("failed to fetch documents: %w", err)
	}
	if len(docs) == 0 {
		return ErrDocumentationNoTarget
	}

	if subject == "" {
		subject = fmt.Sprintf("Case documentation: %s", strings.ReplaceAll(kase.IssueType, "_", " "))
	}

	return s.mailer.Send(recipient, subject, s.buildDocumentationBody(&kase, docs, message))
}

func (s *AdminService) buildDocumentationBody(kase *models.Case, docs []models.Document, message string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<p>Documentation for the %s case opened by %s.</p>",
		strings.ReplaceAll(kase.IssueType, "_", " "), kase.User.DisplayName)
	if message != "" {
		fmt.Fprintf(&b, "<p>%s</p>", message)
	}
	fmt.Fprintf(&b, "<p>Status: %s. Amount in dispute: $%.2f.</p>", kase.Status, kase.Amount)

	b.WriteString("<ul>")
	for _, d := range docs {
		fmt.Fprintf(&b, `<li><a href="%s/api/documents/%s/download">%s</a> (%s, %d bytes)</li>`,
			s.cfg.PublicBaseURL, d.ID, d.FileName, d.Category, d.Size)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}
