package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/middleware"
	"github.com/resolveai/resolve-backend/internal/services"
	"github.com/resolveai/resolve-backend/internal/storage"
)

type DocumentHandler struct {
	documentService *services.DocumentService
	caseService     *services.CaseService
	contractService *services.ContractService
}

func NewDocumentHandler(documentService *services.DocumentService, caseService *services.CaseService, contractService *services.ContractService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		caseService:     caseService,
		contractService: contractService,
	}
}

// Upload accepts a single multipart file with category and optional
// case/contract association supplied as form fields.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	params := services.UploadParams{
		Category:    c.FormValue("category", "other"),
		Description: c.FormValue("description"),
	}

	// Documents belong to the owner of the record they attach to, so an
	// admin uploading into someone else's case files it under that user.
	ownerID := user.ID

	if raw := c.FormValue("case_id"); raw != "" {
		caseID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid case ID",
			})
		}
		kase, err := h.caseService.Get(user, caseID)
		if err != nil {
			return caseError(c, err)
		}
		params.CaseID = &caseID
		ownerID = kase.UserID
	}
	if raw := c.FormValue("contract_id"); raw != "" {
		contractID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid contract ID",
			})
		}
		contract, err := h.contractService.Get(user, contractID)
		if err != nil {
			return contractError(c, err)
		}
		params.ContractID = &contractID
		ownerID = contract.UserID
	}

	return h.doUpload(c, ownerID, params)
}

// UploadForCase uploads against a specific case. The association is only
// persisted when the caller owns the case or holds the admin role.
func (h *DocumentHandler) UploadForCase(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	caseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
	}
	kase, err := h.caseService.Get(user, caseID)
	if err != nil {
		return caseError(c, err)
	}

	return h.doUpload(c, kase.UserID, services.UploadParams{
		Category:    c.FormValue("category", "other"),
		Description: c.FormValue("description"),
		CaseID:      &caseID,
	})
}

func (h *DocumentHandler) UploadForContract(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	contractID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid contract ID",
		})
	}
	contract, err := h.contractService.Get(user, contractID)
	if err != nil {
		return contractError(c, err)
	}

	return h.doUpload(c, contract.UserID, services.UploadParams{
		Category:    c.FormValue("category", "other"),
		Description: c.FormValue("description"),
		ContractID:  &contractID,
	})
}

func (h *DocumentHandler) doUpload(c *fiber.Ctx, ownerID uuid.UUID, params services.UploadParams) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "A file field is required",
		})
	}

	doc, err := h.documentService.Upload(c.Context(), ownerID, file, params)
	if err != nil {
		return documentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid document ID",
		})
	}

	doc, err := h.documentService.Get(user, id)
	if err != nil {
		return documentError(c, err)
	}
	return c.JSON(doc)
}

// Download streams the object bytes. preview=true asks for inline rendering,
// which only image and PDF documents receive.
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid document ID",
		})
	}

	preview := c.Query("preview") == "true"
	doc, reader, disposition, err := h.documentService.OpenDownload(c.Context(), user, id, preview)
	if err != nil {
		return documentError(c, err)
	}

	c.Set(fiber.HeaderContentType, doc.MimeType)
	c.Set(fiber.HeaderContentDisposition, disposition)
	return c.SendStream(reader, int(doc.Size))
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid document ID",
		})
	}

	if err := h.documentService.Delete(c.Context(), user, id); err != nil {
		return documentError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	filter := services.ListFilter{Category: c.Query("category")}
	if raw := c.Query("case_id"); raw != "" {
		caseID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid case ID",
			})
		}
		filter.CaseID = &caseID
	}
	if raw := c.Query("contract_id"); raw != "" {
		contractID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid contract ID",
			})
		}
		filter.ContractID = &contractID
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	docs, total, err := h.documentService.List(user.ID, filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch documents",
		})
	}
	return c.JSON(fiber.Map{"documents": docs, "total": total, "page": page, "limit": limit})
}

// ListForCase returns the documents attached to one case.
func (h *DocumentHandler) ListForCase(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	caseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
	}
	kase, err := h.caseService.Get(user, caseID)
	if err != nil {
		return caseError(c, err)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	docs, total, err := h.documentService.List(kase.UserID, services.ListFilter{CaseID: &caseID}, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch documents",
		})
	}
	return c.JSON(fiber.Map{"documents": docs, "total": total, "page": page, "limit": limit})
}

func (h *DocumentHandler) ListForContract(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	contractID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid contract ID",
		})
	}
	contract, err := h.contractService.Get(user, contractID)
	if err != nil {
		return contractError(c, err)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	docs, total, err := h.documentService.List(contract.UserID, services.ListFilter{ContractID: &contractID}, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch documents",
		})
	}
	return c.JSON(fiber.Map{"documents": docs, "total": total, "page": page, "limit": limit})
}

func documentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrDocumentAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrFileTooLarge), errors.Is(err, services.ErrFileTypeBlocked),
		errors.Is(err, services.ErrCategoryRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, storage.ErrNotConfigured):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Document storage is unavailable",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process document",
		})
	}
}
