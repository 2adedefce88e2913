package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inscode/internal/apperror"
	"inscode/internal/config"
	"inscode/internal/model"
	"inscode/internal/repository"
	"inscode/internal/service"
	"inscode/internal/transport"
)

type attachmentResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	CreatedAt   string `json:"created_at"`
}

// AttachmentHandler serves the file attachment endpoints. Attachments
// do not follow the generic resource shape because uploads are
// multipart and downloads redirect to object storage.
type AttachmentHandler struct {
	svc service.AttachmentService
	cfg *config.AppConfig
	loc *time.Location
}

func NewAttachmentHandler(svc service.AttachmentService, cfg *config.AppConfig, loc *time.Location) *AttachmentHandler {
	return &AttachmentHandler{svc: svc, cfg: cfg, loc: loc}
}

func (h *AttachmentHandler) serialize(att *model.Attachment) any {
	return attachmentResponse{
		ID:          att.ID,
		ProjectID:   att.ProjectID,
		Filename:    att.Filename,
		Size:        att.Size,
		ContentType: att.ContentType,
		CreatedAt:   att.CreatedAt.In(h.loc).Format(h.cfg.DatetimeFormat),
	}
}

func parseIDParam(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", apperror.BadRequest("invalid id format").WithCode("INVALID_ID")
	}
	return id, nil
}

// Upload accepts a multipart/form-data body with a "file" field and
// attaches it to the project in the route.
func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.BadRequest("file is required").WithCode("FILE_REQUIRED")
	}

	f, err := fh.Open()
	if err != nil {
		return apperror.BadRequest("cannot open uploaded file").WithCode("FILE_OPEN_ERROR")
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	att, err := h.svc.Upload(c.UserContext(), projectID, f, fh.Filename, ct, fh.Size)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(h.serialize(att))
}

// List returns a page of the project's attachments.
func (h *AttachmentHandler) List(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	perPage, err := queryInt(c, "per_page", h.cfg.PageSize)
	if err != nil {
		return err
	}

	res, err := h.svc.ListByProject(c.UserContext(), projectID, repository.PageQuery{Page: page, PerPage: perPage})
	if err != nil {
		return err
	}
	return c.JSON(transport.NewPage(res, func(att *model.Attachment) any {
		return h.serialize(att)
	}))
}

// Get returns attachment metadata by ID.
func (h *AttachmentHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	att, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(h.serialize(att))
}

// Download returns a time-limited pre-signed URL for the content
// instead of proxying bytes through the API.
func (h *AttachmentHandler) Download(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	url, err := h.svc.DownloadURL(c.UserContext(), id, 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"url": url})
}

// Delete removes the attachment and its stored object.
func (h *AttachmentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
