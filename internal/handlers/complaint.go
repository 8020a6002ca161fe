package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/dto"
	apierrors "github.com/yukikurage/office-task-api/internal/errors"
	"github.com/yukikurage/office-task-api/internal/services"
	"github.com/yukikurage/office-task-api/internal/uploads"
	"go.uber.org/zap"
)

type ComplaintHandler struct {
	complaintService *services.ComplaintService
	uploads          *uploads.Store
	logger           *zap.Logger
}

func NewComplaintHandler(complaintService *services.ComplaintService, store *uploads.Store, logger *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		uploads:          store,
		logger:           logger,
	}
}

// ListComplaints returns every filed complaint
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	complaints, err := h.complaintService.List()
	if err != nil {
		h.respondComplaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToComplaintDTOs(complaints))
}

// CreateComplaint files a complaint with an optional document
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	type CreateComplaintRequest struct {
		Title       string `json:"title" form:"title"`
		Description string `json:"description" form:"description"`
		Category    string `json:"category" form:"category"`
		Department  string `json:"department" form:"department"`
		Urgency     string `json:"urgency" form:"urgency"`
		Priority    string `json:"priority" form:"priority"`
	}

	document, err := h.uploads.FormFile(c, constants.UploadFormField)
	if err != nil {
		respondUploadError(c, h.logger, h.uploads, err)
		return
	}

	var req CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var documentURL *string
	if document != nil {
		url, err := h.uploads.Save(document)
		if err != nil {
			respondUploadError(c, h.logger, h.uploads, err)
			return
		}
		documentURL = &url
	}

	complaint, err := h.complaintService.Create(services.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Department:  req.Department,
		Urgency:     req.Urgency,
		Priority:    req.Priority,
		DocumentURL: documentURL,
	})
	if err != nil {
		discardUploads(h.logger, h.uploads, documentURL)
		h.respondComplaintError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToComplaintDTO(*complaint))
}

func (h *ComplaintHandler) respondComplaintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrComplaintTitleRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		h.logger.Error("complaint request failed", zap.Error(err))
		apierrors.InternalError(c, "Internal server error")
	}
}
