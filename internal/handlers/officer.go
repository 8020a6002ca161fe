package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/office-task-api/internal/dto"
	apierrors "github.com/yukikurage/office-task-api/internal/errors"
	"github.com/yukikurage/office-task-api/internal/services"
	"go.uber.org/zap"
)

// OfficerHandler lists assignable officers for the task forms.
type OfficerHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

func NewOfficerHandler(userService *services.UserService, logger *zap.Logger) *OfficerHandler {
	return &OfficerHandler{userService: userService, logger: logger}
}

// ListOfficers returns every user below deputy director
func (h *OfficerHandler) ListOfficers(c *gin.Context) {
	officers, err := h.userService.Officers()
	if err != nil {
		h.logger.Error("failed to list officers", zap.Error(err))
		apierrors.InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, dto.ToOfficerDTOs(officers))
}

// ListSeniorOfficers returns senior and principal officers
func (h *OfficerHandler) ListSeniorOfficers(c *gin.Context) {
	officers, err := h.userService.SeniorOfficers()
	if err != nil {
		h.logger.Error("failed to list senior officers", zap.Error(err))
		apierrors.InternalError(c, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, dto.ToOfficerDTOs(officers))
}
