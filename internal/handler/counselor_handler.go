package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/service"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
	"github.com/fly8-hq/fly8-api/pkg/response"
)

// CounselorHandler wires the counselor-facing endpoints.
type CounselorHandler struct {
	service *service.ApplicationService
}

// NewCounselorHandler creates a new handler.
func NewCounselorHandler(svc *service.ApplicationService) *CounselorHandler {
	return &CounselorHandler{service: svc}
}

// MyStudents godoc
// @Summary Students assigned to the counselor
// @Tags Counselors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /counselors/my-students [get]
func (h *CounselorHandler) MyStudents(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	students, err := h.service.MyStudents(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, nil)
}

// UpdateApplication godoc
// @Summary Update an application's status or append a note
// @Tags Counselors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationId path string true "Application identifier"
// @Param payload body models.UpdateApplicationRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /counselors/applications/{applicationId} [put]
func (h *CounselorHandler) UpdateApplication(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	app, err := h.service.UpdateApplication(c.Request.Context(), claims.UserID, c.Param("applicationId"), req, requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, app, nil)
}
