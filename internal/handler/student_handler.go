package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/service"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
	"github.com/fly8-hq/fly8-api/pkg/response"
)

// StudentHandler wires the student-facing endpoints.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// CompleteOnboarding godoc
// @Summary Complete student onboarding
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.OnboardingRequest true "Onboarding payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/onboarding [post]
func (h *StudentHandler) CompleteOnboarding(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid onboarding payload"))
		return
	}

	student, err := h.service.CompleteOnboarding(c.Request.Context(), claims.UserID, req, requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, student)
}

// Profile godoc
// @Summary Own student profile
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/profile [get]
func (h *StudentHandler) Profile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	student, err := h.service.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, student, nil)
}

// ApplyForServices godoc
// @Summary Apply for one or more services
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ApplyServicesRequest true "Service identifiers"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/apply-services [post]
func (h *StudentHandler) ApplyForServices(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ApplyServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid apply payload"))
		return
	}

	created, err := h.service.ApplyForServices(c.Request.Context(), claims.UserID, req, requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// MyApplications godoc
// @Summary Own applications
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/my-applications [get]
func (h *StudentHandler) MyApplications(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	apps, err := h.service.MyApplications(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, apps, nil)
}
