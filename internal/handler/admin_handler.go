package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/service"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
	"github.com/fly8-hq/fly8-api/pkg/response"
)

// AdminHandler wires the super admin endpoints.
type AdminHandler struct {
	admin       *service.AdminService
	assignments *service.AssignmentService
	commissions *service.CommissionService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(admin *service.AdminService, assignments *service.AssignmentService, commissions *service.CommissionService) *AdminHandler {
	return &AdminHandler{admin: admin, assignments: assignments, commissions: commissions}
}

// Metrics godoc
// @Summary Dashboard metrics snapshot
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/metrics [get]
func (h *AdminHandler) Metrics(c *gin.Context) {
	metrics, err := h.admin.Metrics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, metrics, nil)
}

// Students godoc
// @Summary All students with user and applications
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *AdminHandler) Students(c *gin.Context) {
	students, err := h.admin.Students(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Counselors godoc
// @Summary All counselor accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/counselors [get]
func (h *AdminHandler) Counselors(c *gin.Context) {
	users, err := h.admin.Counselors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

// Agents godoc
// @Summary All agent accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/agents [get]
func (h *AdminHandler) Agents(c *gin.Context) {
	users, err := h.admin.Agents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

// CreateUser godoc
// @Summary Provision a counselor or agent account
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateUserRequest true "User payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
		return
	}

	user, err := h.admin.CreateUser(c.Request.Context(), claims.UserID, req, requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// AssignCounselor godoc
// @Summary Assign a counselor to a student
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student identifier"
// @Param payload body models.AssignCounselorRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{studentId}/assign-counselor [put]
func (h *AdminHandler) AssignCounselor(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.AssignCounselorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	student, err := h.assignments.AssignCounselor(c.Request.Context(), claims.UserID, c.Param("studentId"), req, requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, student, nil)
}

// AssignAgent godoc
// @Summary Assign an agent to a student
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student identifier"
// @Param payload body models.AssignAgentRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{studentId}/assign-agent [put]
func (h *AdminHandler) AssignAgent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.AssignAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	student, err := h.assignments.AssignAgent(c.Request.Context(), claims.UserID, c.Param("studentId"), req, requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, student, nil)
}

// CreateCommission godoc
// @Summary Book a pending commission
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateCommissionRequest true "Commission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/commissions [post]
func (h *AdminHandler) CreateCommission(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid commission payload"))
		return
	}

	commission, err := h.commissions.Create(c.Request.Context(), claims.UserID, req, requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, commission)
}

// Commissions godoc
// @Summary All commissions with summary
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/commissions [get]
func (h *AdminHandler) Commissions(c *gin.Context) {
	list, err := h.commissions.ListForAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// ApproveCommission godoc
// @Summary Approve a commission
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param commissionId path string true "Commission identifier"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/commissions/{commissionId}/approve [put]
func (h *AdminHandler) ApproveCommission(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	commission, err := h.commissions.Approve(c.Request.Context(), claims.UserID, c.Param("commissionId"), requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, commission, nil)
}

// PayoutCommission godoc
// @Summary Pay out an approved commission
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param commissionId path string true "Commission identifier"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/commissions/{commissionId}/payout [post]
func (h *AdminHandler) PayoutCommission(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	commission, err := h.commissions.Payout(c.Request.Context(), claims.UserID, c.Param("commissionId"), requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, commission, nil)
}
