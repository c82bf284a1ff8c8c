package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fly8-hq/fly8-api/internal/service"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
	"github.com/fly8-hq/fly8-api/pkg/response"
)

// AgentHandler wires the agent-facing endpoints.
type AgentHandler struct {
	commissions  *service.CommissionService
	applications *service.ApplicationService
}

// NewAgentHandler creates a new handler.
func NewAgentHandler(commissions *service.CommissionService, applications *service.ApplicationService) *AgentHandler {
	return &AgentHandler{commissions: commissions, applications: applications}
}

// MyStudents godoc
// @Summary Students assigned to the agent
// @Tags Agents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /agents/my-students [get]
func (h *AgentHandler) MyStudents(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	students, err := h.applications.AgentStudents(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, nil)
}

// Commissions godoc
// @Summary Own commissions with summary
// @Tags Agents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /agents/commissions [get]
func (h *AgentHandler) Commissions(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	list, err := h.commissions.ListForAgent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}

// ExportCommissions godoc
// @Summary Download a commission statement
// @Tags Agents
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /agents/commissions/export [get]
func (h *AgentHandler) ExportCommissions(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.commissions.ExportStatement(c.Request.Context(), claims.UserID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	filename := fmt.Sprintf("commission-statement-%s.%s", time.Now().UTC().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
