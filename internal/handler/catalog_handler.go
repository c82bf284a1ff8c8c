package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/service"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
	"github.com/fly8-hq/fly8-api/pkg/response"
)

// CatalogHandler wires the reference data endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Services godoc
// @Summary Active service catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /services [get]
func (h *CatalogHandler) Services(c *gin.Context) {
	services, err := h.service.Services(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, services, nil)
}

// InitServices godoc
// @Summary Seed the default service catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /services/init [post]
func (h *CatalogHandler) InitServices(c *gin.Context) {
	count, err := h.service.InitServices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Services initialized", "count": count}, nil)
}

// Universities godoc
// @Summary University course finder data
// @Tags Catalog
// @Produce json
// @Param country query string false "Country filter"
// @Success 200 {object} response.Envelope
// @Router /universities [get]
func (h *CatalogHandler) Universities(c *gin.Context) {
	universities, err := h.service.Universities(c.Request.Context(), c.Query("country"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, universities, nil)
}

// CreateUniversity godoc
// @Summary Add a university
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateUniversityRequest true "University payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /universities [post]
func (h *CatalogHandler) CreateUniversity(c *gin.Context) {
	var req models.CreateUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid university payload"))
		return
	}

	university, err := h.service.CreateUniversity(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, university)
}
