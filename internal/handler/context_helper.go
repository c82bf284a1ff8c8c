package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fly8-hq/fly8-api/internal/middleware"
	"github.com/fly8-hq/fly8-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func requestContext(c *gin.Context) *models.RequestContext {
	return &models.RequestContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
