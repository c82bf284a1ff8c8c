package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly8-hq/fly8-api/internal/middleware"
	"github.com/fly8-hq/fly8-api/internal/models"
	"github.com/fly8-hq/fly8-api/internal/service"
)

type memoryAuthRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	tokens  map[string]*models.RefreshToken
}

func newMemoryAuthRepo() *memoryAuthRepo {
	return &memoryAuthRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
		tokens:  make(map[string]*models.RefreshToken),
	}
}

func (m *memoryAuthRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *memoryAuthRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *memoryAuthRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-created"
	}
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *memoryAuthRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func (m *memoryAuthRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *memoryAuthRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (m *memoryAuthRepo) RevokeRefreshToken(_ context.Context, _ string, _ time.Time) error {
	return nil
}

type noopAudit struct{}

func (noopAudit) Record(_ context.Context, _ string, _ models.AuditAction, _, _ string, _ interface{}, _ *models.RequestContext) {
}

func newAuthTestRouter() (*gin.Engine, *memoryAuthRepo) {
	gin.SetMode(gin.TestMode)
	repo := newMemoryAuthRepo()
	svc := service.NewAuthService(repo, noopAudit{}, nil, nil, service.AuthConfig{
		AccessTokenSecret:  "handler-test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: time.Hour,
	})
	h := NewAuthHandler(svc)

	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", func(c *gin.Context) {
		if userID := c.Query("as"); userID != "" {
			c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID})
		}
		h.Me(c)
	})
	return r, repo
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupEndpointCreatesAccount(t *testing.T) {
	r, repo := newAuthTestRouter()

	w := postJSON(r, "/auth/signup", `{"email":"amina@example.com","password":"secret1","firstName":"Amina","lastName":"Rahman"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
	require.Contains(t, repo.byEmail, "amina@example.com")
	assert.Equal(t, models.RoleStudent, repo.byEmail["amina@example.com"].Role)
}

func TestSignupEndpointRejectsMalformedJSON(t *testing.T) {
	r, _ := newAuthTestRouter()

	w := postJSON(r, "/auth/signup", `{"email":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestSignupEndpointRejectsShortPassword(t *testing.T) {
	r, _ := newAuthTestRouter()

	w := postJSON(r, "/auth/signup", `{"email":"a@example.com","password":"abc","firstName":"A","lastName":"B"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpointRejectsUnknownUser(t *testing.T) {
	r, _ := newAuthTestRouter()

	w := postJSON(r, "/auth/login", `{"email":"ghost@example.com","password":"secret1"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeEndpointRequiresClaims(t *testing.T) {
	r, _ := newAuthTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
