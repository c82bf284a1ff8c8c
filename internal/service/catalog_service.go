package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fly8-hq/fly8-api/internal/models"
	appErrors "github.com/fly8-hq/fly8-api/pkg/errors"
)

type catalogRepository interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	UpsertService(ctx context.Context, service *models.Service) error
	ListUniversities(ctx context.Context, country string) ([]models.University, error)
	CreateUniversity(ctx context.Context, university *models.University) error
}

// defaultServices is the eight-service catalog seeded at first-time setup.
var defaultServices = []models.Service{
	{ID: "service-1", Name: "Profile Assessment", Description: "Complete profile evaluation and career counseling", Icon: "UserCircle", Color: "#3B82F6", Order: 1},
	{ID: "service-2", Name: "Pre-application Support", Description: "Documentation and application preparation", Icon: "FileText", Color: "#8B5CF6", Order: 2},
	{ID: "service-3", Name: "Apply University", Description: "University selection and application submission", Icon: "School", Color: "#A855F7", Order: 3},
	{ID: "service-4", Name: "Visa & Interview Support", Description: "Visa processing and interview preparation", Icon: "Stamp", Color: "#EC4899", Order: 4},
	{ID: "service-5", Name: "Ticket & Travel Support", Description: "Flight booking and travel arrangements", Icon: "Plane", Color: "#F97316", Order: 5},
	{ID: "service-6", Name: "Find Accommodation", Description: "Student housing and accommodation search", Icon: "Home", Color: "#F59E0B", Order: 6},
	{ID: "service-7", Name: "Education Loan", Description: "Financial aid and loan assistance", Icon: "Banknote", Color: "#10B981", Order: 7},
	{ID: "service-8", Name: "Find Jobs Abroad", Description: "Job search and career placement", Icon: "Briefcase", Color: "#14B8A6", Order: 8},
}

// CatalogService serves the static reference data: the service catalog and
// the university course finder.
type CatalogService struct {
	repo      catalogRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(repo catalogRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, validator: validate, logger: logger}
}

// Services returns the active catalog in display order.
func (s *CatalogService) Services(ctx context.Context) ([]models.Service, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list services")
	}
	return services, nil
}

// InitServices upserts the default catalog. Safe to call repeatedly.
func (s *CatalogService) InitServices(ctx context.Context) (int, error) {
	for i := range defaultServices {
		service := defaultServices[i]
		service.IsActive = true
		if err := s.repo.UpsertService(ctx, &service); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed services")
		}
	}
	return len(defaultServices), nil
}

// Universities returns active universities, optionally filtered by country.
func (s *CatalogService) Universities(ctx context.Context, country string) ([]models.University, error) {
	universities, err := s.repo.ListUniversities(ctx, strings.TrimSpace(country))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list universities")
	}
	return universities, nil
}

// CreateUniversity adds a university to the course finder data.
func (s *CatalogService) CreateUniversity(ctx context.Context, req models.CreateUniversityRequest) (*models.University, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid university payload")
	}

	university := &models.University{
		Name:     req.Name,
		Country:  req.Country,
		Programs: models.MarshalMetadata(req.Programs),
	}
	if req.City != "" {
		university.City = &req.City
	}
	if req.Ranking != nil {
		university.Ranking = req.Ranking
	}
	if req.Logo != "" {
		university.Logo = &req.Logo
	}
	if req.Website != "" {
		university.Website = &req.Website
	}

	if err := s.repo.CreateUniversity(ctx, university); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create university")
	}
	return university, nil
}
