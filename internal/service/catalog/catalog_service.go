package catalog

import (
	"context"

	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/arinovich/bookwidget/internal/repository"
)

type CatalogUseCase interface {
	List(ctx context.Context, orgID int64) ([]domain.Experience, error)
	GetByID(ctx context.Context, id int64) (*domain.Experience, error)
	TicketTypes(ctx context.Context, experienceID int64) ([]domain.TicketType, error)
}

type Cache interface {
	GetExperiences(ctx context.Context, orgID int64) ([]domain.Experience, error)
	SetExperiences(ctx context.Context, orgID int64, experiences []domain.Experience) error
}

type CatalogService struct {
	repo  repository.ExperienceRepository
	cache Cache
}

func NewCatalogService(repo repository.ExperienceRepository, cache Cache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

func (s *CatalogService) List(ctx context.Context, orgID int64) ([]domain.Experience, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetExperiences(ctx, orgID); err == nil && cached != nil {
			return cached, nil
		}
	}

	experiences, err := s.repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetExperiences(ctx, orgID, experiences)
	}
	return experiences, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*domain.Experience, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) TicketTypes(ctx context.Context, experienceID int64) ([]domain.TicketType, error) {
	return s.repo.ListTicketTypes(ctx, experienceID)
}

var _ CatalogUseCase = (*CatalogService)(nil)
