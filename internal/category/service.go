package category

import (
	"log/slog"

	categoryDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll() ([]*categoryDatamodel.Category, error)
	GetByID(id int64) (*categoryDatamodel.Category, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetAllCategories returns the catalog ordered by name.
func (s *Service) GetAllCategories() ([]*Category, error) {
	dataCategories, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	categories := make([]*Category, 0, len(dataCategories))
	for _, dataCategory := range dataCategories {
		categories = append(categories, FromDataModel(dataCategory))
	}

	return categories, nil
}

// Exists reports whether a category id is part of the catalog.
func (s *Service) Exists(id int64) (bool, error) {
	cat, err := s.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	return cat != nil, nil
}
