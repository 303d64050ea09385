package user

import (
	"log/slog"

	errors "github.com/frahmantamala/complaint-management/internal"
	userDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
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

func (s *Service) GetByID(userID int64) (*User, error) {
	dataUser, err := s.repo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", userID)
		return nil, err
	}
	if dataUser == nil {
		return nil, errors.NewNotFoundError("User not found", errors.ErrCodeUserNotFound)
	}

	return FromDataModel(dataUser), nil
}
