package postgres

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/complaint-management/internal"
	"github.com/frahmantamala/complaint-management/internal/auth"
	userDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(user *userDatamodel.User) error {
	if err := r.db.Create(user).Error; err != nil {
		// registration pre-checks the email, this catches the race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetByEmail(email string) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByID(id int64) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("user_id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
