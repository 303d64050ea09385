package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/complaint-management/internal/category"
	categoryDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/category"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll() ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := r.db.Order("category_name ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.Where("category_id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}
