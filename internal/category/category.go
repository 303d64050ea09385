package category

import (
	categoryDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/category"
)

type Category struct {
	ID   int64  `json:"category_id"`
	Name string `json:"category_name"`
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:   c.ID,
		Name: c.Name,
	}
}
