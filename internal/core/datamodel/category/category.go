package category

type Category struct {
	ID   int64  `gorm:"primaryKey;column:category_id"`
	Name string `gorm:"column:category_name;uniqueIndex;not null"`
}

func (Category) TableName() string {
	return "categories"
}
