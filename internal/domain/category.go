package domain

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CategoryRepository interface {
	CreateCategory(category *Category) (*Category, error)
	GetCategoryByID(id int) (*Category, error)
	ListCategories() ([]Category, error)
	UpdateCategory(category *Category) (*Category, error)
	DeleteCategory(id int) error
}

type CategoryUseCase interface {
	CreateCategory(name string, callerRole Role) (*Category, error)
	GetCategoryByID(id int) (*Category, error)
	ListCategories() ([]Category, error)
	UpdateCategory(id int, name string, callerRole Role) (*Category, error)
	DeleteCategory(id int, callerRole Role) error
}
