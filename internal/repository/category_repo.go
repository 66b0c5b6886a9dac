package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresCategoryRepository struct {
	conn *sql.DB
	log  *logrus.Logger
}

func NewPostgresCategoryRepository(conn *sql.DB, logger *logrus.Logger) domain.CategoryRepository {
	return &postgresCategoryRepository{
		conn: conn,
		log:  logger,
	}
}

func (r *postgresCategoryRepository) CreateCategory(category *domain.Category) (*domain.Category, error) {
	query := `
        INSERT INTO categories (name)
        VALUES ($1)
        RETURNING id`
	err := r.conn.QueryRow(query, category.Name).Scan(&category.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Attempted to create duplicate category '%s'", category.Name)
			return nil, domain.NewValidationError("category '%s' already exists", category.Name)
		}
		r.log.Errorf("Repository: Failed to create category '%s': %v", category.Name, err)
		return nil, fmt.Errorf("could not create category: %w", err)
	}

	r.log.Infof("Repository: Category created with ID: %d, Name: %s", category.ID, category.Name)
	return category, nil
}

func (r *postgresCategoryRepository) GetCategoryByID(id int) (*domain.Category, error) {
	query := `SELECT id, name FROM categories WHERE id = $1`
	category := &domain.Category{}
	err := r.conn.QueryRow(query, id).Scan(&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with ID %d not found", id)
			return nil, &domain.NotFoundError{Resource: "category", IDs: []int{id}}
		}
		r.log.Errorf("Repository: Failed to get category by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get category by id: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) ListCategories() ([]domain.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY id ASC`
	rows, err := r.conn.Query(query)
	if err != nil {
		r.log.Errorf("Repository: Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			r.log.Errorf("Repository: Failed to scan category row: %v", err)
			return nil, fmt.Errorf("error scanning category data: %w", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during categories iteration: %v", err)
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *postgresCategoryRepository) UpdateCategory(category *domain.Category) (*domain.Category, error) {
	query := `UPDATE categories SET name = $1 WHERE id = $2`
	result, err := r.conn.Exec(query, category.Name, category.ID)
	if err != nil {
		r.log.Errorf("Repository: Failed to update category %d: %v", category.ID, err)
		return nil, fmt.Errorf("could not update category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected updating category %d: %v", category.ID, err)
		return nil, fmt.Errorf("could not confirm category update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Category with ID %d not found for update", category.ID)
		return nil, &domain.NotFoundError{Resource: "category", IDs: []int{category.ID}}
	}

	r.log.Infof("Repository: Category %d updated", category.ID)
	return category, nil
}

func (r *postgresCategoryRepository) DeleteCategory(id int) error {
	query := `DELETE FROM categories WHERE id = $1`
	result, err := r.conn.Exec(query, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete category %d: %v", id, err)
		return fmt.Errorf("could not delete category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected deleting category %d: %v", id, err)
		return fmt.Errorf("could not confirm category deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent category %d", id)
		return &domain.NotFoundError{Resource: "category", IDs: []int{id}}
	}

	r.log.Infof("Repository: Category deleted with ID: %d", id)
	return nil
}
