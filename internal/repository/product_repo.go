package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresProductRepository struct {
	conn *sql.DB
	log  *logrus.Logger
}

func NewPostgresProductRepository(conn *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		conn: conn,
		log:  logger,
	}
}

func (r *postgresProductRepository) CreateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, price, stock, description, category_id, image_ref)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	var categoryID sql.NullInt64
	if product.CategoryID != 0 {
		categoryID = sql.NullInt64{Int64: int64(product.CategoryID), Valid: true}
	}

	err := r.conn.QueryRow(query,
		product.Name,
		product.Price,
		product.Stock,
		product.Description,
		categoryID,
		nullableString(product.ImageRef),
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Attempted to create product with non-existent category ID: %d", product.CategoryID)
			return nil, &domain.NotFoundError{Resource: "category", IDs: []int{product.CategoryID}}
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Repository: Check constraint violation for product '%s': %s", product.Name, pqErr.Message)
			return nil, domain.NewValidationError("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Repository: Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}

	r.log.Infof("Repository: Product created with ID: %d, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(id int) (*domain.Product, error) {
	query := `
        SELECT id, name, price, stock, description, category_id, image_ref, created_at
        FROM products
        WHERE id = $1`
	product := &domain.Product{}
	var categoryID sql.NullInt64
	var imageRef sql.NullString

	err := r.conn.QueryRow(query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Stock,
		&product.Description,
		&categoryID,
		&imageRef,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found", id)
			return nil, &domain.NotFoundError{Resource: "product", IDs: []int{id}}
		}
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}

	if categoryID.Valid {
		product.CategoryID = int(categoryID.Int64)
	}
	product.ImageRef = imageRef.String

	r.log.Debugf("Repository: Product retrieved with ID: %d", id)
	return product, nil
}

func (r *postgresProductRepository) ListProducts(nameFilter string) ([]domain.Product, error) {
	query := `
        SELECT id, name, price, stock, description, category_id, image_ref, created_at
        FROM products`
	args := []interface{}{}
	if nameFilter != "" {
		query += `
        WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, nameFilter)
	}
	query += `
        ORDER BY id ASC`

	return r.listProducts(query, args...)
}

func (r *postgresProductRepository) ListProductsByCategory(categoryID int, nameFilter string) ([]domain.Product, error) {
	query := `
        SELECT id, name, price, stock, description, category_id, image_ref, created_at
        FROM products
        WHERE category_id = $1`
	args := []interface{}{categoryID}
	if nameFilter != "" {
		query += ` AND name ILIKE '%' || $2 || '%'`
		args = append(args, nameFilter)
	}
	query += `
        ORDER BY id ASC`

	return r.listProducts(query, args...)
}

func (r *postgresProductRepository) listProducts(query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		var categoryID sql.NullInt64
		var imageRef sql.NullString
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Stock,
			&product.Description,
			&categoryID,
			&imageRef,
			&product.CreatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		if categoryID.Valid {
			product.CategoryID = int(categoryID.Int64)
		}
		product.ImageRef = imageRef.String
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	r.log.Infof("Repository: Retrieved %d products", len(products))
	return products, nil
}

func (r *postgresProductRepository) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $1, price = $2, stock = $3, description = $4, category_id = $5, image_ref = $6
        WHERE id = $7`
	var categoryID sql.NullInt64
	if product.CategoryID != 0 {
		categoryID = sql.NullInt64{Int64: int64(product.CategoryID), Valid: true}
	}

	result, err := r.conn.Exec(query,
		product.Name,
		product.Price,
		product.Stock,
		product.Description,
		categoryID,
		nullableString(product.ImageRef),
		product.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Attempted to update product %d with non-existent category ID: %d", product.ID, product.CategoryID)
			return nil, &domain.NotFoundError{Resource: "category", IDs: []int{product.CategoryID}}
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Repository: Check constraint violation updating product %d: %s", product.ID, pqErr.Message)
			return nil, domain.NewValidationError("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Repository: Failed to update product %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after updating product %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not confirm product update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Product with ID %d not found for update", product.ID)
		return nil, &domain.NotFoundError{Resource: "product", IDs: []int{product.ID}}
	}

	r.log.Infof("Repository: Product %d updated", product.ID)
	return r.GetProductByID(product.ID)
}

func (r *postgresProductRepository) DeleteProduct(id int) error {
	query := `DELETE FROM products WHERE id = $1`
	result, err := r.conn.Exec(query, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting product ID %d: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent product ID %d", id)
		return &domain.NotFoundError{Resource: "product", IDs: []int{id}}
	}

	r.log.Infof("Repository: Product deleted with ID: %d", id)
	return nil
}
