package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresCartRepository struct {
	conn *sql.DB
	log  *logrus.Logger
}

func NewPostgresCartRepository(conn *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{
		conn: conn,
		log:  logger,
	}
}

func (r *postgresCartRepository) CreateEntry(entry *domain.CartEntry) (*domain.CartEntry, error) {
	query := `
        INSERT INTO carts (user_id, product_id, quantity)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	err := r.conn.QueryRow(query, entry.UserID, entry.ProductID, entry.Quantity).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Cart entry already exists for user %d, product %d", entry.UserID, entry.ProductID)
			return nil, domain.NewValidationError("cart entry already exists for product %d", entry.ProductID)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Cart entry references missing user %d or product %d", entry.UserID, entry.ProductID)
			return nil, &domain.NotFoundError{Resource: "product", IDs: []int{entry.ProductID}}
		}
		r.log.Errorf("Repository: Failed to create cart entry for user %d: %v", entry.UserID, err)
		return nil, fmt.Errorf("could not create cart entry: %w", err)
	}

	r.log.Infof("Repository: Cart entry %d created for user %d, product %d", entry.ID, entry.UserID, entry.ProductID)
	return entry, nil
}

func (r *postgresCartRepository) GetEntryByID(id int) (*domain.CartEntry, error) {
	query := `
        SELECT id, user_id, product_id, quantity, created_at
        FROM carts
        WHERE id = $1`
	entry := &domain.CartEntry{}
	err := r.conn.QueryRow(query, id).Scan(&entry.ID, &entry.UserID, &entry.ProductID, &entry.Quantity, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Cart entry with ID %d not found", id)
			return nil, &domain.NotFoundError{Resource: "cart entry", IDs: []int{id}}
		}
		r.log.Errorf("Repository: Failed to get cart entry by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get cart entry: %w", err)
	}

	return entry, nil
}

func (r *postgresCartRepository) ListEntriesByUser(userID int) ([]domain.CartEntry, error) {
	query := `
        SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at,
               p.id, p.name, p.price, p.stock, p.description
        FROM carts c
        JOIN products p ON p.id = c.product_id
        WHERE c.user_id = $1
        ORDER BY c.created_at DESC`
	rows, err := r.conn.Query(query, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to list cart entries for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not list cart entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.CartEntry{}
	for rows.Next() {
		var entry domain.CartEntry
		product := &domain.Product{}
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.ProductID,
			&entry.Quantity,
			&entry.CreatedAt,
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Stock,
			&product.Description,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan cart entry row for user %d: %v", userID, err)
			return nil, fmt.Errorf("error scanning cart entry data: %w", err)
		}
		entry.Product = product
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during cart entries iteration for user %d: %v", userID, err)
		return nil, fmt.Errorf("error iterating cart entries: %w", err)
	}

	r.log.Infof("Repository: Retrieved %d cart entries for user %d", len(entries), userID)
	return entries, nil
}

func (r *postgresCartRepository) UpdateEntry(entry *domain.CartEntry) (*domain.CartEntry, error) {
	query := `
        UPDATE carts
        SET quantity = $1
        WHERE id = $2`
	result, err := r.conn.Exec(query, entry.Quantity, entry.ID)
	if err != nil {
		r.log.Errorf("Repository: Failed to update cart entry %d: %v", entry.ID, err)
		return nil, fmt.Errorf("could not update cart entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected updating cart entry %d: %v", entry.ID, err)
		return nil, fmt.Errorf("could not confirm cart entry update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Cart entry with ID %d not found for update", entry.ID)
		return nil, &domain.NotFoundError{Resource: "cart entry", IDs: []int{entry.ID}}
	}

	r.log.Infof("Repository: Cart entry %d updated (quantity %d)", entry.ID, entry.Quantity)
	return r.GetEntryByID(entry.ID)
}

func (r *postgresCartRepository) DeleteEntry(id int) error {
	query := `DELETE FROM carts WHERE id = $1`
	result, err := r.conn.Exec(query, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete cart entry %d: %v", id, err)
		return fmt.Errorf("could not delete cart entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected deleting cart entry %d: %v", id, err)
		return fmt.Errorf("could not confirm cart entry deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent cart entry %d", id)
		return &domain.NotFoundError{Resource: "cart entry", IDs: []int{id}}
	}

	r.log.Infof("Repository: Cart entry deleted with ID: %d", id)
	return nil
}
