package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront_service/internal/domain"
	"storefront_service/pkg/db"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// postgresOrderStore runs lifecycle operations as single transactions.
// All stock, order, cart and history mutations of one operation commit or
// roll back together.
type postgresOrderStore struct {
	conn *sql.DB
	log  *logrus.Logger
}

func NewPostgresOrderStore(conn *sql.DB, logger *logrus.Logger) domain.OrderStore {
	return &postgresOrderStore{
		conn: conn,
		log:  logger,
	}
}

func (s *postgresOrderStore) WithinTx(ctx context.Context, fn func(tx domain.OrderTx) error) error {
	return db.RunInTx(ctx, s.conn, s.log, func(tx *sql.Tx) error {
		return fn(&orderTx{tx: tx, log: s.log})
	})
}

type orderTx struct {
	tx  *sql.Tx
	log *logrus.Logger
}

// ProductsForUpdate locks the product rows for the rest of the transaction.
// Concurrent reservations on the same products serialize here, so the stock
// check and the decrement see the same snapshot.
func (t *orderTx) ProductsForUpdate(ids []int) ([]domain.Product, error) {
	query := `
        SELECT id, name, price, stock
        FROM products
        WHERE id = ANY($1::int[])
        FOR UPDATE`
	rows, err := t.tx.Query(query, pq.Array(ids))
	if err != nil {
		t.log.Errorf("Repository: Failed to lock products %v: %v", ids, err)
		return nil, fmt.Errorf("could not lock products for reservation: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Stock); err != nil {
			t.log.Errorf("Repository: Failed to scan locked product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		t.log.Errorf("Repository: Error during locked products iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	t.log.Debugf("Repository: Locked %d of %d requested products", len(products), len(ids))
	return products, nil
}

func (t *orderTx) DecrementStock(productID, quantity int) error {
	query := `
        UPDATE products
        SET stock = stock - $2
        WHERE id = $1 AND stock >= $2`
	result, err := t.tx.Exec(query, productID, quantity)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			t.log.Warnf("Repository: Stock check constraint violation for product %d: %s", productID, pqErr.Message)
			return fmt.Errorf("stock constraint violation for product %d: %s", productID, pqErr.Message)
		}
		t.log.Errorf("Repository: Failed to decrement stock for product %d: %v", productID, err)
		return fmt.Errorf("could not decrement stock for product %d: %w", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		t.log.Errorf("Repository: Failed to get rows affected for stock decrement on product %d: %v", productID, err)
		return fmt.Errorf("could not confirm stock decrement: %w", err)
	}
	if rowsAffected == 0 {
		// The rows are locked, so this means the validated snapshot no longer
		// holds. Failing aborts the whole transaction.
		t.log.Errorf("Repository: Stock decrement affected 0 rows for product %d (quantity %d)", productID, quantity)
		return fmt.Errorf("could not reserve %d units of product %d", quantity, productID)
	}

	t.log.Infof("Repository: Reserved %d units of product %d", quantity, productID)
	return nil
}

func (t *orderTx) IncrementStock(productID, quantity int) error {
	query := `
        UPDATE products
        SET stock = stock + $2
        WHERE id = $1`
	result, err := t.tx.Exec(query, productID, quantity)
	if err != nil {
		t.log.Errorf("Repository: Failed to increment stock for product %d: %v", productID, err)
		return fmt.Errorf("could not release stock for product %d: %w", productID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		t.log.Errorf("Repository: Failed to get rows affected for stock release on product %d: %v", productID, err)
		return fmt.Errorf("could not confirm stock release: %w", err)
	}
	if rowsAffected == 0 {
		t.log.Warnf("Repository: Stock release affected 0 rows for product %d, product was deleted", productID)
		return nil
	}

	t.log.Infof("Repository: Released %d units of product %d", quantity, productID)
	return nil
}

func (t *orderTx) InsertOrder(order *domain.Order) (*domain.Order, error) {
	orderQuery := `
        INSERT INTO orders (user_id, status, total_price, proof_of_payment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, order_date`
	err := t.tx.QueryRow(orderQuery, order.UserID, order.Status, order.TotalPrice, nullableString(order.ProofOfPayment)).Scan(
		&order.ID,
		&order.OrderDate,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			t.log.Warnf("Repository: Attempted to create order for non-existent user %d", order.UserID)
			return nil, &domain.NotFoundError{Resource: "user", IDs: []int{order.UserID}}
		}
		t.log.Errorf("Repository: Failed to insert order for user %d: %v", order.UserID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	lineQuery := `
        INSERT INTO order_lines (order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4)`
	stmt, err := t.tx.Prepare(lineQuery)
	if err != nil {
		t.log.Errorf("Repository: Failed to prepare order line statement: %v", err)
		return nil, fmt.Errorf("could not prepare order line statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Lines {
		line := &order.Lines[i]
		if _, err = stmt.Exec(order.ID, line.ProductID, line.Quantity, line.Price); err != nil {
			t.log.Errorf("Repository: Failed to insert order line (product %d) for order %d: %v", line.ProductID, order.ID, err)
			return nil, fmt.Errorf("could not create order line (product %d): %w", line.ProductID, err)
		}
	}

	t.log.Infof("Repository: Order %d inserted with %d lines for user %d", order.ID, len(order.Lines), order.UserID)
	return order, nil
}

// GetOrderForUpdate locks the order row so two concurrent decisions on the
// same order serialize; the loser re-reads the terminal status and fails the
// transition check instead of double-applying stock changes.
func (t *orderTx) GetOrderForUpdate(id int) (*domain.Order, error) {
	order := &domain.Order{}
	var proof sql.NullString
	orderQuery := `
        SELECT id, user_id, status, total_price, proof_of_payment, order_date
        FROM orders
        WHERE id = $1
        FOR UPDATE`
	err := t.tx.QueryRow(orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.TotalPrice,
		&proof,
		&order.OrderDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			t.log.Warnf("Repository: Order %d not found for update", id)
			return nil, &domain.NotFoundError{Resource: "order", IDs: []int{id}}
		}
		t.log.Errorf("Repository: Failed to lock order %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order for update: %w", err)
	}
	order.ProofOfPayment = proof.String

	linesQuery := `
        SELECT ol.product_id, COALESCE(p.name, ''), ol.quantity, ol.price
        FROM order_lines ol
        LEFT JOIN products p ON p.id = ol.product_id
        WHERE ol.order_id = $1`
	rows, err := t.tx.Query(linesQuery, id)
	if err != nil {
		t.log.Errorf("Repository: Failed to query lines for order %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Quantity, &line.Price); err != nil {
			t.log.Errorf("Repository: Failed to scan order line row for order %d: %v", id, err)
			return nil, fmt.Errorf("error scanning order line: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}
	if err = rows.Err(); err != nil {
		t.log.Errorf("Repository: Error during order lines iteration for order %d: %v", id, err)
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	user := &domain.UserSummary{}
	userQuery := `
        SELECT id, name, email, address
        FROM users
        WHERE id = $1`
	err = t.tx.QueryRow(userQuery, order.UserID).Scan(&user.ID, &user.Name, &user.Email, &user.Address)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		t.log.Errorf("Repository: Failed to load buyer %d for order %d: %v", order.UserID, id, err)
		return nil, fmt.Errorf("could not retrieve order buyer: %w", err)
	}
	if err == nil {
		order.User = user
	}

	t.log.Debugf("Repository: Order %d locked with %d lines (status %s)", id, len(order.Lines), order.Status)
	return order, nil
}

func (t *orderTx) UpdateOrderStatus(id int, status domain.OrderStatus) error {
	query := `
        UPDATE orders
        SET status = $1
        WHERE id = $2`
	result, err := t.tx.Exec(query, status, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			t.log.Warnf("Repository: Invalid status value '%s' for order %d: %v", status, id, err)
			return fmt.Errorf("invalid order status provided: %s", status)
		}
		t.log.Errorf("Repository: Failed to update status for order %d: %v", id, err)
		return fmt.Errorf("could not update order status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		t.log.Errorf("Repository: Failed to get rows affected for status update on order %d: %v", id, err)
		return fmt.Errorf("could not confirm status update: %w", err)
	}
	if rowsAffected == 0 {
		t.log.Warnf("Repository: Order %d not found for status update", id)
		return &domain.NotFoundError{Resource: "order", IDs: []int{id}}
	}

	t.log.Infof("Repository: Order %d status set to %s", id, status)
	return nil
}

func (t *orderTx) CartEntriesByUserAndProducts(userID int, productIDs []int) ([]domain.CartEntry, error) {
	query := `
        SELECT id, user_id, product_id, quantity, created_at
        FROM carts
        WHERE user_id = $1 AND product_id = ANY($2::int[])`
	rows, err := t.tx.Query(query, userID, pq.Array(productIDs))
	if err != nil {
		t.log.Errorf("Repository: Failed to query cart entries for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve cart entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.CartEntry{}
	for rows.Next() {
		var entry domain.CartEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.ProductID, &entry.Quantity, &entry.CreatedAt); err != nil {
			t.log.Errorf("Repository: Failed to scan cart entry row for user %d: %v", userID, err)
			return nil, fmt.Errorf("error scanning cart entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		t.log.Errorf("Repository: Error during cart entries iteration for user %d: %v", userID, err)
		return nil, fmt.Errorf("error iterating cart entries: %w", err)
	}

	t.log.Debugf("Repository: Found %d cart entries for user %d across %d products", len(entries), userID, len(productIDs))
	return entries, nil
}

func (t *orderTx) DeleteCartEntriesByUserAndProducts(userID int, productIDs []int) error {
	query := `
        DELETE FROM carts
        WHERE user_id = $1 AND product_id = ANY($2::int[])`
	result, err := t.tx.Exec(query, userID, pq.Array(productIDs))
	if err != nil {
		t.log.Errorf("Repository: Failed to purge cart entries for user %d: %v", userID, err)
		return fmt.Errorf("could not purge cart entries: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()

	t.log.Infof("Repository: Purged %d cart entries for user %d", rowsAffected, userID)
	return nil
}

func (t *orderTx) InsertHistoryEntry(entry *domain.OrderHistoryEntry) error {
	headerQuery := `
        INSERT INTO order_history (order_id, status, order_date, total_price, user_id, user_name, user_email, user_address)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, recorded_at`
	err := t.tx.QueryRow(headerQuery,
		entry.OrderID,
		entry.Status,
		entry.OrderDate,
		entry.TotalPrice,
		entry.UserID,
		entry.UserName,
		entry.UserEmail,
		entry.UserAddress,
	).Scan(&entry.ID, &entry.RecordedAt)
	if err != nil {
		t.log.Errorf("Repository: Failed to insert history entry for order %d: %v", entry.OrderID, err)
		return fmt.Errorf("could not record order history: %w", err)
	}

	lineQuery := `
        INSERT INTO order_history_lines (history_id, product_id, product_name, quantity, price)
        VALUES ($1, $2, $3, $4, $5)`
	stmt, err := t.tx.Prepare(lineQuery)
	if err != nil {
		t.log.Errorf("Repository: Failed to prepare history line statement: %v", err)
		return fmt.Errorf("could not prepare history line statement: %w", err)
	}
	defer stmt.Close()

	for _, line := range entry.Lines {
		if _, err = stmt.Exec(entry.ID, line.ProductID, line.ProductName, line.Quantity, line.Price); err != nil {
			t.log.Errorf("Repository: Failed to insert history line (product %d) for order %d: %v", line.ProductID, entry.OrderID, err)
			return fmt.Errorf("could not record order history line (product %d): %w", line.ProductID, err)
		}
	}

	t.log.Infof("Repository: History entry %d recorded for order %d (status %s)", entry.ID, entry.OrderID, entry.Status)
	return nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
