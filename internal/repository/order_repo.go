package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresOrderRepository struct {
	conn *sql.DB
	log  *logrus.Logger
}

func NewPostgresOrderRepository(conn *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		conn: conn,
		log:  logger,
	}
}

const orderProjection = `
        SELECT o.id, o.user_id, o.status, o.total_price, o.proof_of_payment, o.order_date,
               u.id, u.name, u.email, u.address
        FROM orders o
        JOIN users u ON u.id = o.user_id`

func scanOrder(scanner interface{ Scan(dest ...interface{}) error }) (*domain.Order, error) {
	order := &domain.Order{User: &domain.UserSummary{}}
	var proof sql.NullString
	err := scanner.Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.TotalPrice,
		&proof,
		&order.OrderDate,
		&order.User.ID,
		&order.User.Name,
		&order.User.Email,
		&order.User.Address,
	)
	if err != nil {
		return nil, err
	}
	order.ProofOfPayment = proof.String
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(id int) (*domain.Order, error) {
	query := orderProjection + `
        WHERE o.id = $1`
	order, err := scanOrder(r.conn.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %d not found", id)
			return nil, &domain.NotFoundError{Resource: "order", IDs: []int{id}}
		}
		r.log.Errorf("Repository: Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	if err = r.attachLines([]*domain.Order{order}); err != nil {
		return nil, err
	}

	r.log.Infof("Repository: Order %d retrieved with %d lines", order.ID, len(order.Lines))
	return order, nil
}

func (r *postgresOrderRepository) ListOrdersByUser(userID int, filter domain.StatusFilter) ([]domain.Order, error) {
	query := orderProjection + `
        WHERE o.user_id = $1`
	args := []interface{}{userID}
	if clause, arg, ok := statusPredicate(filter, 2); ok {
		query += " AND " + clause
		args = append(args, arg)
	}
	query += `
        ORDER BY o.order_date DESC`

	return r.listOrders(query, args...)
}

func (r *postgresOrderRepository) ListAllOrders(filter domain.StatusFilter) ([]domain.Order, error) {
	query := orderProjection
	args := []interface{}{}
	if clause, arg, ok := statusPredicate(filter, 1); ok {
		query += `
        WHERE ` + clause
		args = append(args, arg)
	}
	query += `
        ORDER BY o.order_date DESC`

	return r.listOrders(query, args...)
}

// statusPredicate maps a status filter onto a SQL predicate. The "done"
// filter is a negation (everything past PENDING), not an equality.
func statusPredicate(filter domain.StatusFilter, argIndex int) (string, interface{}, bool) {
	switch filter {
	case domain.FilterPending:
		return fmt.Sprintf("o.status = $%d", argIndex), domain.StatusPending, true
	case domain.FilterAccepted:
		return fmt.Sprintf("o.status = $%d", argIndex), domain.StatusDone, true
	case domain.FilterCancelled:
		return fmt.Sprintf("o.status = $%d", argIndex), domain.StatusCancelled, true
	case domain.FilterDone:
		return fmt.Sprintf("o.status <> $%d", argIndex), domain.StatusPending, true
	default:
		return "", nil, false
	}
}

func (r *postgresOrderRepository) listOrders(query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	refs := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, *order)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during orders iteration: %v", err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range orders {
		refs = append(refs, &orders[i])
	}
	if err = r.attachLines(refs); err != nil {
		return nil, err
	}

	r.log.Infof("Repository: Retrieved %d orders", len(orders))
	return orders, nil
}

func (r *postgresOrderRepository) attachLines(orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := make([]int, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}

	query := `
        SELECT ol.order_id, ol.product_id, COALESCE(p.name, ''), ol.quantity, ol.price
        FROM order_lines ol
        LEFT JOIN products p ON p.id = ol.product_id
        WHERE ol.order_id = ANY($1::int[])
        ORDER BY ol.order_id`
	rows, err := r.conn.Query(query, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to query lines for orders %v: %v", orderIDs, err)
		return fmt.Errorf("could not retrieve order lines: %w", err)
	}
	defer rows.Close()

	linesByOrder := make(map[int][]domain.OrderLine)
	for rows.Next() {
		var orderID int
		var line domain.OrderLine
		if err := rows.Scan(&orderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.Price); err != nil {
			r.log.Errorf("Repository: Failed to scan order line row: %v", err)
			return fmt.Errorf("error scanning order line data: %w", err)
		}
		linesByOrder[orderID] = append(linesByOrder[orderID], line)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during order lines iteration: %v", err)
		return fmt.Errorf("error iterating order lines: %w", err)
	}

	for _, order := range orders {
		if lines, ok := linesByOrder[order.ID]; ok {
			order.Lines = lines
		} else {
			order.Lines = []domain.OrderLine{}
		}
	}
	return nil
}
