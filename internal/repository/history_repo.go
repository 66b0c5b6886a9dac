package repository

import (
	"database/sql"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// postgresHistoryRepository is the read side of the audit trail. Writes happen
// only inside lifecycle transactions (see order_store.go); entries are never
// updated or deleted.
type postgresHistoryRepository struct {
	conn *sql.DB
	log  *logrus.Logger
}

func NewPostgresHistoryRepository(conn *sql.DB, logger *logrus.Logger) domain.HistoryRepository {
	return &postgresHistoryRepository{
		conn: conn,
		log:  logger,
	}
}

func (r *postgresHistoryRepository) ListHistoryEntries() ([]domain.OrderHistoryEntry, error) {
	query := `
        SELECT id, order_id, status, order_date, total_price, user_id, user_name, user_email, user_address, recorded_at
        FROM order_history
        ORDER BY recorded_at DESC`
	return r.listEntries(query)
}

func (r *postgresHistoryRepository) ListHistoryByOrder(orderID int) ([]domain.OrderHistoryEntry, error) {
	query := `
        SELECT id, order_id, status, order_date, total_price, user_id, user_name, user_email, user_address, recorded_at
        FROM order_history
        WHERE order_id = $1
        ORDER BY recorded_at DESC`
	return r.listEntries(query, orderID)
}

func (r *postgresHistoryRepository) listEntries(query string, args ...interface{}) ([]domain.OrderHistoryEntry, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list history entries: %v", err)
		return nil, fmt.Errorf("could not list order history: %w", err)
	}
	defer rows.Close()

	entries := []domain.OrderHistoryEntry{}
	entryIDs := []int{}
	for rows.Next() {
		var entry domain.OrderHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.OrderID,
			&entry.Status,
			&entry.OrderDate,
			&entry.TotalPrice,
			&entry.UserID,
			&entry.UserName,
			&entry.UserEmail,
			&entry.UserAddress,
			&entry.RecordedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan history entry row: %v", err)
			return nil, fmt.Errorf("error scanning history entry: %w", err)
		}
		entries = append(entries, entry)
		entryIDs = append(entryIDs, entry.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during history entries iteration: %v", err)
		return nil, fmt.Errorf("error iterating history entries: %w", err)
	}

	if len(entries) == 0 {
		return entries, nil
	}

	linesQuery := `
        SELECT history_id, product_id, product_name, quantity, price
        FROM order_history_lines
        WHERE history_id = ANY($1::int[])
        ORDER BY history_id`
	lineRows, err := r.conn.Query(linesQuery, pq.Array(entryIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to query history lines for entries %v: %v", entryIDs, err)
		return nil, fmt.Errorf("could not retrieve history lines: %w", err)
	}
	defer lineRows.Close()

	linesByEntry := make(map[int][]domain.OrderHistoryLine)
	for lineRows.Next() {
		var entryID int
		var line domain.OrderHistoryLine
		if err := lineRows.Scan(&entryID, &line.ProductID, &line.ProductName, &line.Quantity, &line.Price); err != nil {
			r.log.Errorf("Repository: Failed to scan history line row: %v", err)
			return nil, fmt.Errorf("error scanning history line: %w", err)
		}
		linesByEntry[entryID] = append(linesByEntry[entryID], line)
	}
	if err = lineRows.Err(); err != nil {
		r.log.Errorf("Repository: Error during history lines iteration: %v", err)
		return nil, fmt.Errorf("error iterating history lines: %w", err)
	}

	for i := range entries {
		if lines, ok := linesByEntry[entries[i].ID]; ok {
			entries[i].Lines = lines
		} else {
			entries[i].Lines = []domain.OrderHistoryLine{}
		}
	}

	r.log.Infof("Repository: Retrieved %d history entries", len(entries))
	return entries, nil
}
