package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"storefront_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type postgresUserRepository struct {
	conn *sql.DB
	log  *logrus.Logger
}

func NewPostgresUserRepository(conn *sql.DB, logger *logrus.Logger) domain.UserRepository {
	return &postgresUserRepository{
		conn: conn,
		log:  logger,
	}
}

const userColumns = `id, name, email, address, phone_number, role, password_hash, COALESCE(token, ''), created_at`

func (r *postgresUserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Address,
		&user.PhoneNumber,
		&user.Role,
		&user.PasswordHash,
		&user.Token,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) CreateUser(user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (name, email, address, phone_number, role, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	r.log.Debugf("Repository: Attempting to create user with email: %s", user.Email)

	err := r.conn.QueryRow(query,
		user.Name,
		user.Email,
		user.Address,
		user.PhoneNumber,
		user.Role,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Attempted to create user with duplicate email: %s", user.Email)
			return nil, domain.NewValidationError("user with email '%s' already exists", user.Email)
		}
		r.log.Errorf("Repository: Failed to create user '%s': %v", user.Email, err)
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	r.log.Infof("Repository: User created with ID: %d, Email: %s", user.ID, user.Email)
	return user, nil
}

func (r *postgresUserRepository) GetUserByID(id int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := r.scanUser(r.conn.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with ID %d not found", id)
			return nil, &domain.NotFoundError{Resource: "user", IDs: []int{id}}
		}
		r.log.Errorf("Repository: Failed to get user by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByEmail(email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := r.scanUser(r.conn.QueryRow(query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: User with email %s not found", email)
			return nil, &domain.NotFoundError{Resource: "user"}
		}
		r.log.Errorf("Repository: Failed to get user by email %s: %v", email, err)
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByToken(token string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE token = $1`
	user, err := r.scanUser(r.conn.QueryRow(query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Debug("Repository: No user found for presented token")
			return nil, &domain.NotFoundError{Resource: "session"}
		}
		r.log.Errorf("Repository: Failed to get user by token: %v", err)
		return nil, fmt.Errorf("could not get user by token: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) ListUsers(nameFilter string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if nameFilter != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, nameFilter)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list users: %v", err)
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Address,
			&user.PhoneNumber,
			&user.Role,
			&user.PasswordHash,
			&user.Token,
			&user.CreatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan user row: %v", err)
			return nil, fmt.Errorf("error scanning user data: %w", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during users iteration: %v", err)
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	r.log.Infof("Repository: Retrieved %d users", len(users))
	return users, nil
}

func (r *postgresUserRepository) UpdateUser(user *domain.User) (*domain.User, error) {
	query := `
        UPDATE users
        SET name = $1, email = $2, address = $3, phone_number = $4, role = $5, password_hash = $6
        WHERE id = $7`
	result, err := r.conn.Exec(query,
		user.Name,
		user.Email,
		user.Address,
		user.PhoneNumber,
		user.Role,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Repository: Attempted to update user %d to duplicate email: %s", user.ID, user.Email)
			return nil, domain.NewValidationError("user with email '%s' already exists", user.Email)
		}
		r.log.Errorf("Repository: Failed to update user %d: %v", user.ID, err)
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected updating user %d: %v", user.ID, err)
		return nil, fmt.Errorf("could not confirm user update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: User with ID %d not found for update", user.ID)
		return nil, &domain.NotFoundError{Resource: "user", IDs: []int{user.ID}}
	}

	r.log.Infof("Repository: User %d updated", user.ID)
	return r.GetUserByID(user.ID)
}

func (r *postgresUserRepository) SetToken(id int, token string) error {
	return r.updateToken(id, sql.NullString{String: token, Valid: true})
}

func (r *postgresUserRepository) ClearToken(id int) error {
	return r.updateToken(id, sql.NullString{})
}

func (r *postgresUserRepository) updateToken(id int, token sql.NullString) error {
	query := `UPDATE users SET token = $1 WHERE id = $2`
	result, err := r.conn.Exec(query, token, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to update token for user %d: %v", id, err)
		return fmt.Errorf("could not update user token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected updating token for user %d: %v", id, err)
		return fmt.Errorf("could not confirm token update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: User with ID %d not found for token update", id)
		return &domain.NotFoundError{Resource: "user", IDs: []int{id}}
	}
	return nil
}

func (r *postgresUserRepository) DeleteUser(id int) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.conn.Exec(query, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete user %d: %v", id, err)
		return fmt.Errorf("could not delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected deleting user %d: %v", id, err)
		return fmt.Errorf("could not confirm user deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent user %d", id)
		return &domain.NotFoundError{Resource: "user", IDs: []int{id}}
	}

	r.log.Infof("Repository: User deleted with ID: %d", id)
	return nil
}
