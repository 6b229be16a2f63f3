package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tynda/model"

	"github.com/google/uuid"
)

// ErrDuplicateUser is returned when the username or email is already taken.
var ErrDuplicateUser = errors.New("username or email already exists")

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(id string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByUsernameOrEmail(username, email string) (*model.User, error)
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

const userColumns = "id, username, email, password_hash, role, created_at"

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser adds a new user to the database, assigning its id.
func (r *mysqlUserRepository) CreateUser(user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.CreatedAt = time.Now().UTC().Truncate(time.Second)

	query := "INSERT INTO users (id, username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, ?)"
	_, err := r.db.Exec(query, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		// The unique keys on username and email back up the pre-insert check.
		if strings.Contains(err.Error(), "Duplicate entry") {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to execute CreateUser: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID. Returns nil if not found.
func (r *mysqlUserRepository) GetUserByID(id string) (*model.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to scan user row for ID %s: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email address. Returns nil if not found.
func (r *mysqlUserRepository) GetUserByEmail(email string) (*model.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to scan user row for email %s: %w", email, err)
	}
	return user, nil
}

// GetUserByUsernameOrEmail retrieves a user matching either field. Used as the
// single uniqueness check during registration.
func (r *mysqlUserRepository) GetUserByUsernameOrEmail(username, email string) (*model.User, error) {
	row := r.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ? OR email = ?", username, email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No such user
		}
		return nil, fmt.Errorf("failed to scan user row for username %s / email %s: %w", username, email, err)
	}
	return user, nil
}
