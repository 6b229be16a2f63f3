package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tynda/model"

	"github.com/google/uuid"
)

// ContactRepository defines the interface for contact form submissions.
type ContactRepository interface {
	CreateContact(contact *model.Contact) error
}

// mysqlContactRepository implements ContactRepository for MySQL.
type mysqlContactRepository struct {
	db *sql.DB
}

// NewMySQLContactRepository creates a new mysqlContactRepository.
func NewMySQLContactRepository(db *sql.DB) ContactRepository {
	return &mysqlContactRepository{db: db}
}

// CreateContact stores a contact form submission.
func (r *mysqlContactRepository) CreateContact(contact *model.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	contact.CreatedAt = time.Now().UTC().Truncate(time.Second)

	query := "INSERT INTO contacts (id, name, email, message, created_at) VALUES (?, ?, ?, ?, ?)"
	_, err := r.db.Exec(query, contact.ID, contact.Name, contact.Email, contact.Message, contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute CreateContact: %w", err)
	}
	return nil
}
