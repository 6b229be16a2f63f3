package db

import (
	"database/sql"
	"fmt"
	"log"

	"tynda/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// Connect establishes a connection to the database and returns the handle.
// The handle is passed explicitly to the repositories; there is no package
// global, so lifecycle (Close) stays with the caller.
func Connect(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return conn, nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB(conn *sql.DB) error {
	if err := createUsersTable(conn); err != nil {
		return err
	}
	if err := createTracksTable(conn); err != nil {
		return err
	}
	if err := createContactsTable(conn); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createUsersTable(conn *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('user', 'admin') NOT NULL DEFAULT 'user',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := conn.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func createTracksTable(conn *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id CHAR(36) PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		artist VARCHAR(100) NOT NULL,
		album VARCHAR(255),
		genre VARCHAR(100) NOT NULL DEFAULT 'Other',
		duration_seconds INT NOT NULL DEFAULT 0,
		release_year INT NOT NULL DEFAULT 0,
		cover_url VARCHAR(767),
		created_by CHAR(36) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_user_tracks FOREIGN KEY (created_by) REFERENCES users(id)
	);
	`
	_, err := conn.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create tracks table: %w", err)
	}
	return nil
}

func createContactsTable(conn *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS contacts (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := conn.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create contacts table: %w", err)
	}
	return nil
}
