package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when deleting an operation that doesn't exist.
var ErrNotFound = errors.New("operation not found")

// timeLayout keeps timestamps sortable as text and readable by SQLite's
// date functions.
const timeLayout = "2006-01-02 15:04:05.000"

// Operation is one store, load or clear performed in the register menu.
type Operation struct {
	ID        int64
	Timestamp time.Time
	Op        string
	Register  string
	Kind      string
	SizeBytes int
	Success   bool
	Message   string
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// SaveOperation saves an operation to the database
func (db *DB) SaveOperation(o *Operation) error {
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}

	query := `
		INSERT INTO operations (timestamp, op, register, kind, size_bytes, success, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var message sql.NullString
	if o.Message != "" {
		message = sql.NullString{String: o.Message, Valid: true}
	}

	result, err := db.conn.Exec(query,
		formatTime(o.Timestamp), o.Op, o.Register, o.Kind, o.SizeBytes, o.Success, message,
	)
	if err != nil {
		return fmt.Errorf("failed to save operation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	o.ID = id
	return nil
}

// GetOperations retrieves operations with pagination, newest first
func (db *DB) GetOperations(limit, offset int) ([]Operation, error) {
	query := `
		SELECT id, timestamp, op, register, kind, size_bytes, success, message
		FROM operations
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var operations []Operation
	for rows.Next() {
		var o Operation
		var timestamp string
		var message sql.NullString

		err := rows.Scan(&o.ID, &timestamp, &o.Op, &o.Register, &o.Kind, &o.SizeBytes, &o.Success, &message)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}

		if o.Timestamp, err = parseTime(timestamp); err != nil {
			return nil, fmt.Errorf("failed to parse operation timestamp: %w", err)
		}
		if message.Valid {
			o.Message = message.String
		}

		operations = append(operations, o)
	}

	return operations, rows.Err()
}

// DeleteOperation deletes an operation by ID
func (db *DB) DeleteOperation(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM operations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetOperationCount returns the total number of operations
func (db *DB) GetOperationCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM operations").Scan(&count)
	return count, err
}

// parseTime accepts the layout written by SaveOperation as well as the
// RFC 3339 form the driver may hand back for DATETIME columns.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
