package models

import "time"

// MigrationRecord is one row of the migrations ledger table.
type MigrationRecord struct {
	ID         int64     `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	ExecutedAt time.Time `json:"executed_at" db:"executed_at"`
}
