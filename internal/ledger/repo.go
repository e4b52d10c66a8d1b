// Package ledger records every issued invoice in sqlite so invoice numbers
// stay unique across runs.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jkeller/invoicegen/pkg/database"
	"go.uber.org/zap"
)

// Record is one issued invoice as stored in the ledger. Monetary fields are
// kept as fixed two-decimal strings.
type Record struct {
	Number     int64
	Client     string
	Subtotal   string
	Tax        string
	GrandTotal string
	Due        time.Time
	IssuedAt   time.Time
	HTMLPath   string
	PDF        bool
}

// Repository handles ledger reads and writes.
type Repository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewRepository creates a ledger repository.
func NewRepository(db *database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Save inserts one issued-invoice record.
func (r *Repository) Save(rec *Record) error {
	return r.SaveAll([]*Record{rec})
}

// SaveAll records a batch of issued invoices in one transaction, so a failed
// insert leaves no partial batch in the ledger.
func (r *Repository) SaveAll(recs []*Record) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		for _, rec := range recs {
			_, err := tx.Exec(`
				INSERT INTO invoices (number, client, subtotal, tax, grand_total, due_date, issued_at, html_path, pdf)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				rec.Number,
				rec.Client,
				rec.Subtotal,
				rec.Tax,
				rec.GrandTotal,
				rec.Due.Format("2006-01-02"),
				rec.IssuedAt,
				rec.HTMLPath,
				rec.PDF,
			)
			if err != nil {
				r.logger.Error("Failed to record invoice",
					zap.Int64("number", rec.Number),
					zap.Error(err))
				return fmt.Errorf("failed to record invoice %d: %w", rec.Number, err)
			}
		}
		return nil
	})
}

// MaxNumber returns the highest invoice number ever recorded, or 0 for an
// empty ledger. Used to seed the numbering sequence on startup.
func (r *Repository) MaxNumber() (int64, error) {
	var max int64
	err := r.db.QueryRow("SELECT COALESCE(MAX(number), 0) FROM invoices").Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to read max invoice number: %w", err)
	}
	return max, nil
}

// History returns the most recently issued invoices, newest first.
func (r *Repository) History(limit int) ([]*Record, error) {
	rows, err := r.db.Query(`
		SELECT number, client, subtotal, tax, grand_total, due_date, issued_at, html_path, pdf
		FROM invoices ORDER BY number DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec := &Record{}
		var due string
		if err := rows.Scan(
			&rec.Number, &rec.Client, &rec.Subtotal, &rec.Tax, &rec.GrandTotal,
			&due, &rec.IssuedAt, &rec.HTMLPath, &rec.PDF,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		if t, err := time.Parse("2006-01-02", due); err == nil {
			rec.Due = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
