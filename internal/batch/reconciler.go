// Package batch reconciles a batch assignment table against the item and
// client catalogs, producing one rendered invoice per client column.
package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jkeller/invoicegen/internal/billing"
	"github.com/jkeller/invoicegen/internal/catalog"
	"github.com/jkeller/invoicegen/internal/ledger"
	"github.com/jkeller/invoicegen/internal/output"
	"github.com/jkeller/invoicegen/internal/render"
	"go.uber.org/zap"
)

// Policy decides what happens when one client column fails.
type Policy int

const (
	// FailFast aborts the whole batch on the first error.
	FailFast Policy = iota
	// CollectAll attempts every column and reports failures together;
	// successful columns are still written.
	CollectAll
)

// ColumnError is one failed client column.
type ColumnError struct {
	Client string
	Err    error
}

// BatchError aggregates column failures under the CollectAll policy, in
// header order.
type BatchError struct {
	Columns []ColumnError
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Columns))
	for _, c := range e.Columns {
		parts = append(parts, fmt.Sprintf("%s: %v", c.Client, c.Err))
	}
	return fmt.Sprintf("%d of batch columns failed: %s", len(e.Columns), strings.Join(parts, "; "))
}

// Config holds per-batch options.
type Config struct {
	Policy     Policy
	Offset     int64
	TaxPercent float64
	PDF        bool
}

// Reconciler turns batch tables into written invoices.
type Reconciler struct {
	store     *catalog.Store
	run       *billing.Run
	populator *render.Populator
	writer    *output.Writer
	ledger    *ledger.Repository // nil disables recording
	cfg       Config
	logger    *zap.Logger
}

// NewReconciler wires a reconciler. ledgerRepo may be nil.
func NewReconciler(
	store *catalog.Store,
	run *billing.Run,
	populator *render.Populator,
	writer *output.Writer,
	ledgerRepo *ledger.Repository,
	cfg Config,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		store:     store,
		run:       run,
		populator: populator,
		writer:    writer,
		ledger:    ledgerRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

// Batch headers disambiguate duplicate client names with a numeric suffix
// ("Acme.1"); the suffix is stripped before catalog lookup.
var dupSuffixRE = regexp.MustCompile(`\.\d+$`)

// RunFile reads a batch CSV from disk and reconciles it.
func (r *Reconciler) RunFile(path string) ([]*billing.Invoice, error) {
	if strings.ToLower(filepath.Ext(path)) != ".csv" {
		return nil, fmt.Errorf("%w: batch file %s must be .csv", billing.ErrFileFormat, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read batch csv: %w", err)
		}
		rows = append(rows, record)
	}
	return r.Run(rows)
}

// Run reconciles a batch table: header row names clients, each column body
// carries a due date followed by "item,quantity" cells until the first
// blank. Requires a configured run context before touching any column.
func (r *Reconciler) Run(rows [][]string) ([]*billing.Invoice, error) {
	if err := r.run.RequireConfigured(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("batch table is empty")
	}

	header := rows[0]
	body := rows[1:]

	r.logger.Info("Starting batch reconciliation",
		zap.Int("clients", len(header)),
		zap.Int64("offset", r.cfg.Offset))

	var invoices []*billing.Invoice
	var failures []ColumnError

	for col, name := range header {
		if strings.TrimSpace(name) == "" {
			// Trailing commas in the header produce empty columns.
			continue
		}
		inv, err := r.reconcileColumn(name, columnCells(body, col))
		if err == nil {
			err = r.emit(inv)
		}
		if err != nil {
			client := strings.TrimSpace(dupSuffixRE.ReplaceAllString(name, ""))
			if r.cfg.Policy == FailFast {
				return invoices, fmt.Errorf("batch column %q: %w", client, err)
			}
			r.logger.Warn("Batch column failed",
				zap.String("client", client),
				zap.Error(err))
			failures = append(failures, ColumnError{Client: client, Err: err})
			continue
		}
		invoices = append(invoices, inv)
	}

	if len(failures) > 0 {
		return invoices, &BatchError{Columns: failures}
	}

	r.logger.Info("Batch reconciliation complete", zap.Int("invoices", len(invoices)))
	return invoices, nil
}

// reconcileColumn builds one invoice from one client column.
func (r *Reconciler) reconcileColumn(header string, cells []string) (*billing.Invoice, error) {
	name := strings.TrimSpace(dupSuffixRE.ReplaceAllString(header, ""))

	client, err := r.store.FindClient(name)
	if err != nil {
		return nil, err
	}

	if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
		return nil, billing.NewValidationError("due date", "", "column has no due date row")
	}
	due, err := billing.ParseDate(strings.TrimSpace(cells[0]))
	if err != nil {
		return nil, err
	}

	var lines []billing.LineItem
	for _, cell := range cells[1:] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			// Short columns are blank-padded; the first blank ends this
			// client's assignments.
			break
		}

		itemName, qtyText, found := strings.Cut(cell, ",")
		if !found {
			return nil, billing.NewValidationError("assignment", cell, "expected \"item,quantity\"")
		}
		item, err := r.store.FindItem(strings.TrimSpace(itemName))
		if err != nil {
			return nil, err
		}
		qty, err := catalog.ParseQuantity(qtyText)
		if err != nil {
			return nil, err
		}

		line, err := billing.NewLineItem(item, qty)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return billing.NewInvoice(r.run, client, lines, due, r.cfg.TaxPercent, r.cfg.Offset)
}

// emit populates, writes and optionally records one invoice.
func (r *Reconciler) emit(inv *billing.Invoice) error {
	html, err := r.populator.Populate(inv, r.run)
	if err != nil {
		return err
	}

	htmlPath, err := r.writer.Write(html, inv.ID, r.cfg.PDF)
	if err != nil {
		return err
	}

	if r.ledger != nil {
		return r.ledger.Save(&ledger.Record{
			Number:     inv.ID,
			Client:     inv.Client.Name,
			Subtotal:   render.FormatPrice(inv.Subtotal()),
			Tax:        render.FormatPrice(inv.Tax()),
			GrandTotal: render.FormatPrice(inv.GrandTotal()),
			Due:        inv.Due,
			IssuedAt:   time.Now().UTC(),
			HTMLPath:   htmlPath,
			PDF:        r.cfg.PDF,
		})
	}
	return nil
}

// columnCells gathers column col of the body rows, padding missing cells
// with blanks so every column is the same height.
func columnCells(body [][]string, col int) []string {
	cells := make([]string, 0, len(body))
	for _, row := range body {
		if col < len(row) {
			cells = append(cells, row[col])
		} else {
			cells = append(cells, "")
		}
	}
	return cells
}
