// Package payment ingests uploaded payment files in chunks, resolving each
// record's account number through the same tiered matcher used for
// allocations.
package payment

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartkollect/kollect/internal/allocation"
	"github.com/smartkollect/kollect/internal/common"
	"github.com/smartkollect/kollect/internal/metrics"
)

// Batch tracks the progress and outcome of one file import.
type Batch struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	FileName         string     `db:"file_name" json:"fileName"`
	Status           string     `db:"status" json:"status"`
	TotalRecords     int        `db:"total_records" json:"totalRecords"`
	ImportedRecords  int        `db:"imported_records" json:"importedRecords"`
	UnmatchedRecords int        `db:"unmatched_records" json:"unmatchedRecords"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	CompletedAt      *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

const (
	BatchStatusRunning   = "running"
	BatchStatusCompleted = "completed"
	BatchStatusFailed    = "failed"
)

// Record is one parsed payment file line.
type Record struct {
	AccountNumber string
	Amount        float64
	PaidAt        time.Time
	Reference     string
}

// Row is a record resolved against the account set and ready to persist.
// AccountID is nil when the account number matched nothing; the payment is
// still kept so it can be reconciled by hand later.
type Row struct {
	AccountID     *uuid.UUID
	AccountNumber string
	Amount        float64
	PaidAt        time.Time
	Reference     string
}

// Store is the persistence collaborator for imports.
type Store interface {
	AccountNumbers(ctx context.Context) ([]allocation.AccountRef, error)
	CreateBatch(ctx context.Context, fileName string, total int) (*Batch, error)
	InsertPayments(ctx context.Context, batchID uuid.UUID, rows []Row) (int, error)
	UpdateBatchProgress(ctx context.Context, batchID uuid.UUID, imported, unmatched int) error
	FinalizeBatch(ctx context.Context, batchID uuid.UUID, status string, imported, unmatched int) error
}

const defaultChunkSize = 500

// Importer persists parsed payment records in fixed-size chunks, updating
// batch progress after every chunk so large files report incrementally.
type Importer struct {
	store     Store
	chunkSize int
}

func NewImporter(store Store) *Importer {
	return &Importer{store: store, chunkSize: defaultChunkSize}
}

// Import matches and persists the records under a fresh batch. Each chunk is
// written in its own transaction; a chunk failure marks the batch failed and
// keeps the previously written chunks (re-uploading the file starts a new
// batch).
func (im *Importer) Import(ctx context.Context, fileName string, records []Record) (*Batch, error) {
	logger := common.Logger()
	if len(records) == 0 {
		return nil, errors.New("no valid payment records to import")
	}

	stored, err := im.store.AccountNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", allocation.ErrDataUnavailable, err)
	}
	resolver := allocation.NewResolver(stored)

	batch, err := im.store.CreateBatch(ctx, fileName, len(records))
	if err != nil {
		return nil, fmt.Errorf("create payment batch: %w", err)
	}
	logger.Info("payment: import started", "batch", batch.ID, "file", fileName, "records", len(records))

	imported := 0
	unmatched := 0
	chunk := make([]Row, 0, im.chunkSize)
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		n, err := im.store.InsertPayments(ctx, batch.ID, chunk)
		if err != nil {
			return err
		}
		imported += n
		chunk = chunk[:0]
		return im.store.UpdateBatchProgress(ctx, batch.ID, imported, unmatched)
	}

	for _, rec := range records {
		row := Row{
			AccountNumber: rec.AccountNumber,
			Amount:        rec.Amount,
			PaidAt:        rec.PaidAt,
			Reference:     rec.Reference,
		}
		if ref, ok := resolver.Resolve(rec.AccountNumber); ok {
			id := ref.ID
			row.AccountID = &id
		} else {
			unmatched++
		}
		chunk = append(chunk, row)
		if len(chunk) >= im.chunkSize {
			if err := flush(); err != nil {
				im.failBatch(ctx, batch.ID, imported, unmatched)
				return nil, fmt.Errorf("insert payment chunk: %w", err)
			}
		}
	}
	if err := flush(); err != nil {
		im.failBatch(ctx, batch.ID, imported, unmatched)
		return nil, fmt.Errorf("insert payment chunk: %w", err)
	}

	if err := im.store.FinalizeBatch(ctx, batch.ID, BatchStatusCompleted, imported, unmatched); err != nil {
		return nil, fmt.Errorf("finalize payment batch: %w", err)
	}
	metrics.PaymentsImported.Add(float64(imported))
	logger.Info("payment: import complete", "batch", batch.ID, "imported", imported, "unmatched", unmatched)

	batch.Status = BatchStatusCompleted
	batch.ImportedRecords = imported
	batch.UnmatchedRecords = unmatched
	return batch, nil
}

func (im *Importer) failBatch(ctx context.Context, batchID uuid.UUID, imported, unmatched int) {
	if err := im.store.FinalizeBatch(ctx, batchID, BatchStatusFailed, imported, unmatched); err != nil {
		common.Logger().Error("payment: failed to mark batch failed", "batch", batchID, "error", err)
	}
}

// ParseCSV reads a payment file. Required headers: account_number, amount,
// payment_date. Optional: reference. Lines that fail to parse are skipped
// and reported as warnings rather than aborting the whole file.
func ParseCSV(r io.Reader) ([]Record, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read payment file header: %w", err)
	}
	index := mapHeaders(header)
	for _, required := range []string{"account_number", "amount", "payment_date"} {
		if _, ok := index[required]; !ok {
			return nil, nil, fmt.Errorf("missing required header: %s", required)
		}
	}

	var records []Record
	var warnings []string
	line := 1
	for {
		line++
		raw, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		rec, warn := parseRecord(raw, index, line)
		if warn != "" {
			warnings = append(warnings, warn)
			metrics.PaymentsRejected.Inc()
			continue
		}
		records = append(records, rec)
	}
	return records, warnings, nil
}

func mapHeaders(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func parseRecord(raw []string, index map[string]int, line int) (Record, string) {
	get := func(key string) string {
		pos, ok := index[key]
		if !ok || pos >= len(raw) {
			return ""
		}
		return strings.TrimSpace(raw[pos])
	}

	number := get("account_number")
	if number == "" {
		return Record{}, fmt.Sprintf("line %d: missing account_number", line)
	}
	amount, err := strconv.ParseFloat(get("amount"), 64)
	if err != nil {
		return Record{}, fmt.Sprintf("line %d: invalid amount", line)
	}
	if amount <= 0 {
		return Record{}, fmt.Sprintf("line %d: amount must be > 0", line)
	}
	paidAt, err := time.Parse("2006-01-02", get("payment_date"))
	if err != nil {
		return Record{}, fmt.Sprintf("line %d: invalid payment_date", line)
	}
	return Record{
		AccountNumber: number,
		Amount:        amount,
		PaidAt:        paidAt,
		Reference:     get("reference"),
	}, ""
}
