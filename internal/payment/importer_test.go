package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkollect/kollect/internal/allocation"
)

type fakeStore struct {
	refs []allocation.AccountRef

	batch     *Batch
	inserted  [][]Row
	progress  []int
	finalized string
	insertErr error
}

func (f *fakeStore) AccountNumbers(ctx context.Context) ([]allocation.AccountRef, error) {
	return f.refs, nil
}

func (f *fakeStore) CreateBatch(ctx context.Context, fileName string, total int) (*Batch, error) {
	f.batch = &Batch{
		ID:           uuid.New(),
		FileName:     fileName,
		Status:       BatchStatusRunning,
		TotalRecords: total,
		CreatedAt:    time.Now().UTC(),
	}
	return f.batch, nil
}

func (f *fakeStore) InsertPayments(ctx context.Context, batchID uuid.UUID, rows []Row) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	chunk := make([]Row, len(rows))
	copy(chunk, rows)
	f.inserted = append(f.inserted, chunk)
	return len(rows), nil
}

func (f *fakeStore) UpdateBatchProgress(ctx context.Context, batchID uuid.UUID, imported, unmatched int) error {
	f.progress = append(f.progress, imported)
	return nil
}

func (f *fakeStore) FinalizeBatch(ctx context.Context, batchID uuid.UUID, status string, imported, unmatched int) error {
	f.finalized = status
	return nil
}

func records(numbers ...string) []Record {
	out := make([]Record, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, Record{AccountNumber: n, Amount: 100, PaidAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)})
	}
	return out
}

func TestImportMatchesAndChunks(t *testing.T) {
	store := &fakeStore{refs: []allocation.AccountRef{
		{ID: uuid.New(), Number: "ACC-001"},
		{ID: uuid.New(), Number: "ACC-002"},
	}}
	importer := NewImporter(store)
	importer.chunkSize = 2

	batch, err := importer.Import(context.Background(), "payments.csv",
		records("ACC-001", "acc-002", "UNKNOWN-9"))
	require.NoError(t, err)

	assert.Equal(t, BatchStatusCompleted, batch.Status)
	assert.Equal(t, 3, batch.ImportedRecords)
	assert.Equal(t, 1, batch.UnmatchedRecords)
	require.Len(t, store.inserted, 2, "three records at chunk size two")
	assert.Len(t, store.inserted[0], 2)
	assert.Len(t, store.inserted[1], 1)

	assert.NotNil(t, store.inserted[0][0].AccountID)
	assert.NotNil(t, store.inserted[0][1].AccountID)
	assert.Nil(t, store.inserted[1][0].AccountID, "unmatched payment kept without account link")
	assert.Equal(t, []int{2, 3}, store.progress)
	assert.Equal(t, BatchStatusCompleted, store.finalized)
}

func TestImportChunkFailureMarksBatchFailed(t *testing.T) {
	store := &fakeStore{
		refs:      []allocation.AccountRef{{ID: uuid.New(), Number: "ACC-001"}},
		insertErr: errors.New("disk full"),
	}
	importer := NewImporter(store)

	_, err := importer.Import(context.Background(), "payments.csv", records("ACC-001"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, BatchStatusFailed, store.finalized)
}

func TestImportRejectsEmptyInput(t *testing.T) {
	importer := NewImporter(&fakeStore{})
	_, err := importer.Import(context.Background(), "payments.csv", nil)
	require.Error(t, err)
}

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"account_number,amount,payment_date,reference",
		"ACC-001,150.50,2025-03-01,EFT-11",
		"ACC-002,-5,2025-03-02,EFT-12",
		"ACC-003,80,not-a-date,EFT-13",
		",90,2025-03-04,EFT-14",
		"ACC-005,200,2025-03-05,",
	}, "\n")

	parsed, warnings, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "ACC-001", parsed[0].AccountNumber)
	assert.Equal(t, 150.50, parsed[0].Amount)
	assert.Equal(t, "EFT-11", parsed[0].Reference)
	assert.Equal(t, "ACC-005", parsed[1].AccountNumber)
	assert.Len(t, warnings, 3)
}

func TestParseCSVMissingHeader(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader("account_number,amount\nACC-001,10"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment_date")
}
