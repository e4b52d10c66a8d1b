package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jkeller/invoicegen/pkg/database"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "ledger.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return NewRepository(db, zap.NewNop())
}

func testRecord(number int64) *Record {
	return &Record{
		Number:     number,
		Client:     "Acme Corp",
		Subtotal:   "40.00",
		Tax:        "5.20",
		GrandTotal: "45.20",
		Due:        time.Date(2022, 9, 14, 0, 0, 0, 0, time.UTC),
		IssuedAt:   time.Date(2022, 9, 1, 12, 0, 0, 0, time.UTC),
		HTMLPath:   "output/invoice_1.html",
		PDF:        true,
	}
}

func TestSaveAndMaxNumber(t *testing.T) {
	repo := testRepo(t)

	max, err := repo.MaxNumber()
	require.NoError(t, err)
	assert.Equal(t, int64(0), max, "empty ledger seeds the sequence at zero")

	require.NoError(t, repo.Save(testRecord(1)))
	require.NoError(t, repo.Save(testRecord(2)))
	require.NoError(t, repo.Save(testRecord(7)))

	max, err = repo.MaxNumber()
	require.NoError(t, err)
	assert.Equal(t, int64(7), max)
}

func TestSaveRejectsDuplicateNumber(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.Save(testRecord(1)))
	assert.Error(t, repo.Save(testRecord(1)), "invoice numbers are the primary key")
}

func TestSaveAllRollsBackOnFailure(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.Save(testRecord(5)))

	// Second record collides with the existing number; the transaction must
	// drop the first one too.
	err := repo.SaveAll([]*Record{testRecord(10), testRecord(5)})
	require.Error(t, err)

	max, err := repo.MaxNumber()
	require.NoError(t, err)
	assert.Equal(t, int64(5), max, "no record of the failed batch may persist")
}

func TestHistory(t *testing.T) {
	repo := testRepo(t)
	for n := int64(1); n <= 3; n++ {
		require.NoError(t, repo.Save(testRecord(n)))
	}

	records, err := repo.History(2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, int64(3), records[0].Number)
	assert.Equal(t, int64(2), records[1].Number)
	assert.Equal(t, "45.20", records[0].GrandTotal)
	assert.Equal(t, "2022-09-14", records[0].Due.Format("2006-01-02"))
	assert.True(t, records[0].PDF)
}
