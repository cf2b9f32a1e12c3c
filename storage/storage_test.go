package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.FileExists(t, filepath.Join(dir, FileName))

	// Reopening keeps the existing schema.
	db, err = Open(dir)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSaveOperation_AssignsIDAndRoundTrips(t *testing.T) {
	db := openTestDB(t)
	at := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

	op := &Operation{Timestamp: at, Op: "store", Register: "a", Kind: "text", SizeBytes: 11, Success: true}
	require.NoError(t, db.SaveOperation(op))
	assert.NotZero(t, op.ID)

	failed := &Operation{Timestamp: at.Add(time.Second), Op: "load", Register: "Q", Message: "invalid register"}
	require.NoError(t, db.SaveOperation(failed))

	ops, err := db.GetOperations(10, 0)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	assert.Equal(t, failed.ID, ops[0].ID, "newest first")
	assert.Equal(t, "invalid register", ops[0].Message)
	assert.False(t, ops[0].Success)

	assert.True(t, ops[1].Timestamp.Equal(at))
	assert.Equal(t, "a", ops[1].Register)
	assert.Equal(t, "text", ops[1].Kind)
	assert.Equal(t, 11, ops[1].SizeBytes)
	assert.Empty(t, ops[1].Message)
}

func TestGetOperations_Pagination(t *testing.T) {
	db := openTestDB(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.SaveOperation(&Operation{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Op:        "clear",
			Success:   true,
		}))
	}

	count, err := db.GetOperationCount()
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	page, err := db.GetOperations(2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].ID)
	assert.Equal(t, int64(2), page[1].ID)
}

func TestDeleteOperation(t *testing.T) {
	db := openTestDB(t)
	op := &Operation{Op: "clear", Success: true}
	require.NoError(t, db.SaveOperation(op))

	require.NoError(t, db.DeleteOperation(op.ID))
	assert.ErrorIs(t, db.DeleteOperation(op.ID), ErrNotFound)

	count, err := db.GetOperationCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func seedStats(t *testing.T, db *DB) {
	t.Helper()
	now := time.Now()
	ops := []Operation{
		{Timestamp: now, Op: "store", Register: "a", Kind: "text", SizeBytes: 5, Success: true},
		{Timestamp: now, Op: "store", Register: "b", Kind: "image", SizeBytes: 100, Success: true},
		{Timestamp: now, Op: "load", Register: "a", Kind: "text", SizeBytes: 5, Success: true},
		{Timestamp: now, Op: "load", Register: "c", Message: "no content"},
		{Timestamp: now, Op: "clear", Success: true},
		{Timestamp: now.AddDate(0, 0, -30), Op: "store", Register: "a", Kind: "text", SizeBytes: 7, Success: true},
	}
	for i := range ops {
		require.NoError(t, db.SaveOperation(&ops[i]))
	}
}

func TestGetOverallStats(t *testing.T) {
	db := openTestDB(t)
	seedStats(t, db)

	stats, err := db.GetOverallStats(7)
	require.NoError(t, err)

	assert.Equal(t, &OverallStats{
		TotalOperations: 5,
		Stores:          2,
		Loads:           2,
		Clears:          1,
		SuccessCount:    4,
		FailureCount:    1,
		TextStores:      1,
		ImageStores:     1,
		BytesStored:     105,
	}, stats)

	all, err := db.GetOverallStats(90)
	require.NoError(t, err)
	assert.Equal(t, 6, all.TotalOperations)
	assert.Equal(t, int64(112), all.BytesStored)
}

func TestGetOverallStats_Empty(t *testing.T) {
	db := openTestDB(t)

	stats, err := db.GetOverallStats(7)
	require.NoError(t, err)
	assert.Equal(t, &OverallStats{}, stats)
}

func TestGetDailyStats(t *testing.T) {
	db := openTestDB(t)
	seedStats(t, db)

	daily, err := db.GetDailyStats(7)
	require.NoError(t, err)
	require.Len(t, daily, 1)

	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), daily[0].Date)
	assert.Equal(t, 5, daily[0].Operations)
	assert.Equal(t, 2, daily[0].Stores)
	assert.Equal(t, 2, daily[0].Loads)
	assert.Equal(t, 1, daily[0].Clears)
	assert.Equal(t, 1, daily[0].FailureCount)
}

func TestGetRegisterStats(t *testing.T) {
	db := openTestDB(t)
	seedStats(t, db)

	stats, err := db.GetRegisterStats(7)
	require.NoError(t, err)

	assert.Equal(t, []RegisterStats{
		{Register: "a", Stores: 1, Loads: 1, BytesStored: 5},
		{Register: "b", Stores: 1, BytesStored: 100},
		{Register: "c"},
	}, stats)
}

func TestGetStatsForDateRange(t *testing.T) {
	db := openTestDB(t)
	seedStats(t, db)

	now := time.Now()
	stats, err := db.GetStatsForDateRange(now.AddDate(0, 0, -31), now.AddDate(0, 0, -29))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalOperations)
	assert.Equal(t, 1, stats.TextStores)
	assert.Equal(t, int64(7), stats.BytesStored)
}
