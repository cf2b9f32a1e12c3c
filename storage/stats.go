package storage

import (
	"fmt"
	"time"
)

// DailyStats represents statistics for a single day
type DailyStats struct {
	Date         string
	Operations   int
	Stores       int
	Loads        int
	Clears       int
	FailureCount int
}

// RegisterStats represents usage of a single register
type RegisterStats struct {
	Register    string
	Stores      int
	Loads       int
	BytesStored int64
}

// OverallStats represents overall statistics
type OverallStats struct {
	TotalOperations int
	Stores          int
	Loads           int
	Clears          int
	SuccessCount    int
	FailureCount    int
	TextStores      int
	ImageStores     int
	BytesStored     int64
}

const overallColumns = `
	COUNT(*) as total_operations,
	COALESCE(SUM(CASE WHEN op = 'store' THEN 1 ELSE 0 END), 0) as stores,
	COALESCE(SUM(CASE WHEN op = 'load' THEN 1 ELSE 0 END), 0) as loads,
	COALESCE(SUM(CASE WHEN op = 'clear' THEN 1 ELSE 0 END), 0) as clears,
	COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0) as success_count,
	COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) as failure_count,
	COALESCE(SUM(CASE WHEN op = 'store' AND success = 1 AND kind = 'text' THEN 1 ELSE 0 END), 0) as text_stores,
	COALESCE(SUM(CASE WHEN op = 'store' AND success = 1 AND kind = 'image' THEN 1 ELSE 0 END), 0) as image_stores,
	COALESCE(SUM(CASE WHEN op = 'store' AND success = 1 THEN size_bytes ELSE 0 END), 0) as bytes_stored
`

// GetDailyStats retrieves statistics grouped by date for the last N days
func (db *DB) GetDailyStats(days int) ([]DailyStats, error) {
	query := `
		SELECT
			DATE(timestamp) as date,
			COUNT(*) as operations,
			SUM(CASE WHEN op = 'store' THEN 1 ELSE 0 END) as stores,
			SUM(CASE WHEN op = 'load' THEN 1 ELSE 0 END) as loads,
			SUM(CASE WHEN op = 'clear' THEN 1 ELSE 0 END) as clears,
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) as failure_count
		FROM operations
		WHERE timestamp >= ?
		GROUP BY DATE(timestamp)
		ORDER BY date DESC
	`

	rows, err := db.conn.Query(query, since(days))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStats
	for rows.Next() {
		var s DailyStats
		err := rows.Scan(&s.Date, &s.Operations, &s.Stores, &s.Loads, &s.Clears, &s.FailureCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetRegisterStats retrieves statistics grouped by register for the last N days
func (db *DB) GetRegisterStats(days int) ([]RegisterStats, error) {
	query := `
		SELECT
			register,
			SUM(CASE WHEN op = 'store' AND success = 1 THEN 1 ELSE 0 END) as stores,
			SUM(CASE WHEN op = 'load' AND success = 1 THEN 1 ELSE 0 END) as loads,
			COALESCE(SUM(CASE WHEN op = 'store' AND success = 1 THEN size_bytes ELSE 0 END), 0) as bytes_stored
		FROM operations
		WHERE timestamp >= ? AND register != ''
		GROUP BY register
		ORDER BY SUM(CASE WHEN success = 1 AND op IN ('store', 'load') THEN 1 ELSE 0 END) DESC, register ASC
	`

	rows, err := db.conn.Query(query, since(days))
	if err != nil {
		return nil, fmt.Errorf("failed to query register stats: %w", err)
	}
	defer rows.Close()

	var stats []RegisterStats
	for rows.Next() {
		var s RegisterStats
		if err := rows.Scan(&s.Register, &s.Stores, &s.Loads, &s.BytesStored); err != nil {
			return nil, fmt.Errorf("failed to scan register stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetOverallStats retrieves overall statistics for the last N days
func (db *DB) GetOverallStats(days int) (*OverallStats, error) {
	query := `SELECT ` + overallColumns + ` FROM operations WHERE timestamp >= ?`

	stats, err := db.scanOverall(query, since(days))
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}
	return stats, nil
}

// GetStatsForDateRange retrieves overall stats for a custom date range
func (db *DB) GetStatsForDateRange(startTime, endTime time.Time) (*OverallStats, error) {
	query := `SELECT ` + overallColumns + ` FROM operations WHERE timestamp >= ? AND timestamp <= ?`

	stats, err := db.scanOverall(query, formatTime(startTime), formatTime(endTime))
	if err != nil {
		return nil, fmt.Errorf("failed to query date range stats: %w", err)
	}
	return stats, nil
}

func (db *DB) scanOverall(query string, args ...any) (*OverallStats, error) {
	var stats OverallStats
	err := db.conn.QueryRow(query, args...).Scan(
		&stats.TotalOperations,
		&stats.Stores,
		&stats.Loads,
		&stats.Clears,
		&stats.SuccessCount,
		&stats.FailureCount,
		&stats.TextStores,
		&stats.ImageStores,
		&stats.BytesStored,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// since is the lower timestamp bound for the last days days, starting at
// midnight UTC so a whole first day is included.
func since(days int) string {
	if days < 1 {
		days = 1
	}
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -(days - 1))
	return formatTime(start)
}
