package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// Stats returns the record total and per-city and per-gender counts.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := newStats()
	st.DBPath = s.path

	// DB file size
	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&st.Total); err != nil {
		return nil, fmt.Errorf("count persons: %w", err)
	}
	if err := countBy(ctx, s.db, "city", st.ByCity); err != nil {
		return nil, err
	}
	if err := countBy(ctx, s.db, "gender", st.ByGender); err != nil {
		return nil, err
	}
	return st, nil
}

// countBy fills into with the row count per value of column, which must be a
// trusted column name.
func countBy(ctx context.Context, db *sql.DB, column string, into map[string]int) error {
	rows, err := db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) FROM persons GROUP BY `+column)
	if err != nil {
		return fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}
