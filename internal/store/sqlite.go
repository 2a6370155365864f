package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rcliao/person-registry/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Writes serialize on a single connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:   db,
		path: dbPath,
		now:  time.Now,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS persons (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		national_id   TEXT NOT NULL UNIQUE,
		first_names   TEXT NOT NULL,
		last_names    TEXT NOT NULL,
		birth_date    TEXT NOT NULL,
		gender        TEXT NOT NULL,
		city          TEXT NOT NULL,
		registered_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	);
	CREATE INDEX IF NOT EXISTS idx_persons_registered ON persons(registered_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

const personColumns = `id, national_id, first_names, last_names, birth_date, gender, city, registered_at`

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Person, error) {
	clause, args := filter(p, func(int) string { return "?" })

	rows, err := s.db.QueryContext(ctx, `SELECT `+personColumns+` FROM persons`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	persons := []model.Person{}
	for rows.Next() {
		m, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, m)
	}
	return persons, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.Person, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE id = ?`, id)
	return s.one(row, fmt.Sprintf("id %d", id))
}

func (s *SQLiteStore) FindByNationalID(ctx context.Context, nationalID string) (*model.Person, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE national_id = ?`, nationalID)
	return s.one(row, "national ID "+nationalID)
}

func (s *SQLiteStore) one(row scanner, what string) (*model.Person, error) {
	m, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, what)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteStore) Create(ctx context.Context, in model.PersonInput) (*model.Person, error) {
	now := s.now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO persons (national_id, first_names, last_names, birth_date, gender, city, registered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.NationalID, in.FirstNames, in.LastNames, in.BirthDate, in.Gender, in.City,
		now.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateKey, in.NationalID)
		}
		return nil, fmt.Errorf("insert person: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &model.Person{
		ID:           id,
		NationalID:   in.NationalID,
		FirstNames:   in.FirstNames,
		LastNames:    in.LastNames,
		BirthDate:    in.BirthDate,
		Gender:       in.Gender,
		City:         in.City,
		RegisteredAt: now,
	}, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, in model.PersonInput) (*model.Person, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE persons
		 SET national_id = ?, first_names = ?, last_names = ?, birth_date = ?, gender = ?, city = ?
		 WHERE id = ?`,
		in.NationalID, in.FirstNames, in.LastNames, in.BirthDate, in.Gender, in.City, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateKey, in.NationalID)
		}
		return nil, fmt.Errorf("update person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}

	row := tx.QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE id = ?`, id)
	m, err := scanPerson(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (model.Person, error) {
	var m model.Person
	var registeredAt string

	err := row.Scan(
		&m.ID, &m.NationalID, &m.FirstNames, &m.LastNames,
		&m.BirthDate, &m.Gender, &m.City, &registeredAt,
	)
	if err != nil {
		return m, err
	}

	m.RegisteredAt, _ = time.Parse(time.RFC3339, registeredAt)
	return m, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}
