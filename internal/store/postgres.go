package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcliao/person-registry/internal/model"
)

const pgUniqueViolation = "23505"

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS persons (
		id            BIGSERIAL PRIMARY KEY,
		national_id   TEXT NOT NULL UNIQUE,
		first_names   TEXT NOT NULL,
		last_names    TEXT NOT NULL,
		birth_date    TEXT NOT NULL,
		gender        TEXT NOT NULL,
		city          TEXT NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL DEFAULT date_trunc('second', now())
	)`)
	return err
}

func (s *PostgresStore) List(ctx context.Context, p ListParams) ([]model.Person, error) {
	clause, args := filter(p, func(n int) string { return "$" + strconv.Itoa(n) })

	rows, err := s.pool.Query(ctx, `SELECT `+personColumns+` FROM persons`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	persons := []model.Person{}
	for rows.Next() {
		m, err := scanPgPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, m)
	}
	return persons, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*model.Person, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+personColumns+` FROM persons WHERE id = $1`, id)
	return onePg(row, fmt.Sprintf("id %d", id))
}

func (s *PostgresStore) FindByNationalID(ctx context.Context, nationalID string) (*model.Person, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+personColumns+` FROM persons WHERE national_id = $1`, nationalID)
	return onePg(row, "national ID "+nationalID)
}

func (s *PostgresStore) Create(ctx context.Context, in model.PersonInput) (*model.Person, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO persons (national_id, first_names, last_names, birth_date, gender, city)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+personColumns,
		in.NationalID, in.FirstNames, in.LastNames, in.BirthDate, in.Gender, in.City)

	m, err := scanPgPerson(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateKey, in.NationalID)
		}
		return nil, fmt.Errorf("insert person: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, in model.PersonInput) (*model.Person, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE persons
		 SET national_id = $1, first_names = $2, last_names = $3, birth_date = $4, gender = $5, city = $6
		 WHERE id = $7
		 RETURNING `+personColumns,
		in.NationalID, in.FirstNames, in.LastNames, in.BirthDate, in.Gender, in.City, id)

	m, err := scanPgPerson(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	case isPgUniqueViolation(err):
		return nil, fmt.Errorf("%w: %s", model.ErrDuplicateKey, in.NationalID)
	case err != nil:
		return nil, fmt.Errorf("update person: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	st := newStats()
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM persons`).Scan(&st.Total); err != nil {
		return nil, fmt.Errorf("count persons: %w", err)
	}
	for column, into := range map[string]map[string]int{"city": st.ByCity, "gender": st.ByGender} {
		rows, err := s.pool.Query(ctx, `SELECT `+column+`, COUNT(*) FROM persons GROUP BY `+column)
		if err != nil {
			return nil, fmt.Errorf("count by %s: %w", column, err)
		}
		for rows.Next() {
			var key string
			var n int
			if err := rows.Scan(&key, &n); err != nil {
				rows.Close()
				return nil, err
			}
			into[key] = n
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func onePg(row pgx.Row, what string) (*model.Person, error) {
	m, err := scanPgPerson(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, what)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanPgPerson(row pgx.Row) (model.Person, error) {
	var m model.Person
	err := row.Scan(
		&m.ID, &m.NationalID, &m.FirstNames, &m.LastNames,
		&m.BirthDate, &m.Gender, &m.City, &m.RegisteredAt,
	)
	m.RegisteredAt = m.RegisteredAt.UTC()
	return m, err
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
