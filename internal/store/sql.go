package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	"github.com/williamthazard/react-test/internal/quiz"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS test_definition (
  id         TEXT PRIMARY KEY,
  payload    TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL
);`

// SQLStore keeps the serialized definition in a single-row table, the same
// one-logical-document discipline as the mongo driver. SQLite accepts $N
// placeholders natively, so the statements work on both backends.
type SQLStore struct {
	db *sql.DB
}

// OpenSQL opens the DB, ensures the schema exists and returns the store.
func OpenSQL(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:react-test.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/reacttest?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Probe(ctx context.Context) (DocumentHandle, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM test_definition ORDER BY id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return DocumentHandle(id), true, nil
}

func (s *SQLStore) Get(ctx context.Context, h DocumentHandle) (*quiz.TestDefinition, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM test_definition WHERE id=$1`, string(h)).Scan(&payload)
	if err != nil {
		return nil, err
	}
	return decodePayload(payload)
}

func (s *SQLStore) Create(ctx context.Context, def *quiz.TestDefinition) (DocumentHandle, error) {
	payload, err := encodePayload(def)
	if err != nil {
		return "", err
	}
	id := newDocID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO test_definition (id, payload, updated_at) VALUES ($1,$2,$3)`,
		id, payload, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return DocumentHandle(id), nil
}

func (s *SQLStore) Update(ctx context.Context, h DocumentHandle, def *quiz.TestDefinition) error {
	payload, err := encodePayload(def)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE test_definition SET payload=$1, updated_at=$2 WHERE id=$3`,
		payload, time.Now().UTC(), string(h))
	return err
}

func newDocID() string { return time.Now().UTC().Format("20060102150405.000000000") }
