// Package sqlite stores slots in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/weegigs/wee-counter-go/we"
)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	id          TEXT PRIMARY KEY,
	revision    TEXT NOT NULL,
	timestamp   TEXT NOT NULL,
	correlation TEXT NOT NULL DEFAULT '',
	data        BLOB NOT NULL
)`

type SlotStore struct {
	sqlDB    *sql.DB
	revision *we.RevisionGenerator
}

// Open opens, or creates, the slot database at path.
func Open(path string) (*SlotStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := "file:" + filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}

	return &SlotStore{sqlDB: sqlDB, revision: we.NewRevisionGenerator()}, nil
}

func (s *SlotStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SlotStore) Load(ctx context.Context, id we.SlotId) (we.Record, error) {
	record := we.EmptyRecord(id)

	row := s.sqlDB.QueryRowContext(ctx, `SELECT revision, timestamp, data FROM slots WHERE id = ?`, id.Encode().String())

	var revision, timestamp string
	var data []byte
	err := row.Scan(&revision, &timestamp, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return record, nil
	}
	if err != nil {
		return we.Record{}, fmt.Errorf("load slot %s: %w", id, err)
	}

	record.Revision = we.Revision(revision)
	record.Timestamp = we.Timestamp(timestamp)
	record.Data = data

	return record, nil
}

func (s *SlotStore) Save(ctx context.Context, id we.SlotId, options we.SaveOptions, data []byte) (we.Revision, error) {
	now := time.Now()
	revision := s.revision.NewRevision(now)
	args := []any{
		id.Encode().String(),
		revision.String(),
		we.TimestampFromTime(now).String(),
		options.CorrelationId.String(),
		data,
	}

	var result sql.Result
	var err error
	switch options.ExpectedRevision {
	case "":
		result, err = s.sqlDB.ExecContext(ctx, `
			INSERT INTO slots (id, revision, timestamp, correlation, data) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				revision = excluded.revision,
				timestamp = excluded.timestamp,
				correlation = excluded.correlation,
				data = excluded.data`, args...)
	case we.InitialRevision:
		result, err = s.sqlDB.ExecContext(ctx, `
			INSERT INTO slots (id, revision, timestamp, correlation, data) VALUES (?, ?, ?, ?, ?)`, args...)
	default:
		result, err = s.sqlDB.ExecContext(ctx, `
			UPDATE slots SET revision = ?, timestamp = ?, correlation = ?, data = ?
			WHERE id = ? AND revision = ?`,
			args[1], args[2], args[3], args[4], args[0], options.ExpectedRevision.String())
	}

	if err != nil {
		if isConflict(err) {
			return "", we.RevisionConflict
		}
		return "", fmt.Errorf("save slot %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", we.RevisionConflict
	}

	return revision, nil
}

func (s *SlotStore) Remove(ctx context.Context, id we.SlotId) (int, error) {
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id.Encode().String())
	if err != nil {
		return 0, fmt.Errorf("remove slot %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

func isConflict(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}

	return false
}
