// Package sqlite implements store.Store on a local SQLite file using
// the modernc driver. This is the default driver: the whole assistant
// state is one database file next to the process.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/majordomo-ai/majordomo/internal/model"
	"github.com/majordomo-ai/majordomo/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	user_id   TEXT NOT NULL,
	query     TEXT NOT NULL,
	response  TEXT NOT NULL,
	timestamp TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, timestamp);

CREATE TABLE IF NOT EXISTS reminders (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	task          TEXT NOT NULL,
	reminder_time TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders(user_id, created_at);
`

type sqliteStore struct{ db *sql.DB }

// New opens (or creates) the database file and bootstraps the schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires an existing connection (used by the factory and tests).
func NewWithDB(db *sql.DB) (store.Store, error) {
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Sessions() store.Sessions   { return &sessions{db: s.db} }
func (s *sqliteStore) Reminders() store.Reminders { return &reminders{db: s.db} }

func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteStore) Close() error { return s.db.Close() }

// --- Sessions ---

type sessions struct{ db *sql.DB }

func (s *sessions) Append(ctx context.Context, e *model.SessionEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, query, response, timestamp) VALUES (?,?,?,?)`,
		e.UserID, e.Query, e.Response, e.Timestamp.UTC())
	return err
}

func (s *sessions) Last(ctx context.Context, userID string) (*model.SessionEntry, error) {
	// rowid breaks sub-second timestamp ties by insertion order.
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, query, response, timestamp FROM sessions
		 WHERE user_id = ? ORDER BY timestamp DESC, rowid DESC LIMIT 1`, userID)

	var e model.SessionEntry
	if err := row.Scan(&e.UserID, &e.Query, &e.Response, &e.Timestamp); err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// --- Reminders ---

type reminders struct{ db *sql.DB }

func (r *reminders) Create(ctx context.Context, rem *model.Reminder) (*model.Reminder, error) {
	out := *rem
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, user_id, task, reminder_time, created_at) VALUES (?,?,?,?,?)`,
		out.ID, out.UserID, out.Task, out.DueDisplay, out.CreatedAt.UTC())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *reminders) List(ctx context.Context, userID string) ([]*model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, task, reminder_time, created_at FROM reminders
		 WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (r *reminders) All(ctx context.Context) ([]*model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, task, reminder_time, created_at FROM reminders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (r *reminders) DeleteByTask(ctx context.Context, userID, task string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM reminders WHERE user_id = ? AND task = ?`, userID, task)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			_ = tx.Rollback()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if len(ids) > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM reminders WHERE user_id = ? AND task = ?`, userID, task); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

func scanReminders(rows *sql.Rows) ([]*model.Reminder, error) {
	var out []*model.Reminder
	for rows.Next() {
		var rem model.Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Task, &rem.DueDisplay, &rem.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rem)
	}
	return out, rows.Err()
}
