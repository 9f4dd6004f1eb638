// Package postgres implements store.Store on PostgreSQL via the pgx
// stdlib driver, for deployments that keep assistant state off the
// local disk.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/majordomo-ai/majordomo/internal/model"
	"github.com/majordomo-ai/majordomo/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	seq       BIGSERIAL PRIMARY KEY,
	user_id   TEXT NOT NULL,
	query     TEXT NOT NULL,
	response  TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, timestamp);

CREATE TABLE IF NOT EXISTS reminders (
	seq           BIGSERIAL,
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	task          TEXT NOT NULL,
	reminder_time TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reminders_user ON reminders(user_id, created_at);
`

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens the connection and bootstraps the schema.
func New(dsn string) (store.Store, error) {
	db, err := Open(dsn)
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
	return &pgStore{db: db}, nil
}

type pgStore struct{ db *sql.DB }

func (s *pgStore) Sessions() store.Sessions   { return &sessions{db: s.db} }
func (s *pgStore) Reminders() store.Reminders { return &reminders{db: s.db} }

func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *pgStore) Close() error { return s.db.Close() }

// --- Sessions ---

type sessions struct{ db *sql.DB }

func (s *sessions) Append(ctx context.Context, e *model.SessionEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, query, response, timestamp) VALUES ($1,$2,$3,$4)`,
		e.UserID, e.Query, e.Response, e.Timestamp.UTC())
	return err
}

func (s *sessions) Last(ctx context.Context, userID string) (*model.SessionEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, query, response, timestamp FROM sessions
		 WHERE user_id = $1 ORDER BY timestamp DESC, seq DESC LIMIT 1`, userID)

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
		`INSERT INTO reminders (id, user_id, task, reminder_time, created_at) VALUES ($1,$2,$3,$4,$5)`,
		out.ID, out.UserID, out.Task, out.DueDisplay, out.CreatedAt.UTC())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *reminders) List(ctx context.Context, userID string) ([]*model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, task, reminder_time, created_at FROM reminders
		 WHERE user_id = $1 ORDER BY created_at DESC, seq DESC`, userID)
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
	rows, err := r.db.QueryContext(ctx,
		`DELETE FROM reminders WHERE user_id = $1 AND task = $2 RETURNING id`, userID, task)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
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
