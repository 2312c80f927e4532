// Package store persists whitelist applications in sqlite. Applications
// start out pending and move to the archive once an admin approves or
// denies them. Nothing is ever deleted.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrPendingExists  = errors.New("applicant already has a pending application")
	ErrAlreadyDecided = errors.New("application has already been decided")
	ErrReasonRequired = errors.New("a reason is required to deny an application")
	ErrInvalidStatus  = errors.New("decision must be approved or denied")
)

const schema = `CREATE TABLE IF NOT EXISTS applications
(
    id                 TEXT PRIMARY KEY,
    submitted_at       INTEGER NOT NULL,
    username           TEXT    NOT NULL,
    age                INTEGER NOT NULL,
    experience         TEXT    NOT NULL DEFAULT '',
    birthplace         TEXT    NOT NULL DEFAULT '',
    occupation         TEXT    NOT NULL DEFAULT '',
    education          TEXT    NOT NULL DEFAULT '',
    qualities          TEXT    NOT NULL DEFAULT '',
    criminal_record    TEXT    NOT NULL DEFAULT '',
    character_name     TEXT    NOT NULL DEFAULT '',
    description        TEXT    NOT NULL DEFAULT '',
    character          TEXT    NOT NULL DEFAULT '',
    motivation         TEXT    NOT NULL DEFAULT '',
    weaknesses         TEXT    NOT NULL DEFAULT '',
    rules_accepted     INTEGER NOT NULL DEFAULT 0,
    discord_id         TEXT    NOT NULL,
    discord_username   TEXT    NOT NULL,
    discord_avatar     TEXT    NOT NULL DEFAULT '',
    discord_verified   INTEGER NOT NULL DEFAULT 0,
    discord_email      TEXT    NOT NULL DEFAULT '',
    discord_created_at INTEGER NOT NULL DEFAULT 0,
    status             TEXT    NOT NULL,
    status_reason      TEXT    NOT NULL DEFAULT '',
    updated_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS applications_status ON applications (status, updated_at);
CREATE INDEX IF NOT EXISTS applications_discord ON applications (discord_id, submitted_at);`

const columns = `id, submitted_at, username, age, experience, birthplace, occupation, education,
qualities, criminal_record, character_name, description, character, motivation, weaknesses,
rules_accepted, discord_id, discord_username, discord_avatar, discord_verified, discord_email,
discord_created_at, status, status_reason, updated_at`

type Store struct {
	db *sql.DB
}

// Open opens the sqlite database at path and creates the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Submit stores a new pending application. The id, timestamps and status
// are assigned here and written back to app.
func (s *Store) Submit(ctx context.Context, app *application.Application) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications WHERE discord_id = ? AND status = ?`,
		app.Discord.ID, application.StatusPending).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrPendingExists
	}

	now := time.Now().UTC()
	app.ID = uuid.NewString()
	app.Timestamp = now
	app.UpdatedAt = now
	app.Status = application.StatusPending
	app.StatusReason = ""

	_, err = tx.ExecContext(ctx, `INSERT INTO applications (`+columns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID, app.Timestamp.UnixMilli(), app.Username, app.Age, app.Experience, app.Birthplace,
		app.Occupation, app.Education, app.Qualities, app.CriminalRecord, app.CharacterName,
		app.Description, app.Character, app.Motivation, app.Weaknesses, app.RulesAccepted,
		app.Discord.ID, app.Discord.Username, app.Discord.Avatar, app.Discord.Verified,
		app.Discord.Email, unixMilli(app.Discord.CreatedAt), app.Status, app.StatusReason,
		app.UpdatedAt.UnixMilli())
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Pending returns the active review queue, oldest submission first.
func (s *Store) Pending(ctx context.Context) ([]application.Application, error) {
	return s.query(ctx, `SELECT `+columns+` FROM applications WHERE status = ? ORDER BY submitted_at, id`,
		application.StatusPending)
}

// Archive returns every decided application, most recently processed first.
func (s *Store) Archive(ctx context.Context) ([]application.Application, error) {
	return s.query(ctx, `SELECT `+columns+` FROM applications WHERE status IN (?, ?) ORDER BY updated_at DESC, id`,
		application.StatusApproved, application.StatusDenied)
}

func (s *Store) Get(ctx context.Context, id string) (application.Application, error) {
	return s.one(ctx, `SELECT `+columns+` FROM applications WHERE id = ?`, id)
}

// Latest returns the most recent application of a Discord user.
func (s *Store) Latest(ctx context.Context, discordID string) (application.Application, error) {
	return s.one(ctx, `SELECT `+columns+` FROM applications WHERE discord_id = ? ORDER BY submitted_at DESC, id LIMIT 1`, discordID)
}

// Decide approves or denies a pending application. Denials need a reason.
func (s *Store) Decide(ctx context.Context, id string, status application.Status, reason string, at time.Time) (application.Application, error) {
	if !status.Archived() {
		return application.Application{}, ErrInvalidStatus
	}
	reason = strings.TrimSpace(reason)
	if status == application.StatusDenied && reason == "" {
		return application.Application{}, ErrReasonRequired
	}

	res, err := s.db.ExecContext(ctx, `UPDATE applications SET status = ?, status_reason = ?, updated_at = ? WHERE id = ? AND status = ?`,
		status, reason, at.UTC().UnixMilli(), id, application.StatusPending)
	if err != nil {
		return application.Application{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return application.Application{}, err
	}
	app, err := s.Get(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	if n == 0 {
		return application.Application{}, ErrAlreadyDecided
	}
	return app, nil
}

func (s *Store) one(ctx context.Context, query string, args ...any) (application.Application, error) {
	app, err := scan(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return application.Application{}, ErrNotFound
	}
	return app, err
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]application.Application, 0)
	for rows.Next() {
		app, err := scan(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (application.Application, error) {
	var (
		app                                application.Application
		submitted, discordCreated, updated int64
		status                             string
	)
	err := row.Scan(&app.ID, &submitted, &app.Username, &app.Age, &app.Experience, &app.Birthplace,
		&app.Occupation, &app.Education, &app.Qualities, &app.CriminalRecord, &app.CharacterName,
		&app.Description, &app.Character, &app.Motivation, &app.Weaknesses, &app.RulesAccepted,
		&app.Discord.ID, &app.Discord.Username, &app.Discord.Avatar, &app.Discord.Verified,
		&app.Discord.Email, &discordCreated, &status, &app.StatusReason, &updated)
	if err != nil {
		return application.Application{}, err
	}
	app.Timestamp = time.UnixMilli(submitted).UTC()
	app.UpdatedAt = time.UnixMilli(updated).UTC()
	if discordCreated != 0 {
		app.Discord.CreatedAt = time.UnixMilli(discordCreated).UTC()
	}
	app.Status = application.Status(status)
	return app, nil
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
