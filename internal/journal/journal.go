// Package journal keeps an optional SQLite log of applied countdown commands.
//
// The journal is write-mostly history. It is never read back into a
// countdown: every run starts from the mount state.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/meditimer/internal/engine"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS commands (
	seq        INTEGER PRIMARY KEY,
	session_id TEXT    NOT NULL,
	command    TEXT    NOT NULL,
	input      TEXT    NOT NULL DEFAULT '',
	remaining  INTEGER NOT NULL,
	phase      TEXT    NOT NULL,
	at         TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commands_session ON commands(session_id, seq);
`

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// Journal is a SQLite-backed engine.Journal.
type Journal struct {
	db *sql.DB
}

// Session summarizes one committed duration and what happened to it.
type Session struct {
	ID         string
	Configured int
	StartedAt  time.Time
	Commands   int
	Finished   bool
}

// Open creates or opens the journal database at path.
//
// The database is configured with WAL mode, a 5-second busy timeout and a
// single connection, since only the engine loop writes.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record inserts one applied command. Re-recording a seq is a no-op.
func (j *Journal) Record(ctx context.Context, e engine.Entry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO commands (seq, session_id, command, input, remaining, phase, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`,
		e.Seq,
		e.SessionID,
		e.Command,
		e.Input,
		e.Remaining,
		e.Phase,
		e.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record command %d: %w", e.Seq, err)
	}
	return nil
}

// LastSeq returns the highest recorded seq, or 0 for an empty journal.
// Pass it to engine.NewClockAt so numbering continues across runs.
func (j *Journal) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := j.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM commands").Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

// Sessions lists sessions in the order they were opened.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT g.session_id, c.remaining, c.at, g.commands, g.finished
		FROM (
			SELECT session_id,
			       MIN(seq) AS first_seq,
			       COUNT(*) AS commands,
			       MAX(CASE WHEN phase = 'finished' THEN 1 ELSE 0 END) AS finished
			FROM commands
			WHERE session_id <> ''
			GROUP BY session_id
		) g
		JOIN commands c ON c.seq = g.first_seq
		ORDER BY g.first_seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			s        Session
			at       string
			finished int
		)
		if err := rows.Scan(&s.ID, &s.Configured, &at, &s.Commands, &finished); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.StartedAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse session time %q: %w", at, err)
		}
		s.Finished = finished == 1
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
