// Package persistence provides SQLite-backed storage for the mind state
// and the conversation log. Every method on a nil *DB is a no-op: storage
// failure degrades the daemon to memoryless operation, it never stops it.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ardenlabs/harmonium/internal/harmonic"
)

// stateKey is the key of the single whole-document mind record.
const stateKey = "mind"

// Record is the persisted document: the complete harmonic state plus the
// accumulated counters. It is written wholesale after every turn.
type Record struct {
	State        harmonic.State `json:"state"`
	Interactions uint64         `json:"interactions"`
	Observations uint64         `json:"observations"`
	Born         time.Time      `json:"born"`
	Rule         string         `json:"rule"`
}

// DefaultRecord returns a fresh mind born now.
func DefaultRecord() Record {
	return Record{
		State: harmonic.DefaultState(),
		Born:  time.Now().UTC(),
	}
}

// Conversation is one logged exchange.
type Conversation struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"` // RFC 3339
	Message   string  `json:"message"`
	Reply     string  `json:"reply"`
	Resonance float64 `json:"resonance"`
	Emotion   string  `json:"emotion"`
	Generated bool    `json:"generated"`
}

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the connection.
func (db *DB) Close() error {
	if db == nil {
		return nil
	}
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mind_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		message TEXT NOT NULL,
		reply TEXT NOT NULL,
		resonance REAL NOT NULL,
		emotion TEXT NOT NULL,
		generated INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_created ON conversations(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRecord overwrites the whole mind document.
func (db *DB) SaveRecord(rec Record) error {
	if db == nil {
		return nil
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO mind_state (key, value) VALUES (?, ?)",
		stateKey, string(doc),
	)
	return err
}

// LoadRecord reads the mind document. A missing row, unreadable store, or
// malformed document yields DefaultRecord — restore never fails. Fields
// absent from the stored document keep their defaults.
func (db *DB) LoadRecord() Record {
	rec := DefaultRecord()
	if db == nil {
		return rec
	}

	var doc string
	err := db.conn.Get(&doc, "SELECT value FROM mind_state WHERE key = ?", stateKey)
	if errors.Is(err, sql.ErrNoRows) {
		return rec
	}
	if err != nil {
		slog.Warn("loading mind state failed, starting fresh", "error", err)
		return rec
	}

	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		slog.Warn("stored mind state is malformed, starting fresh", "error", err)
		return DefaultRecord()
	}
	if rec.Born.IsZero() {
		rec.Born = time.Now().UTC()
	}
	return rec
}

// SaveConversation appends one exchange to the log.
func (db *DB) SaveConversation(c Conversation) error {
	if db == nil {
		return nil
	}
	generated := 0
	if c.Generated {
		generated = 1
	}
	_, err := db.conn.Exec(
		`INSERT INTO conversations (id, created_at, message, reply, resonance, emotion, generated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CreatedAt, c.Message, c.Reply, c.Resonance, c.Emotion, generated,
	)
	return err
}

// conversationRow mirrors the table; generated is an INTEGER because
// database/sql will not scan a SQLite integer into a bool.
type conversationRow struct {
	ID        string  `db:"id"`
	CreatedAt string  `db:"created_at"`
	Message   string  `db:"message"`
	Reply     string  `db:"reply"`
	Resonance float64 `db:"resonance"`
	Emotion   string  `db:"emotion"`
	Generated int64   `db:"generated"`
}

// RecentConversations returns the most recent exchanges, newest first.
func (db *DB) RecentConversations(limit int) ([]Conversation, error) {
	if db == nil {
		return nil, nil
	}
	var rows []conversationRow
	err := db.conn.Select(&rows,
		`SELECT id, created_at, message, reply, resonance, emotion, generated
		 FROM conversations ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Conversation, 0, len(rows))
	for _, r := range rows {
		out = append(out, Conversation{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Message:   r.Message,
			Reply:     r.Reply,
			Resonance: r.Resonance,
			Emotion:   r.Emotion,
			Generated: r.Generated != 0,
		})
	}
	return out, nil
}

// Reset drops the mind document and the conversation log.
func (db *DB) Reset() error {
	if db == nil {
		return nil
	}
	if _, err := db.conn.Exec("DELETE FROM mind_state"); err != nil {
		return err
	}
	_, err := db.conn.Exec("DELETE FROM conversations")
	return err
}
