// Package store persists learner progress and the mentor transcript in a
// local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/javamaster/pkg/debug"
	"github.com/vanderheijden86/javamaster/pkg/metrics"
	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/session"
)

// Store is a handle on the state database. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	debug.Log("store: opened %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession writes the counters, topic progress and solved challenges in a
// single transaction.
func (s *Store) SaveSession(ctx context.Context, snap session.Snapshot) error {
	defer metrics.Timer(metrics.StoreSave)()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO learner (id, name, level, total_xp, streak, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			level = excluded.level,
			total_xp = excluded.total_xp,
			streak = excluded.streak,
			updated_at = excluded.updated_at`,
		snap.Learner, snap.Level, snap.TotalXP, snap.Streak, now,
	); err != nil {
		return fmt.Errorf("save learner: %w", err)
	}

	topicStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO topic_progress (topic_id, progress, completed, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(topic_id) DO UPDATE SET
			progress = excluded.progress,
			completed = excluded.completed,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare topic upsert: %w", err)
	}
	defer topicStmt.Close()
	for _, tp := range snap.Topics {
		if _, err := topicStmt.ExecContext(ctx, tp.ID, model.ClampPercent(tp.Progress), boolToInt(tp.Completed), now); err != nil {
			return fmt.Errorf("save topic %s: %w", tp.ID, err)
		}
	}

	for _, id := range snap.SolvedChallenges {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO solved_challenges (challenge_id, solved_at) VALUES (?, ?)`, id, now,
		); err != nil {
			return fmt.Errorf("save solved challenge %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadSession reads the stored snapshot. ok is false when nothing was saved
// yet.
func (s *Store) LoadSession(ctx context.Context) (snap session.Snapshot, ok bool, err error) {
	defer metrics.Timer(metrics.StoreLoad)()

	var updated string
	err = s.db.QueryRowContext(ctx,
		`SELECT name, level, total_xp, streak, updated_at FROM learner WHERE id = 1`,
	).Scan(&snap.Learner, &snap.Level, &snap.TotalXP, &snap.Streak, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, false, nil
	}
	if err != nil {
		return session.Snapshot{}, false, fmt.Errorf("load learner: %w", err)
	}
	snap.TakenAt = parseTime(updated)

	rows, err := s.db.QueryContext(ctx, `SELECT topic_id, progress, completed FROM topic_progress ORDER BY topic_id`)
	if err != nil {
		return session.Snapshot{}, false, fmt.Errorf("load topics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tp session.TopicProgress
		var completed int
		if err := rows.Scan(&tp.ID, &tp.Progress, &completed); err != nil {
			return session.Snapshot{}, false, fmt.Errorf("scan topic: %w", err)
		}
		tp.Completed = completed != 0
		if tp.Completed {
			snap.CompletedTopics++
		}
		snap.Topics = append(snap.Topics, tp)
	}
	if err := rows.Err(); err != nil {
		return session.Snapshot{}, false, fmt.Errorf("load topics: %w", err)
	}

	solved, err := s.db.QueryContext(ctx, `SELECT challenge_id FROM solved_challenges ORDER BY challenge_id`)
	if err != nil {
		return session.Snapshot{}, false, fmt.Errorf("load solved challenges: %w", err)
	}
	defer solved.Close()
	for solved.Next() {
		var id string
		if err := solved.Scan(&id); err != nil {
			return session.Snapshot{}, false, fmt.Errorf("scan solved challenge: %w", err)
		}
		snap.SolvedChallenges = append(snap.SolvedChallenges, id)
	}
	if err := solved.Err(); err != nil {
		return session.Snapshot{}, false, fmt.Errorf("load solved challenges: %w", err)
	}

	return snap, true, nil
}

// AppendMessages stores chat messages. Messages already stored (by id) are
// skipped, so the whole transcript can be passed on every save.
func (s *Store) AppendMessages(ctx context.Context, msgs []model.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	defer metrics.Timer(metrics.StoreSave)()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO chat_messages (id, sender, kind, content, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare message insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range msgs {
		if _, err := stmt.ExecContext(ctx, m.ID, string(m.Sender), string(m.Kind), m.Content, formatTime(m.Timestamp)); err != nil {
			return fmt.Errorf("save message %s: %w", m.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadTranscript returns the newest limit messages in chronological order.
// A non-positive limit returns everything.
func (s *Store) LoadTranscript(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	defer metrics.Timer(metrics.StoreLoad)()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender, kind, content, created_at FROM (
			SELECT seq, id, sender, kind, content, created_at
			FROM chat_messages ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		var sender, kind, created string
		if err := rows.Scan(&m.ID, &sender, &kind, &m.Content, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Sender = model.Sender(sender)
		m.Kind = model.ResponseKind(kind)
		m.Timestamp = parseTime(created)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ClearTranscript deletes the stored chat history.
func (s *Store) ClearTranscript(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages`); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

// Reset deletes all stored progress and history.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"learner", "topic_progress", "solved_challenges", "chat_messages"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
