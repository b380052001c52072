package store

import (
	"context"
	"fmt"
)

// Transition is one applied story store transition.
type Transition struct {
	Session     string `json:"session"`
	Seq         int64  `json:"seq"`
	Kind        string `json:"kind"`
	RecordID    string `json:"record_id,omitempty"`
	RecordCount int    `json:"record_count"`
	Status      string `json:"status"`
}

// WriteTransition appends a transition to the log.
// Uses ON CONFLICT DO NOTHING for idempotency - a (session, seq) pair is
// written at most once.
func (s *Store) WriteTransition(ctx context.Context, t Transition) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transitions
		(session, seq, kind, record_id, record_count, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session, seq) DO NOTHING
	`,
		t.Session,
		t.Seq,
		t.Kind,
		t.RecordID,
		t.RecordCount,
		t.Status,
	)
	if err != nil {
		return fmt.Errorf("write transition: %w", err)
	}
	return nil
}

// ReadTransitions returns the transitions of a session ordered by seq.
// Returns an empty slice (not nil) if the session is unknown.
func (s *Store) ReadTransitions(ctx context.Context, session string) ([]Transition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, seq, kind, record_id, record_count, status
		FROM transitions
		WHERE session = ?
		ORDER BY seq ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	transitions := []Transition{}
	for rows.Next() {
		var t Transition
		if err := rows.Scan(&t.Session, &t.Seq, &t.Kind, &t.RecordID, &t.RecordCount, &t.Status); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		transitions = append(transitions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}

	return transitions, nil
}

// Sessions returns every session token in the log, most recent first.
// Recency is the rowid of a session's first transition.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session
		FROM transitions
		GROUP BY session
		ORDER BY MIN(rowid) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var session string
		if err := rows.Scan(&session); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}
