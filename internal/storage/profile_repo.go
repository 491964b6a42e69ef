package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *SQLiteStore) Load(ctx context.Context, userID string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT history, rewards, chores, stats, last_updated
		FROM profiles
		WHERE user_id = ?
	`, userID)

	var history, rewards, chores, stats, updated sql.NullString
	if err := row.Scan(&history, &rewards, &chores, &stats, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profile get: %w", err)
	}
	doc, err := decodeRecord(ProfileRecord{
		UserID:      userID,
		History:     history.String,
		Rewards:     rewards.String,
		Chores:      chores.String,
		Stats:       stats.String,
		LastUpdated: parseTime(updated.String),
	})
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", userID, err)
	}
	return doc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, userID string, doc Document) error {
	rec, err := encodeRecord(userID, doc)
	if err != nil {
		return fmt.Errorf("profile %s: %w", userID, err)
	}
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, history, rewards, chores, stats, last_updated)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET
				history = excluded.history,
				rewards = excluded.rewards,
				chores = excluded.chores,
				stats = excluded.stats,
				last_updated = excluded.last_updated
		`, rec.UserID, rec.History, rec.Rewards, rec.Chores, rec.Stats, formatTime(rec.LastUpdated))
		if err != nil {
			return fmt.Errorf("profile upsert: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("profile list: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("profile scan: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile rows: %w", err)
	}
	return out, nil
}
