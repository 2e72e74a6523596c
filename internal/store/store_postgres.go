package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medrevise/spiral/internal/spiral"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed TimetableStore implementation.
// Timetable blocks, performance maps and recurring-day lists are stored
// as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed timetable store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) SaveTimetable(tt Timetable) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if tt.UserID == "" {
		return "", fmt.Errorf("user_id is required")
	}

	blocks, err := json.Marshal(tt.Blocks)
	if err != nil {
		return "", fmt.Errorf("marshal blocks: %w", err)
	}

	generatedAt := tt.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	var id string
	err = s.pool.QueryRow(ctx,
		`INSERT INTO timetables (user_id, revision, blocks, unplaced, generated_at)
		 VALUES ($1,
		         COALESCE(NULLIF($2, 0),
		                  (SELECT COALESCE(MAX(revision), 0) + 1 FROM timetables WHERE user_id = $1)),
		         $3, $4, $5)
		 RETURNING id::text`,
		tt.UserID,
		tt.Revision,
		blocks,
		tt.Unplaced,
		generatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("save timetable: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) LatestTimetable(userID string) (*Timetable, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	tt := &Timetable{UserID: userID}
	var blocks []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, revision, blocks, unplaced, generated_at
		 FROM timetables
		 WHERE user_id = $1
		 ORDER BY revision DESC
		 LIMIT 1`,
		userID,
	).Scan(&tt.ID, &tt.Revision, &blocks, &tt.Unplaced, &tt.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no timetable for user: %s", userID)
		}
		return nil, fmt.Errorf("get timetable: %w", err)
	}

	if err := json.Unmarshal(blocks, &tt.Blocks); err != nil {
		return nil, fmt.Errorf("unmarshal blocks: %w", err)
	}
	return tt, nil
}

func (s *PostgresStore) Performance(userID string) (*spiral.Performance, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var subjects, topics []byte
	err := s.pool.QueryRow(ctx,
		`SELECT subjects, topics
		 FROM performance
		 WHERE user_id = $1
		 LIMIT 1`,
		userID,
	).Scan(&subjects, &topics)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &spiral.Performance{}, nil
		}
		return nil, fmt.Errorf("get performance: %w", err)
	}

	perf := &spiral.Performance{}
	if len(subjects) > 0 {
		if err := json.Unmarshal(subjects, &perf.Subjects); err != nil {
			return nil, fmt.Errorf("unmarshal subject scores: %w", err)
		}
	}
	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &perf.Topics); err != nil {
			return nil, fmt.Errorf("unmarshal topic scores: %w", err)
		}
	}
	return perf, nil
}

func (s *PostgresStore) SavePerformance(userID string, perf spiral.Performance) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if userID == "" {
		return fmt.Errorf("user_id is required")
	}

	subjects, err := json.Marshal(perf.Subjects)
	if err != nil {
		return fmt.Errorf("marshal subject scores: %w", err)
	}
	topics, err := json.Marshal(perf.Topics)
	if err != nil {
		return fmt.Errorf("marshal topic scores: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO performance (user_id, subjects, topics, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id)
		 DO UPDATE SET subjects = EXCLUDED.subjects,
		               topics = EXCLUDED.topics,
		               updated_at = NOW()`,
		userID,
		subjects,
		topics,
	)
	if err != nil {
		return fmt.Errorf("save performance: %w", err)
	}
	return nil
}

func (s *PostgresStore) Events(userID string) ([]spiral.Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT name, event_date, start_time, end_time, recurring_weekly, recurring_days
		 FROM user_events
		 WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []spiral.Event
	for rows.Next() {
		var ev spiral.Event
		var date *string
		var days []byte
		if err := rows.Scan(
			&ev.Name,
			&date,
			&ev.StartTime,
			&ev.EndTime,
			&ev.RecurringWeekly,
			&days,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if date != nil {
			ev.Date = *date
		}
		if len(days) > 0 {
			if err := json.Unmarshal(days, &ev.RecurringDays); err != nil {
				return nil, fmt.Errorf("unmarshal recurring days: %w", err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func (s *PostgresStore) AddEvent(userID string, ev spiral.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	if ev.StartTime == "" || ev.EndTime == "" {
		return fmt.Errorf("event start and end times are required")
	}

	days, err := json.Marshal(ev.RecurringDays)
	if err != nil {
		return fmt.Errorf("marshal recurring days: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_events (user_id, name, event_date, start_time, end_time, recurring_weekly, recurring_days)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID,
		ev.Name,
		nullIfEmpty(ev.Date),
		ev.StartTime,
		ev.EndTime,
		ev.RecurringWeekly,
		days,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
