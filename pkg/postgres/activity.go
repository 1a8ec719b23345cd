package postgres

import (
	"context"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

// InsertActivity appends an entry to the activity log
func (s *store) InsertActivity(ctx context.Context, activity *model.Activity) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO activity_log (id, user_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, activity.ID, nullable(activity.UserID), activity.Action, activity.Details, activity.CreatedAt.UTC())
	return mapError(err, "insert activity")
}

// ListActivity returns the most recent log entries; limit <= 0 returns all
func (s *store) ListActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := s.q.Query(ctx, `
		SELECT id, user_id, action, details, created_at
		FROM activity_log
		ORDER BY created_at DESC, id
		LIMIT $1
	`, lim)
	if err != nil {
		return nil, mapError(err, "query activity")
	}
	defer rows.Close()

	var entries []model.Activity
	for rows.Next() {
		var a model.Activity
		var userID *string
		if err := rows.Scan(&a.ID, &userID, &a.Action, &a.Details, &a.CreatedAt); err != nil {
			return nil, mapError(err, "scan activity")
		}
		a.UserID = deref(userID)
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate activity")
	}
	return entries, nil
}
