package persistence

import (
	"context"
	"database/sql"
	"time"

	"page-scheduler/domain/model"
)

type PostHistoryRepository struct{ db *sql.DB }

func NewPostHistoryRepository(db *sql.DB) *PostHistoryRepository {
	return &PostHistoryRepository{db: db}
}

func (r *PostHistoryRepository) Append(ctx context.Context, h *model.PostHistory) error {
	if h.PostedAt.IsZero() {
		h.PostedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO post_history (user_id, page_id, page_name, content, fb_post_id, status, error_msg, posted_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		h.UserID, h.PageID, h.PageName, h.Content, h.FBPostID, h.Status, h.ErrorMsg, h.PostedAt)
	return err
}

func (r *PostHistoryRepository) FindByUser(ctx context.Context, userID, status string, limit int) ([]*model.PostHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows *sql.Rows
	var err error
	if status != "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, user_id, page_id, page_name, content, fb_post_id, status, error_msg, posted_at
			 FROM post_history WHERE user_id=$1 AND status=$2 ORDER BY posted_at DESC LIMIT $3`, userID, status, limit)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, user_id, page_id, page_name, content, fb_post_id, status, error_msg, posted_at
			 FROM post_history WHERE user_id=$1 ORDER BY posted_at DESC LIMIT $2`, userID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.PostHistory
	for rows.Next() {
		h := &model.PostHistory{}
		var pageName, fbPostID, errMsg sql.NullString
		if err := rows.Scan(&h.ID, &h.UserID, &h.PageID, &pageName, &h.Content, &fbPostID, &h.Status, &errMsg, &h.PostedAt); err != nil {
			return nil, err
		}
		h.PageName = pageName.String
		if fbPostID.Valid {
			v := fbPostID.String
			h.FBPostID = &v
		}
		if errMsg.Valid {
			v := errMsg.String
			h.ErrorMsg = &v
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *PostHistoryRepository) Stats(ctx context.Context, userID string) (*model.PostStats, error) {
	stats := &model.PostStats{}
	q := `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status='posted'),
			COUNT(*) FILTER (WHERE status='failed'),
			COUNT(*) FILTER (WHERE posted_at >= date_trunc('day', NOW())),
			COUNT(*) FILTER (WHERE posted_at >= NOW() - INTERVAL '7 days')
		  FROM post_history WHERE user_id=$1`
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&stats.Total, &stats.Posted, &stats.Failed, &stats.Today, &stats.ThisWeek); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scheduled_posts WHERE user_id=$1 AND status='pending'`, userID).Scan(&stats.Pending); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *PostHistoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM post_history WHERE posted_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
