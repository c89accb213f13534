package persistence

import (
	"context"
	"database/sql"
	"time"

	"page-scheduler/domain/model"
)

type TokenAuditRepository struct{ db *sql.DB }

func NewTokenAuditRepository(db *sql.DB) *TokenAuditRepository {
	return &TokenAuditRepository{db: db}
}

func (r *TokenAuditRepository) Append(ctx context.Context, a *model.TokenAudit) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO token_refresh_log (user_id, fb_user_id, action, success, message, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		a.UserID, a.FBUserID, a.Action, a.Success, a.Message, a.CreatedAt)
	return err
}

func (r *TokenAuditRepository) FindByUser(ctx context.Context, userID string, limit int) ([]*model.TokenAudit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, fb_user_id, action, success, message, created_at
		 FROM token_refresh_log WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.TokenAudit
	for rows.Next() {
		a := &model.TokenAudit{}
		var msg sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.FBUserID, &a.Action, &a.Success, &msg, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Message = msg.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *TokenAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM token_refresh_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
