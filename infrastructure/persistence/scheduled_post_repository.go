package persistence

import (
	"context"
	"database/sql"
	"time"

	"page-scheduler/domain/model"
)

type ScheduledPostRepository struct{ db *sql.DB }

func NewScheduledPostRepository(db *sql.DB) *ScheduledPostRepository {
	return &ScheduledPostRepository{db: db}
}

const postColumns = `id, user_id, page_id, page_name, content, image_url, link_url, post_type, scheduled_at, repeat_type, status, fb_post_id, error_msg, retry_count, created_at, updated_at`

const insertPostSQL = `INSERT INTO scheduled_posts (user_id, page_id, page_name, content, image_url, link_url, post_type, scheduled_at, repeat_type, status, retry_count, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'pending',0,$10,$10)
	RETURNING ` + postColumns

func (r *ScheduledPostRepository) Create(ctx context.Context, post *model.ScheduledPost) (*model.ScheduledPost, error) {
	if post.PostType == "" {
		post.PostType = "feed"
	}
	if post.RepeatType == "" {
		post.RepeatType = model.RepeatNone
	}
	row := r.db.QueryRowContext(ctx, insertPostSQL,
		post.UserID, post.PageID, post.PageName, post.Content, post.ImageURL, post.LinkURL,
		post.PostType, post.ScheduledAt, post.RepeatType, time.Now().UTC())
	return scanPost(row)
}

func (r *ScheduledPostRepository) FindDue(ctx context.Context, now time.Time) ([]*model.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts WHERE status='pending' AND scheduled_at <= $1 ORDER BY scheduled_at`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *ScheduledPostRepository) FindByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts WHERE user_id=$1 ORDER BY scheduled_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *ScheduledPostRepository) FindPendingByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts WHERE user_id=$1 AND status='pending' ORDER BY scheduled_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *ScheduledPostRepository) MarkPosted(ctx context.Context, id int64, fbPostID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET status='posted', fb_post_id=$1, error_msg=NULL, updated_at=$2 WHERE id=$3`,
		fbPostID, time.Now().UTC(), id)
	return err
}

// MarkPostedWithNext marks the post as published and inserts its next
// occurrence in one transaction.
func (r *ScheduledPostRepository) MarkPostedWithNext(ctx context.Context, id int64, fbPostID string, next *model.ScheduledPost) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	now := time.Now().UTC()
	if _, err = tx.ExecContext(ctx,
		`UPDATE scheduled_posts SET status='posted', fb_post_id=$1, error_msg=NULL, updated_at=$2 WHERE id=$3`,
		fbPostID, now, id); err != nil {
		return err
	}
	if next.PostType == "" {
		next.PostType = "feed"
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO scheduled_posts (user_id, page_id, page_name, content, image_url, link_url, post_type, scheduled_at, repeat_type, status, retry_count, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'pending',0,$10,$10)`,
		next.UserID, next.PageID, next.PageName, next.Content, next.ImageURL, next.LinkURL,
		next.PostType, next.ScheduledAt, next.RepeatType, now); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

func (r *ScheduledPostRepository) RescheduleRetry(ctx context.Context, id int64, errMsg string, nextAttempt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET status='pending', error_msg=$1, retry_count=retry_count+1, scheduled_at=$2, updated_at=$3 WHERE id=$4`,
		errMsg, nextAttempt, time.Now().UTC(), id)
	return err
}

func (r *ScheduledPostRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET status='failed', error_msg=$1, retry_count=retry_count+1, updated_at=$2 WHERE id=$3`,
		errMsg, time.Now().UTC(), id)
	return err
}

func (r *ScheduledPostRepository) Cancel(ctx context.Context, id int64, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_posts SET status='cancelled', updated_at=$1 WHERE id=$2 AND user_id=$3 AND status='pending'`,
		time.Now().UTC(), id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *ScheduledPostRepository) Delete(ctx context.Context, id int64, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_posts WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

func collectPosts(rows *sql.Rows) ([]*model.ScheduledPost, error) {
	var out []*model.ScheduledPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPost(row rowScanner) (*model.ScheduledPost, error) {
	p := &model.ScheduledPost{}
	var pageName, imageURL, linkURL, fbPostID, errMsg sql.NullString
	if err := row.Scan(&p.ID, &p.UserID, &p.PageID, &pageName, &p.Content, &imageURL, &linkURL,
		&p.PostType, &p.ScheduledAt, &p.RepeatType, &p.Status, &fbPostID, &errMsg, &p.RetryCount,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.PageName = pageName.String
	if imageURL.Valid {
		v := imageURL.String
		p.ImageURL = &v
	}
	if linkURL.Valid {
		v := linkURL.String
		p.LinkURL = &v
	}
	if fbPostID.Valid {
		v := fbPostID.String
		p.FBPostID = &v
	}
	if errMsg.Valid {
		v := errMsg.String
		p.ErrorMsg = &v
	}
	return p, nil
}
