package persistence

import (
	"context"
	"database/sql"
	"time"

	"page-scheduler/domain/model"
)

type PageCredentialRepository struct{ db *sql.DB }

func NewPageCredentialRepository(db *sql.DB) *PageCredentialRepository {
	return &PageCredentialRepository{db: db}
}

const pageColumns = `id, user_id, fb_token_id, page_id, page_name, page_token, page_picture, category, created_at, updated_at`

func (r *PageCredentialRepository) Upsert(ctx context.Context, page *model.PageCredential) (*model.PageCredential, error) {
	now := time.Now().UTC()
	q := `INSERT INTO facebook_pages (user_id, fb_token_id, page_id, page_name, page_token, page_picture, category, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
		  ON CONFLICT (user_id, page_id) DO UPDATE SET
			fb_token_id=EXCLUDED.fb_token_id,
			page_name=EXCLUDED.page_name,
			page_token=EXCLUDED.page_token,
			page_picture=EXCLUDED.page_picture,
			category=EXCLUDED.category,
			updated_at=EXCLUDED.updated_at
		  RETURNING ` + pageColumns
	row := r.db.QueryRowContext(ctx, q, page.UserID, page.CredentialID, page.PageID, page.PageName, page.PageToken, page.PagePicture, page.Category, now)
	return scanPage(row)
}

func (r *PageCredentialRepository) FindByUser(ctx context.Context, userID string) ([]*model.PageCredential, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+pageColumns+` FROM facebook_pages WHERE user_id=$1 ORDER BY page_name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.PageCredential
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PageCredentialRepository) GetByPageID(ctx context.Context, userID, pageID string) (*model.PageCredential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM facebook_pages WHERE user_id=$1 AND page_id=$2`, userID, pageID)
	p, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func scanPage(row rowScanner) (*model.PageCredential, error) {
	p := &model.PageCredential{}
	var picture, category sql.NullString
	if err := row.Scan(&p.ID, &p.UserID, &p.CredentialID, &p.PageID, &p.PageName, &p.PageToken, &picture, &category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if picture.Valid {
		v := picture.String
		p.PagePicture = &v
	}
	if category.Valid {
		v := category.String
		p.Category = &v
	}
	return p, nil
}
