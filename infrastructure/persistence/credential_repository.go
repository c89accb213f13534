package persistence

import (
	"context"
	"database/sql"
	"time"

	"page-scheduler/domain/model"
)

type CredentialRepository struct{ db *sql.DB }

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

const credentialColumns = `id, user_id, fb_user_id, fb_user_name, fb_user_picture, short_token, long_token, long_token_expires, created_at, updated_at`

func (r *CredentialRepository) Upsert(ctx context.Context, cred *model.Credential) (*model.Credential, error) {
	now := time.Now().UTC()
	q := `INSERT INTO facebook_tokens (user_id, fb_user_id, fb_user_name, fb_user_picture, short_token, long_token, long_token_expires, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
		  ON CONFLICT (user_id, fb_user_id) DO UPDATE SET
			fb_user_name=EXCLUDED.fb_user_name,
			fb_user_picture=EXCLUDED.fb_user_picture,
			short_token=EXCLUDED.short_token,
			long_token=EXCLUDED.long_token,
			long_token_expires=EXCLUDED.long_token_expires,
			updated_at=EXCLUDED.updated_at
		  RETURNING ` + credentialColumns
	row := r.db.QueryRowContext(ctx, q, cred.UserID, cred.FBUserID, cred.FBUserName, cred.FBUserPicture, cred.ShortToken, cred.LongToken, cred.ExpiresAt, now)
	return scanCredential(row)
}

func (r *CredentialRepository) GetByUser(ctx context.Context, userID string) (*model.Credential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+credentialColumns+` FROM facebook_tokens WHERE user_id=$1 ORDER BY updated_at DESC LIMIT 1`, userID)
	cred, err := scanCredential(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cred, err
}

func (r *CredentialRepository) UpdateLongToken(ctx context.Context, userID, fbUserID, longToken string, expiresAt *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE facebook_tokens SET long_token=$1, long_token_expires=$2, updated_at=$3 WHERE user_id=$4 AND fb_user_id=$5`,
		longToken, expiresAt, time.Now().UTC(), userID, fbUserID)
	return err
}

func (r *CredentialRepository) Delete(ctx context.Context, userID, fbUserID string) error {
	// facebook_pages rows go with it via ON DELETE CASCADE
	_, err := r.db.ExecContext(ctx, `DELETE FROM facebook_tokens WHERE user_id=$1 AND fb_user_id=$2`, userID, fbUserID)
	return err
}

func (r *CredentialRepository) FindExpiringWithin(ctx context.Context, days int) ([]*model.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM facebook_tokens
		  WHERE long_token_expires IS NOT NULL AND long_token_expires < NOW() + ($1 || ' days')::INTERVAL`
	rows, err := r.db.QueryContext(ctx, q, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cred)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanCredential(row rowScanner) (*model.Credential, error) {
	cred := &model.Credential{}
	var name, picture, shortTok sql.NullString
	var expires sql.NullTime
	if err := row.Scan(&cred.ID, &cred.UserID, &cred.FBUserID, &name, &picture, &shortTok, &cred.LongToken, &expires, &cred.CreatedAt, &cred.UpdatedAt); err != nil {
		return nil, err
	}
	cred.FBUserName = name.String
	cred.ShortToken = shortTok.String
	if picture.Valid {
		v := picture.String
		cred.FBUserPicture = &v
	}
	if expires.Valid {
		t := expires.Time
		cred.ExpiresAt = &t
	}
	return cred, nil
}
