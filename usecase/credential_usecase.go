package usecase

import (
	"context"
	"errors"
	"fmt"

	"page-scheduler/domain/dto"
	"page-scheduler/domain/model"
	"page-scheduler/domain/repository"
	"page-scheduler/infrastructure/logger"
)

var ErrNotConnected = errors.New("facebook account not connected")

type ICredentialUsecase interface {
	// Connect exchanges a short-lived token for a long-lived one, stores the
	// credential and all administrable page tokens, and audits the exchange.
	Connect(ctx context.Context, userID, shortToken string) (*dto.ConnectResponse, error)
	// Refresh re-runs the exchange with the stored long-lived token and
	// re-syncs pages.
	Refresh(ctx context.Context, userID string) (*model.RefreshOutcome, error)
	// RefreshCredential refreshes one known credential (used by the expiry scanner).
	RefreshCredential(ctx context.Context, cred *model.Credential) *model.RefreshOutcome
	SyncPages(ctx context.Context, cred *model.Credential) ([]*model.PageCredential, error)
	Status(ctx context.Context, userID string) (*dto.FacebookStatus, error)
	ListPages(ctx context.Context, userID string) ([]*model.PageCredential, error)
	Disconnect(ctx context.Context, userID string) error
	TokenLog(ctx context.Context, userID string, limit int) ([]*model.TokenAudit, error)
}

type credentialUsecase struct {
	credRepo  repository.ICredential
	pageRepo  repository.IPageCredential
	auditRepo repository.ITokenAudit
	graph     repository.IFacebookGraph
}

func NewCredentialUsecase(
	credRepo repository.ICredential,
	pageRepo repository.IPageCredential,
	auditRepo repository.ITokenAudit,
	graph repository.IFacebookGraph,
) ICredentialUsecase {
	return &credentialUsecase{credRepo: credRepo, pageRepo: pageRepo, auditRepo: auditRepo, graph: graph}
}

func (u *credentialUsecase) Connect(ctx context.Context, userID, shortToken string) (*dto.ConnectResponse, error) {
	// All upstream calls happen before any write, so a platform rejection
	// leaves no partial state behind.
	longToken, expiresAt, err := u.graph.ExchangeLongLived(ctx, shortToken)
	if err != nil {
		return nil, err
	}
	info, err := u.graph.GetUserInfo(ctx, longToken)
	if err != nil {
		return nil, err
	}

	exp := expiresAt
	cred, err := u.credRepo.Upsert(ctx, &model.Credential{
		UserID:        userID,
		FBUserID:      info.ID,
		FBUserName:    info.Name,
		FBUserPicture: info.Picture,
		ShortToken:    shortToken,
		LongToken:     longToken,
		ExpiresAt:     &exp,
	})
	if err != nil {
		return nil, err
	}

	pages, err := u.SyncPages(ctx, cred)
	if err != nil {
		return nil, err
	}

	_ = u.auditRepo.Append(ctx, &model.TokenAudit{
		UserID:   userID,
		FBUserID: info.ID,
		Action:   model.AuditActionExchange,
		Success:  true,
		Message:  fmt.Sprintf("Exchanged to long-lived, expires: %s", exp.Format("2006-01-02")),
	})

	res := &dto.ConnectResponse{FBUser: *info, ExpiresAt: cred.ExpiresAt}
	for _, p := range pages {
		res.Pages = append(res.Pages, dto.PageBrief{ID: p.PageID, Name: p.PageName, Picture: p.PagePicture})
	}
	return res, nil
}

// SyncPages upserts every administrable page under the credential. Upserts are
// deliberately independent: a failure mid-list keeps the pages already stored.
func (u *credentialUsecase) SyncPages(ctx context.Context, cred *model.Credential) ([]*model.PageCredential, error) {
	fbPages, err := u.graph.ListPages(ctx, cred.LongToken)
	if err != nil {
		return nil, err
	}
	out := make([]*model.PageCredential, 0, len(fbPages))
	for _, p := range fbPages {
		stored, err := u.pageRepo.Upsert(ctx, &model.PageCredential{
			UserID:       cred.UserID,
			CredentialID: cred.ID,
			PageID:       p.ID,
			PageName:     p.Name,
			PageToken:    p.AccessToken,
			PagePicture:  p.Picture,
			Category:     p.Category,
		})
		if err != nil {
			logger.GetLogger().WithField("error", err).WithField("page_id", p.ID).Error("page upsert failed")
			return out, err
		}
		out = append(out, stored)
	}
	return out, nil
}

func (u *credentialUsecase) Refresh(ctx context.Context, userID string) (*model.RefreshOutcome, error) {
	cred, err := u.credRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrNotConnected
	}
	return u.RefreshCredential(ctx, cred), nil
}

// RefreshCredential re-exchanges the long-lived token, persists the result and
// re-syncs page tokens. An audit row is written whatever the outcome.
func (u *credentialUsecase) RefreshCredential(ctx context.Context, cred *model.Credential) *model.RefreshOutcome {
	outcome := &model.RefreshOutcome{FBUserID: cred.FBUserID}
	newToken, newExpiry, err := u.graph.ExchangeLongLived(ctx, cred.LongToken)
	if err == nil {
		exp := newExpiry
		err = u.credRepo.UpdateLongToken(ctx, cred.UserID, cred.FBUserID, newToken, &exp)
		if err == nil {
			outcome.Success = true
			outcome.ExpiresAt = &exp
			cred.LongToken = newToken
			if _, syncErr := u.SyncPages(ctx, cred); syncErr != nil {
				logger.GetLogger().WithField("error", syncErr).WithField("fb_user_id", cred.FBUserID).Warn("page re-sync after refresh failed")
			}
		}
	}
	msg := ""
	if outcome.Success {
		msg = fmt.Sprintf("Refreshed, new expiry: %s", outcome.ExpiresAt.Format("2006-01-02"))
	} else {
		outcome.Error = err.Error()
		msg = err.Error()
	}
	_ = u.auditRepo.Append(ctx, &model.TokenAudit{
		UserID:   cred.UserID,
		FBUserID: cred.FBUserID,
		Action:   model.AuditActionRefresh,
		Success:  outcome.Success,
		Message:  msg,
	})
	return outcome
}

func (u *credentialUsecase) Status(ctx context.Context, userID string) (*dto.FacebookStatus, error) {
	cred, err := u.credRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return &dto.FacebookStatus{Connected: false}, nil
	}
	pages, err := u.pageRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.FacebookStatus{
		Connected:  true,
		FBUserName: cred.FBUserName,
		ExpiresAt:  cred.ExpiresAt,
		PageCount:  len(pages),
	}, nil
}

func (u *credentialUsecase) ListPages(ctx context.Context, userID string) ([]*model.PageCredential, error) {
	return u.pageRepo.FindByUser(ctx, userID)
}

func (u *credentialUsecase) Disconnect(ctx context.Context, userID string) error {
	cred, err := u.credRepo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	if cred == nil {
		return ErrNotConnected
	}
	// page credentials cascade with the parent row
	if err := u.credRepo.Delete(ctx, userID, cred.FBUserID); err != nil {
		return err
	}
	_ = u.auditRepo.Append(ctx, &model.TokenAudit{
		UserID:   userID,
		FBUserID: cred.FBUserID,
		Action:   model.AuditActionRevoke,
		Success:  true,
		Message:  "Disconnected",
	})
	return nil
}

func (u *credentialUsecase) TokenLog(ctx context.Context, userID string, limit int) ([]*model.TokenAudit, error) {
	return u.auditRepo.FindByUser(ctx, userID, limit)
}
