package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"page-scheduler/domain/dto"
	"page-scheduler/domain/model"
	"page-scheduler/usecase"
)

func TestCredentialUsecase_Connect(t *testing.T) {
	credRepo := new(MockCredentialRepo)
	pageRepo := new(MockPageCredentialRepo)
	auditRepo := new(MockTokenAuditRepo)
	graph := new(MockFacebookGraph)

	expiry := time.Now().UTC().Add(60 * 24 * time.Hour)
	graph.On("ExchangeLongLived", mock.Anything, "short-tok").Return("long-tok", expiry, nil).Once()
	graph.On("GetUserInfo", mock.Anything, "long-tok").Return(&dto.FBUserInfo{ID: "fb-1", Name: "Jane"}, nil).Once()
	credRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(c *model.Credential) bool {
		return c.UserID == "u1" && c.FBUserID == "fb-1" && c.LongToken == "long-tok" && c.ShortToken == "short-tok"
	})).Return(&model.Credential{ID: 7, UserID: "u1", FBUserID: "fb-1", FBUserName: "Jane", LongToken: "long-tok", ExpiresAt: &expiry}, nil).Once()
	graph.On("ListPages", mock.Anything, "long-tok").Return([]dto.FBPage{
		{ID: "p1", Name: "Page One", AccessToken: "pt1"},
		{ID: "p2", Name: "Page Two", AccessToken: "pt2"},
	}, nil).Once()
	pageRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *model.PageCredential) bool {
		return p.CredentialID == 7 && p.UserID == "u1"
	})).Return(&model.PageCredential{UserID: "u1", PageID: "p1", PageName: "Page One"}, nil).Twice()
	auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(a *model.TokenAudit) bool {
		return a.Action == model.AuditActionExchange && a.Success
	})).Return(nil).Once()

	uc := usecase.NewCredentialUsecase(credRepo, pageRepo, auditRepo, graph)
	res, err := uc.Connect(context.Background(), "u1", "short-tok")

	assert.NoError(t, err)
	assert.Equal(t, "fb-1", res.FBUser.ID)
	assert.Len(t, res.Pages, 2)
	credRepo.AssertExpectations(t)
	pageRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
	graph.AssertExpectations(t)
}

func TestCredentialUsecase_ConnectExchangeFailureWritesNothing(t *testing.T) {
	credRepo := new(MockCredentialRepo)
	pageRepo := new(MockPageCredentialRepo)
	auditRepo := new(MockTokenAuditRepo)
	graph := new(MockFacebookGraph)

	authErr := model.NewPlatformError(model.ErrKindAuth, 190, "token expired")
	graph.On("ExchangeLongLived", mock.Anything, "bad-tok").Return("", time.Time{}, authErr).Once()

	uc := usecase.NewCredentialUsecase(credRepo, pageRepo, auditRepo, graph)
	res, err := uc.Connect(context.Background(), "u1", "bad-tok")

	assert.Nil(t, res)
	assert.True(t, model.IsAuthError(err))
	credRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	pageRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCredentialUsecase_RefreshCredentialFailureIsAudited(t *testing.T) {
	credRepo := new(MockCredentialRepo)
	pageRepo := new(MockPageCredentialRepo)
	auditRepo := new(MockTokenAuditRepo)
	graph := new(MockFacebookGraph)

	cred := &model.Credential{UserID: "u1", FBUserID: "fb-1", LongToken: "stale"}
	graph.On("ExchangeLongLived", mock.Anything, "stale").
		Return("", time.Time{}, model.NewPlatformError(model.ErrKindAuth, 190, "session invalidated")).Once()
	auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(a *model.TokenAudit) bool {
		return a.Action == model.AuditActionRefresh && !a.Success
	})).Return(nil).Once()

	uc := usecase.NewCredentialUsecase(credRepo, pageRepo, auditRepo, graph)
	outcome := uc.RefreshCredential(context.Background(), cred)

	assert.False(t, outcome.Success)
	assert.NotEmpty(t, outcome.Error)
	credRepo.AssertNotCalled(t, "UpdateLongToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	auditRepo.AssertExpectations(t)
}

func TestCredentialUsecase_RefreshCredentialSuccess(t *testing.T) {
	credRepo := new(MockCredentialRepo)
	pageRepo := new(MockPageCredentialRepo)
	auditRepo := new(MockTokenAuditRepo)
	graph := new(MockFacebookGraph)

	newExpiry := time.Now().UTC().Add(60 * 24 * time.Hour)
	cred := &model.Credential{UserID: "u1", FBUserID: "fb-1", LongToken: "old-long"}
	graph.On("ExchangeLongLived", mock.Anything, "old-long").Return("new-long", newExpiry, nil).Once()
	credRepo.On("UpdateLongToken", mock.Anything, "u1", "fb-1", "new-long", mock.Anything).Return(nil).Once()
	graph.On("ListPages", mock.Anything, "new-long").Return([]dto.FBPage{}, nil).Once()
	auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(a *model.TokenAudit) bool {
		return a.Action == model.AuditActionRefresh && a.Success
	})).Return(nil).Once()

	uc := usecase.NewCredentialUsecase(credRepo, pageRepo, auditRepo, graph)
	outcome := uc.RefreshCredential(context.Background(), cred)

	assert.True(t, outcome.Success)
	assert.NotNil(t, outcome.ExpiresAt)
	credRepo.AssertExpectations(t)
	graph.AssertExpectations(t)
}

func TestCredentialUsecase_DisconnectAuditsRevoke(t *testing.T) {
	credRepo := new(MockCredentialRepo)
	pageRepo := new(MockPageCredentialRepo)
	auditRepo := new(MockTokenAuditRepo)
	graph := new(MockFacebookGraph)

	credRepo.On("GetByUser", mock.Anything, "u1").Return(&model.Credential{UserID: "u1", FBUserID: "fb-1"}, nil).Once()
	credRepo.On("Delete", mock.Anything, "u1", "fb-1").Return(nil).Once()
	auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(a *model.TokenAudit) bool {
		return a.Action == model.AuditActionRevoke
	})).Return(nil).Once()

	uc := usecase.NewCredentialUsecase(credRepo, pageRepo, auditRepo, graph)
	err := uc.Disconnect(context.Background(), "u1")

	assert.NoError(t, err)
	credRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestCredentialUsecase_DisconnectWhenNotConnected(t *testing.T) {
	credRepo := new(MockCredentialRepo)
	pageRepo := new(MockPageCredentialRepo)
	auditRepo := new(MockTokenAuditRepo)
	graph := new(MockFacebookGraph)

	credRepo.On("GetByUser", mock.Anything, "u1").Return(nil, nil).Once()

	uc := usecase.NewCredentialUsecase(credRepo, pageRepo, auditRepo, graph)
	err := uc.Disconnect(context.Background(), "u1")

	assert.ErrorIs(t, err, usecase.ErrNotConnected)
	credRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
