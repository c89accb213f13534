package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"page-scheduler/domain/dto"
	"page-scheduler/domain/model"
	"page-scheduler/infrastructure/pubsub"
)

// Mock implementations

type MockScheduledPostRepo struct {
	mock.Mock
}

func (m *MockScheduledPostRepo) Create(ctx context.Context, post *model.ScheduledPost) (*model.ScheduledPost, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduledPost), args.Error(1)
}

func (m *MockScheduledPostRepo) FindDue(ctx context.Context, now time.Time) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledPost), args.Error(1)
}

func (m *MockScheduledPostRepo) FindByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledPost), args.Error(1)
}

func (m *MockScheduledPostRepo) FindPendingByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledPost), args.Error(1)
}

func (m *MockScheduledPostRepo) MarkPosted(ctx context.Context, id int64, fbPostID string) error {
	args := m.Called(ctx, id, fbPostID)
	return args.Error(0)
}

func (m *MockScheduledPostRepo) MarkPostedWithNext(ctx context.Context, id int64, fbPostID string, next *model.ScheduledPost) error {
	args := m.Called(ctx, id, fbPostID, next)
	return args.Error(0)
}

func (m *MockScheduledPostRepo) RescheduleRetry(ctx context.Context, id int64, errMsg string, nextAttempt time.Time) error {
	args := m.Called(ctx, id, errMsg, nextAttempt)
	return args.Error(0)
}

func (m *MockScheduledPostRepo) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func (m *MockScheduledPostRepo) Cancel(ctx context.Context, id int64, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduledPostRepo) Delete(ctx context.Context, id int64, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockPageCredentialRepo struct {
	mock.Mock
}

func (m *MockPageCredentialRepo) Upsert(ctx context.Context, page *model.PageCredential) (*model.PageCredential, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageCredential), args.Error(1)
}

func (m *MockPageCredentialRepo) FindByUser(ctx context.Context, userID string) ([]*model.PageCredential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PageCredential), args.Error(1)
}

func (m *MockPageCredentialRepo) GetByPageID(ctx context.Context, userID, pageID string) (*model.PageCredential, error) {
	args := m.Called(ctx, userID, pageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageCredential), args.Error(1)
}

type MockPostHistoryRepo struct {
	mock.Mock
}

func (m *MockPostHistoryRepo) Append(ctx context.Context, h *model.PostHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockPostHistoryRepo) FindByUser(ctx context.Context, userID, status string, limit int) ([]*model.PostHistory, error) {
	args := m.Called(ctx, userID, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PostHistory), args.Error(1)
}

func (m *MockPostHistoryRepo) Stats(ctx context.Context, userID string) (*model.PostStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PostStats), args.Error(1)
}

func (m *MockPostHistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockCredentialRepo struct {
	mock.Mock
}

func (m *MockCredentialRepo) Upsert(ctx context.Context, cred *model.Credential) (*model.Credential, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Credential), args.Error(1)
}

func (m *MockCredentialRepo) GetByUser(ctx context.Context, userID string) (*model.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Credential), args.Error(1)
}

func (m *MockCredentialRepo) UpdateLongToken(ctx context.Context, userID, fbUserID, longToken string, expiresAt *time.Time) error {
	args := m.Called(ctx, userID, fbUserID, longToken, expiresAt)
	return args.Error(0)
}

func (m *MockCredentialRepo) Delete(ctx context.Context, userID, fbUserID string) error {
	args := m.Called(ctx, userID, fbUserID)
	return args.Error(0)
}

func (m *MockCredentialRepo) FindExpiringWithin(ctx context.Context, days int) ([]*model.Credential, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Credential), args.Error(1)
}

type MockTokenAuditRepo struct {
	mock.Mock
}

func (m *MockTokenAuditRepo) Append(ctx context.Context, audit *model.TokenAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

func (m *MockTokenAuditRepo) FindByUser(ctx context.Context, userID string, limit int) ([]*model.TokenAudit, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TokenAudit), args.Error(1)
}

func (m *MockTokenAuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	args := m.Called(ctx, username, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFacebookGraph struct {
	mock.Mock
}

func (m *MockFacebookGraph) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockFacebookGraph) ExchangeCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockFacebookGraph) ExchangeLongLived(ctx context.Context, token string) (string, time.Time, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockFacebookGraph) GetUserInfo(ctx context.Context, token string) (*dto.FBUserInfo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FBUserInfo), args.Error(1)
}

func (m *MockFacebookGraph) ListPages(ctx context.Context, longToken string) ([]dto.FBPage, error) {
	args := m.Called(ctx, longToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.FBPage), args.Error(1)
}

func (m *MockFacebookGraph) Publish(ctx context.Context, pageID, pageToken string, post *model.ScheduledPost) (string, error) {
	args := m.Called(ctx, pageID, pageToken, post)
	return args.String(0), args.Error(1)
}

type MockDispatchEvents struct {
	mock.Mock
}

func (m *MockDispatchEvents) PublishOutcome(ctx context.Context, ev pubsub.DispatchEvent) {
	m.Called(ctx, ev)
}
