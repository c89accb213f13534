package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"page-scheduler/domain/model"
	"page-scheduler/usecase"
)

func TestUserUsecase_RegisterHashesPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUsername", mock.Anything, "jane").Return(nil, nil).Once()
	userRepo.On("Create", mock.Anything, "jane", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret123")) == nil
	})).Return(&model.User{ID: 1, Username: "jane"}, nil).Once()

	uc := usecase.NewUserUsecase(userRepo)
	user, err := uc.Register(context.Background(), model.ReqRegister{Username: "jane", Password: "secret123"})

	assert.NoError(t, err)
	assert.Equal(t, "jane", user.Username)
	userRepo.AssertExpectations(t)
}

func TestUserUsecase_RegisterDuplicateUsername(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUsername", mock.Anything, "jane").Return(&model.User{ID: 1, Username: "jane"}, nil).Once()

	uc := usecase.NewUserUsecase(userRepo)
	_, err := uc.Register(context.Background(), model.ReqRegister{Username: "jane", Password: "secret123"})

	assert.ErrorIs(t, err, usecase.ErrUsernameTaken)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserUsecase_LoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUsername", mock.Anything, "jane").Return(&model.User{ID: 1, Username: "jane", Password: string(hash)}, nil).Once()

	uc := usecase.NewUserUsecase(userRepo)
	_, _, err := uc.Login(context.Background(), model.ReqLogin{Username: "jane", Password: "wrong"}, "key")

	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
}

func TestUserUsecase_LoginIssuesToken(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	userRepo := new(MockUserRepo)
	userRepo.On("GetByUsername", mock.Anything, "jane").Return(&model.User{ID: 1, Username: "jane", Password: string(hash)}, nil).Once()
	userRepo.On("UpdateLastLogin", mock.Anything, int64(1)).Return(nil).Once()

	uc := usecase.NewUserUsecase(userRepo)
	token, user, err := uc.Login(context.Background(), model.ReqLogin{Username: "jane", Password: "secret123"}, "key")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(1), user.ID)
	userRepo.AssertExpectations(t)
}
