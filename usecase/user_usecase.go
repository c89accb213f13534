package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"page-scheduler/domain/model"
	"page-scheduler/domain/repository"
	"page-scheduler/infrastructure/utils"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type IUserUsecase interface {
	Register(ctx context.Context, req model.ReqRegister) (*model.User, error)
	Login(ctx context.Context, req model.ReqLogin, secretKey string) (string, *model.User, error)
}

type userUsecase struct {
	userRepo repository.IUser
}

func NewUserUsecase(userRepo repository.IUser) IUserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) Register(ctx context.Context, req model.ReqRegister) (*model.User, error) {
	existing, err := u.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return u.userRepo.Create(ctx, req.Username, string(hash))
}

func (u *userUsecase) Login(ctx context.Context, req model.ReqLogin, secretKey string) (string, *model.User, error) {
	user, err := u.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	_ = u.userRepo.UpdateLastLogin(ctx, user.ID)
	token, err := utils.GenerateToken(map[string]interface{}{
		"user_id":  fmt.Sprintf("%d", user.ID),
		"username": user.Username,
		"exp":      time.Now().Add(7 * 24 * time.Hour).Unix(),
	}, secretKey)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
