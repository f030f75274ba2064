package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/token"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// 不區分帳號不存在或密碼錯誤
const invalidCredentialsMsg = "Invalid credentials"

type RegisterInput struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

type IAuthService interface {
	// Register 建立帳號, 不會自動登入
	//
	// 錯誤:
	//   - apperr.ValidationCode 400: 欄位為空
	//   - apperr.ConflictCode 409: 使用者名稱已存在
	//   - apperr.PersistenceCode 500: 資料庫錯誤
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login 驗證帳密並簽發 session token
	//
	// 錯誤:
	//   - apperr.UnauthenticatedCode 401: 帳號或密碼錯誤
	//   - apperr.PersistenceCode 500: 資料庫錯誤
	Login(ctx context.Context, username, password string) (string, *token.Payload, error)
}

type AuthService struct {
	userRepo   db.IUserRepository
	tokenMaker token.Maker
}

func NewAuthService(userRepo db.IUserRepository, tokenMaker token.Maker) IAuthService {
	if userRepo == nil || tokenMaker == nil {
		panic("auth service dependency cannot be nil")
	}
	return &AuthService{
		userRepo:   userRepo,
		tokenMaker: tokenMaker,
	}
}

func (a *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, apperr.New(apperr.ValidationCode, "Username, email and password are required.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.InternalErrorCode, err, "failed to hash password")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      in.IsAdmin,
	}
	if err := a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return nil, apperr.Wrap(apperr.ConflictCode, err, "Username already exists.")
		}
		return nil, apperr.Wrap(apperr.PersistenceCode, err, "Failed to create account.")
	}

	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Bool("is_admin", user.IsAdmin).Msg("user registered")
	return user, nil
}

func (a *AuthService) Login(ctx context.Context, username, password string) (string, *token.Payload, error) {
	user, err := a.userRepo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return "", nil, apperr.New(apperr.UnauthenticatedCode, invalidCredentialsMsg)
		}
		return "", nil, apperr.Wrap(apperr.PersistenceCode, err, "Failed to load account.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.New(apperr.UnauthenticatedCode, invalidCredentialsMsg)
	}

	accessToken, payload, err := a.tokenMaker.CreateToken(user.ID, user.Username, user.IsAdmin, constants.SessionTokenDuration.Duration())
	if err != nil {
		return "", nil, apperr.Wrap(apperr.InternalErrorCode, err, "failed to create session")
	}
	return accessToken, payload, nil
}
