package service

import (
	"context"
	"errors"
	"fmt"

	"jamb_cbt_backend/internal/config"
	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const refreshTokenKeyPrefix = "refresh_token:"

type AuthService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Redis:    rdb,
		Cfg:      cfg,
	}
}

type RegisterRequest struct {
	Name     string        `json:"name" binding:"required,min=2,max=100"`
	Email    string        `json:"email" binding:"required,email"`
	Password string        `json:"password" binding:"required,min=8,max=100"`
	Role     model.UserRole `json:"role"`
	SchoolID *string       `json:"schoolId"`
	Cohort   *model.Cohort `json:"cohort"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *AuthService) Register(req RegisterRequest) (*model.User, *TokenPair, error) {
	if req.Role == "" {
		req.Role = model.Candidate
	}
	if !model.ValidRole(req.Role) {
		return nil, nil, util.ValidationError("unknown role")
	}

	_, err := s.UserRepo.FindByEmail(req.Email)
	if err == nil {
		return nil, nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
		SchoolID: req.SchoolID,
		Cohort:   req.Cohort,
		Status:   model.UserActive,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) Login(email, password string) (*model.User, *TokenPair, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return nil, nil, util.ErrInvalidCredentials
	}

	if user.Status != model.UserActive {
		return nil, nil, util.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, util.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	_ = s.UserRepo.UpdateLastActive(user.ID)

	return user, pair, nil
}

// Refresh rotates the token pair. The presented refresh token must both
// verify and match the server-side copy, so a logout (or rotation) revokes
// every previously issued refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := util.ParseRefreshJWT(refreshToken, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, &util.AppError{Kind: util.KindUnauthorized, Message: "invalid refresh token"}
	}

	stored, err := s.Redis.Get(ctx, refreshTokenKeyPrefix+claims.UserID).Result()
	if err == redis.Nil || stored != refreshToken {
		return nil, &util.AppError{Kind: util.KindUnauthorized, Message: "refresh token not found or expired"}
	} else if err != nil {
		return nil, err
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if user.Status != model.UserActive {
		return nil, util.ErrAccountInactive
	}

	return s.issueTokens(user)
}

// Logout revokes the caller's refresh token server-side.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := util.ParseRefreshJWT(refreshToken, s.Cfg.JWT.Secret)
	if err != nil {
		// Nothing to revoke for an unverifiable token.
		return nil
	}
	return s.Redis.Del(ctx, refreshTokenKeyPrefix+claims.UserID).Err()
}

func (s *AuthService) GetCurrentUser(userID string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundError("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	accessToken, err := util.GenerateAccessToken(user, s.Cfg.JWT.Secret, s.Cfg.JWT.AccessExpireTime)
	if err != nil {
		return nil, err
	}
	refreshToken, err := util.GenerateRefreshToken(user, s.Cfg.JWT.Secret, s.Cfg.JWT.RefreshExpireTime)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	key := fmt.Sprintf("%s%s", refreshTokenKeyPrefix, user.ID)
	if err := s.Redis.Set(ctx, key, refreshToken, s.Cfg.JWT.RefreshExpireTime).Err(); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
