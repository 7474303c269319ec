package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/doremi/internal/model"
	"github.com/d60-Lab/doremi/internal/repository"
)

var (
	ErrUserIDTaken        = errors.New("이미 사용 중인 아이디입니다.")
	ErrInvalidCredentials = errors.New("아이디 또는 비밀번호가 일치하지 않습니다.")
	ErrAccountMismatch    = errors.New("일치하는 계정을 찾을 수 없습니다.")
)

type RegisterInput struct {
	UserID    string
	Password  string
	Name      string
	Sex       string
	BirthDate string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, userID, password string) (token string, u *model.User, err error)
	CheckID(ctx context.Context, userID string) (int64, error)
	// ResetPassword verifies the account details and rotates the password,
	// returning the new temporary one.
	ResetPassword(ctx context.Context, name, userID, sex, birthDate string) (string, error)
	Recommended(ctx context.Context, viewerID string, limit int) ([]*model.User, error)
}

type authService struct {
	users     repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{users: users, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) error {
	cnt, err := s.users.CountByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrUserIDTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.Create(ctx, &model.User{
		ID:       in.UserID,
		Name:     in.Name,
		Password: string(hash),
		Sex:      in.Sex,
		BirthStr: in.BirthDate,
	})
}

func (s *authService) Login(ctx context.Context, userID, password string) (string, *model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *authService) CheckID(ctx context.Context, userID string) (int64, error) {
	return s.users.CountByID(ctx, userID)
}

func (s *authService) ResetPassword(ctx context.Context, name, userID, sex, birthDate string) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAccountMismatch
		}
		return "", err
	}
	if u.Name != name || u.Sex != sex || u.BirthStr != birthDate {
		return "", ErrAccountMismatch
	}
	temp := tempPassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return "", err
	}
	return temp, nil
}

func tempPassword() string {
	return uuid.New().String()[:8]
}

func (s *authService) Recommended(ctx context.Context, viewerID string, limit int) ([]*model.User, error) {
	return s.users.ListRecommended(ctx, viewerID, limit)
}
