package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/bookmarks/internal/model"
	"github.com/d60-Lab/bookmarks/internal/repository"
	"github.com/d60-Lab/bookmarks/pkg/auth"
)

// RegisterInput 注册参数
type RegisterInput struct {
	Username  string `json:"username" binding:"required,min=3,max=150" validate:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	Password  string `json:"password" binding:"required,min=8" validate:"required,min=8,max=72"`
	Password2 string `json:"password2" binding:"required" validate:"required,eqfield=Password"`
}

type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Authenticate login 可以是用户名或邮箱，成功返回访问令牌
	Authenticate(ctx context.Context, login, password string) (string, *model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, error)
}

type accountService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	actions  ActionService
	validate *validator.Validate
	cost     int
}

func NewAccountService(userRepo repository.UserRepository, tokens *auth.TokenManager, actions ActionService) AccountService {
	return &accountService{
		userRepo: userRepo,
		tokens:   tokens,
		actions:  actions,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
	}
}

func (s *accountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		ID:        uuid.New().String(),
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	recordQuietly(ctx, s.actions, u.ID, model.VerbCreatedAccount, nil)
	return u, nil
}

func (s *accountService) Authenticate(ctx context.Context, login, password string) (string, *model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}
	u, err := s.userRepo.GetByLogin(ctx, login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func (s *accountService) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *accountService) ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, error) {
	offset, limit := paginate(page, pageSize)
	return s.userRepo.List(ctx, offset, limit)
}
