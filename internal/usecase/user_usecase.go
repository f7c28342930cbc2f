package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/port/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserUsecase struct {
	userRepo  repository.UserRepository
	itemRepo  repository.ItemRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewUserUsecase(
	ur repository.UserRepository,
	ir repository.ItemRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	log *zap.Logger,
) *UserUsecase {
	return &UserUsecase{
		userRepo:  ur,
		itemRepo:  ir,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    log,
	}
}

func (uc *UserUsecase) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	var fields []string
	if name == "" {
		fields = append(fields, "name")
	}
	if email == "" {
		fields = append(fields, "email")
	}
	if len(password) < 6 {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("UserUsecase.Register: failed to hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Role:      entity.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	createdID, err := uc.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ConflictError{Reason: "email already registered"}
		}
		uc.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("UserUsecase.Register: failed to create user in repo: %w", err)
	}
	user.ID = createdID
	return user, nil
}

// Login verifies credentials and issues a signed token carrying the
// actor's id and role. Banned accounts cannot authenticate.
func (uc *UserUsecase) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("UserUsecase.Login: failed to get user from repo: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.IsBanned {
		return "", nil, ErrBanned
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": user.Role,
		"exp":  time.Now().Add(uc.tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("UserUsecase.Login: failed to sign token: %w", err)
	}
	return token, user, nil
}

func (uc *UserUsecase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("UserUsecase.GetProfile: failed to get user from repo: %w", err)
	}
	return user, nil
}

// MyStats merges the stored counters with live item aggregates.
func (uc *UserUsecase) MyStats(ctx context.Context, actor Actor) (*entity.UserItemStats, error) {
	user, err := uc.GetProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	total, approved, pending, likes, err := uc.itemRepo.UploaderStats(ctx, actor.ID)
	if err != nil {
		uc.logger.Error("Failed to aggregate uploader stats", zap.Error(err), zap.String("user_id", actor.ID))
		return nil, fmt.Errorf("UserUsecase.MyStats: failed to aggregate item stats: %w", err)
	}

	return &entity.UserItemStats{
		ItemsUploaded:   user.Stats.ItemsUploaded,
		SuccessfulSwaps: user.Stats.SuccessfulSwaps,
		TotalItems:      total,
		ApprovedItems:   approved,
		PendingItems:    pending,
		TotalLikes:      likes,
	}, nil
}

// ListUsers is the admin account listing with optional name/email search
// and role filter.
func (uc *UserUsecase) ListUsers(ctx context.Context, actor Actor, search, role string, pageNum, pageSize int) (*entity.UserPage, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if role != "" && role != entity.RoleCustomer && role != entity.RoleAdmin {
		return nil, &ValidationError{Fields: []string{"role"}}
	}
	page, size := normalizePage(pageNum, pageSize)

	users, total, err := uc.userRepo.List(ctx, search, role, page, size)
	if err != nil {
		uc.logger.Error("Failed to list users from repository", zap.Error(err))
		return nil, fmt.Errorf("UserUsecase.ListUsers: failed to list users from repo: %w", err)
	}

	return &entity.UserPage{
		Users:      users,
		Total:      total,
		TotalPages: totalPages(total, size),
		Page:       page,
	}, nil
}

func (uc *UserUsecase) SetUserRole(ctx context.Context, actor Actor, userID, role string) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if role != entity.RoleCustomer && role != entity.RoleAdmin {
		return nil, &ValidationError{Fields: []string{"role"}}
	}

	if err := uc.userRepo.SetRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		uc.logger.Error("Failed to set user role", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("UserUsecase.SetUserRole: failed to update user: %w", err)
	}
	return uc.GetProfile(ctx, userID)
}

func (uc *UserUsecase) SetUserBan(ctx context.Context, actor Actor, userID string, banned bool, reason string) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if err := uc.userRepo.SetBan(ctx, userID, banned, reason); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		uc.logger.Error("Failed to set user ban status", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("UserUsecase.SetUserBan: failed to update user: %w", err)
	}
	return uc.GetProfile(ctx, userID)
}

// GetUserDetail is the admin view of one account with its recent items.
func (uc *UserUsecase) GetUserDetail(ctx context.Context, actor Actor, userID string) (*entity.User, []*entity.Item, error) {
	if !actor.IsAdmin() {
		return nil, nil, ErrForbidden
	}

	user, err := uc.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	items, _, err := uc.itemRepo.List(ctx, repository.ItemFilter{UploaderID: userID}, 1, 10)
	if err != nil {
		uc.logger.Error("Failed to list user items for admin detail", zap.Error(err), zap.String("user_id", userID))
		return nil, nil, fmt.Errorf("UserUsecase.GetUserDetail: failed to list items: %w", err)
	}
	return user, items, nil
}
