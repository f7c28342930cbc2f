package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/port/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newUserUsecase(ur *MockUserRepository, ir *MockItemRepository) *UserUsecase {
	logger, _ := zap.NewDevelopment()
	return NewUserUsecase(ur, ir, testSecret, time.Hour, logger)
}

func TestUserUsecase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		uc := newUserUsecase(mockUserRepo, new(MockItemRepository))

		mockUserRepo.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
			if u.Role != entity.RoleCustomer {
				return false
			}
			// The stored credential must be a hash, never the raw password.
			return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")) == nil
		})).Return("user1", nil).Once()

		user, err := uc.Register(ctx, "Alice", "alice@example.com", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, "user1", user.ID)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		uc := newUserUsecase(new(MockUserRepository), new(MockItemRepository))

		_, err := uc.Register(ctx, "Alice", "alice@example.com", "123")
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{"password"}, vErr.Fields)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		uc := newUserUsecase(mockUserRepo, new(MockItemRepository))

		mockUserRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
			Return("", repository.ErrDuplicate).Once()

		_, err := uc.Register(ctx, "Alice", "alice@example.com", "secret1")
		var cErr *ConflictError
		assert.ErrorAs(t, err, &cErr)
	})
}

func TestUserUsecase_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	stored := &entity.User{
		ID:       "user1",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: string(hash),
		Role:     entity.RoleCustomer,
	}

	t.Run("TokenCarriesIdentity", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		uc := newUserUsecase(mockUserRepo, new(MockItemRepository))

		mockUserRepo.On("GetByEmail", ctx, "alice@example.com").Return(stored, nil).Once()

		tokenStr, user, err := uc.Login(ctx, "alice@example.com", "secret1")
		assert.NoError(t, err)
		assert.Equal(t, "user1", user.ID)

		token, parseErr := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		assert.NoError(t, parseErr)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "user1", claims["sub"])
		assert.Equal(t, entity.RoleCustomer, claims["role"])
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		uc := newUserUsecase(mockUserRepo, new(MockItemRepository))

		mockUserRepo.On("GetByEmail", ctx, "alice@example.com").Return(stored, nil).Once()

		_, _, err := uc.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		uc := newUserUsecase(mockUserRepo, new(MockItemRepository))

		mockUserRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrNotFound).Once()

		_, _, err := uc.Login(ctx, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("BannedAccount", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		uc := newUserUsecase(mockUserRepo, new(MockItemRepository))

		banned := *stored
		banned.IsBanned = true
		mockUserRepo.On("GetByEmail", ctx, "alice@example.com").Return(&banned, nil).Once()

		_, _, err := uc.Login(ctx, "alice@example.com", "secret1")
		assert.ErrorIs(t, err, ErrBanned)
	})
}

func TestUserUsecase_MyStats(t *testing.T) {
	ctx := context.Background()
	mockUserRepo := new(MockUserRepository)
	mockItemRepo := new(MockItemRepository)
	uc := newUserUsecase(mockUserRepo, mockItemRepo)

	mockUserRepo.On("GetByID", ctx, "user1").Return(&entity.User{
		ID:    "user1",
		Stats: entity.UserStats{ItemsUploaded: 5, SuccessfulSwaps: 2},
	}, nil).Once()
	mockItemRepo.On("UploaderStats", ctx, "user1").Return(5, 3, 1, 17, nil).Once()

	stats, err := uc.MyStats(ctx, Actor{ID: "user1"})
	assert.NoError(t, err)
	assert.Equal(t, 5, stats.ItemsUploaded)
	assert.Equal(t, 2, stats.SuccessfulSwaps)
	assert.Equal(t, 3, stats.ApprovedItems)
	assert.Equal(t, 1, stats.PendingItems)
	assert.Equal(t, 17, stats.TotalLikes)
}

func TestUserUsecase_AdminOperations(t *testing.T) {
	ctx := context.Background()
	customer := Actor{ID: "user1", Role: entity.RoleCustomer}

	t.Run("ListUsersForbiddenForCustomer", func(t *testing.T) {
		uc := newUserUsecase(new(MockUserRepository), new(MockItemRepository))
		_, err := uc.ListUsers(ctx, customer, "", "", 1, 20)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("SetUserRoleValidatesRole", func(t *testing.T) {
		uc := newUserUsecase(new(MockUserRepository), new(MockItemRepository))
		_, err := uc.SetUserRole(ctx, adminActor, "user1", "superuser")
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("BanStoresReason", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		uc := newUserUsecase(mockUserRepo, new(MockItemRepository))

		mockUserRepo.On("SetBan", ctx, "user1", true, "spam uploads").Return(nil).Once()
		mockUserRepo.On("GetByID", ctx, "user1").
			Return(&entity.User{ID: "user1", IsBanned: true, BanReason: "spam uploads"}, nil).Once()

		user, err := uc.SetUserBan(ctx, adminActor, "user1", true, "spam uploads")
		assert.NoError(t, err)
		assert.True(t, user.IsBanned)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("UserDetailIncludesRecentItems", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockItemRepo := new(MockItemRepository)
		uc := newUserUsecase(mockUserRepo, mockItemRepo)

		mockUserRepo.On("GetByID", ctx, "user1").Return(&entity.User{ID: "user1"}, nil).Once()
		mockItemRepo.On("List", ctx, repository.ItemFilter{UploaderID: "user1"}, 1, 10).
			Return([]*entity.Item{{ID: "item1"}}, 1, nil).Once()

		user, items, err := uc.GetUserDetail(ctx, adminActor, "user1")
		assert.NoError(t, err)
		assert.Equal(t, "user1", user.ID)
		assert.Len(t, items, 1)
	})
}
