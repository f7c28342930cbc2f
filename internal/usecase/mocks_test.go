package usecase

import (
	"context"
	"time"

	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/port/repository"
	"github.com/stretchr/testify/mock"
)

type MockItemRepository struct{ mock.Mock }

func (m *MockItemRepository) Create(ctx context.Context, item *entity.Item) (string, error) {
	args := m.Called(ctx, item)
	return args.String(0), args.Error(1)
}
func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}
func (m *MockItemRepository) Update(ctx context.Context, item *entity.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockItemRepository) List(ctx context.Context, filter repository.ItemFilter, page, pageSize int) ([]*entity.Item, int, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Item), args.Int(1), args.Error(2)
}
func (m *MockItemRepository) ListFeatured(ctx context.Context, now time.Time, limit int) ([]*entity.Item, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Item), args.Error(1)
}
func (m *MockItemRepository) Count(ctx context.Context, filter repository.ItemFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}
func (m *MockItemRepository) SetLike(ctx context.Context, itemID, userID string, liked bool) error {
	args := m.Called(ctx, itemID, userID, liked)
	return args.Error(0)
}
func (m *MockItemRepository) AddSwapRequest(ctx context.Context, itemID string, req *entity.SwapRequest) error {
	args := m.Called(ctx, itemID, req)
	return args.Error(0)
}
func (m *MockItemRepository) UpdateSwapRequest(ctx context.Context, itemID, requestID string, status entity.SwapRequestStatus, responseMessage string) error {
	args := m.Called(ctx, itemID, requestID, status, responseMessage)
	return args.Error(0)
}
func (m *MockItemRepository) FindByRequester(ctx context.Context, requesterID string) ([]*entity.Item, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Item), args.Error(1)
}
func (m *MockItemRepository) FindWithRequestsByUploader(ctx context.Context, uploaderID string) ([]*entity.Item, error) {
	args := m.Called(ctx, uploaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Item), args.Error(1)
}
func (m *MockItemRepository) SetStatus(ctx context.Context, itemID string, status entity.ItemStatus, rejectionReason string) error {
	args := m.Called(ctx, itemID, status, rejectionReason)
	return args.Error(0)
}
func (m *MockItemRepository) SetFeatured(ctx context.Context, itemID string, isFeatured bool, featuredUntil *time.Time) error {
	args := m.Called(ctx, itemID, isFeatured, featuredUntil)
	return args.Error(0)
}
func (m *MockItemRepository) MarkSwapped(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}
func (m *MockItemRepository) UploaderStats(ctx context.Context, uploaderID string) (int, int, int, int, error) {
	args := m.Called(ctx, uploaderID)
	return args.Int(0), args.Int(1), args.Int(2), args.Int(3), args.Error(4)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) List(ctx context.Context, search, role string, page, pageSize int) ([]*entity.User, int, error) {
	args := m.Called(ctx, search, role, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.User), args.Int(1), args.Error(2)
}
func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockUserRepository) SetRole(ctx context.Context, id, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}
func (m *MockUserRepository) SetBan(ctx context.Context, id string, banned bool, reason string) error {
	args := m.Called(ctx, id, banned, reason)
	return args.Error(0)
}
func (m *MockUserRepository) IncrementItemsUploaded(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepository) IncrementSuccessfulSwaps(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, channel string, n *entity.Notification) error {
	args := m.Called(ctx, channel, n)
	return args.Error(0)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockMailSender struct{ mock.Mock }

func (m *MockMailSender) SendEmail(to []string, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
