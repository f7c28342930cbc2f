package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/port/notifier"
	"github.com/shlok1014/ReWear/internal/port/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func approvedItem() *entity.Item {
	return &entity.Item{
		ID:          "item1",
		Title:       "Wool Scarf",
		UploaderID:  "owner",
		Status:      entity.StatusApproved,
		IsAvailable: true,
	}
}

func TestSwapUsecase_RequestSwap(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	ctx := context.Background()
	requester := Actor{ID: "requester", Role: entity.RoleCustomer}

	t.Run("Success", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockUserRepo := new(MockUserRepository)
		mockPub := new(MockPublisher)
		uc := NewSwapUsecase(mockItemRepo, mockUserRepo, mockPub, nil, logger)

		mockItemRepo.On("GetByID", ctx, "item1").Return(approvedItem(), nil).Once()
		mockItemRepo.On("AddSwapRequest", ctx, "item1", mock.MatchedBy(func(req *entity.SwapRequest) bool {
			return req.RequesterID == "requester" && req.Status == entity.SwapPending && req.ID != ""
		})).Return(nil).Once()
		mockUserRepo.On("GetByID", ctx, "requester").
			Return(&entity.User{ID: "requester", Name: "Alex"}, nil).Once()
		mockPub.On("Publish", ctx, notifier.UserChannel("owner"), mock.MatchedBy(func(n *entity.Notification) bool {
			return n.Type == entity.NotificationSwapRequest && strings.Contains(n.Message, "Alex")
		})).Return(nil).Once()

		req, err := uc.RequestSwap(ctx, requester, "item1", "trade for my jacket?")
		assert.NoError(t, err)
		assert.Equal(t, entity.SwapPending, req.Status)
		mockItemRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	t.Run("OwnItemRejected", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, nil, logger)

		mockItemRepo.On("GetByID", ctx, "item1").Return(approvedItem(), nil).Once()

		_, err := uc.RequestSwap(ctx, Actor{ID: "owner"}, "item1", "")
		var opErr *InvalidOperationError
		assert.ErrorAs(t, err, &opErr)
		mockItemRepo.AssertNotCalled(t, "AddSwapRequest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotApprovedRejected", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, nil, logger)

		item := approvedItem()
		item.Status = entity.StatusPending
		mockItemRepo.On("GetByID", ctx, "item1").Return(item, nil).Once()

		_, err := uc.RequestSwap(ctx, requester, "item1", "")
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("UnavailableRejected", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, nil, logger)

		item := approvedItem()
		item.IsAvailable = false
		mockItemRepo.On("GetByID", ctx, "item1").Return(item, nil).Once()

		_, err := uc.RequestSwap(ctx, requester, "item1", "")
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("DuplicatePendingConflict", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, nil, logger)

		item := approvedItem()
		item.SwapRequests = []entity.SwapRequest{
			{ID: "r1", RequesterID: "requester", Status: entity.SwapPending},
		}
		mockItemRepo.On("GetByID", ctx, "item1").Return(item, nil).Once()

		_, err := uc.RequestSwap(ctx, requester, "item1", "")
		var cErr *ConflictError
		assert.ErrorAs(t, err, &cErr)
	})

	t.Run("RejectedRequestDoesNotBlockNewOne", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockUserRepo := new(MockUserRepository)
		uc := NewSwapUsecase(mockItemRepo, mockUserRepo, nil, nil, logger)

		item := approvedItem()
		item.SwapRequests = []entity.SwapRequest{
			{ID: "r1", RequesterID: "requester", Status: entity.SwapRejected},
		}
		mockItemRepo.On("GetByID", ctx, "item1").Return(item, nil).Once()
		mockItemRepo.On("AddSwapRequest", ctx, "item1", mock.AnythingOfType("*entity.SwapRequest")).Return(nil).Once()
		mockUserRepo.On("GetByID", ctx, "requester").Return(&entity.User{Name: "Alex"}, nil).Once()

		_, err := uc.RequestSwap(ctx, requester, "item1", "second try")
		assert.NoError(t, err)
	})

	t.Run("RacingDuplicateCaughtByRepository", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, nil, logger)

		mockItemRepo.On("GetByID", ctx, "item1").Return(approvedItem(), nil).Once()
		mockItemRepo.On("AddSwapRequest", ctx, "item1", mock.AnythingOfType("*entity.SwapRequest")).
			Return(repository.ErrDuplicate).Once()

		_, err := uc.RequestSwap(ctx, requester, "item1", "")
		var cErr *ConflictError
		assert.ErrorAs(t, err, &cErr)
	})

	t.Run("MessageTooLong", func(t *testing.T) {
		uc := NewSwapUsecase(new(MockItemRepository), new(MockUserRepository), nil, nil, logger)

		_, err := uc.RequestSwap(ctx, requester, "item1", strings.Repeat("x", maxSwapMessageLen+1))
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{"message"}, vErr.Fields)
	})
}

func TestSwapUsecase_RespondToSwapRequest(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	ctx := context.Background()
	owner := Actor{ID: "owner", Role: entity.RoleCustomer}

	itemWithRequests := func() *entity.Item {
		item := approvedItem()
		item.SwapRequests = []entity.SwapRequest{
			{ID: "r1", RequesterID: "alice", Status: entity.SwapPending},
			{ID: "r2", RequesterID: "bob", Status: entity.SwapPending},
		}
		return item
	}

	t.Run("AcceptLeavesOtherRequestsPending", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockUserRepo := new(MockUserRepository)
		mockPub := new(MockPublisher)
		uc := NewSwapUsecase(mockItemRepo, mockUserRepo, mockPub, nil, logger)

		mockItemRepo.On("GetByID", ctx, "item1").Return(itemWithRequests(), nil).Once()
		mockItemRepo.On("UpdateSwapRequest", ctx, "item1", "r1", entity.SwapAccepted, "deal").Return(nil).Once()
		mockUserRepo.On("GetByID", ctx, "owner").Return(&entity.User{Name: "Olga"}, nil).Once()
		mockPub.On("Publish", ctx, notifier.UserChannel("alice"), mock.AnythingOfType("*entity.Notification")).Return(nil).Once()

		err := uc.RespondToSwapRequest(ctx, owner, "item1", "r1", entity.SwapAccepted, "deal")
		assert.NoError(t, err)

		// Only the targeted embedded request is touched.
		mockItemRepo.AssertNumberOfCalls(t, "UpdateSwapRequest", 1)
		mockPub.AssertExpectations(t)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, nil, logger)

		mockItemRepo.On("GetByID", ctx, "item1").Return(itemWithRequests(), nil).Once()

		err := uc.RespondToSwapRequest(ctx, Actor{ID: "stranger"}, "item1", "r1", entity.SwapAccepted, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("AdminMayRespond", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockUserRepo := new(MockUserRepository)
		uc := NewSwapUsecase(mockItemRepo, mockUserRepo, nil, nil, logger)

		mockItemRepo.On("GetByID", ctx, "item1").Return(itemWithRequests(), nil).Once()
		mockItemRepo.On("UpdateSwapRequest", ctx, "item1", "r2", entity.SwapRejected, "").Return(nil).Once()
		mockUserRepo.On("GetByID", ctx, "owner").Return(&entity.User{Name: "Olga"}, nil).Once()

		err := uc.RespondToSwapRequest(ctx, Actor{ID: "admin1", Role: entity.RoleAdmin}, "item1", "r2", entity.SwapRejected, "")
		assert.NoError(t, err)
	})

	t.Run("AlreadyDecidedRequest", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, nil, logger)

		item := itemWithRequests()
		item.SwapRequests[0].Status = entity.SwapAccepted
		mockItemRepo.On("GetByID", ctx, "item1").Return(item, nil).Once()

		err := uc.RespondToSwapRequest(ctx, owner, "item1", "r1", entity.SwapRejected, "")
		var opErr *InvalidOperationError
		assert.ErrorAs(t, err, &opErr)
	})

	t.Run("InvalidTargetStatus", func(t *testing.T) {
		uc := NewSwapUsecase(new(MockItemRepository), new(MockUserRepository), nil, nil, logger)

		err := uc.RespondToSwapRequest(ctx, owner, "item1", "r1", entity.SwapPending, "")
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("UnknownRequestID", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, nil, logger)

		mockItemRepo.On("GetByID", ctx, "item1").Return(itemWithRequests(), nil).Once()

		err := uc.RespondToSwapRequest(ctx, owner, "item1", "missing", entity.SwapAccepted, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSwapUsecase_CacheInvalidation(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	ctx := context.Background()

	t.Run("RequestSwapDropsCachedItem", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockUserRepo := new(MockUserRepository)
		mockCache := new(MockCacheRepository)
		uc := NewSwapUsecase(mockItemRepo, mockUserRepo, nil, mockCache, logger)

		mockItemRepo.On("GetByID", ctx, "item1").Return(approvedItem(), nil).Once()
		mockItemRepo.On("AddSwapRequest", ctx, "item1", mock.AnythingOfType("*entity.SwapRequest")).Return(nil).Once()
		mockCache.On("Delete", ctx, itemCacheKey("item1")).Return(nil).Once()
		mockUserRepo.On("GetByID", ctx, "requester").Return(&entity.User{Name: "Alex"}, nil).Once()

		_, err := uc.RequestSwap(ctx, Actor{ID: "requester"}, "item1", "hi")
		assert.NoError(t, err)
		mockCache.AssertExpectations(t)
	})

	t.Run("RespondDropsCachedItem", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockUserRepo := new(MockUserRepository)
		mockCache := new(MockCacheRepository)
		uc := NewSwapUsecase(mockItemRepo, mockUserRepo, nil, mockCache, logger)

		item := approvedItem()
		item.SwapRequests = []entity.SwapRequest{
			{ID: "r1", RequesterID: "alice", Status: entity.SwapPending},
		}
		mockItemRepo.On("GetByID", ctx, "item1").Return(item, nil).Once()
		mockItemRepo.On("UpdateSwapRequest", ctx, "item1", "r1", entity.SwapAccepted, "").Return(nil).Once()
		// A later GetItem must hit the store, not serve the pending snapshot.
		mockCache.On("Delete", ctx, itemCacheKey("item1")).Return(nil).Once()
		mockUserRepo.On("GetByID", ctx, "owner").Return(&entity.User{Name: "Olga"}, nil).Once()

		err := uc.RespondToSwapRequest(ctx, Actor{ID: "owner"}, "item1", "r1", entity.SwapAccepted, "")
		assert.NoError(t, err)
		mockCache.AssertExpectations(t)
	})

	t.Run("FailedMutationLeavesCacheAlone", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockCache := new(MockCacheRepository)
		uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, mockCache, logger)

		mockItemRepo.On("GetByID", ctx, "item1").Return(approvedItem(), nil).Once()
		mockItemRepo.On("AddSwapRequest", ctx, "item1", mock.AnythingOfType("*entity.SwapRequest")).
			Return(repository.ErrDuplicate).Once()

		_, err := uc.RequestSwap(ctx, Actor{ID: "requester"}, "item1", "")
		var cErr *ConflictError
		assert.ErrorAs(t, err, &cErr)
		mockCache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestSwapUsecase_ListSentRequests(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	ctx := context.Background()

	mockItemRepo := new(MockItemRepository)
	uc := NewSwapUsecase(mockItemRepo, new(MockUserRepository), nil, nil, logger)

	items := []*entity.Item{
		{
			ID:     "item1",
			Title:  "Scarf",
			Images: []string{"img1"},
			SwapRequests: []entity.SwapRequest{
				{ID: "r1", RequesterID: "me", Status: entity.SwapPending},
				{ID: "r2", RequesterID: "someone-else", Status: entity.SwapPending},
			},
		},
	}
	mockItemRepo.On("FindByRequester", ctx, "me").Return(items, nil).Once()

	views, err := uc.ListSentRequests(ctx, Actor{ID: "me"})
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "r1", views[0].ID)
	assert.Equal(t, "item1", views[0].Item.ID)
	assert.Equal(t, "img1", views[0].Item.Image)
}

func TestSwapUsecase_ListReceivedRequests_ResolvesNamesOnce(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	ctx := context.Background()

	mockItemRepo := new(MockItemRepository)
	mockUserRepo := new(MockUserRepository)
	uc := NewSwapUsecase(mockItemRepo, mockUserRepo, nil, nil, logger)

	items := []*entity.Item{
		{
			ID:    "item1",
			Title: "Scarf",
			SwapRequests: []entity.SwapRequest{
				{ID: "r1", RequesterID: "alice", Status: entity.SwapPending},
			},
		},
		{
			ID:    "item2",
			Title: "Boots",
			SwapRequests: []entity.SwapRequest{
				{ID: "r2", RequesterID: "alice", Status: entity.SwapRejected},
			},
		},
	}
	mockItemRepo.On("FindWithRequestsByUploader", ctx, "owner").Return(items, nil).Once()
	mockUserRepo.On("GetByID", ctx, "alice").Return(&entity.User{ID: "alice", Name: "Alice"}, nil).Once()

	views, err := uc.ListReceivedRequests(ctx, Actor{ID: "owner"})
	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, "Alice", views[0].RequesterName)
	assert.Equal(t, "Alice", views[1].RequesterName)
	mockUserRepo.AssertNumberOfCalls(t, "GetByID", 1)
}
