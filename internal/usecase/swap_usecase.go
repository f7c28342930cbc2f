package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/port/cache"
	"github.com/shlok1014/ReWear/internal/port/notifier"
	"github.com/shlok1014/ReWear/internal/port/repository"
	"go.uber.org/zap"
)

const maxSwapMessageLen = 500

type SwapUsecase struct {
	itemRepo  repository.ItemRepository
	userRepo  repository.UserRepository
	publisher notifier.Publisher
	cacheRepo cache.CacheRepository
	logger    *zap.Logger
}

func NewSwapUsecase(
	ir repository.ItemRepository,
	ur repository.UserRepository,
	pub notifier.Publisher,
	cr cache.CacheRepository,
	log *zap.Logger,
) *SwapUsecase {
	return &SwapUsecase{
		itemRepo:  ir,
		userRepo:  ur,
		publisher: pub,
		cacheRepo: cr,
		logger:    log,
	}
}

// RequestSwap appends a pending swap request to an approved, available
// item. The repository write re-checks the duplicate-pending guard
// atomically, so two racing requests from the same user cannot both land.
func (uc *SwapUsecase) RequestSwap(ctx context.Context, actor Actor, itemID, message string) (*entity.SwapRequest, error) {
	if len(message) > maxSwapMessageLen {
		return nil, &ValidationError{Fields: []string{"message"}}
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("SwapUsecase.RequestSwap: failed to get item from repo: %w", err)
	}

	if item.UploaderID == actor.ID {
		return nil, &InvalidOperationError{Reason: "cannot request a swap for your own item"}
	}
	if item.Status != entity.StatusApproved || !item.IsAvailable {
		return nil, &ValidationError{Fields: []string{"item"}}
	}
	if item.HasPendingRequestFrom(actor.ID) {
		return nil, &ConflictError{Reason: "you already have a pending swap request for this item"}
	}

	req := &entity.SwapRequest{
		ID:          uuid.NewString(),
		RequesterID: actor.ID,
		Message:     message,
		Status:      entity.SwapPending,
		CreatedAt:   time.Now(),
	}
	if err := uc.itemRepo.AddSwapRequest(ctx, itemID, req); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, &ConflictError{Reason: "you already have a pending swap request for this item"}
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		}
		uc.logger.Error("Failed to add swap request", zap.Error(err), zap.String("item_id", itemID), zap.String("requester_id", actor.ID))
		return nil, fmt.Errorf("SwapUsecase.RequestSwap: failed to add swap request: %w", err)
	}

	uc.invalidateItem(ctx, itemID)

	requesterName := "Someone"
	if requester, lookupErr := uc.userRepo.GetByID(ctx, actor.ID); lookupErr == nil {
		requesterName = requester.Name
	}
	uc.notify(ctx, notifier.UserChannel(item.UploaderID), &entity.Notification{
		Type:      entity.NotificationSwapRequest,
		Title:     "New Swap Request",
		Message:   fmt.Sprintf("%s wants to swap for %q", requesterName, item.Title),
		ItemID:    item.ID,
		Timestamp: req.CreatedAt,
	})

	return req, nil
}

// RespondToSwapRequest records the uploader's decision on one pending
// request. Other pending requests on the same item are left untouched, and
// the item's availability is not changed here.
func (uc *SwapUsecase) RespondToSwapRequest(ctx context.Context, actor Actor, itemID, requestID string, status entity.SwapRequestStatus, responseMessage string) error {
	if status != entity.SwapAccepted && status != entity.SwapRejected {
		return &ValidationError{Fields: []string{"status"}}
	}
	if len(responseMessage) > maxSwapMessageLen {
		return &ValidationError{Fields: []string{"responseMessage"}}
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("SwapUsecase.RespondToSwapRequest: failed to get item from repo: %w", err)
	}
	if item.UploaderID != actor.ID && !actor.IsAdmin() {
		uc.logger.Warn("Forbidden swap response",
			zap.String("item_id", itemID),
			zap.String("actor_id", actor.ID),
		)
		return ErrForbidden
	}

	req := item.FindSwapRequest(requestID)
	if req == nil {
		return ErrNotFound
	}
	if req.Status != entity.SwapPending {
		return &InvalidOperationError{Reason: fmt.Sprintf("swap request already %s", req.Status)}
	}

	if err := uc.itemRepo.UpdateSwapRequest(ctx, itemID, requestID, status, responseMessage); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		uc.logger.Error("Failed to update swap request", zap.Error(err), zap.String("item_id", itemID), zap.String("request_id", requestID))
		return fmt.Errorf("SwapUsecase.RespondToSwapRequest: failed to update swap request: %w", err)
	}

	uc.invalidateItem(ctx, itemID)

	uploaderName := "The owner"
	if uploader, lookupErr := uc.userRepo.GetByID(ctx, item.UploaderID); lookupErr == nil {
		uploaderName = uploader.Name
	}
	uc.notify(ctx, notifier.UserChannel(req.RequesterID), &entity.Notification{
		Type:      entity.NotificationSwapResponse,
		Title:     fmt.Sprintf("Swap Request %s", status),
		Message:   fmt.Sprintf("%s has %s your swap request for %q", uploaderName, status, item.Title),
		ItemID:    item.ID,
		Timestamp: time.Now(),
	})

	return nil
}

// ListSentRequests returns every request the actor made, across all items,
// annotated with a display snapshot of the parent item.
func (uc *SwapUsecase) ListSentRequests(ctx context.Context, actor Actor) ([]*entity.SwapRequestView, error) {
	items, err := uc.itemRepo.FindByRequester(ctx, actor.ID)
	if err != nil {
		uc.logger.Error("Failed to find items by requester", zap.Error(err), zap.String("requester_id", actor.ID))
		return nil, fmt.Errorf("SwapUsecase.ListSentRequests: failed to query items: %w", err)
	}

	views := make([]*entity.SwapRequestView, 0)
	for _, item := range items {
		for i := range item.SwapRequests {
			req := &item.SwapRequests[i]
			if req.RequesterID != actor.ID {
				continue
			}
			views = append(views, uc.toView(item, req))
		}
	}
	return views, nil
}

// ListReceivedRequests returns every request on the actor's items, with the
// requesters' names resolved for display.
func (uc *SwapUsecase) ListReceivedRequests(ctx context.Context, actor Actor) ([]*entity.SwapRequestView, error) {
	items, err := uc.itemRepo.FindWithRequestsByUploader(ctx, actor.ID)
	if err != nil {
		uc.logger.Error("Failed to find items with requests by uploader", zap.Error(err), zap.String("uploader_id", actor.ID))
		return nil, fmt.Errorf("SwapUsecase.ListReceivedRequests: failed to query items: %w", err)
	}

	names := make(map[string]string)
	views := make([]*entity.SwapRequestView, 0)
	for _, item := range items {
		for i := range item.SwapRequests {
			req := &item.SwapRequests[i]
			view := uc.toView(item, req)
			name, ok := names[req.RequesterID]
			if !ok {
				if requester, lookupErr := uc.userRepo.GetByID(ctx, req.RequesterID); lookupErr == nil {
					name = requester.Name
				}
				names[req.RequesterID] = name
			}
			view.RequesterName = name
			views = append(views, view)
		}
	}
	return views, nil
}

func (uc *SwapUsecase) toView(item *entity.Item, req *entity.SwapRequest) *entity.SwapRequestView {
	snapshot := entity.ItemSnapshot{
		ID:       item.ID,
		Title:    item.Title,
		Uploader: item.UploaderID,
	}
	if len(item.Images) > 0 {
		snapshot.Image = item.Images[0]
	}
	return &entity.SwapRequestView{
		ID:              req.ID,
		RequesterID:     req.RequesterID,
		Message:         req.Message,
		Status:          req.Status,
		ResponseMessage: req.ResponseMessage,
		CreatedAt:       req.CreatedAt,
		Item:            snapshot,
	}
}

// invalidateItem drops the cached detail view after a swap-request mutation
// so GetItem never serves pre-mutation request state for the TTL window.
func (uc *SwapUsecase) invalidateItem(ctx context.Context, itemID string) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Delete(ctx, itemCacheKey(itemID)); err != nil {
		uc.logger.Warn("Failed to invalidate item cache entry", zap.Error(err), zap.String("item_id", itemID))
	}
}

func (uc *SwapUsecase) notify(ctx context.Context, channel string, n *entity.Notification) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, channel, n); err != nil {
		uc.logger.Warn("Failed to publish swap notification",
			zap.Error(err),
			zap.String("channel", channel),
			zap.String("type", n.Type),
		)
	}
}
