package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/port/cache"
	"github.com/shlok1014/ReWear/internal/port/notifier"
	"github.com/shlok1014/ReWear/internal/port/repository"
	"go.uber.org/zap"
)

// MailSender delivers moderation outcome mail; delivery is best-effort and
// never blocks the moderation decision.
type MailSender interface {
	SendEmail(to []string, subject, body string) error
}

type ModerationUsecase struct {
	itemRepo  repository.ItemRepository
	userRepo  repository.UserRepository
	publisher notifier.Publisher
	cacheRepo cache.CacheRepository
	mailer    MailSender
	logger    *zap.Logger
}

func NewModerationUsecase(
	ir repository.ItemRepository,
	ur repository.UserRepository,
	pub notifier.Publisher,
	cr cache.CacheRepository,
	mailer MailSender,
	log *zap.Logger,
) *ModerationUsecase {
	return &ModerationUsecase{
		itemRepo:  ir,
		userRepo:  ur,
		publisher: pub,
		cacheRepo: cr,
		mailer:    mailer,
		logger:    log,
	}
}

// ListPending returns the admin moderation queue, newest first. This is the
// only item query that bypasses the public approved/available restriction.
func (uc *ModerationUsecase) ListPending(ctx context.Context, actor Actor) ([]*entity.Item, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	filter := repository.ItemFilter{Status: entity.StatusPending, SortOrder: "desc"}
	items, _, err := uc.itemRepo.List(ctx, filter, 1, 0)
	if err != nil {
		uc.logger.Error("Failed to list pending items", zap.Error(err))
		return nil, fmt.Errorf("ModerationUsecase.ListPending: failed to list items from repo: %w", err)
	}
	return items, nil
}

// allowedTransition encodes the moderation state machine. Swapped is
// excluded here: it is only reachable through the swap workflow.
func allowedTransition(from, to entity.ItemStatus) bool {
	switch to {
	case entity.StatusApproved:
		return from == entity.StatusPending || from == entity.StatusRejected
	case entity.StatusRejected:
		return from == entity.StatusPending || from == entity.StatusApproved
	case entity.StatusExpired:
		return true
	}
	return false
}

// SetStatus applies an admin moderation decision. Re-approval clears any
// stale rejection reason; rejection requires a non-empty one.
func (uc *ModerationUsecase) SetStatus(ctx context.Context, actor Actor, itemID string, status entity.ItemStatus, reason string) (*entity.Item, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !status.Valid() || status == entity.StatusPending || status == entity.StatusSwapped {
		return nil, &ValidationError{Fields: []string{"status"}}
	}
	if status == entity.StatusRejected && reason == "" {
		return nil, &ValidationError{Fields: []string{"reason"}}
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ModerationUsecase.SetStatus: failed to get item from repo: %w", err)
	}
	if !allowedTransition(item.Status, status) {
		return nil, invalidTransition(string(item.Status), string(status))
	}

	rejectionReason := ""
	if status == entity.StatusRejected {
		rejectionReason = reason
	}

	if err := uc.itemRepo.SetStatus(ctx, itemID, status, rejectionReason); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		uc.logger.Error("Failed to set item status", zap.Error(err), zap.String("item_id", itemID), zap.String("status", string(status)))
		return nil, fmt.Errorf("ModerationUsecase.SetStatus: failed to update item status: %w", err)
	}

	item.Status = status
	item.RejectionReason = rejectionReason
	item.UpdatedAt = time.Now()

	uc.invalidate(ctx, itemID)
	uc.notifyOutcome(ctx, item)
	return item, nil
}

// SetFeatured toggles prioritized display. Moderation status is not
// checked here: featuring a non-approved item is allowed.
func (uc *ModerationUsecase) SetFeatured(ctx context.Context, actor Actor, itemID string, isFeatured bool, featuredUntil *time.Time) (*entity.Item, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if err := uc.itemRepo.SetFeatured(ctx, itemID, isFeatured, featuredUntil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		uc.logger.Error("Failed to set item featured flag", zap.Error(err), zap.String("item_id", itemID))
		return nil, fmt.Errorf("ModerationUsecase.SetFeatured: failed to update item: %w", err)
	}

	uc.invalidate(ctx, itemID)

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("ModerationUsecase.SetFeatured: failed to reload item: %w", err)
	}
	return item, nil
}

// Dashboard aggregates the counters shown on the admin overview.
func (uc *ModerationUsecase) Dashboard(ctx context.Context, actor Actor) (*entity.DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	totalUsers, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("ModerationUsecase.Dashboard: failed to count users: %w", err)
	}
	totalItems, err := uc.itemRepo.Count(ctx, repository.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("ModerationUsecase.Dashboard: failed to count items: %w", err)
	}
	pendingItems, err := uc.itemRepo.Count(ctx, repository.ItemFilter{Status: entity.StatusPending})
	if err != nil {
		return nil, fmt.Errorf("ModerationUsecase.Dashboard: failed to count pending items: %w", err)
	}
	approvedItems, err := uc.itemRepo.Count(ctx, repository.ItemFilter{Status: entity.StatusApproved})
	if err != nil {
		return nil, fmt.Errorf("ModerationUsecase.Dashboard: failed to count approved items: %w", err)
	}

	return &entity.DashboardStats{
		TotalUsers:    totalUsers,
		TotalItems:    totalItems,
		PendingItems:  pendingItems,
		ApprovedItems: approvedItems,
	}, nil
}

func (uc *ModerationUsecase) notifyOutcome(ctx context.Context, item *entity.Item) {
	var message string
	switch item.Status {
	case entity.StatusApproved:
		message = fmt.Sprintf("Your item %q has been approved!", item.Title)
	case entity.StatusRejected:
		message = fmt.Sprintf("Your item %q was rejected: %s", item.Title, item.RejectionReason)
	default:
		message = fmt.Sprintf("Your item %q is now %s", item.Title, item.Status)
	}

	n := &entity.Notification{
		Type:      entity.NotificationItemStatus,
		Title:     fmt.Sprintf("Item %s", item.Status),
		Message:   message,
		ItemID:    item.ID,
		Timestamp: time.Now(),
	}
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, notifier.UserChannel(item.UploaderID), n); err != nil {
			uc.logger.Warn("Failed to publish moderation notification",
				zap.Error(err),
				zap.String("item_id", item.ID),
				zap.String("uploader_id", item.UploaderID),
			)
		}
	}

	if uc.mailer == nil {
		return
	}
	uploader, err := uc.userRepo.GetByID(ctx, item.UploaderID)
	if err != nil || uploader.Email == "" {
		return
	}
	if mailErr := uc.mailer.SendEmail([]string{uploader.Email}, n.Title, message); mailErr != nil {
		uc.logger.Warn("Failed to send moderation outcome email",
			zap.Error(mailErr),
			zap.String("item_id", item.ID),
		)
	}
}

func (uc *ModerationUsecase) invalidate(ctx context.Context, itemID string) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Delete(ctx, itemCacheKey(itemID)); err != nil {
		uc.logger.Warn("Failed to invalidate item cache entry", zap.Error(err), zap.String("item_id", itemID))
	}
	if err := uc.cacheRepo.Delete(ctx, featuredCacheKey); err != nil {
		uc.logger.Warn("Failed to invalidate featured cache entry", zap.Error(err))
	}
}
