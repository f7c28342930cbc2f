package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/port/cache"
	"github.com/shlok1014/ReWear/internal/port/notifier"
	"github.com/shlok1014/ReWear/internal/port/repository"
	"go.uber.org/zap"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 1000
	maxTags           = 10

	defaultPageSize  = 12
	featuredLimit    = 6
	itemCacheTTL     = 5 * time.Minute
	featuredCacheTTL = time.Minute
	featuredCacheKey = "items:featured"
)

func itemCacheKey(itemID string) string {
	return fmt.Sprintf("item:%s", itemID)
}

type ItemUsecase struct {
	itemRepo  repository.ItemRepository
	userRepo  repository.UserRepository
	publisher notifier.Publisher
	cacheRepo cache.CacheRepository
	logger    *zap.Logger
}

func NewItemUsecase(
	ir repository.ItemRepository,
	ur repository.UserRepository,
	pub notifier.Publisher,
	cr cache.CacheRepository,
	log *zap.Logger,
) *ItemUsecase {
	return &ItemUsecase{
		itemRepo:  ir,
		userRepo:  ur,
		publisher: pub,
		cacheRepo: cr,
		logger:    log,
	}
}

type CreateItemInput struct {
	Title          string
	Description    string
	Category       string
	Size           string
	Condition      string
	Brand          string
	Color          string
	Material       string
	Images         []string
	Tags           []string
	Location       string
	EstimatedValue float64
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}

// dedupeTags keeps first occurrences, case-sensitive, capped at maxTags.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

func validateItemFields(in *CreateItemInput) []string {
	var fields []string
	if in.Title == "" || len(in.Title) > maxTitleLen {
		fields = append(fields, "title")
	}
	if in.Description == "" || len(in.Description) > maxDescriptionLen {
		fields = append(fields, "description")
	}
	if !contains(entity.Categories, in.Category) {
		fields = append(fields, "category")
	}
	if !contains(entity.Sizes, in.Size) {
		fields = append(fields, "size")
	}
	if !contains(entity.Conditions, in.Condition) {
		fields = append(fields, "condition")
	}
	if in.Color == "" {
		fields = append(fields, "color")
	}
	if len(in.Images) == 0 {
		fields = append(fields, "images")
	}
	if in.EstimatedValue < 0 {
		fields = append(fields, "estimatedValue")
	}
	return fields
}

// CreateItem persists a new item. Status is always forced to pending no
// matter what the caller supplied; the uploader's counter increment and the
// admin notification only run after the item is durable.
func (uc *ItemUsecase) CreateItem(ctx context.Context, actor Actor, input CreateItemInput) (*entity.Item, error) {
	if fields := validateItemFields(&input); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	brand := input.Brand
	if brand == "" {
		brand = "Unknown"
	}
	material := input.Material
	if material == "" {
		material = "Unknown"
	}

	now := time.Now()
	item := &entity.Item{
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		Size:           input.Size,
		Condition:      input.Condition,
		Brand:          brand,
		Color:          input.Color,
		Material:       material,
		Images:         input.Images,
		Tags:           dedupeTags(input.Tags),
		UploaderID:     actor.ID,
		Status:         entity.StatusPending,
		Likes:          []string{},
		SwapRequests:   []entity.SwapRequest{},
		Location:       input.Location,
		EstimatedValue: input.EstimatedValue,
		IsAvailable:    true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	createdID, err := uc.itemRepo.Create(ctx, item)
	if err != nil {
		uc.logger.Error("Failed to create item in repository", zap.Error(err), zap.String("uploader_id", actor.ID))
		return nil, fmt.Errorf("ItemUsecase.CreateItem: failed to create item in repo: %w", err)
	}
	item.ID = createdID

	if incErr := uc.userRepo.IncrementItemsUploaded(ctx, actor.ID); incErr != nil {
		uc.logger.Warn("Failed to increment uploader item counter",
			zap.Error(incErr),
			zap.String("uploader_id", actor.ID),
		)
	}

	uc.notify(ctx, notifier.AdminChannel, &entity.Notification{
		Type:      entity.NotificationItemPending,
		Title:     "New Item Pending",
		Message:   fmt.Sprintf("New item %q is waiting for approval", item.Title),
		ItemID:    item.ID,
		Timestamp: now,
	})

	return item, nil
}

type UpdateItemInput struct {
	Title          *string
	Description    *string
	Category       *string
	Size           *string
	Condition      *string
	Brand          *string
	Color          *string
	Material       *string
	Images         []string
	Tags           []string
	Location       *string
	EstimatedValue *float64
}

// UpdateItem patches descriptive fields. Only the uploader or an admin may
// update; patched fields pass the same validation as creation.
func (uc *ItemUsecase) UpdateItem(ctx context.Context, actor Actor, itemID string, input UpdateItemInput) (*entity.Item, error) {
	item, err := uc.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UploaderID != actor.ID && !actor.IsAdmin() {
		uc.logger.Warn("Forbidden item update",
			zap.String("item_id", itemID),
			zap.String("actor_id", actor.ID),
			zap.String("uploader_id", item.UploaderID),
		)
		return nil, ErrForbidden
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Size != nil {
		item.Size = *input.Size
	}
	if input.Condition != nil {
		item.Condition = *input.Condition
	}
	if input.Brand != nil {
		item.Brand = *input.Brand
	}
	if input.Color != nil {
		item.Color = *input.Color
	}
	if input.Material != nil {
		item.Material = *input.Material
	}
	if input.Images != nil {
		item.Images = input.Images
	}
	if input.Tags != nil {
		item.Tags = dedupeTags(input.Tags)
	}
	if input.Location != nil {
		item.Location = *input.Location
	}
	if input.EstimatedValue != nil {
		item.EstimatedValue = *input.EstimatedValue
	}

	merged := CreateItemInput{
		Title:          item.Title,
		Description:    item.Description,
		Category:       item.Category,
		Size:           item.Size,
		Condition:      item.Condition,
		Color:          item.Color,
		Images:         item.Images,
		EstimatedValue: item.EstimatedValue,
	}
	if fields := validateItemFields(&merged); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		uc.logger.Error("Failed to update item in repository", zap.Error(err), zap.String("item_id", itemID))
		return nil, fmt.Errorf("ItemUsecase.UpdateItem: failed to update item in repo: %w", err)
	}

	uc.invalidateItem(ctx, itemID)
	return item, nil
}

// DeleteItem hard-deletes the item and every embedded swap request with it.
func (uc *ItemUsecase) DeleteItem(ctx context.Context, actor Actor, itemID string) error {
	item, err := uc.getItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UploaderID != actor.ID && !actor.IsAdmin() {
		uc.logger.Warn("Forbidden item delete",
			zap.String("item_id", itemID),
			zap.String("actor_id", actor.ID),
		)
		return ErrForbidden
	}

	if err := uc.itemRepo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		uc.logger.Error("Failed to delete item from repository", zap.Error(err), zap.String("item_id", itemID))
		return fmt.Errorf("ItemUsecase.DeleteItem: failed to delete item from repo: %w", err)
	}

	uc.invalidateItem(ctx, itemID)
	return nil
}

// GetItem returns the expanded single-item view with the uploader resolved.
func (uc *ItemUsecase) GetItem(ctx context.Context, itemID string) (*entity.ItemDetail, error) {
	item, err := uc.getItemCached(ctx, itemID)
	if err != nil {
		return nil, err
	}

	detail := &entity.ItemDetail{Item: item}
	uploader, err := uc.userRepo.GetByID(ctx, item.UploaderID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			uc.logger.Warn("Failed to resolve item uploader", zap.Error(err), zap.String("item_id", itemID))
		}
	} else {
		detail.Uploader = &entity.UploaderSummary{ID: uploader.ID, Name: uploader.Name, Avatar: uploader.Avatar}
	}
	return detail, nil
}

type ListItemsInput struct {
	Category  string
	Size      string
	Condition string
	Search    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListItems is the public browse query. It always restricts to approved,
// available items regardless of caller filters.
func (uc *ItemUsecase) ListItems(ctx context.Context, input ListItemsInput) (*entity.ItemPage, error) {
	page, pageSize := normalizePage(input.Page, input.PageSize)

	filter := repository.ItemFilter{
		Category:      input.Category,
		Size:          input.Size,
		Condition:     input.Condition,
		Search:        input.Search,
		Status:        entity.StatusApproved,
		OnlyAvailable: true,
		SortOrder:     input.SortOrder,
	}
	items, total, err := uc.itemRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		uc.logger.Error("Failed to list items from repository", zap.Error(err))
		return nil, fmt.Errorf("ItemUsecase.ListItems: failed to list items from repo: %w", err)
	}

	return &entity.ItemPage{
		Items:      items,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
		Page:       page,
	}, nil
}

// ListUserItems returns the actor's own items, regardless of moderation
// status, optionally narrowed to one status.
func (uc *ItemUsecase) ListUserItems(ctx context.Context, actor Actor, status entity.ItemStatus, pageNum, pageSize int) (*entity.ItemPage, error) {
	if status != "" && !status.Valid() {
		return nil, &ValidationError{Fields: []string{"status"}}
	}
	page, size := normalizePage(pageNum, pageSize)

	filter := repository.ItemFilter{
		UploaderID: actor.ID,
		Status:     status,
	}
	items, total, err := uc.itemRepo.List(ctx, filter, page, size)
	if err != nil {
		uc.logger.Error("Failed to list user items from repository", zap.Error(err), zap.String("uploader_id", actor.ID))
		return nil, fmt.Errorf("ItemUsecase.ListUserItems: failed to list items from repo: %w", err)
	}

	return &entity.ItemPage{
		Items:      items,
		Total:      total,
		TotalPages: totalPages(total, size),
		Page:       page,
	}, nil
}

// ListFeatured returns currently featured, browsable items, newest first.
func (uc *ItemUsecase) ListFeatured(ctx context.Context) ([]*entity.Item, error) {
	if uc.cacheRepo != nil {
		if cachedBytes, err := uc.cacheRepo.Get(ctx, featuredCacheKey); err == nil {
			var items []*entity.Item
			if unmarshalErr := json.Unmarshal(cachedBytes, &items); unmarshalErr == nil {
				return items, nil
			}
			if delErr := uc.cacheRepo.Delete(ctx, featuredCacheKey); delErr != nil {
				uc.logger.Warn("Failed to delete corrupted featured cache entry", zap.Error(delErr))
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("Failed to get featured items from cache", zap.Error(err))
		}
	}

	items, err := uc.itemRepo.ListFeatured(ctx, time.Now(), featuredLimit)
	if err != nil {
		uc.logger.Error("Failed to list featured items from repository", zap.Error(err))
		return nil, fmt.Errorf("ItemUsecase.ListFeatured: failed to list featured items from repo: %w", err)
	}

	if uc.cacheRepo != nil {
		if data, marshalErr := json.Marshal(items); marshalErr == nil {
			if setErr := uc.cacheRepo.Set(ctx, featuredCacheKey, data, featuredCacheTTL); setErr != nil {
				uc.logger.Warn("Failed to cache featured items", zap.Error(setErr))
			}
		}
	}
	return items, nil
}

// ToggleLike flips userID's membership in the like set and reports the new
// state. The repository applies the flip as a single set operation, so
// concurrent toggles by different users both land.
func (uc *ItemUsecase) ToggleLike(ctx context.Context, actor Actor, itemID string) (bool, error) {
	item, err := uc.getItem(ctx, itemID)
	if err != nil {
		return false, err
	}

	liked := !item.IsLikedBy(actor.ID)
	if err := uc.itemRepo.SetLike(ctx, itemID, actor.ID, liked); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrNotFound
		}
		uc.logger.Error("Failed to toggle like", zap.Error(err), zap.String("item_id", itemID), zap.String("user_id", actor.ID))
		return false, fmt.Errorf("ItemUsecase.ToggleLike: failed to update like set: %w", err)
	}

	uc.invalidateItem(ctx, itemID)
	return liked, nil
}

// MarkItemSwapped transitions the actor's approved item to swapped and
// takes it off the browse surface.
func (uc *ItemUsecase) MarkItemSwapped(ctx context.Context, actor Actor, itemID string) error {
	item, err := uc.getItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UploaderID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if item.Status != entity.StatusApproved {
		return invalidTransition(string(item.Status), string(entity.StatusSwapped))
	}

	if err := uc.itemRepo.MarkSwapped(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost a race with another writer: re-read so the error reflects
			// the item's current state, not the one loaded above.
			fresh, readErr := uc.getItem(ctx, itemID)
			if readErr != nil {
				return readErr
			}
			return invalidTransition(string(fresh.Status), string(entity.StatusSwapped))
		}
		uc.logger.Error("Failed to mark item swapped", zap.Error(err), zap.String("item_id", itemID))
		return fmt.Errorf("ItemUsecase.MarkItemSwapped: failed to mark item swapped: %w", err)
	}

	if incErr := uc.userRepo.IncrementSuccessfulSwaps(ctx, item.UploaderID); incErr != nil {
		uc.logger.Warn("Failed to increment successful swap counter",
			zap.Error(incErr),
			zap.String("uploader_id", item.UploaderID),
		)
	}

	uc.invalidateItem(ctx, itemID)
	return nil
}

func (uc *ItemUsecase) getItem(ctx context.Context, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		uc.logger.Error("Failed to get item from repository", zap.Error(err), zap.String("item_id", itemID))
		return nil, fmt.Errorf("ItemUsecase: failed to get item from repo: %w", err)
	}
	return item, nil
}

func (uc *ItemUsecase) getItemCached(ctx context.Context, itemID string) (*entity.Item, error) {
	if uc.cacheRepo != nil {
		key := itemCacheKey(itemID)
		if cachedBytes, err := uc.cacheRepo.Get(ctx, key); err == nil {
			var item entity.Item
			if unmarshalErr := json.Unmarshal(cachedBytes, &item); unmarshalErr == nil {
				return &item, nil
			}
			if delErr := uc.cacheRepo.Delete(ctx, key); delErr != nil {
				uc.logger.Warn("Failed to delete corrupted item cache entry", zap.Error(delErr), zap.String("key", key))
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("Failed to get item from cache", zap.Error(err), zap.String("key", key))
		}
	}

	item, err := uc.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil {
		if data, marshalErr := json.Marshal(item); marshalErr == nil {
			key := itemCacheKey(itemID)
			if setErr := uc.cacheRepo.Set(ctx, key, data, itemCacheTTL); setErr != nil {
				uc.logger.Warn("Failed to set item in cache", zap.Error(setErr), zap.String("key", key))
			}
		}
	}
	return item, nil
}

func (uc *ItemUsecase) invalidateItem(ctx context.Context, itemID string) {
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

// notify publishes fire-and-forget: a failed or subscriber-less delivery
// never fails the mutation that triggered it.
func (uc *ItemUsecase) notify(ctx context.Context, channel string, n *entity.Notification) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, channel, n); err != nil {
		uc.logger.Warn("Failed to publish notification",
			zap.Error(err),
			zap.String("channel", channel),
			zap.String("type", n.Type),
		)
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

func totalPages(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
