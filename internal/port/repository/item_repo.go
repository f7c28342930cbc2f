package repository

import (
	"context"
	"time"

	"github.com/shlok1014/ReWear/internal/entity"
)

// ItemFilter narrows List queries. Zero values mean "no restriction" for
// that field.
type ItemFilter struct {
	Category      string
	Size          string
	Condition     string
	Search        string // text search across title/description/brand/tags
	Status        entity.ItemStatus
	UploaderID    string
	OnlyAvailable bool
	SortOrder     string // "asc" or "desc" by creation time, default desc
}

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ItemFilter, page, pageSize int) ([]*entity.Item, int, error)
	ListFeatured(ctx context.Context, now time.Time, limit int) ([]*entity.Item, error)
	Count(ctx context.Context, filter ItemFilter) (int, error)

	// SetLike adds or removes userID from the like set as a single
	// document mutation, so concurrent calls for different users never
	// lose updates.
	SetLike(ctx context.Context, itemID, userID string, liked bool) error

	// AddSwapRequest appends the request only if the requester has no
	// pending request on the item; ErrDuplicate otherwise.
	AddSwapRequest(ctx context.Context, itemID string, req *entity.SwapRequest) error
	UpdateSwapRequest(ctx context.Context, itemID, requestID string, status entity.SwapRequestStatus, responseMessage string) error
	FindByRequester(ctx context.Context, requesterID string) ([]*entity.Item, error)
	FindWithRequestsByUploader(ctx context.Context, uploaderID string) ([]*entity.Item, error)

	SetStatus(ctx context.Context, itemID string, status entity.ItemStatus, rejectionReason string) error
	SetFeatured(ctx context.Context, itemID string, isFeatured bool, featuredUntil *time.Time) error
	// MarkSwapped transitions an approved item to swapped and flips its
	// availability in one mutation; ErrNotFound if the item is missing
	// or not currently approved.
	MarkSwapped(ctx context.Context, itemID string) error

	// UploaderStats aggregates per-user item counters, including the
	// total likes received across the uploader's items.
	UploaderStats(ctx context.Context, uploaderID string) (total, approved, pending, likes int, err error)
}
