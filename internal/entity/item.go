package entity

import "time"

type ItemStatus string

const (
	StatusPending  ItemStatus = "pending"
	StatusApproved ItemStatus = "approved"
	StatusRejected ItemStatus = "rejected"
	StatusSwapped  ItemStatus = "swapped"
	StatusExpired  ItemStatus = "expired"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSwapped, StatusExpired:
		return true
	}
	return false
}

type SwapRequestStatus string

const (
	SwapPending  SwapRequestStatus = "pending"
	SwapAccepted SwapRequestStatus = "accepted"
	SwapRejected SwapRequestStatus = "rejected"
)

var Categories = []string{"tops", "bottoms", "dresses", "outerwear", "shoes", "accessories", "other"}

var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL", "One Size", "Other"}

var Conditions = []string{"new", "like-new", "good", "fair", "poor"}

// SwapRequest is owned by its parent Item; its ID is only unique within
// that item and the record is never deleted independently of the item.
type SwapRequest struct {
	ID              string
	RequesterID     string
	Message         string
	Status          SwapRequestStatus
	ResponseMessage string
	CreatedAt       time.Time
}

type Item struct {
	ID              string
	Title           string
	Description     string
	Category        string
	Size            string
	Condition       string
	Brand           string
	Color           string
	Material        string
	Images          []string
	Tags            []string
	UploaderID      string
	Status          ItemStatus
	RejectionReason string
	IsFeatured      bool
	FeaturedUntil   *time.Time
	Likes           []string
	SwapRequests    []SwapRequest
	Location        string
	EstimatedValue  float64
	IsAvailable     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPendingRequestFrom reports whether the user already has a pending
// swap request on this item.
func (i *Item) HasPendingRequestFrom(userID string) bool {
	for _, r := range i.SwapRequests {
		if r.RequesterID == userID && r.Status == SwapPending {
			return true
		}
	}
	return false
}

// IsLikedBy reports membership of userID in the like set.
func (i *Item) IsLikedBy(userID string) bool {
	for _, id := range i.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// FindSwapRequest returns the embedded request by its item-scoped id.
func (i *Item) FindSwapRequest(requestID string) *SwapRequest {
	for idx := range i.SwapRequests {
		if i.SwapRequests[idx].ID == requestID {
			return &i.SwapRequests[idx]
		}
	}
	return nil
}
