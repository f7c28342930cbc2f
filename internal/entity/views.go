package entity

import "time"

// UploaderSummary is the slice of User data attached to public item views.
type UploaderSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ItemPage is one page of a filtered item query.
type ItemPage struct {
	Items      []*Item
	Total      int
	TotalPages int
	Page       int
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []*User
	Total      int
	TotalPages int
	Page       int
}

// ItemSnapshot carries the parts of the parent item a swap-request view
// needs for display.
type ItemSnapshot struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image,omitempty"`
	Uploader string `json:"uploader"`
}

// SwapRequestView is an embedded request annotated with its parent item.
type SwapRequestView struct {
	ID              string            `json:"id"`
	RequesterID     string            `json:"requesterId"`
	RequesterName   string            `json:"requesterName,omitempty"`
	Message         string            `json:"message,omitempty"`
	Status          SwapRequestStatus `json:"status"`
	ResponseMessage string            `json:"responseMessage,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	Item            ItemSnapshot      `json:"item"`
}

// ItemDetail is the expanded single-item view with the uploader resolved.
type ItemDetail struct {
	Item     *Item
	Uploader *UploaderSummary
}

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalItems    int `json:"totalItems"`
	PendingItems  int `json:"pendingItems"`
	ApprovedItems int `json:"approvedItems"`
}

// UserItemStats aggregates per-user item counters for the profile page.
type UserItemStats struct {
	ItemsUploaded   int `json:"itemsUploaded"`
	SuccessfulSwaps int `json:"successfulSwaps"`
	TotalItems      int `json:"totalItems"`
	ApprovedItems   int `json:"approvedItems"`
	PendingItems    int `json:"pendingItems"`
	TotalLikes      int `json:"totalLikes"`
}
