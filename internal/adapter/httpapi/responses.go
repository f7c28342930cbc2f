package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/usecase"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// respondError maps the usecase error taxonomy onto HTTP statuses. Internal
// failures surface as a generic message, never storage detail.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *usecase.ValidationError
	var conflictErr *usecase.ConflictError
	var invalidOpErr *usecase.InvalidOperationError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:  validationErr.Error(),
			Fields: validationErr.Fields,
		})
	case errors.As(err, &invalidOpErr):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: invalidOpErr.Reason})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: conflictErr.Reason})
	case errors.Is(err, usecase.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "not found"})
	case errors.Is(err, usecase.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(errorResponse{Error: "not authorized"})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "invalid email or password"})
	case errors.Is(err, usecase.ErrBanned):
		return c.Status(fiber.StatusForbidden).JSON(errorResponse{Error: "account is banned"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "Server error"})
}

type swapRequestResponse struct {
	ID              string    `json:"id"`
	Requester       string    `json:"requester"`
	Message         string    `json:"message,omitempty"`
	Status          string    `json:"status"`
	ResponseMessage string    `json:"responseMessage,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type itemResponse struct {
	ID               string                  `json:"id"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	Category         string                  `json:"category"`
	Size             string                  `json:"size"`
	Condition        string                  `json:"condition"`
	Brand            string                  `json:"brand"`
	Color            string                  `json:"color"`
	Material         string                  `json:"material"`
	Images           []string                `json:"images"`
	Tags             []string                `json:"tags"`
	Uploader         string                  `json:"uploader"`
	UploaderInfo     *entity.UploaderSummary `json:"uploaderInfo,omitempty"`
	Status           string                  `json:"status"`
	RejectionReason  string                  `json:"rejectionReason,omitempty"`
	IsFeatured       bool                    `json:"isFeatured"`
	FeaturedUntil    *time.Time              `json:"featuredUntil,omitempty"`
	Likes            []string                `json:"likes"`
	LikeCount        int                     `json:"likeCount"`
	SwapRequests     []swapRequestResponse   `json:"swapRequests"`
	SwapRequestCount int                     `json:"swapRequestCount"`
	Location         string                  `json:"location,omitempty"`
	EstimatedValue   float64                 `json:"estimatedValue"`
	IsAvailable      bool                    `json:"isAvailable"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

func toItemResponse(item *entity.Item) itemResponse {
	requests := make([]swapRequestResponse, len(item.SwapRequests))
	for i, r := range item.SwapRequests {
		requests[i] = swapRequestResponse{
			ID:              r.ID,
			Requester:       r.RequesterID,
			Message:         r.Message,
			Status:          string(r.Status),
			ResponseMessage: r.ResponseMessage,
			CreatedAt:       r.CreatedAt,
		}
	}
	return itemResponse{
		ID:               item.ID,
		Title:            item.Title,
		Description:      item.Description,
		Category:         item.Category,
		Size:             item.Size,
		Condition:        item.Condition,
		Brand:            item.Brand,
		Color:            item.Color,
		Material:         item.Material,
		Images:           item.Images,
		Tags:             item.Tags,
		Uploader:         item.UploaderID,
		Status:           string(item.Status),
		RejectionReason:  item.RejectionReason,
		IsFeatured:       item.IsFeatured,
		FeaturedUntil:    item.FeaturedUntil,
		Likes:            item.Likes,
		LikeCount:        len(item.Likes),
		SwapRequests:     requests,
		SwapRequestCount: len(item.SwapRequests),
		Location:         item.Location,
		EstimatedValue:   item.EstimatedValue,
		IsAvailable:      item.IsAvailable,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

func toItemResponses(items []*entity.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	return out
}

type itemPageResponse struct {
	Items       []itemResponse `json:"items"`
	Total       int            `json:"total"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

func toItemPageResponse(page *entity.ItemPage) itemPageResponse {
	return itemPageResponse{
		Items:       toItemResponses(page.Items),
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		CurrentPage: page.Page,
	}
}

type userResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Avatar    string           `json:"avatar,omitempty"`
	Bio       string           `json:"bio,omitempty"`
	Role      string           `json:"role"`
	IsBanned  bool             `json:"isBanned"`
	BanReason string           `json:"banReason,omitempty"`
	Stats     entity.UserStats `json:"stats"`
	CreatedAt time.Time        `json:"createdAt"`
}

func toUserResponse(user *entity.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Bio:       user.Bio,
		Role:      user.Role,
		IsBanned:  user.IsBanned,
		BanReason: user.BanReason,
		Stats:     user.Stats,
		CreatedAt: user.CreatedAt,
	}
}

func toUserResponses(users []*entity.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, user := range users {
		out[i] = toUserResponse(user)
	}
	return out
}
