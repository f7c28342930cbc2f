package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/usecase"
)

type AdminHandler struct {
	moderationUC *usecase.ModerationUsecase
	userUC       *usecase.UserUsecase
}

func NewAdminHandler(moderationUC *usecase.ModerationUsecase, userUC *usecase.UserUsecase) *AdminHandler {
	return &AdminHandler{moderationUC: moderationUC, userUC: userUC}
}

func (h *AdminHandler) ListPending(c *fiber.Ctx) error {
	items, err := h.moderationUC.ListPending(c.Context(), actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": toItemResponses(items)})
}

type statusBody struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	var body statusBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	item, err := h.moderationUC.SetStatus(c.Context(), actorFromCtx(c), c.Params("id"),
		entity.ItemStatus(body.Status), body.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"item": toItemResponse(item)})
}

type featureBody struct {
	IsFeatured    bool       `json:"isFeatured"`
	FeaturedUntil *time.Time `json:"featuredUntil"`
}

func (h *AdminHandler) SetFeatured(c *fiber.Ctx) error {
	var body featureBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	item, err := h.moderationUC.SetFeatured(c.Context(), actorFromCtx(c), c.Params("id"),
		body.IsFeatured, body.FeaturedUntil)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"item": toItemResponse(item)})
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.moderationUC.Dashboard(c.Context(), actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, err := h.userUC.ListUsers(c.Context(), actorFromCtx(c),
		c.Query("search"), c.Query("role"), c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"users":       toUserResponses(page.Users),
		"total":       page.Total,
		"totalPages":  page.TotalPages,
		"currentPage": page.Page,
	})
}

func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	user, items, err := h.userUC.GetUserDetail(c.Context(), actorFromCtx(c), c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": toUserResponse(user), "items": toItemResponses(items)})
}

type roleBody struct {
	Role string `json:"role"`
}

func (h *AdminHandler) SetUserRole(c *fiber.Ctx) error {
	var body roleBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	user, err := h.userUC.SetUserRole(c.Context(), actorFromCtx(c), c.Params("userId"), body.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": toUserResponse(user)})
}

type banBody struct {
	IsBanned bool   `json:"isBanned"`
	Reason   string `json:"reason"`
}

func (h *AdminHandler) SetUserBan(c *fiber.Ctx) error {
	var body banBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	user, err := h.userUC.SetUserBan(c.Context(), actorFromCtx(c), c.Params("userId"), body.IsBanned, body.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": toUserResponse(user)})
}
