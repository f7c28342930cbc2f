package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/usecase"
)

type ItemHandler struct {
	itemUC *usecase.ItemUsecase
	swapUC *usecase.SwapUsecase
}

func NewItemHandler(itemUC *usecase.ItemUsecase, swapUC *usecase.SwapUsecase) *ItemHandler {
	return &ItemHandler{itemUC: itemUC, swapUC: swapUC}
}

type itemRequestBody struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Size           string   `json:"size"`
	Condition      string   `json:"condition"`
	Brand          string   `json:"brand"`
	Color          string   `json:"color"`
	Material       string   `json:"material"`
	Images         []string `json:"images"`
	Tags           []string `json:"tags"`
	Location       string   `json:"location"`
	EstimatedValue float64  `json:"estimatedValue"`
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var body itemRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	item, err := h.itemUC.CreateItem(c.Context(), actorFromCtx(c), usecase.CreateItemInput{
		Title:          body.Title,
		Description:    body.Description,
		Category:       body.Category,
		Size:           body.Size,
		Condition:      body.Condition,
		Brand:          body.Brand,
		Color:          body.Color,
		Material:       body.Material,
		Images:         body.Images,
		Tags:           body.Tags,
		Location:       body.Location,
		EstimatedValue: body.EstimatedValue,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": toItemResponse(item)})
}

type itemPatchBody struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Category       *string  `json:"category"`
	Size           *string  `json:"size"`
	Condition      *string  `json:"condition"`
	Brand          *string  `json:"brand"`
	Color          *string  `json:"color"`
	Material       *string  `json:"material"`
	Images         []string `json:"images"`
	Tags           []string `json:"tags"`
	Location       *string  `json:"location"`
	EstimatedValue *float64 `json:"estimatedValue"`
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var body itemPatchBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	item, err := h.itemUC.UpdateItem(c.Context(), actorFromCtx(c), c.Params("id"), usecase.UpdateItemInput{
		Title:          body.Title,
		Description:    body.Description,
		Category:       body.Category,
		Size:           body.Size,
		Condition:      body.Condition,
		Brand:          body.Brand,
		Color:          body.Color,
		Material:       body.Material,
		Images:         body.Images,
		Tags:           body.Tags,
		Location:       body.Location,
		EstimatedValue: body.EstimatedValue,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"item": toItemResponse(item)})
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.itemUC.DeleteItem(c.Context(), actorFromCtx(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted successfully"})
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	detail, err := h.itemUC.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := toItemResponse(detail.Item)
	resp.UploaderInfo = detail.Uploader
	return c.JSON(fiber.Map{"item": resp})
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	page, err := h.itemUC.ListItems(c.Context(), usecase.ListItemsInput{
		Category:  c.Query("category"),
		Size:      c.Query("size"),
		Condition: c.Query("condition"),
		Search:    c.Query("search"),
		SortOrder: c.Query("sortOrder", "desc"),
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("limit", 12),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toItemPageResponse(page))
}

func (h *ItemHandler) ListFeatured(c *fiber.Ctx) error {
	items, err := h.itemUC.ListFeatured(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": toItemResponses(items)})
}

func (h *ItemHandler) ToggleLike(c *fiber.Ctx) error {
	liked, err := h.itemUC.ToggleLike(c.Context(), actorFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"isLiked": liked})
}

type swapRequestBody struct {
	Message string `json:"message"`
}

func (h *ItemHandler) RequestSwap(c *fiber.Ctx) error {
	var body swapRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	if _, err := h.swapUC.RequestSwap(c.Context(), actorFromCtx(c), c.Params("id"), body.Message); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Swap request sent successfully"})
}

func (h *ItemHandler) MarkSwapped(c *fiber.Ctx) error {
	if err := h.itemUC.MarkItemSwapped(c.Context(), actorFromCtx(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item marked as swapped"})
}

func (h *ItemHandler) ListMyItems(c *fiber.Ctx) error {
	page, err := h.itemUC.ListUserItems(c.Context(), actorFromCtx(c),
		entity.ItemStatus(c.Query("status")), c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toItemPageResponse(page))
}
