package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/usecase"
)

type UserHandler struct {
	userUC *usecase.UserUsecase
	swapUC *usecase.SwapUsecase
}

func NewUserHandler(userUC *usecase.UserUsecase, swapUC *usecase.SwapUsecase) *UserHandler {
	return &UserHandler{userUC: userUC, swapUC: swapUC}
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var body registerBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	user, err := h.userUC.Register(c.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": toUserResponse(user)})
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	token, user, err := h.userUC.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "user": toUserResponse(user)})
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := h.userUC.GetProfile(c.Context(), actorFromCtx(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": toUserResponse(user)})
}

func (h *UserHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.userUC.MyStats(c.Context(), actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}

func (h *UserHandler) SentSwapRequests(c *fiber.Ctx) error {
	requests, err := h.swapUC.ListSentRequests(c.Context(), actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"requests": requests})
}

func (h *UserHandler) ReceivedSwapRequests(c *fiber.Ctx) error {
	requests, err := h.swapUC.ListReceivedRequests(c.Context(), actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"requests": requests})
}

type swapResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *UserHandler) RespondToSwapRequest(c *fiber.Ctx) error {
	var body swapResponseBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	err := h.swapUC.RespondToSwapRequest(c.Context(), actorFromCtx(c),
		c.Params("itemId"), c.Params("requestId"),
		entity.SwapRequestStatus(body.Status), body.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Swap request " + body.Status + " successfully"})
}
