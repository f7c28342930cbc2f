package httpapi

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shlok1014/ReWear/internal/config"
	"github.com/shlok1014/ReWear/internal/entity"
	"github.com/shlok1014/ReWear/internal/usecase"
)

func CORS(cfg *config.HTTPConfig) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Authorization, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	})
}

func JWTProtected(cfg *config.JWTConfig) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{
				Error: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// AdminRequired gates the moderation and account-management surface on the
// role claim. It must run after JWTProtected.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorFromCtx(c)
		if !actor.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(errorResponse{Error: "Admin access required"})
		}
		return c.Next()
	}
}

// actorFromCtx rebuilds the session identity from the verified token. The
// usecases only ever see this explicit actor, never the raw token.
func actorFromCtx(c *fiber.Ctx) usecase.Actor {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return usecase.Actor{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return usecase.Actor{}
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		role = entity.RoleCustomer
	}
	return usecase.Actor{ID: sub, Role: role}
}
