package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shlok1014/ReWear/internal/config"
)

// Router bundles the handlers registered on the fiber app.
type Router struct {
	Items *ItemHandler
	Users *UserHandler
	Admin *AdminHandler
	WS    *WSHandler
}

// Register mounts all routes. Static segments must be registered before the
// parameterized ones they would otherwise shadow (featured, admin, stats).
func (r *Router) Register(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(CORS(&cfg.HTTP))

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := app.Group("/api/auth")
	auth.Post("/register", r.Users.Register)
	auth.Post("/login", r.Users.Login)

	protected := JWTProtected(&cfg.JWT)
	admin := AdminRequired()

	items := app.Group("/api/items")
	items.Get("/featured", r.Items.ListFeatured)
	items.Get("/admin/pending", protected, admin, r.Admin.ListPending)
	items.Put("/admin/:id/status", protected, admin, r.Admin.SetStatus)
	items.Put("/admin/:id/feature", protected, admin, r.Admin.SetFeatured)
	items.Get("/", r.Items.List)
	items.Post("/", protected, r.Items.Create)
	items.Get("/:id", r.Items.Get)
	items.Put("/:id", protected, r.Items.Update)
	items.Delete("/:id", protected, r.Items.Delete)
	items.Post("/:id/like", protected, r.Items.ToggleLike)
	items.Post("/:id/swap-request", protected, r.Items.RequestSwap)
	items.Put("/:id/swapped", protected, r.Items.MarkSwapped)

	users := app.Group("/api/users")
	users.Get("/profile", protected, r.Users.Profile)
	users.Get("/my-items", protected, r.Items.ListMyItems)
	users.Get("/stats", protected, r.Users.Stats)
	users.Get("/swap-requests", protected, r.Users.SentSwapRequests)
	users.Get("/received-requests", protected, r.Users.ReceivedSwapRequests)
	users.Put("/swap-request/:itemId/:requestId", protected, r.Users.RespondToSwapRequest)
	users.Get("/admin/all", protected, admin, r.Admin.ListUsers)
	users.Get("/admin/dashboard", protected, admin, r.Admin.Dashboard)
	users.Get("/admin/:userId", protected, admin, r.Admin.GetUser)
	users.Put("/admin/:userId/role", protected, admin, r.Admin.SetUserRole)
	users.Put("/admin/:userId/ban", protected, admin, r.Admin.SetUserBan)

	app.Get("/ws", r.WS.Upgrade, r.WS.Serve())
}
