package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hortti-inventory/internal/application/auth"
	"github.com/jhoicas/hortti-inventory/internal/application/catalog"
	"github.com/jhoicas/hortti-inventory/internal/application/dto"
	"github.com/jhoicas/hortti-inventory/internal/application/ports"
	"github.com/jhoicas/hortti-inventory/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CatalogUC   *catalog.UseCase
	Files       ports.FileStore
	Log         zerolog.Logger
	// UploadDir y UploadPath: los archivos de UploadDir se sirven bajo UploadPath.
	UploadDir  string
	UploadPath string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: deps.ServiceName})
	})
	if deps.UploadDir != "" && deps.UploadPath != "" {
		app.Static(deps.UploadPath, deps.UploadDir)
	}

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.AuthUC)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Get("/verify", requireAuth, authHandler.Verify)

	// Products: lectura pública, escritura con token.
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Files, deps.Log)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products.Get("/", productHandler.List)
	// Las exportaciones van antes de /:id.
	products.Get("/report.pdf", catalogHandler.Report)
	products.Get("/feed.xml", catalogHandler.Feed)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireAuth, productHandler.Create)
	products.Patch("/:id", requireAuth, productHandler.Update)
	products.Delete("/:id", requireAuth, productHandler.Delete)
	products.Patch("/:id/deactivate", requireAuth, productHandler.Deactivate)
	products.Patch("/:id/image", requireAuth, productHandler.UpdateImage)

	// Upload (protegido)
	upload := api.Group("/upload", requireAuth)
	uploadHandler := NewUploadHandler(deps.Files)
	upload.Post("/image", uploadHandler.UploadImage)
	upload.Delete("/:filename", uploadHandler.DeleteImage)
}
