package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	"github.com/jhoicas/hortti-inventory/docs"
	"github.com/jhoicas/hortti-inventory/internal/application/auth"
	"github.com/jhoicas/hortti-inventory/internal/application/catalog"
	"github.com/jhoicas/hortti-inventory/internal/application/usecase"
	"github.com/jhoicas/hortti-inventory/internal/bootstrap"
	infrapdf "github.com/jhoicas/hortti-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/security"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/storage"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/xmlfeed"
	httpRouter "github.com/jhoicas/hortti-inventory/internal/interfaces/http"
	"github.com/jhoicas/hortti-inventory/pkg/config"
	"github.com/jhoicas/hortti-inventory/pkg/jwt"
	"github.com/jhoicas/hortti-inventory/pkg/logger"
)

// @title                       Hortti Inventory API
// @version                     1.0
// @description                 API de inventario de Hortti: autenticación y catálogo de productos.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret-change-me"
		log.Warn().Msg("JWT_SECRET vacío: usando secreto de desarrollo")
	}

	ctx := context.Background()
	repos, err := bootstrap.OpenRepositories(ctx, cfg.DB, log.Component("db"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer repos.Close()

	files := storage.NewLocalFileStore(cfg.Upload.Dest, cfg.Upload.PublicPath, cfg.Upload.MaxFileSize)
	if err := files.EnsureDir(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Upload.Dest).Msg("crear directorio de uploads")
	}

	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar JWT")
	}
	authUC := auth.NewAuthUseCase(repos.Users, security.NewBcryptHasher(security.DefaultCost), signer, log.Component("auth"))
	productUC := usecase.NewProductUseCase(repos.Products, files, log.Component("products"))
	catalogUC := catalog.NewUseCase(repos.Products, infrapdf.NewCatalogReport(cfg.App.Name), xmlfeed.NewCatalogFeed(), "Catálogo Hortti")

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:    cfg.App.Name,
		CORSOrigin: cfg.HTTP.CORSOrigin,
		BodyLimit:  cfg.HTTP.BodyLimit,
	}, log.Component("http"))

	if cfg.Docs.Enabled {
		app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
			doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
			if err != nil {
				return err
			}
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.SendString(doc)
		})
		// Swagger UI en local: http://localhost:<port>/docs
		if _, err := os.Stat(cfg.Docs.FilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Docs.FilePath,
				Path:     "docs",
				Title:    "Hortti Inventory API",
			}))
		} else {
			log.Warn().Str("file", cfg.Docs.FilePath).Msg("swagger.json no encontrado, UI deshabilitada")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		AuthUC:      authUC,
		ProductUC:   productUC,
		CatalogUC:   catalogUC,
		Files:       files,
		Log:         log.Component("http"),
		UploadDir:   files.Dir(),
		UploadPath:  files.PublicPath(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
