// seed importa productos desde un feed XML de catálogo (el mismo formato que
// GET /api/products/feed.xml) y opcionalmente crea un usuario administrador.
//
// Uso: go run ./cmd/seed [ruta/catalogo.xml]
// Por defecto busca catalogo.xml en el directorio actual. Acepta UTF-8, ISO-8859-1 y Windows-1252.
// Admin opcional: SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD y SEED_ADMIN_NAME.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/hortti-inventory/internal/application/auth"
	"github.com/jhoicas/hortti-inventory/internal/application/dto"
	"github.com/jhoicas/hortti-inventory/internal/application/usecase"
	"github.com/jhoicas/hortti-inventory/internal/bootstrap"
	"github.com/jhoicas/hortti-inventory/internal/domain"
	"github.com/jhoicas/hortti-inventory/internal/domain/entity"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/security"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/storage"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/xmlfeed"
	"github.com/jhoicas/hortti-inventory/pkg/config"
	"github.com/jhoicas/hortti-inventory/pkg/jwt"
	"github.com/jhoicas/hortti-inventory/pkg/logger"
)

func main() {
	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "hortti-seed"})

	ctx := context.Background()
	repos, err := bootstrap.OpenRepositories(ctx, cfg.DB, log.Component("db"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer repos.Close()

	if err := seedAdmin(ctx, cfg, repos, log); err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", xmlPath).Msg("abrir XML")
	}
	defer f.Close()

	products, err := xmlfeed.Decode(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", xmlPath).Msg("decodificar XML")
	}

	files := storage.NewLocalFileStore(cfg.Upload.Dest, cfg.Upload.PublicPath, cfg.Upload.MaxFileSize)
	productUC := usecase.NewProductUseCase(repos.Products, files, log.Component("products"))

	var created, skipped int
	for _, p := range products {
		out, err := productUC.Create(ctx, toCreateRequest(p))
		if err != nil {
			skipped++
			log.Warn().Err(err).Str("name", p.Name).Msg("producto omitido")
			continue
		}
		created++
		log.Debug().Int64("product_id", out.ID).Str("name", out.Name).Msg("producto importado")
	}
	log.Info().Int("created", created).Int("skipped", skipped).Str("file", xmlPath).Msg("importación terminada")
}

func toCreateRequest(p *entity.Product) dto.CreateProductRequest {
	price := p.Price
	stock := p.Stock
	return dto.CreateProductRequest{
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       &price,
		Stock:       &stock,
		ImageURL:    p.ImageURL,
		Description: p.Description,
	}
}

// seedAdmin registra el administrador si SEED_ADMIN_EMAIL está definido; si ya existe no hace nada.
func seedAdmin(ctx context.Context, cfg *config.Config, repos *bootstrap.Repositories, log *logger.Logger) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		return nil
	}
	name := os.Getenv("SEED_ADMIN_NAME")
	if name == "" {
		name = "Administrador"
	}
	secret := cfg.JWT.Secret
	if secret == "" {
		secret = "seed-only"
	}
	signer, err := jwt.NewSigner(secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		return err
	}
	authUC := auth.NewAuthUseCase(repos.Users, security.NewBcryptHasher(security.DefaultCost), signer, log.Component("auth"))

	in := dto.RegisterRequest{
		Email:    email,
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
		Name:     name,
		Role:     entity.RoleAdmin,
	}
	if err := in.Validate(); err != nil {
		return err
	}
	out, err := authUC.Register(ctx, in)
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Info().Str("email", in.Email).Msg("el administrador ya existe")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Int64("user_id", out.User.ID).Str("email", out.User.Email).Msg("administrador creado")
	return nil
}
